// Package install registers the ai-logger trigger scripts with the host
// program and prepares the data directory.
package install

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fakeyudi/ailog/internal/store"
)

// marker identifies hook commands that belong to this tool.
const marker = "ai-logger"

// Target says where settings and data live for one installation.
type Target struct {
	SettingsDir string
	Layout      store.Layout
	Location    string // "global" or "local"
}

// GlobalTarget installs for every project of the user.
func GlobalTarget(home string) Target {
	return Target{
		SettingsDir: filepath.Join(home, ".claude"),
		Layout:      store.NewLayout(filepath.Join(home, ".ai-logger")),
		Location:    "global",
	}
}

// LocalTarget installs for the project in dir only.
func LocalTarget(dir string) Target {
	return Target{
		SettingsDir: filepath.Join(dir, ".claude"),
		Layout:      store.NewLayout(filepath.Join(dir, ".ai-logger")),
		Location:    "local",
	}
}

// SettingsPath is the host configuration file that receives the hooks.
func (t Target) SettingsPath() string {
	return filepath.Join(t.SettingsDir, "settings.json")
}

// Result reports what an installation did.
type Result struct {
	SettingsPath string
	HooksDir     string
	Scripts      []string
	Added        []string // hook events that gained an entry
	Warnings     []string
}

// Info is written to the data directory to describe the installation.
type Info struct {
	Version     string    `json:"version"`
	DataDir     string    `json:"dataDir"`
	HooksDir    string    `json:"hooksDir"`
	InstalledAt time.Time `json:"installedAt"`
	Location    string    `json:"location"`
}

// Install creates the data directories, writes the trigger scripts, merges
// the hook registrations into the host settings and records the install.
// Running it again leaves the settings file unchanged.
func Install(t Target, version string, now time.Time) (*Result, error) {
	res := &Result{SettingsPath: t.SettingsPath(), HooksDir: t.Layout.HooksDir()}

	if err := t.Layout.Ensure(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(t.SettingsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", t.SettingsDir, err)
	}

	for _, s := range Scripts {
		path, err := WriteScript(t.Layout, s)
		if err != nil {
			return nil, err
		}
		res.Scripts = append(res.Scripts, path)
	}

	settings, warning := LoadSettings(res.SettingsPath)
	if warning != "" {
		res.Warnings = append(res.Warnings, warning)
	}
	added, warnings := MergeHooks(settings, res.HooksDir)
	res.Added = added
	res.Warnings = append(res.Warnings, warnings...)

	if err := writeJSON(res.SettingsPath, settings); err != nil {
		return nil, err
	}

	info := Info{
		Version:     version,
		DataDir:     t.Layout.Root,
		HooksDir:    res.HooksDir,
		InstalledAt: now.UTC(),
		Location:    t.Location,
	}
	if err := writeJSON(t.Layout.InstallInfoPath(), info); err != nil {
		return nil, err
	}
	return res, nil
}

// WriteScript copies s into the layout's hook directory with the data
// directory placeholder rewritten, and marks it executable.
func WriteScript(layout store.Layout, s Script) (string, error) {
	content := strings.ReplaceAll(s.Content, DataDirPlaceholder, "AI_LOGGER_DIR:-"+layout.Root)
	path := filepath.Join(layout.HooksDir(), s.Name)
	if err := os.MkdirAll(layout.HooksDir(), 0o755); err != nil {
		return "", fmt.Errorf("creating hooks directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		return "", fmt.Errorf("writing %s: %w", s.Name, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o755); err != nil {
		return "", fmt.Errorf("chmod %s: %w", s.Name, err)
	}
	return path, nil
}

// LoadSettings reads the host settings. A missing file yields an empty
// object; an unreadable or malformed one also does, with a warning.
func LoadSettings(path string) (map[string]any, string) {
	settings := map[string]any{}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, ""
		}
		return settings, fmt.Sprintf("could not read %s, starting from empty settings: %v", path, err)
	}
	if err := json.Unmarshal(data, &settings); err != nil || settings == nil {
		return map[string]any{}, fmt.Sprintf("could not parse %s, starting from empty settings", path)
	}
	return settings, ""
}

// MergeHooks adds one registration per script to settings["hooks"] unless
// the hook point already holds a command mentioning this tool or the
// script. It returns the events that were added.
func MergeHooks(settings map[string]any, hooksDir string) (added, warnings []string) {
	hooks, ok := settings["hooks"].(map[string]any)
	if !ok {
		if _, present := settings["hooks"]; present {
			warnings = append(warnings, `"hooks" is not an object, replacing it`)
		}
		hooks = map[string]any{}
		settings["hooks"] = hooks
	}

	for _, s := range Scripts {
		entries, ok := hooks[s.Event].([]any)
		if !ok {
			if _, present := hooks[s.Event]; present {
				warnings = append(warnings, fmt.Sprintf("%q is not a list, replacing it", s.Event))
			}
			entries = []any{}
		}
		if hasCommand(entries, s.Name) {
			hooks[s.Event] = entries
			continue
		}
		entries = append(entries, map[string]any{
			"matcher": s.Matcher,
			"hooks": []any{
				map[string]any{"type": "command", "command": filepath.Join(hooksDir, s.Name)},
			},
		})
		hooks[s.Event] = entries
		added = append(added, s.Event)
	}
	return added, warnings
}

// hasCommand reports whether any entry runs a command that mentions this
// tool or the named script.
func hasCommand(entries []any, script string) bool {
	name := strings.TrimSuffix(script, ".sh")
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		inner, _ := entry["hooks"].([]any)
		for _, h := range inner {
			hook, ok := h.(map[string]any)
			if !ok {
				continue
			}
			cmd, _ := hook["command"].(string)
			if strings.Contains(cmd, marker) || strings.Contains(cmd, name) {
				return true
			}
		}
	}
	return false
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
