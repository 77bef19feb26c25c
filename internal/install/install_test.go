package install_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/fakeyudi/ailog/internal/install"
	"github.com/fakeyudi/ailog/internal/store"
)

var installedAt = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func readSettings(t interface{ Fatalf(string, ...any) }, path string) map[string]any {
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading settings: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("settings are not JSON: %v", err)
	}
	return m
}

func TestInstallFreshTarget(t *testing.T) {
	target := install.LocalTarget(t.TempDir())
	res, err := install.Install(target, "1.0.0", installedAt)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if strings.Join(res.Added, ",") != "PostToolUse,SessionEnd" {
		t.Errorf("Added = %v", res.Added)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v", res.Warnings)
	}

	settings := readSettings(t, res.SettingsPath)
	hooks := settings["hooks"].(map[string]any)
	post := hooks["PostToolUse"].([]any)[0].(map[string]any)
	if post["matcher"] != "*" {
		t.Errorf("PostToolUse matcher = %v", post["matcher"])
	}
	cmd := post["hooks"].([]any)[0].(map[string]any)["command"].(string)
	if cmd != filepath.Join(target.Layout.HooksDir(), "post-tool-logger.sh") {
		t.Errorf("command = %q", cmd)
	}
	end := hooks["SessionEnd"].([]any)[0].(map[string]any)
	if end["matcher"] != "" {
		t.Errorf("SessionEnd matcher = %v", end["matcher"])
	}

	for _, dir := range target.Layout.Dirs() {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			t.Errorf("directory %s not created", dir)
		}
	}

	info := readSettings(t, target.Layout.InstallInfoPath())
	if info["location"] != "local" || info["dataDir"] != target.Layout.Root {
		t.Errorf("install info = %v", info)
	}
}

func TestScriptsAreExecutableWithRewrittenPath(t *testing.T) {
	layout := store.NewLayout(filepath.Join(t.TempDir(), "data"))
	for _, s := range install.Scripts {
		path, err := install.WriteScript(layout, s)
		if err != nil {
			t.Fatal(err)
		}
		fi, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if fi.Mode().Perm()&0o111 == 0 {
			t.Errorf("%s is not executable: %v", s.Name, fi.Mode())
		}
		data, _ := os.ReadFile(path)
		if strings.Contains(string(data), "$HOME/.ai-logger") {
			t.Errorf("%s still holds the placeholder", s.Name)
		}
		if !strings.Contains(string(data), "AI_LOGGER_DIR:-"+layout.Root) {
			t.Errorf("%s does not point at %s", s.Name, layout.Root)
		}
	}
}

func TestMalformedSettingsWarns(t *testing.T) {
	target := install.LocalTarget(t.TempDir())
	if err := os.MkdirAll(target.SettingsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target.SettingsPath(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := install.Install(target, "1.0.0", installedAt)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("Warnings = %v", res.Warnings)
	}
	if len(res.Added) != 2 {
		t.Errorf("Added = %v", res.Added)
	}
}

func TestExistingRegistrationIsKept(t *testing.T) {
	settings := map[string]any{
		"model": "opus",
		"hooks": map[string]any{
			"PostToolUse": []any{
				map[string]any{"matcher": "Edit", "hooks": []any{map[string]any{"type": "command", "command": "/opt/ai-logger/old.sh"}}},
			},
			"PreToolUse": []any{"untouched"},
		},
	}
	added, warnings := install.MergeHooks(settings, "/data/hooks")
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if strings.Join(added, ",") != "SessionEnd" {
		t.Errorf("added = %v", added)
	}
	hooks := settings["hooks"].(map[string]any)
	if len(hooks["PostToolUse"].([]any)) != 1 {
		t.Error("existing PostToolUse registration was duplicated")
	}
	if settings["model"] != "opus" || len(hooks["PreToolUse"].([]any)) != 1 {
		t.Error("unrelated settings were modified")
	}
}

// Feature: ailog, Property 10: Installing twice leaves the settings file unchanged
func TestInstallIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		target := install.LocalTarget(t.TempDir())
		if err := os.MkdirAll(target.SettingsDir, 0o755); err != nil {
			rt.Fatalf("mkdir: %v", err)
		}

		// Arbitrary pre-existing settings, possibly with foreign hooks.
		pre := map[string]any{}
		if rapid.Bool().Draw(rt, "has_theme") {
			pre["theme"] = rapid.SampledFrom([]string{"dark", "light"}).Draw(rt, "theme")
		}
		if rapid.Bool().Draw(rt, "has_hooks") {
			hooks := map[string]any{}
			n := rapid.IntRange(0, 3).Draw(rt, "n_foreign")
			var entries []any
			for i := 0; i < n; i++ {
				entries = append(entries, map[string]any{
					"matcher": "*",
					"hooks":   []any{map[string]any{"type": "command", "command": rapid.StringMatching(`/usr/bin/[a-z]{3,8}`).Draw(rt, "cmd")}},
				})
			}
			hooks[rapid.SampledFrom([]string{"PostToolUse", "SessionEnd", "Stop"}).Draw(rt, "event")] = entries
			pre["hooks"] = hooks
		}
		data, _ := json.Marshal(pre)
		if err := os.WriteFile(target.SettingsPath(), data, 0o644); err != nil {
			rt.Fatalf("seed: %v", err)
		}

		if _, err := install.Install(target, "1.0.0", installedAt); err != nil {
			rt.Fatalf("first install: %v", err)
		}
		first, _ := os.ReadFile(target.SettingsPath())

		res, err := install.Install(target, "1.0.0", installedAt.Add(time.Hour))
		if err != nil {
			rt.Fatalf("second install: %v", err)
		}
		second, _ := os.ReadFile(target.SettingsPath())

		if string(first) != string(second) {
			rt.Fatalf("settings changed on second install:\n%s\n---\n%s", first, second)
		}
		if len(res.Added) != 0 {
			rt.Fatalf("second install added %v", res.Added)
		}
	})
}
