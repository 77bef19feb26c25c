package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fakeyudi/ailog/internal/activity"
)

// Layout describes where every ailog file lives beneath one data directory.
// It is resolved once at startup and passed to each component.
type Layout struct {
	Root string
}

// NewLayout returns a Layout rooted at dir.
func NewLayout(dir string) Layout {
	return Layout{Root: dir}
}

func (l Layout) LogsDir() string     { return filepath.Join(l.Root, "logs") }
func (l Layout) NotesDir() string    { return filepath.Join(l.Root, "notes") }
func (l Layout) SessionsDir() string { return filepath.Join(l.Root, "sessions") }
func (l Layout) DiaryDir() string    { return filepath.Join(l.Root, "diary") }
func (l Layout) ArticlesDir() string { return filepath.Join(l.Root, "articles") }
func (l Layout) HooksDir() string    { return filepath.Join(l.Root, "hooks") }

// SessionIndexPath is the flat, line-delimited session summary index.
func (l Layout) SessionIndexPath() string {
	return filepath.Join(l.Root, "sessions-index.jsonl")
}

// IndexPath is the generated report index consumed by the dashboard.
func (l Layout) IndexPath() string {
	return filepath.Join(l.Root, "index.json")
}

// InstallInfoPath records how and when hooks were installed.
func (l Layout) InstallInfoPath() string {
	return filepath.Join(l.Root, "config.json")
}

// LogPath returns the interaction log for day.
func (l Layout) LogPath(day time.Time) string {
	return filepath.Join(l.LogsDir(), LogFileName(day))
}

// NotePath returns the note file for day.
func (l Layout) NotePath(day time.Time) string {
	return filepath.Join(l.NotesDir(), "notes-"+formatDay(day)+".md")
}

// Dirs lists every directory the layout uses.
func (l Layout) Dirs() []string {
	return []string{l.LogsDir(), l.SessionsDir(), l.DiaryDir(), l.ArticlesDir(), l.NotesDir(), l.HooksDir()}
}

// Ensure creates every directory of the layout.
func (l Layout) Ensure() error {
	for _, dir := range l.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

const (
	logPrefix = "interactions-"
	logExt    = ".jsonl"
)

// LogFileName returns the interaction log file name for day.
func LogFileName(day time.Time) string {
	return logPrefix + formatDay(day) + logExt
}

func formatDay(day time.Time) string {
	return day.UTC().Format(activity.DayLayout)
}
