package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fakeyudi/ailog/internal/store"
)

// ErrSessionNotFound is returned by Find when no session matches.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists session summaries, details and transcripts.
type SessionStore interface {
	Append(s Summary) error
	List() []Summary
	Find(partialID string) (*Summary, error) // returns ErrSessionNotFound if none matches
	SaveDetail(s Summary) error
	SaveTranscript(id, markdown string) error
	Transcript(id string) (path, content string, ok bool)
}

// diskStore is the SessionStore under the data directory's sessions/ tree.
type diskStore struct {
	layout store.Layout
}

// NewSessionStore returns a SessionStore rooted at layout.
func NewSessionStore(layout store.Layout) SessionStore {
	return &diskStore{layout: layout}
}

func (d *diskStore) detailPath(id string) string {
	return filepath.Join(d.layout.SessionsDir(), "session-"+id+".json")
}

func (d *diskStore) transcriptPath(id string) string {
	return filepath.Join(d.layout.SessionsDir(), "session-"+id+".md")
}

// Append adds s as one line of the session index.
func (d *diskStore) Append(s Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session summary: %w", err)
	}
	path := d.layout.SessionIndexPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open session index: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("failed to append session summary: %w", err)
	}
	return f.Close()
}

// List reads the session index in file order, skipping malformed lines.
func (d *diskStore) List() []Summary {
	f, err := os.Open(d.layout.SessionIndexPath())
	if err != nil {
		return nil
	}
	defer f.Close()

	var out []Summary
	store.EachLine(f, store.MaxLineSize, func(line string) {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") {
			return
		}
		var s Summary
		if err := json.Unmarshal([]byte(line), &s); err != nil || s.SessionID == "" {
			return
		}
		out = append(out, s)
	})
	return out
}

// Find resolves a full or partial session id. Detail files are searched
// first in name order, then the index.
func (d *diskStore) Find(partialID string) (*Summary, error) {
	if partialID == "" {
		return nil, ErrSessionNotFound
	}
	entries, err := os.ReadDir(d.layout.SessionsDir())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasSuffix(name, ".json") && strings.Contains(name, partialID) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(d.layout.SessionsDir(), name))
		if err != nil {
			continue
		}
		var s Summary
		if err := json.Unmarshal(data, &s); err != nil || s.SessionID == "" {
			continue
		}
		return &s, nil
	}

	for _, s := range d.List() {
		if strings.Contains(s.SessionID, partialID) {
			return &s, nil
		}
	}
	return nil, ErrSessionNotFound
}

// SaveDetail writes s to its detail file atomically via a temp file + os.Rename.
func (d *diskStore) SaveDetail(s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to persist session detail: %w", err)
	}
	return writeAtomic(d.detailPath(s.SessionID), data)
}

// SaveTranscript stores a Markdown transcript next to the session detail.
func (d *diskStore) SaveTranscript(id, markdown string) error {
	return writeAtomic(d.transcriptPath(id), []byte(markdown))
}

// Transcript returns the stored transcript for id, if any.
func (d *diskStore) Transcript(id string) (string, string, bool) {
	path := d.transcriptPath(id)
	data, err := os.ReadFile(path)
	if err != nil {
		return path, "", false
	}
	return path, string(data), true
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	// Write to a temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
