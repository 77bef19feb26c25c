// Package watch follows the interaction logs and reports records as they
// are appended.
package watch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/fakeyudi/ailog/internal/activity"
	"github.com/fakeyudi/ailog/internal/store"
)

// Tailer remembers how far each log file has been read.
type Tailer struct {
	offsets map[string]int64
	pending map[string][]byte
}

// NewTailer starts at the current end of every existing log in layout, so
// only records appended afterwards are reported.
func NewTailer(layout store.Layout) (*Tailer, error) {
	t := &Tailer{offsets: map[string]int64{}, pending: map[string][]byte{}}
	entries, err := os.ReadDir(layout.LogsDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return t, nil
		}
		return nil, fmt.Errorf("listing logs: %w", err)
	}
	for _, e := range entries {
		if !isLog(e.Name()) {
			continue
		}
		if info, err := e.Info(); err == nil {
			t.offsets[filepath.Join(layout.LogsDir(), e.Name())] = info.Size()
		}
	}
	return t, nil
}

// Poll reads what was appended to path since the last call. A trailing
// partial line is held back until it is completed.
func (t *Tailer) Poll(path string) ([]activity.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	offset := t.offsets[path]
	if info.Size() < offset {
		// Truncated or replaced; start over.
		offset = 0
		delete(t.pending, path)
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	t.offsets[path] = offset + int64(len(data))

	buf := append(t.pending[path], data...)
	cut := bytes.LastIndexByte(buf, '\n')
	if cut < 0 {
		t.pending[path] = buf
		return nil, nil
	}
	t.pending[path] = append([]byte(nil), buf[cut+1:]...)

	var recs []activity.Record
	for _, line := range strings.Split(string(buf[:cut]), "\n") {
		if rec, ok := store.ParseLine(line); ok {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

// Watch reports every record appended to any log under layout until ctx is
// cancelled. The logs directory is created if missing.
func Watch(ctx context.Context, layout store.Layout, emit func(activity.Record)) error {
	if err := os.MkdirAll(layout.LogsDir(), 0o755); err != nil {
		return fmt.Errorf("creating logs directory: %w", err)
	}
	tailer, err := NewTailer(layout)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(layout.LogsDir()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isLog(filepath.Base(event.Name)) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				recs, err := tailer.Poll(event.Name)
				if err != nil {
					continue
				}
				for _, rec := range recs {
					emit(rec)
				}
			}

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; continue watching.
		}
	}
}

func isLog(name string) bool {
	return strings.HasPrefix(name, "interactions-") && strings.HasSuffix(name, ".jsonl")
}
