// Package store persists interaction records as append-only, per-day
// JSON-lines files and reads them back.
package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fakeyudi/ailog/internal/activity"
)

// MaxLineSize bounds a single record line; longer lines are skipped.
const MaxLineSize = 4 << 20

// EventStore appends records and notes and reads records back.
type EventStore interface {
	AppendRecord(day time.Time, rec activity.Record) error
	AppendNote(day time.Time, note activity.Note) error
	ReadRecords(days []time.Time) []activity.Record
	LastRecords(day time.Time, n int) []activity.Record
	LogDays() ([]time.Time, error)
	SessionRecords(sessionID string) []activity.Record
	Layout() Layout
}

// diskStore is the EventStore backed by the data directory.
type diskStore struct {
	layout Layout
}

// NewEventStore returns an EventStore rooted at layout.
func NewEventStore(layout Layout) EventStore {
	return &diskStore{layout: layout}
}

func (d *diskStore) Layout() Layout { return d.layout }

// AppendRecord writes rec as one JSON line to day's log. Existing lines are
// never rewritten.
func (d *diskStore) AppendRecord(day time.Time, rec activity.Record) error {
	if rec.Outcome == "" {
		rec.Outcome = activity.OutcomeSuccess
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return appendFile(d.layout.LogPath(day), append(data, '\n'))
}

// AppendNote adds a dated subsection to day's note file, writing the file
// header first when the file is new.
func (d *diskStore) AppendNote(day time.Time, note activity.Note) error {
	path := d.layout.NotePath(day)

	var sb strings.Builder
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(&sb, "# Notas - %s\n\n", formatDay(day))
	}
	sb.WriteString(FormatNote(note))

	return appendFile(path, []byte(sb.String()))
}

// FormatNote renders one note subsection.
func FormatNote(note activity.Note) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", note.Timestamp.UTC().Format("15:04:05"))
	fmt.Fprintf(&sb, "%s\n\n", note.Content)
	if note.Category != "" {
		fmt.Fprintf(&sb, "**Categoría:** %s\n", note.Category)
	}
	if len(note.Tags) > 0 {
		fmt.Fprintf(&sb, "**Tags:** %s\n", strings.Join(note.Tags, ", "))
	}
	sb.WriteString("\n---\n\n")
	return sb.String()
}

func appendFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	// A single write keeps each line whole under O_APPEND.
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return nil
}

// ReadRecords loads every record for days, in the order given and in file
// order within each day. Missing files and malformed lines are skipped.
func (d *diskStore) ReadRecords(days []time.Time) []activity.Record {
	var out []activity.Record
	for _, day := range days {
		out = append(out, ReadFile(d.layout.LogPath(day))...)
	}
	return out
}

// LastRecords returns at most the final n records of day's log.
func (d *diskStore) LastRecords(day time.Time, n int) []activity.Record {
	recs := ReadFile(d.layout.LogPath(day))
	if n > 0 && len(recs) > n {
		recs = recs[len(recs)-n:]
	}
	return recs
}

// LogDays lists the days that have a log file, oldest first.
func (d *diskStore) LogDays() ([]time.Time, error) {
	entries, err := os.ReadDir(d.layout.LogsDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	var days []time.Time
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logExt) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, logPrefix), logExt)
		day, err := time.Parse(activity.DayLayout, stamp)
		if err != nil {
			continue
		}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

// SessionRecords scans every log for records carrying sessionID.
func (d *diskStore) SessionRecords(sessionID string) []activity.Record {
	days, err := d.LogDays()
	if err != nil {
		return nil
	}
	var out []activity.Record
	for _, rec := range d.ReadRecords(days) {
		if rec.SessionID == sessionID {
			out = append(out, rec)
		}
	}
	return out
}

// ReadFile parses a JSON-lines record file. A missing file yields no records.
func ReadFile(path string) []activity.Record {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var recs []activity.Record
	EachLine(f, MaxLineSize, func(line string) {
		if rec, ok := ParseLine(line); ok {
			recs = append(recs, rec)
		}
	})
	return recs
}

// EachLine calls fn for every line of r without its trailing newline.
// Lines longer than max bytes are skipped whole; reading continues with
// the next line. A read error ends the walk.
func EachLine(r io.Reader, max int, fn func(line string)) {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 && len(line) <= max+1 {
			fn(strings.TrimRight(string(line), "\r\n"))
		}
		if err != nil {
			return
		}
	}
}

// ParseLine decodes one log line. Blank and malformed lines report false.
func ParseLine(line string) (activity.Record, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "{") {
		return activity.Record{}, false
	}
	var rec activity.Record
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return activity.Record{}, false
	}
	return rec, true
}
