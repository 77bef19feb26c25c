// Package activity defines the records ailog captures: one Record per tool
// invocation of the assisted agent and free-form Notes written by the user.
package activity

import (
	"encoding/json"
	"path"
	"strings"
	"time"
)

// Outcome is the result of a single tool invocation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
)

// Outcomes lists every valid outcome in display order.
var Outcomes = []Outcome{OutcomeSuccess, OutcomePartial, OutcomeFailed}

// ParseOutcome returns the outcome named by s. An empty string means success.
func ParseOutcome(s string) (Outcome, bool) {
	switch Outcome(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutcomeSuccess:
		return OutcomeSuccess, true
	case OutcomePartial:
		return OutcomePartial, true
	case OutcomeFailed:
		return OutcomeFailed, true
	}
	return "", false
}

// Input holds the parts of a tool's arguments that reports care about.
type Input struct {
	FilePath string `json:"file_path,omitempty"`
	Command  string `json:"command,omitempty"`
	Pattern  string `json:"pattern,omitempty"`
	URL      string `json:"url,omitempty"`
}

// IsZero reports whether no input field is set.
func (in Input) IsZero() bool {
	return in == Input{}
}

// Record is one logged tool invocation. Records are immutable once appended.
type Record struct {
	Timestamp        time.Time `json:"timestamp"`
	Tool             string    `json:"tool"`
	Context          string    `json:"context"`
	Outcome          Outcome   `json:"outcome"`
	SessionID        string    `json:"session_id,omitempty"`
	WorkingDirectory string    `json:"working_directory,omitempty"`
	Input            *Input    `json:"input,omitempty"`
	Notes            string    `json:"notes,omitempty"`
}

// recordJSON mirrors Record for decoding. Cwd accepts the field name written
// by older tool-call servers.
type recordJSON struct {
	Timestamp        time.Time `json:"timestamp"`
	Tool             string    `json:"tool"`
	Context          string    `json:"context"`
	Outcome          string    `json:"outcome"`
	SessionID        string    `json:"session_id"`
	WorkingDirectory string    `json:"working_directory"`
	Cwd              string    `json:"cwd"`
	Input            *Input    `json:"input"`
	Notes            string    `json:"notes"`
}

// UnmarshalJSON decodes a record, applying field defaults.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	outcome, ok := ParseOutcome(raw.Outcome)
	if !ok {
		// Unknown outcomes are kept verbatim so counts stay honest.
		outcome = Outcome(raw.Outcome)
	}
	wd := raw.WorkingDirectory
	if wd == "" {
		wd = raw.Cwd
	}
	*r = Record{
		Timestamp:        raw.Timestamp,
		Tool:             raw.Tool,
		Context:          raw.Context,
		Outcome:          outcome,
		SessionID:        raw.SessionID,
		WorkingDirectory: wd,
		Input:            raw.Input,
		Notes:            raw.Notes,
	}
	return nil
}

// FilePath returns the edited or read file, if any.
func (r Record) FilePath() string {
	if r.Input == nil {
		return ""
	}
	return r.Input.FilePath
}

// Command returns the shell command, if any.
func (r Record) Command() string {
	if r.Input == nil {
		return ""
	}
	return r.Input.Command
}

// Project returns the final path segment of the working directory, or
// "unknown" when there is none.
func (r Record) Project() string {
	return ProjectName(r.WorkingDirectory)
}

// Day returns the UTC calendar day of the record as YYYY-MM-DD.
func (r Record) Day() string {
	return r.Timestamp.UTC().Format(DayLayout)
}

// DayLayout is the calendar-day format used in filenames and grouping keys.
const DayLayout = "2006-01-02"

// ProjectName derives a project name from a working directory.
func ProjectName(workingDir string) string {
	trimmed := strings.TrimRight(workingDir, "/")
	if trimmed == "" {
		return "unknown"
	}
	return path.Base(trimmed)
}

// Note is a free-form Markdown entry appended to the day's note file.
type Note struct {
	Timestamp time.Time
	Content   string
	Category  string
	Tags      []string
}
