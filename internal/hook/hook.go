// Package hook turns the JSON payloads the host program sends to trigger
// scripts into records and session summaries.
package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fakeyudi/ailog/internal/activity"
	"github.com/fakeyudi/ailog/internal/period"
	"github.com/fakeyudi/ailog/internal/session"
	"github.com/fakeyudi/ailog/internal/store"
)

const maxContextLen = 200

// Payload is the event description the host writes to a hook's stdin.
type Payload struct {
	SessionID      string          `json:"session_id"`
	TranscriptPath string          `json:"transcript_path"`
	Cwd            string          `json:"cwd"`
	HookEventName  string          `json:"hook_event_name"`
	ToolName       string          `json:"tool_name"`
	ToolInput      json.RawMessage `json:"tool_input"`
	ToolResponse   json.RawMessage `json:"tool_response"`
}

// ReadPayload decodes one payload from r.
func ReadPayload(r io.Reader) (*Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding hook payload: %w", err)
	}
	return &p, nil
}

// toolInput is the subset of tool arguments kept on a record.
type toolInput struct {
	FilePath     string `json:"file_path"`
	NotebookPath string `json:"notebook_path"`
	Path         string `json:"path"`
	Command      string `json:"command"`
	Pattern      string `json:"pattern"`
	URL          string `json:"url"`
	Query        string `json:"query"`
	Description  string `json:"description"`
}

// Record builds the interaction record for a post-tool payload.
func Record(p *Payload, now time.Time) activity.Record {
	var in toolInput
	if len(p.ToolInput) > 0 {
		// A non-object tool_input still yields a record with a tool: context.
		if err := json.Unmarshal(p.ToolInput, &in); err != nil {
			in = toolInput{}
		}
	}
	filePath := in.FilePath
	if filePath == "" {
		filePath = in.NotebookPath
	}

	rec := activity.Record{
		Timestamp:        now.UTC(),
		Tool:             p.ToolName,
		Context:          truncate(describe(p.ToolName, filePath, in), maxContextLen),
		Outcome:          outcome(p.ToolResponse),
		SessionID:        p.SessionID,
		WorkingDirectory: p.Cwd,
	}
	input := activity.Input{FilePath: filePath, Command: in.Command, Pattern: in.Pattern, URL: in.URL}
	if !input.IsZero() {
		rec.Input = &input
	}
	return rec
}

func describe(tool, filePath string, in toolInput) string {
	for _, v := range []string{filePath, in.Command, in.Pattern, in.URL, in.Query, in.Description, in.Path} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return "tool:" + tool
}

// outcome reads the tool response for an error indication.
func outcome(raw json.RawMessage) activity.Outcome {
	if len(raw) == 0 {
		return activity.OutcomeSuccess
	}
	var resp struct {
		IsError     bool  `json:"is_error"`
		Error       any   `json:"error"`
		Success     *bool `json:"success"`
		Interrupted bool  `json:"interrupted"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return activity.OutcomeSuccess
	}
	switch {
	case resp.IsError, resp.Success != nil && !*resp.Success:
		return activity.OutcomeFailed
	case resp.Error != nil && resp.Error != "" && resp.Error != false:
		return activity.OutcomeFailed
	case resp.Interrupted:
		return activity.OutcomePartial
	}
	return activity.OutcomeSuccess
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// Handler applies hook payloads to the data directory.
type Handler struct {
	events   store.EventStore
	sessions session.SessionStore
	now      func() time.Time
}

// NewHandler returns a Handler writing through events and sessions.
func NewHandler(events store.EventStore, sessions session.SessionStore) *Handler {
	return &Handler{events: events, sessions: sessions, now: time.Now}
}

// WithClock replaces the handler's time source.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// PostToolUse appends the record described by p.
func (h *Handler) PostToolUse(p *Payload) (activity.Record, error) {
	if p.ToolName == "" {
		return activity.Record{}, fmt.Errorf("hook payload has no tool_name")
	}
	now := h.now()
	rec := Record(p, now)
	if err := h.events.AppendRecord(period.Truncate(now), rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// SessionEnd summarizes the session from today's and yesterday's logs,
// appends it to the session index and writes its detail file. A transcript
// that cannot be copied is reported as a warning.
func (h *Handler) SessionEnd(p *Payload) (*session.Summary, []string, error) {
	if p.SessionID == "" {
		return nil, nil, fmt.Errorf("hook payload has no session_id")
	}
	now := h.now()
	today := period.Truncate(now)
	records := h.events.ReadRecords([]time.Time{today.AddDate(0, 0, -1), today})

	s := session.Summarize(p.SessionID, p.Cwd, now, records)
	s.TranscriptPath = p.TranscriptPath

	if err := h.sessions.Append(s); err != nil {
		return nil, nil, err
	}
	if err := h.sessions.SaveDetail(s); err != nil {
		return nil, nil, err
	}

	var warnings []string
	if p.TranscriptPath != "" {
		if err := h.copyTranscript(p.SessionID, p.TranscriptPath); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	return &s, warnings, nil
}

func (h *Handler) copyTranscript(id, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("transcript not copied: %w", err)
	}
	defer f.Close()
	md, err := session.RenderTranscript(id, f)
	if err != nil {
		return fmt.Errorf("transcript not copied: %w", err)
	}
	return h.sessions.SaveTranscript(id, md)
}
