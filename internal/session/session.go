// Package session reads and writes summaries of finished assistant sessions.
package session

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fakeyudi/ailog/internal/activity"
	"github.com/fakeyudi/ailog/internal/aggregate"
)

// Summary describes one finished session. It is appended to the session
// index and also written as the session's detail file.
type Summary struct {
	SessionID         string    `json:"session_id"`
	Project           string    `json:"project"`
	WorkingDirectory  string    `json:"working_directory"`
	EndTime           time.Time `json:"end_time"`
	InteractionsCount int       `json:"interactions_count"`
	ToolsSummary      string    `json:"tools_summary,omitempty"`
	TranscriptPath    string    `json:"transcript_path,omitempty"`
}

// ShortID returns the first n characters of the session id.
func (s Summary) ShortID(n int) string {
	if len(s.SessionID) <= n {
		return s.SessionID
	}
	return s.SessionID[:n]
}

// Summarize builds a Summary for sessionID from the records it produced.
func Summarize(sessionID, workingDir string, end time.Time, records []activity.Record) Summary {
	var own []activity.Record
	for _, rec := range records {
		if rec.SessionID == sessionID {
			own = append(own, rec)
		}
	}
	return Summary{
		SessionID:         sessionID,
		Project:           activity.ProjectName(workingDir),
		WorkingDirectory:  workingDir,
		EndTime:           end.UTC(),
		InteractionsCount: len(own),
		ToolsSummary:      ToolsSummary(own),
	}
}

// ToolsSummary formats per-tool counts as "Edit:3, Read:1", highest first.
func ToolsSummary(records []activity.Record) string {
	ranked := aggregate.Rank(aggregate.GroupBy(records, aggregate.ByTool))
	parts := make([]string, 0, len(ranked))
	for _, e := range ranked {
		parts = append(parts, fmt.Sprintf("%s:%d", e.Key, e.Count))
	}
	return strings.Join(parts, ", ")
}

// Recent filters summaries to those ending on day (when day is non-zero),
// newest first, keeping at most limit entries.
func Recent(summaries []Summary, day time.Time, limit int) []Summary {
	var out []Summary
	for _, s := range summaries {
		if !day.IsZero() && s.EndTime.UTC().Format(activity.DayLayout) != day.UTC().Format(activity.DayLayout) {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EndTime.After(out[j].EndTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// OnDays returns the summaries whose end time falls on one of days, in
// index order.
func OnDays(summaries []Summary, days []time.Time) []Summary {
	want := make(map[string]struct{}, len(days))
	for _, d := range days {
		want[d.UTC().Format(activity.DayLayout)] = struct{}{}
	}
	var out []Summary
	for _, s := range summaries {
		if _, ok := want[s.EndTime.UTC().Format(activity.DayLayout)]; ok {
			out = append(out, s)
		}
	}
	return out
}
