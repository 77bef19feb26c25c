package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fakeyudi/ailog/internal/activity"
	"github.com/fakeyudi/ailog/internal/period"
	"github.com/fakeyudi/ailog/internal/session"
	"github.com/fakeyudi/ailog/internal/store"
)

// Generator selects records for a report, renders it and writes the file.
type Generator struct {
	events   store.EventStore
	sessions session.SessionStore
	now      func() time.Time
}

// NewGenerator returns a Generator reading from events and sessions.
func NewGenerator(events store.EventStore, sessions session.SessionStore) *Generator {
	return &Generator{events: events, sessions: sessions, now: time.Now}
}

// WithClock replaces the generator's time source.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Written describes a report file that was just produced.
type Written struct {
	Path    string
	Summary string
	Records int
}

// DiaryRequest selects the days a diary covers.
type DiaryRequest struct {
	Day    time.Time // zero means today
	Week   bool      // the 7 days ending today
	Output string    // overrides the default path
}

// Diary renders and writes a diary.
func (g *Generator) Diary(req DiaryRequest) (*Written, error) {
	now := g.now()
	var days []time.Time
	switch {
	case req.Week:
		days = period.Week.Days(now)
	case req.Day.IsZero():
		days = []time.Time{period.Truncate(now)}
	default:
		days = []time.Time{period.Truncate(req.Day)}
	}

	records := g.events.ReadRecords(days)
	sessions := session.OnDays(g.sessions.List(), days)

	content := RenderDiary(records, sessions, DiaryOptions{Days: days, Weekly: req.Week, GeneratedAt: now})

	path := req.Output
	if path == "" {
		path = filepath.Join(g.events.Layout().DiaryDir(), DiaryFileName(days[0], req.Week))
	}
	if err := writeReport(path, content); err != nil {
		return nil, err
	}
	return &Written{Path: path, Summary: SummarizeDiary(records, sessions).String(), Records: len(records)}, nil
}

// ArticleRequest selects the records an article draws on. SessionID wins
// over Day; with neither, the most recent log day is used.
type ArticleRequest struct {
	SessionID string
	Day       time.Time
	Topic     string
	Author    string // written to the frontmatter when set
	Output    string
}

// Article renders and writes an article draft.
func (g *Generator) Article(req ArticleRequest) (*Written, error) {
	records, err := g.articleRecords(req)
	if err != nil {
		return nil, err
	}

	now := g.now()
	content, err := RenderArticle(records, ArticleOptions{Topic: req.Topic, Author: req.Author, Date: now, GeneratedAt: now})
	if err != nil {
		return nil, err
	}

	path := req.Output
	if path == "" {
		topic := req.Topic
		if topic == "" {
			topic = DefaultSlug
		}
		path = filepath.Join(g.events.Layout().ArticlesDir(), ArticleFileName(now, topic))
	}
	if err := writeReport(path, content); err != nil {
		return nil, err
	}
	return &Written{Path: path, Summary: ArticlePreview(req.Topic, records), Records: len(records)}, nil
}

func (g *Generator) articleRecords(req ArticleRequest) ([]activity.Record, error) {
	switch {
	case req.SessionID != "":
		id := req.SessionID
		s, err := g.sessions.Find(id)
		if err == nil {
			id = s.SessionID
		} else if !errors.Is(err, session.ErrSessionNotFound) {
			return nil, err
		}
		return g.events.SessionRecords(id), nil
	case !req.Day.IsZero():
		return g.events.ReadRecords([]time.Time{period.Truncate(req.Day)}), nil
	}
	days, err := g.events.LogDays()
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, nil
	}
	return g.events.ReadRecords(days[len(days)-1:]), nil
}

// Stats aggregates the records of days under label.
func (g *Generator) Stats(label string, days []time.Time) *Stats {
	return ComputeStats(label, g.events.ReadRecords(days), g.now())
}

// PeriodStats aggregates a named period ending today.
func (g *Generator) PeriodStats(p period.Period) *Stats {
	return g.Stats(string(p), p.Days(g.now()))
}

// AllStats aggregates every day that has a log file.
func (g *Generator) AllStats() (*Stats, error) {
	days, err := g.events.LogDays()
	if err != nil {
		return nil, err
	}
	return g.Stats("todo", days), nil
}

func writeReport(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
