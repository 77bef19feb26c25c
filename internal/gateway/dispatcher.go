// Package gateway dispatches named tool calls (save a record or note, read
// stats, logs and report listings) and serves them over MCP.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/fakeyudi/ailog/internal/activity"
	"github.com/fakeyudi/ailog/internal/period"
	"github.com/fakeyudi/ailog/internal/report"
	"github.com/fakeyudi/ailog/internal/session"
	"github.com/fakeyudi/ailog/internal/store"
)

const (
	defaultLogLimit  = 50
	defaultListLimit = 10
)

// Result is the reply to one call. IsError marks a failed call; Text then
// carries the error message.
type Result struct {
	Text    string
	IsError bool
}

// Options configure a Dispatcher.
type Options struct {
	SessionID  string // stamped on saved records
	WorkingDir string
	Now        func() time.Time
	Logger     *log.Logger
}

// Dispatcher executes gateway operations against the data directory. It
// keeps no state between calls.
type Dispatcher struct {
	events     store.EventStore
	generator  *report.Generator
	sessionID  string
	workingDir string
	now        func() time.Time
	logger     *log.Logger
}

// NewDispatcher returns a Dispatcher over events and sessions.
func NewDispatcher(events store.EventStore, sessions session.SessionStore, opts Options) *Dispatcher {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return &Dispatcher{
		events:     events,
		generator:  report.NewGenerator(events, sessions).WithClock(opts.Now),
		sessionID:  opts.SessionID,
		workingDir: opts.WorkingDir,
		now:        opts.Now,
		logger:     opts.Logger,
	}
}

// ErrUnknownOperation is wrapped by calls naming no known operation.
var ErrUnknownOperation = errors.New("unknown operation")

// Call validates args and runs the named operation. It never panics; every
// failure is reported through the Result.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Printf("%s: panic: %v", name, r)
			res = Result{Text: fmt.Sprintf("%s: internal error: %v", name, r), IsError: true}
		}
	}()

	text, err := d.call(ctx, name, args)
	if err != nil {
		d.logger.Printf("%s: %v", name, err)
		return Result{Text: err.Error(), IsError: true}
	}
	return Result{Text: text}
}

func (d *Dispatcher) call(ctx context.Context, name string, args map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	op, ok := Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	if err := op.ValidateArgs(args); err != nil {
		return "", err
	}

	switch name {
	case OpSaveInteraction:
		var in saveInteractionArgs
		if err := decode(args, &in); err != nil {
			return "", err
		}
		return d.saveInteraction(in)
	case OpSaveNote:
		var in saveNoteArgs
		if err := decode(args, &in); err != nil {
			return "", err
		}
		return d.saveNote(in)
	case OpGetStats:
		var in getStatsArgs
		if err := decode(args, &in); err != nil {
			return "", err
		}
		return d.getStats(in)
	case OpGetLogs:
		var in getLogsArgs
		if err := decode(args, &in); err != nil {
			return "", err
		}
		return d.getLogs(in)
	case OpListDiaries:
		var in listArgs
		if err := decode(args, &in); err != nil {
			return "", err
		}
		return d.listReports(d.events.Layout().DiaryDir(), "📔 Diarios", "No hay diarios aún", in)
	case OpListArticles:
		var in listArgs
		if err := decode(args, &in); err != nil {
			return "", err
		}
		return d.listReports(d.events.Layout().ArticlesDir(), "📄 Artículos", "No hay artículos aún", in)
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownOperation, name)
}

type saveInteractionArgs struct {
	Tool    string `json:"tool"`
	Context string `json:"context"`
	Outcome string `json:"outcome"`
	Notes   string `json:"notes"`
}

type saveNoteArgs struct {
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

type getStatsArgs struct {
	Period string `json:"period"`
}

type getLogsArgs struct {
	Date  string  `json:"date"`
	Limit float64 `json:"limit"`
}

type listArgs struct {
	Limit float64 `json:"limit"`
}

func decode(args map[string]any, dst any) error {
	if args == nil {
		return nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encoding arguments: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding arguments: %w", err)
	}
	return nil
}

func limitOr(v float64, def int) int {
	if v < 1 {
		return def
	}
	return int(v)
}

func (d *Dispatcher) saveInteraction(in saveInteractionArgs) (string, error) {
	outcome, ok := activity.ParseOutcome(in.Outcome)
	if !ok {
		return "", &ValidationError{Operation: OpSaveInteraction, Field: "outcome", Reason: "unknown outcome " + in.Outcome}
	}
	now := d.now().UTC()
	rec := activity.Record{
		Timestamp:        now,
		Tool:             in.Tool,
		Context:          in.Context,
		Outcome:          outcome,
		SessionID:        d.sessionID,
		WorkingDirectory: d.workingDir,
		Notes:            in.Notes,
	}
	if err := d.events.AppendRecord(period.Truncate(now), rec); err != nil {
		return "", err
	}
	return fmt.Sprintf("✓ Interacción guardada: %s - %s", in.Tool, in.Context), nil
}

func (d *Dispatcher) saveNote(in saveNoteArgs) (string, error) {
	now := d.now().UTC()
	day := period.Truncate(now)
	note := activity.Note{Timestamp: now, Content: in.Content, Category: in.Category, Tags: in.Tags}
	if err := d.events.AppendNote(day, note); err != nil {
		return "", err
	}
	return fmt.Sprintf("✓ Nota guardada en %s", d.events.Layout().NotePath(day)), nil
}

func (d *Dispatcher) getStats(in getStatsArgs) (string, error) {
	p, err := period.ParsePeriod(in.Period)
	if err != nil {
		return "", &ValidationError{Operation: OpGetStats, Field: "period", Reason: err.Error()}
	}
	out, err := (&report.MarkdownRenderer{}).Render(d.generator.PeriodStats(p))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (d *Dispatcher) getLogs(in getLogsArgs) (string, error) {
	day, err := period.ParseDay(in.Date, d.now())
	if err != nil {
		return "", &ValidationError{Operation: OpGetLogs, Field: "date", Reason: err.Error()}
	}
	label := period.Format(day)
	recs := d.events.LastRecords(day, limitOr(in.Limit, defaultLogLimit))
	if len(recs) == 0 {
		return "No hay logs para " + label, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📝 Logs de %s (%d entradas)\n", label, len(recs))
	sb.WriteString("─────────────────────────────────\n\n")
	for _, r := range recs {
		fmt.Fprintf(&sb, "[%s] %s: %s\n", r.Timestamp.UTC().Format("15:04:05"), r.Tool, r.Context)
	}
	return sb.String(), nil
}

func (d *Dispatcher) listReports(dir, title, empty string, in listArgs) (string, error) {
	files, err := report.List(dir, limitOr(in.Limit, defaultListLimit))
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return empty, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d)\n", title, len(files))
	sb.WriteString("─────────────────\n\n")
	for _, f := range files {
		fmt.Fprintf(&sb, "- %s (%s)\n", f.Name, report.FormatBytes(f.Size))
	}
	return sb.String(), nil
}
