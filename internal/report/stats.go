package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fakeyudi/ailog/internal/activity"
	"github.com/fakeyudi/ailog/internal/aggregate"
)

// ToolShare is one tool's share of the records.
type ToolShare struct {
	Tool    string  `json:"tool"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// OutcomeBreakdown counts records per outcome.
type OutcomeBreakdown struct {
	Success int `json:"success"`
	Partial int `json:"partial"`
	Failed  int `json:"failed"`
}

// Stats is the aggregated view behind a stats report.
type Stats struct {
	Label          string            `json:"label"`
	Total          int               `json:"total"`
	Sessions       int               `json:"sessions"`
	Projects       int               `json:"projects"`
	ActiveDays     int               `json:"active_days"`
	Tools          []ToolShare       `json:"tools"`
	TopProjects    []aggregate.Entry `json:"top_projects"`
	Days           []aggregate.Entry `json:"days"`
	Outcomes       OutcomeBreakdown  `json:"outcomes"`
	AvgPerSession  float64           `json:"avg_per_session"`
	AvgPerDay      float64           `json:"avg_per_day"`
	ReadWriteRatio float64           `json:"read_write_ratio"`
	SearchOps      int               `json:"search_ops"`
	GeneratedAt    time.Time         `json:"generated_at"`
}

// ComputeStats aggregates records into a Stats value.
func ComputeStats(label string, records []activity.Record, generatedAt time.Time) *Stats {
	byTool := aggregate.GroupBy(records, aggregate.ByTool)
	byProject := aggregate.GroupBy(records, aggregate.ByProject)
	bySession := aggregate.GroupBy(records, aggregate.BySession)
	byDay := aggregate.GroupBy(records, aggregate.ByDay)

	s := &Stats{
		Label:       label,
		Total:       len(records),
		Sessions:    bySession.Len(),
		Projects:    byProject.Len(),
		ActiveDays:  byDay.Len(),
		TopProjects: aggregate.Top(aggregate.Rank(byProject), 5),
		GeneratedAt: generatedAt,
	}
	for _, e := range aggregate.Rank(byTool) {
		s.Tools = append(s.Tools, ToolShare{Tool: e.Key, Count: e.Count, Percent: aggregate.Percent(e.Count, s.Total)})
	}

	// Days ascending regardless of record order.
	days := byDay.Keys()
	sort.Strings(days)
	for _, d := range days {
		s.Days = append(s.Days, aggregate.Entry{Key: d, Count: byDay.Count(d)})
	}

	oc := aggregate.OutcomeCounts(records)
	s.Outcomes = OutcomeBreakdown{
		Success: oc[activity.OutcomeSuccess],
		Partial: oc[activity.OutcomePartial],
		Failed:  oc[activity.OutcomeFailed],
	}

	s.AvgPerSession = aggregate.Ratio(s.Total, s.Sessions)
	s.AvgPerDay = aggregate.Ratio(s.Total, s.ActiveDays)
	s.ReadWriteRatio = aggregate.Ratio(aggregate.CountTools(records, "Read"), aggregate.CountTools(records, writeTools...))
	s.SearchOps = aggregate.CountTools(records, "Grep", "Glob")
	return s
}

// StatsRenderer serializes a Stats value to bytes.
type StatsRenderer interface {
	Render(s *Stats) ([]byte, error)
}

// NewStatsRenderer returns the renderer for format ("markdown" or "json").
func NewStatsRenderer(format string) (StatsRenderer, error) {
	switch strings.ToLower(format) {
	case "", "markdown", "md":
		return &MarkdownRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown stats format %q (want markdown or json)", format)
}

// JSONRenderer renders Stats as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(s *Stats) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// MarkdownRenderer renders Stats as a Markdown report.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(s *Stats) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Estadísticas (%s)\n\n", s.Label)

	sb.WriteString("## Resumen General\n\n")
	fmt.Fprintf(&sb, "- **Total interacciones:** %d\n", s.Total)
	fmt.Fprintf(&sb, "- **Sesiones únicas:** %d\n", s.Sessions)
	fmt.Fprintf(&sb, "- **Proyectos activos:** %d\n", s.Projects)
	fmt.Fprintf(&sb, "- **Días con actividad:** %d\n\n", s.ActiveDays)

	if len(s.Tools) > 0 {
		sb.WriteString("## Por Herramienta\n\n")
		sb.WriteString("| Herramienta | Usos | Gráfico | % |\n")
		sb.WriteString("|-------------|------|---------|---|\n")
		for _, t := range s.Tools {
			fmt.Fprintf(&sb, "| %s | %d | %s | %s |\n",
				t.Tool, t.Count, Bar(t.Count, s.Total, StatsBarScale, StatsBarCap), Pct(t.Count, s.Total))
		}
		sb.WriteString("\n")
	}

	if len(s.TopProjects) > 0 {
		sb.WriteString("## Por Proyecto\n\n")
		for _, p := range s.TopProjects {
			fmt.Fprintf(&sb, "- **%s:** %d interacciones\n", p.Key, p.Count)
		}
		sb.WriteString("\n")
	}

	if len(s.Days) > 1 {
		sb.WriteString("## Actividad por Día\n\n")
		for _, d := range s.Days {
			fmt.Fprintf(&sb, "- %s %s %d\n", d.Key, Bar(d.Count, s.Total, StatsBarScale, StatsBarCap), d.Count)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Resultados\n\n")
	fmt.Fprintf(&sb, "- ✓ Éxitos: %d\n", s.Outcomes.Success)
	fmt.Fprintf(&sb, "- ◐ Parcial: %d\n", s.Outcomes.Partial)
	fmt.Fprintf(&sb, "- ✗ Fallidos: %d\n\n", s.Outcomes.Failed)

	if s.Total > 0 {
		sb.WriteString("## Métricas de Productividad\n\n")
		fmt.Fprintf(&sb, "- **Promedio por sesión:** %.1f interacciones\n", s.AvgPerSession)
		fmt.Fprintf(&sb, "- **Promedio por día:** %.1f interacciones\n", s.AvgPerDay)
		fmt.Fprintf(&sb, "- **Ratio lectura/escritura:** %.2f\n", s.ReadWriteRatio)
		fmt.Fprintf(&sb, "- **Operaciones de búsqueda:** %d\n\n", s.SearchOps)
	}

	sb.WriteString("---\n")
	sb.WriteString(Footer(s.GeneratedAt))
	return []byte(sb.String()), nil
}
