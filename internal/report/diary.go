package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/fakeyudi/ailog/internal/activity"
	"github.com/fakeyudi/ailog/internal/aggregate"
	"github.com/fakeyudi/ailog/internal/session"
)

const (
	maxDiaryCommands = 20
	maxCommandLen    = 100
)

// DiaryOptions control diary rendering.
type DiaryOptions struct {
	Days        []time.Time // oldest first; at least one
	Weekly      bool
	GeneratedAt time.Time
}

// DiarySummary is the one-line digest printed after writing a diary.
type DiarySummary struct {
	Interactions int
	Sessions     int
	TopTool      string
	TopProject   string
}

func (d DiarySummary) String() string {
	return fmt.Sprintf("📊 %d interacciones | %d sesiones | Top: %s", d.Interactions, d.Sessions, d.TopTool)
}

// SummarizeDiary computes the headline numbers of a diary.
func SummarizeDiary(records []activity.Record, sessions []session.Summary) DiarySummary {
	return DiarySummary{
		Interactions: len(records),
		Sessions:     len(sessions),
		TopTool:      topLabel(aggregate.Rank(aggregate.GroupBy(records, aggregate.ByTool))),
		TopProject:   topLabel(aggregate.Rank(aggregate.GroupBy(records, aggregate.ByProject))),
	}
}

func topLabel(ranked []aggregate.Entry) string {
	if len(ranked) == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%s (%d)", ranked[0].Key, ranked[0].Count)
}

// RenderDiary renders the diary for opts.Days from records and the
// sessions that ended on those days.
func RenderDiary(records []activity.Record, sessions []session.Summary, opts DiaryOptions) string {
	var sb strings.Builder
	sum := SummarizeDiary(records, sessions)

	fmt.Fprintf(&sb, "# Diario de IA - %s\n\n", dateRange(opts.Days, opts.Weekly))

	sb.WriteString("## Resumen\n\n")
	fmt.Fprintf(&sb, "- **Total de interacciones:** %d\n", sum.Interactions)
	fmt.Fprintf(&sb, "- **Sesiones:** %d\n", sum.Sessions)
	fmt.Fprintf(&sb, "- **Herramienta más usada:** %s\n", sum.TopTool)
	fmt.Fprintf(&sb, "- **Proyecto más activo:** %s\n\n", sum.TopProject)

	if len(records) > 0 {
		total := len(records)
		sb.WriteString("## Actividad por Herramienta\n\n")
		sb.WriteString("| Herramienta | Usos | % | Gráfico |\n")
		sb.WriteString("|-------------|------|---|---------|\n")
		for _, e := range aggregate.Rank(aggregate.GroupBy(records, aggregate.ByTool)) {
			fmt.Fprintf(&sb, "| %s | %d | %s | %s |\n",
				e.Key, e.Count, Pct(e.Count, total), Bar(e.Count, total, DiaryBarScale, DiaryBarCap))
		}
		sb.WriteString("\n")

		sb.WriteString("## Categorías\n\n")
		for _, e := range aggregate.Rank(aggregate.GroupBy(records, aggregate.ByCategory)) {
			fmt.Fprintf(&sb, "- **%s:** %d (%s)\n", e.Key, e.Count, Pct(e.Count, total))
		}
		sb.WriteString("\n")
	}

	if len(sessions) > 0 {
		sb.WriteString("## Sesiones\n\n")
		for _, s := range sessions {
			tools := s.ToolsSummary
			if tools == "" {
				tools = "N/A"
			}
			fmt.Fprintf(&sb, "### %s (%s)\n\n", s.Project, s.ShortID(8))
			fmt.Fprintf(&sb, "- **Hora:** %s\n", s.EndTime.UTC().Format("15:04:05"))
			fmt.Fprintf(&sb, "- **Interacciones:** %d\n", s.InteractionsCount)
			fmt.Fprintf(&sb, "- **Herramientas:** %s\n\n", tools)
		}
	}

	if files := modifiedFiles(records); len(files) > 0 {
		sb.WriteString("## Archivos Modificados\n\n")
		for _, f := range files {
			fmt.Fprintf(&sb, "- `%s`\n", f)
		}
		sb.WriteString("\n")
	}

	commands := aggregate.Unique(bashRecords(records), activity.Record.Command)
	if len(commands) > 0 {
		sb.WriteString("## Comandos Ejecutados\n\n")
		sb.WriteString("```bash\n")
		if len(commands) > maxDiaryCommands {
			commands = commands[:maxDiaryCommands]
		}
		for _, c := range commands {
			sb.WriteString(truncate(c, maxCommandLen) + "\n")
		}
		sb.WriteString("```\n\n")
	}

	sb.WriteString("## Reflexión del Día\n\n")
	sb.WriteString("> _Agrega aquí tus reflexiones sobre el uso de IA hoy..._\n\n")
	sb.WriteString("### ¿Qué funcionó bien?\n\n- \n\n")
	sb.WriteString("### ¿Qué podría mejorar?\n\n- \n\n")
	sb.WriteString("### Aprendizajes clave\n\n- \n\n")

	sb.WriteString("---\n")
	sb.WriteString(Footer(opts.GeneratedAt))
	return sb.String()
}

func dateRange(days []time.Time, weekly bool) string {
	if len(days) == 0 {
		return ""
	}
	if weekly && len(days) > 1 {
		return day(days[0]) + " al " + day(days[len(days)-1])
	}
	return day(days[0])
}

func bashRecords(records []activity.Record) []activity.Record {
	var out []activity.Record
	for _, rec := range records {
		if rec.Tool == "Bash" {
			out = append(out, rec)
		}
	}
	return out
}
