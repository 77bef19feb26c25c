package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/ailog/internal/period"
	"github.com/fakeyudi/ailog/internal/session"
)

const (
	sessionPreviewLines = 20
	sessionRecordLimit  = 15
)

var (
	sessionsDate  string
	sessionsLimit int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var day time.Time
		if sessionsDate != "" {
			d, err := period.ParseDay(sessionsDate, time.Now())
			if err != nil {
				return err
			}
			day = d
		}

		out := cmd.OutOrStdout()
		all := sessionStore().List()
		if len(all) == 0 {
			fmt.Fprintln(out, "No hay sesiones registradas aún.")
			fmt.Fprintln(out, "Usa ailog install para comenzar a capturar.")
			return nil
		}
		list := session.Recent(all, day, sessionsLimit)
		if len(list) == 0 {
			fmt.Fprintln(out, "No hay sesiones para los criterios especificados.")
			return nil
		}

		fmt.Fprintf(out, "%-12s %-20s %-20s %s\n", "ID", "Fecha", "Proyecto", "Interacciones")
		fmt.Fprintln(out, strings.Repeat("─", 70))
		for _, s := range list {
			project := s.Project
			if project == "" {
				project = "unknown"
			}
			project = clip(project, 18)
			fmt.Fprintf(out, "%-12s %-20s %-20s %d\n",
				s.ShortID(10), s.EndTime.UTC().Format("2006-01-02 15:04:05"), project, s.InteractionsCount)
		}
		fmt.Fprintf(out, "\nMostrando %d sesiones. Usa --limit para ver más.\n", len(list))
		fmt.Fprintln(out, "Para ver detalle: ailog session <id>")
		return nil
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session <id>",
	Short: "Show one session (the id may be partial)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions := sessionStore()
		s, err := sessions.Find(args[0])
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				return fmt.Errorf("session not found: %s", args[0])
			}
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "📋 Sesión: %s\n", s.SessionID)
		fmt.Fprintf(out, "%s\n\n", strings.Repeat("═", 50))
		fmt.Fprintln(out, "Información General")
		fmt.Fprintln(out, strings.Repeat("─", 30))
		fmt.Fprintf(out, "Proyecto:      %s\n", s.Project)
		fmt.Fprintf(out, "Directorio:    %s\n", s.WorkingDirectory)
		fmt.Fprintf(out, "Finalizada:    %s\n", s.EndTime.UTC().Format(time.RFC3339))
		fmt.Fprintf(out, "Interacciones: %d\n", s.InteractionsCount)
		tools := s.ToolsSummary
		if tools == "" {
			tools = "N/A"
		}
		fmt.Fprintf(out, "Herramientas:  %s\n", tools)

		if path, content, ok := sessions.Transcript(s.SessionID); ok {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Transcript Disponible")
			fmt.Fprintln(out, strings.Repeat("─", 30))
			fmt.Fprintf(out, "Archivo: %s\n\n", path)
			fmt.Fprintf(out, "Preview (primeras %d líneas):\n", sessionPreviewLines)
			lines := strings.Split(content, "\n")
			if len(lines) > sessionPreviewLines {
				lines = lines[:sessionPreviewLines]
			}
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			fmt.Fprintln(out, "...")
		}

		records := eventStore().SessionRecords(s.SessionID)
		if len(records) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Interacciones")
			fmt.Fprintln(out, strings.Repeat("─", 30))
			shown := records
			if len(shown) > sessionRecordLimit {
				shown = shown[:sessionRecordLimit]
			}
			for _, r := range shown {
				fmt.Fprintf(out, "%s %-10s %s\n", r.Timestamp.UTC().Format("15:04:05"), r.Tool, r.Context)
			}
			if extra := len(records) - sessionRecordLimit; extra > 0 {
				fmt.Fprintf(out, "\n... y %d más\n", extra)
			}
		}
		return nil
	},
}

// clip cuts s to at most n runes.
func clip(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}

func init() {
	sessionsCmd.Flags().StringVarP(&sessionsDate, "date", "d", "", "only sessions that ended on this day")
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 10, "number of sessions to show")
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(sessionCmd)
}
