package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/ailog/internal/activity"
	"github.com/fakeyudi/ailog/internal/watch"
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print tool invocations as they are recorded",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Siguiendo %s (Ctrl+C para salir)\n", layout.LogsDir())
		return watch.Watch(ctx, layout, func(r activity.Record) {
			fmt.Fprintf(out, "[%s] %s %s: %s\n",
				r.Timestamp.UTC().Format("15:04:05"), outcomeMark(r.Outcome), r.Tool, r.Context)
		})
	},
}

func outcomeMark(o activity.Outcome) string {
	switch o {
	case activity.OutcomeFailed:
		return "✗"
	case activity.OutcomePartial:
		return "◐"
	}
	return "✓"
}

func init() {
	rootCmd.AddCommand(tailCmd)
}
