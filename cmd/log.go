package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/ailog/internal/activity"
	"github.com/fakeyudi/ailog/internal/period"
)

var (
	logCategory string
	logTags     string
)

var logCmd = &cobra.Command{
	Use:   "log <message>",
	Short: "Append a manual note to today's notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		note := activity.Note{
			Timestamp: now,
			Content:   args[0],
			Category:  logCategory,
			Tags:      splitTags(logTags),
		}
		events := eventStore()
		day := period.Truncate(now)
		if err := events.AppendNote(day, note); err != nil {
			return fmt.Errorf("saving note: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Nota agregada: %s\n", events.Layout().NotePath(day))
		return nil
	},
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func init() {
	logCmd.Flags().StringVarP(&logCategory, "category", "c", "", "note category")
	logCmd.Flags().StringVarP(&logTags, "tags", "t", "", "comma separated tags")
	rootCmd.AddCommand(logCmd)
}
