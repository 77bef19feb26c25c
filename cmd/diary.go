package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/ailog/internal/period"
	"github.com/fakeyudi/ailog/internal/report"
)

var (
	diaryDate   string
	diaryWeek   bool
	diaryOutput string
)

var diaryCmd = &cobra.Command{
	Use:   "diary",
	Short: "Generate a Markdown diary of the day's (or week's) activity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := report.DiaryRequest{Week: diaryWeek, Output: diaryOutput}
		if diaryDate != "" {
			day, err := period.ParseDay(diaryDate, time.Now())
			if err != nil {
				return err
			}
			req.Day = day
		}

		w, err := newGenerator().Diary(req)
		if err != nil {
			return fmt.Errorf("generating diary: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Diario generado: %s\n\n", w.Path)
		fmt.Fprintln(out, w.Summary)
		return nil
	},
}

func init() {
	diaryCmd.Flags().StringVarP(&diaryDate, "date", "d", "", "day to summarize (YYYY-MM-DD, today, yesterday)")
	diaryCmd.Flags().BoolVarP(&diaryWeek, "week", "w", false, "summarize the 7 days ending today")
	diaryCmd.Flags().StringVarP(&diaryOutput, "output", "o", "", "write the diary to this path")
	rootCmd.AddCommand(diaryCmd)
}
