package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/ailog/internal/period"
	"github.com/fakeyudi/ailog/internal/report"
)

var (
	statsDate   string
	statsWeek   bool
	statsMonth  bool
	statsAll    bool
	statsFormat string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := statsFormat
		if format == "" {
			format = GetConfig().StatsFormat
		}
		renderer, err := report.NewStatsRenderer(format)
		if err != nil {
			return err
		}

		gen := newGenerator()
		var s *report.Stats
		switch {
		case statsAll:
			if s, err = gen.AllStats(); err != nil {
				return err
			}
		case statsMonth:
			s = gen.PeriodStats(period.Month)
		case statsWeek:
			s = gen.PeriodStats(period.Week)
		case statsDate != "":
			day, err := period.ParseDay(statsDate, time.Now())
			if err != nil {
				return err
			}
			s = gen.Stats(period.Format(day), []time.Time{day})
		default:
			s = gen.PeriodStats(period.Today)
		}

		data, err := renderer.Render(s)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsDate, "date", "d", "", "one day (YYYY-MM-DD, today, yesterday)")
	statsCmd.Flags().BoolVarP(&statsWeek, "week", "w", false, "the 7 days ending today")
	statsCmd.Flags().BoolVarP(&statsMonth, "month", "m", false, "the 30 days ending today")
	statsCmd.Flags().BoolVar(&statsAll, "all", false, "every recorded day")
	statsCmd.Flags().StringVar(&statsFormat, "format", "", "output format: markdown or json")
	rootCmd.AddCommand(statsCmd)
}
