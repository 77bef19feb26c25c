package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/ailog/internal/report"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild index.json over diaries, articles and notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := report.BuildIndex(layout, time.Now())
		if err != nil {
			return err
		}
		if err := report.WriteIndex(layout, idx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Índice actualizado: %s (%d diarios, %d artículos, %d notas)\n",
			layout.IndexPath(), len(idx.Diaries), len(idx.Articles), len(idx.Notes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
