package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/ailog/internal/period"
	"github.com/fakeyudi/ailog/internal/report"
)

var (
	articleTopic   string
	articleSession string
	articleDate    string
	articleOutput  string
)

var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "Generate a blog article draft from recorded activity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := report.ArticleRequest{
			SessionID: articleSession,
			Topic:     articleTopic,
			Author:    GetConfig().Author,
			Output:    articleOutput,
		}
		if articleDate != "" {
			day, err := period.ParseDay(articleDate, time.Now())
			if err != nil {
				return err
			}
			req.Day = day
		}

		w, err := newGenerator().Article(req)
		if err != nil {
			return fmt.Errorf("generating article: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Artículo generado: %s\n\n", w.Path)
		fmt.Fprintln(out, "Vista previa:")
		fmt.Fprintln(out, w.Summary)
		return nil
	},
}

func init() {
	articleCmd.Flags().StringVarP(&articleTopic, "topic", "t", "", "article topic")
	articleCmd.Flags().StringVarP(&articleSession, "session", "s", "", "base the article on one session (partial id)")
	articleCmd.Flags().StringVarP(&articleDate, "date", "d", "", "base the article on one day")
	articleCmd.Flags().StringVarP(&articleOutput, "output", "o", "", "write the draft to this path")
	rootCmd.AddCommand(articleCmd)
}
