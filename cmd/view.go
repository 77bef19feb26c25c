package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/ailog/internal/tui"
)

var plainOutput bool

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "View a generated report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", path)
			}
			return err
		}

		// Fall back to plain output when stdout is not a terminal.
		if plainOutput || !term.IsTerminal(os.Stdout.Fd()) {
			printReport(cmd.OutOrStdout(), string(data))
			return nil
		}
		return tui.Run(string(data), path)
	},
}

// printReport writes the report's sections as plain text.
func printReport(w io.Writer, markdown string) {
	title, sections := tui.Split(markdown)
	if title != "" {
		fmt.Fprintf(w, "# %s\n\n", title)
	}
	for _, s := range sections {
		fmt.Fprintf(w, "## %s\n", s.Title)
		if s.Body == "" {
			fmt.Fprintln(w, "  (vacío)")
		} else {
			fmt.Fprintln(w, indent(s.Body, "  "))
		}
		fmt.Fprintln(w)
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "plain text output instead of TUI")
	rootCmd.AddCommand(viewCmd)
}
