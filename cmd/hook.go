package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/ailog/internal/hook"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Handle a hook payload from the assistant (read from stdin)",
}

var hookPostToolCmd = &cobra.Command{
	Use:   "post-tool-use",
	Short: "Record one tool invocation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := hook.ReadPayload(cmd.InOrStdin())
		if err != nil {
			return err
		}
		if _, err := hook.NewHandler(eventStore(), sessionStore()).PostToolUse(p); err != nil {
			return fmt.Errorf("recording tool use: %w", err)
		}
		return nil
	},
}

var hookSessionEndCmd = &cobra.Command{
	Use:   "session-end",
	Short: "Summarize the session that just ended",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := hook.ReadPayload(cmd.InOrStdin())
		if err != nil {
			return err
		}
		s, warnings, err := hook.NewHandler(eventStore(), sessionStore()).SessionEnd(p)
		if err != nil {
			return fmt.Errorf("recording session end: %w", err)
		}
		for _, w := range warnings {
			warn(cmd.ErrOrStderr(), w)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sesión %s: %d interacciones\n", s.ShortID(8), s.InteractionsCount)
		return nil
	},
}

func init() {
	hookCmd.AddCommand(hookPostToolCmd)
	hookCmd.AddCommand(hookSessionEndCmd)
	rootCmd.AddCommand(hookCmd)
}
