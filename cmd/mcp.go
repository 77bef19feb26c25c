package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/ailog/internal/gateway"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the logging tools over MCP on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		// stdout carries the protocol; diagnostics go to stderr.
		logger := log.New(cmd.ErrOrStderr(), "[ailog-mcp] ", log.LstdFlags)

		d := gateway.NewDispatcher(eventStore(), sessionStore(), gateway.Options{
			SessionID:  "mcp-" + uuid.NewString(),
			WorkingDir: wd,
			Logger:     logger,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Printf("serving %s (data: %s)", version, layout.Root)
		return gateway.Serve(ctx, d, version)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
