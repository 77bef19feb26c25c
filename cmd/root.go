package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/ailog/internal/config"
	"github.com/fakeyudi/ailog/internal/report"
	"github.com/fakeyudi/ailog/internal/session"
	"github.com/fakeyudi/ailog/internal/store"
)

const version = "1.0.0"

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// layout is the resolved data directory every subcommand works in.
var layout store.Layout

var rootCmd = &cobra.Command{
	Use:          "ailog",
	Short:        "Capture AI assistant activity and turn it into diaries, articles and stats",
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env in the working directory may set AI_LOGGER_DIR.
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			warn(cmd.ErrOrStderr(), fmt.Sprintf("reading .env: %v", err))
		}

		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)

		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		layout = store.NewLayout(config.ResolveDataDir(cfg.DataDir, os.Getenv(config.EnvDataDir), home))
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

func eventStore() store.EventStore {
	return store.NewEventStore(layout)
}

func sessionStore() session.SessionStore {
	return session.NewSessionStore(layout)
}

func newGenerator() *report.Generator {
	return report.NewGenerator(eventStore(), sessionStore())
}

func warn(w io.Writer, msg string) {
	fmt.Fprintf(w, "warning: %s\n", msg)
}
