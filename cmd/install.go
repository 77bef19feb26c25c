package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/ailog/internal/install"
)

var (
	installGlobal bool
	installLocal  bool
)

var installCmd = &cobra.Command{
	Use:     "install",
	Aliases: []string{"install-hooks"},
	Short:   "Install the capture hooks into the assistant's settings",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if installGlobal && installLocal {
			return fmt.Errorf("--global and --local are mutually exclusive")
		}

		var target install.Target
		if installLocal {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = install.LocalTarget(wd)
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			target = install.GlobalTarget(home)
			target.Layout = layout
			if dir := GetConfig().SettingsDir; dir != "" {
				target.SettingsDir = dir
			}
		}

		res, err := install.Install(target, version, time.Now())
		if err != nil {
			return fmt.Errorf("installing hooks: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, w := range res.Warnings {
			warn(cmd.ErrOrStderr(), w)
		}
		for _, s := range res.Scripts {
			fmt.Fprintf(out, "✓ Hook instalado: %s\n", s)
		}
		if len(res.Added) == 0 {
			fmt.Fprintln(out, "✓ Los hooks ya estaban registrados")
		} else {
			fmt.Fprintf(out, "✓ Hooks registrados: %s\n", strings.Join(res.Added, ", "))
		}
		fmt.Fprintf(out, "✓ Configuración guardada: %s\n\n", res.SettingsPath)
		fmt.Fprintln(out, "Instalación completada")
		fmt.Fprintln(out, strings.Repeat("─", 40))
		fmt.Fprintf(out, "Hooks:        %s\n", res.HooksDir)
		fmt.Fprintf(out, "Datos:        %s\n", target.Layout.Root)
		fmt.Fprintf(out, "Settings:     %s\n", res.SettingsPath)
		return nil
	},
}

func init() {
	installCmd.Flags().BoolVar(&installGlobal, "global", false, "install for every project (default)")
	installCmd.Flags().BoolVar(&installLocal, "local", false, "install for the current project only")
	rootCmd.AddCommand(installCmd)
}
