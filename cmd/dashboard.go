package cmd

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/ailog/internal/web"
)

var (
	dashboardAddr  string
	dashboardDebug bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serve the report dashboard over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := dashboardAddr
		if addr == "" {
			addr = GetConfig().DashboardAddr
		}
		if !dashboardDebug {
			gin.SetMode(gin.ReleaseMode)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Dashboard en http://%s\n", addr)
		return web.NewServer(layout, newGenerator()).Run(addr)
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardAddr, "addr", "", "listen address (default from config)")
	dashboardCmd.Flags().BoolVar(&dashboardDebug, "debug", false, "gin debug logging")
	rootCmd.AddCommand(dashboardCmd)
}
