package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"manometer-backend/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "manometerd",
		Short: "Pressure gauge calibration registry",
		Long: `manometerd serves the gauge calibration API and dashboard, and offers
client commands to inspect a running server.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default CONFIG_PATH)")

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.MigrateCmd())
	rootCmd.AddCommand(cli.ListCmd())
	rootCmd.AddCommand(cli.SummaryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
