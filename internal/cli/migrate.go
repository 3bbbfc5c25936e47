package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"manometer-backend/internal/db"
)

// MigrateCmd returns the migrate command.
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the gauges table and exit",
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	conn := db.NewConnector(cfg.Database, log)
	defer conn.Close()

	gdb, err := conn.Get(cmd.Context())
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "gauges table is up to date")
	return nil
}
