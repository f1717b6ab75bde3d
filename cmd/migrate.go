package cmd

import (
	"aoba/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := migrationURL()
		if err != nil {
			return err
		}
		return database.MigrateUp(url)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations, one by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := migrationURL()
		if err != nil {
			return err
		}
		steps := "1"
		if len(args) > 0 {
			steps = args[0]
		}
		return database.MigrateDown(url, steps)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := migrationURL()
		if err != nil {
			return err
		}
		return database.MigrateStatus(url)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

func migrationURL() (string, error) {
	return database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName)
}
