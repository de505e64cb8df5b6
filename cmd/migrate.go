package cmd

import (
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Initialize the database and event table",
	Long:  `Creates the service database if it does not exist and applies the devices table schema. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrations()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrations() error {
	logger.Info("Running database migrations...")

	db, err := setupDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Database migrations completed successfully")
	return nil
}
