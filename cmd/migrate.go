package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Create or update the users and attendance tables.

Every other command applies pending migrations on start; this command only
does that and reports what was applied.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	store, err := newStore(&cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	applied, err := store.Migrate(context.Background())
	for _, file := range applied {
		fmt.Printf("Applied migration: %s\n", file)
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if len(applied) == 0 {
		fmt.Println("Database schema is up to date.")
	}
	return nil
}
