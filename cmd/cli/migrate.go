package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yoopan/compare-service/internal/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the catalog schema to the configured database",
	Long: `Apply the catalog schema (stores, products, prices) to the configured
database. The schema is idempotent; running migrate against an up-to-date
database is a no-op.`,
	Example: `  compare-service migrate`,
	Args:    cobra.NoArgs,
	RunE:    runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	pool := database.Pool()
	if pool == nil {
		return fmt.Errorf("database not connected")
	}

	if _, err := pool.Exec(cmd.Context(), database.Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	logger.Info().Msg("Schema applied")
	return nil
}
