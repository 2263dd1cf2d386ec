package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/splitdeck/splitdeck/internal/adapters/turso"
	"github.com/splitdeck/splitdeck/internal/infrastructure/config"
	"github.com/splitdeck/splitdeck/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  splitdeck migrate      # Run all pending migrations
  splitdeck migrate 3    # Migrate to version 3
  splitdeck migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadDatabase()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := turso.NewDB(cfg.URL, cfg.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := migrate.EnsureMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, dirty, err := migrate.GetCurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	if dirty {
		return fmt.Errorf("database is in dirty state at version %d, manual intervention required", currentVersion)
	}

	allMigrations, err := migrate.LoadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	fmt.Printf("Current version: %d\n", currentVersion)

	if len(args) == 0 {
		return migrate.MigrateUp(ctx, db, allMigrations, currentVersion)
	}

	targetVersion, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid version number: %s", args[0])
	}

	switch {
	case targetVersion > currentVersion:
		return migrate.MigrateUpTo(ctx, db, allMigrations, currentVersion, targetVersion)
	case targetVersion < currentVersion:
		return migrate.MigrateDownTo(ctx, db, allMigrations, currentVersion, targetVersion)
	default:
		fmt.Println("Already at target version")
		return nil
	}
}
