package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/izposoja/internal/db"
	"github.com/erazemk/izposoja/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new database",
	Long: `Create a new SQLite database with the current schema and a freshly
generated token signing secret. Refuses to touch an existing file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if _, err := os.Stat(cfg.DB); err == nil {
			return fmt.Errorf("database %s already exists", cfg.DB)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking database: %w", err)
		}

		if err := initDatabase(cmd.Context(), cfg.DB); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Database created: %s\n", cfg.DB)
		fmt.Fprintln(cmd.OutOrStdout(), "Schema initialized.")
		return nil
	},
}

// initDatabase creates a new database, applies migrations, and stores the
// JWT secret. The file is removed again on failure.
func initDatabase(ctx context.Context, path string) error {
	database, err := db.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	fail := func(step string, err error) error {
		database.Close()
		os.Remove(path)
		return fmt.Errorf("%s: %w", step, err)
	}

	if err := db.Migrate(database); err != nil {
		return fail("migrating schema", err)
	}
	if _, err := store.New(database).GetJWTSecret(ctx); err != nil {
		return fail("generating JWT secret", err)
	}
	return nil
}
