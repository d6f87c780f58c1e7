package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/aoideee/book-catalog/internal/config"
	"github.com/aoideee/book-catalog/internal/data"
)

// cli holds the global flags and the lazily opened database.
type cli struct {
	dbDriver   string
	dbDSN      string
	bcryptCost int
	verbose    bool
	jsonOutput bool

	db     *sqlx.DB
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	// A missing .env is fine; a malformed one is reported by the first command.
	envErr := config.LoadEnv()

	c := &cli{}
	rootCmd := &cobra.Command{
		Use:   "catalogctl",
		Short: "Book catalog operator tool",
		Long: `catalogctl manages a book catalog database directly.

Connection settings default to CATALOG_DB_DRIVER and CATALOG_DB_DSN,
optionally loaded from a .env file in the working directory.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return fmt.Errorf("load .env: %w", envErr)
			}
			level := slog.LevelWarn
			if c.verbose {
				level = slog.LevelDebug
			}
			c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.db != nil {
				return c.db.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.dbDriver, "db-driver", config.String(config.EnvDBDriver, data.DriverPostgres), "Database driver (postgres|pgx|sqlite3)")
	rootCmd.PersistentFlags().StringVar(&c.dbDSN, "db-dsn", config.String(config.EnvDBDSN, ""), "Database DSN, or a file path for sqlite3")
	rootCmd.PersistentFlags().IntVar(&c.bcryptCost, "bcrypt-cost", config.Int(config.EnvBcryptCost, 0), "bcrypt cost (0 uses the library default)")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log queries and skipped rows")
	rootCmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(
		newMigrateCmd(c),
		newImportCmd(c),
		newUserAddCmd(c),
		newBooksCmd(c),
	)

	return rootCmd
}

// open connects to the configured database. Plain file paths are accepted
// for sqlite3 and turned into a DSN with foreign keys enabled.
func (c *cli) open() (*sqlx.DB, error) {
	if c.db != nil {
		return c.db, nil
	}
	if c.dbDSN == "" {
		return nil, fmt.Errorf("no database configured: set --db-dsn or %s", config.EnvDBDSN)
	}

	dsn := c.dbDSN
	if c.dbDriver == data.DriverSQLite && !strings.HasPrefix(dsn, "file:") {
		var err error
		if dsn, err = data.SQLiteDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := data.Open(c.dbDriver, dsn)
	if err != nil {
		return nil, err
	}
	c.db = db
	return db, nil
}

// models opens the database, applies migrations and returns the models.
func (c *cli) models(ctx context.Context) (data.Models, error) {
	db, err := c.open()
	if err != nil {
		return data.Models{}, err
	}
	if err := data.Migrate(ctx, db); err != nil {
		return data.Models{}, err
	}

	models, err := data.NewModels(db, c.logger)
	if err != nil {
		return data.Models{}, err
	}
	models.Users.HashCost = c.bcryptCost
	return models, nil
}
