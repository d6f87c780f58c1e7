package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

const schemaVersion = 1

func genreCheck() string {
	quoted := make([]string, 0, len(Genres))
	for _, name := range genreNames() {
		quoted = append(quoted, "'"+name+"'")
	}
	return "CHECK (genre IN (" + strings.Join(quoted, ", ") + "))"
}

func schemaStatements(dialect string) []string {
	id, ref := "BIGSERIAL PRIMARY KEY", "BIGINT"
	if dialect == dialectSQLite {
		id, ref = "INTEGER PRIMARY KEY AUTOINCREMENT", "INTEGER"
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS authors (
            id ` + id + `,
            name TEXT NOT NULL
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS authors_name_key ON authors (name)`,
		`CREATE TABLE IF NOT EXISTS books (
            id ` + id + `,
            title TEXT NOT NULL,
            published_year INTEGER NOT NULL,
            genre TEXT NOT NULL ` + genreCheck() + `,
            author_name TEXT NOT NULL,
            author_id ` + ref + ` NOT NULL REFERENCES authors(id)
        )`,
		`CREATE INDEX IF NOT EXISTS books_author_id_idx ON books (author_id)`,
		`CREATE TABLE IF NOT EXISTS users (
            id ` + id + `,
            username TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL
        )`,
	}
}

// Migrate brings the schema up to date. It is safe to run on every start.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	dialect, err := dialectFor(db.DriverName())
	if err != nil {
		return err
	}

	if dialect == dialectSQLite {
		// WAL improves write concurrency.
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("enable WAL: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT)`); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}

	current, err := currentSchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if current >= schemaVersion {
		return nil
	}

	return withTx(ctx, db, "migrate", func(tx *sqlx.Tx) error {
		for _, stmt := range schemaStatements(dialect) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply migration: %w", err)
			}
		}

		_, err := tx.ExecContext(ctx, tx.Rebind(`
            INSERT INTO meta (key, value) VALUES ('schema_version', ?)
            ON CONFLICT (key) DO UPDATE SET value = excluded.value`),
			strconv.Itoa(schemaVersion))
		return err
	})
}

func currentSchemaVersion(ctx context.Context, db *sqlx.DB) (int, error) {
	var value string
	err := db.QueryRowxContext(ctx, `SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	version, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse schema version %q: %w", value, err)
	}
	return version, nil
}
