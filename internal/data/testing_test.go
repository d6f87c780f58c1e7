package data

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn, err := SQLiteDSN(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)

	db, err := Open(DriverSQLite, dsn)
	require.NoError(t, err, "open test db")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(context.Background(), db), "migrate test db")
	return db
}

func newTestModels(t *testing.T) (Models, *sqlx.DB) {
	t.Helper()

	db := newTestDB(t)
	models, err := NewModels(db, nil)
	require.NoError(t, err)
	models.Users.HashCost = bcrypt.MinCost
	return models, db
}

func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()

	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func dune() BookDraft { return draft("Dune", 1965, "SCIENCE", "Frank Herbert") }

func draft(title string, year int, genre, author string) BookDraft {
	return BookDraft{Title: title, PublishedYear: year, Genre: genre, AuthorName: author}
}
