//go:build integration

package data

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
)

// setupPostgres starts a PostgreSQL container and returns its DSN.
func setupPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("catalog"),
		postgres.WithUsername("catalog"),
		postgres.WithPassword("catalog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestPostgres(t *testing.T) {
	dsn := setupPostgres(t)

	for _, driver := range []string{DriverPostgres, DriverPGX} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()

			db, err := Open(driver, dsn)
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })

			require.NoError(t, Migrate(ctx, db))
			require.NoError(t, Migrate(ctx, db), "migrations are idempotent")

			_, err = db.Exec(`TRUNCATE books, authors, users RESTART IDENTITY CASCADE`)
			require.NoError(t, err)

			models, err := NewModels(db, nil)
			require.NoError(t, err)
			models.Users.HashCost = bcrypt.MinCost

			first, err := models.Books.Insert(ctx, dune())
			require.NoError(t, err)
			second, err := models.Books.Insert(ctx, draft("Children of Dune", 1976, "science", "Frank Herbert"))
			require.NoError(t, err)
			assert.Equal(t, first.Author.ID, second.Author.ID)

			filter := DefaultBookFilter()
			filter.TitleContains = "DUNE"
			filter.SortBy = SortByPublishedYear
			filter.Order = Descending

			books, metadata, err := models.Books.GetAll(ctx, filter)
			require.NoError(t, err)
			assert.Equal(t, []string{"Children of Dune", "Dune"}, titles(books))
			assert.Equal(t, 2, metadata.TotalRecords)

			updated, err := models.Books.Update(ctx, first.ID, BookPatch{Genre: strPtr("fiction")})
			require.NoError(t, err)
			assert.Equal(t, GenreFiction, updated.Genre)

			require.NoError(t, models.Books.Delete(ctx, first.ID))
			_, err = models.Books.Get(ctx, first.ID)
			assert.ErrorIs(t, err, ErrRecordNotFound)

			_, err = models.Books.Insert(ctx, draft("Émile", 1762, "nonfiction", "Jean-Jacques Rousseau"))
			require.NoError(t, err)
			folded := DefaultBookFilter()
			folded.TitleContains = "émile"
			books, _, err = models.Books.GetAll(ctx, folded)
			require.NoError(t, err)
			assert.Equal(t, []string{"Émile"}, titles(books))

			_, err = models.Users.Insert(ctx, "alice", "s3cret")
			require.NoError(t, err)
			_, err = models.Users.Insert(ctx, "alice", "s3cret")
			assert.ErrorIs(t, err, ErrDuplicateUsername)
		})
	}
}

func TestPostgresConcurrentFirstUseOfAuthor(t *testing.T) {
	ctx := context.Background()

	db, err := Open(DriverPGX, setupPostgres(t))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(ctx, db))

	models, err := NewModels(db, nil)
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := models.Books.Insert(ctx, draft("Book", 1900+i, "HISTORY", "Same Author"))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, countRows(t, db, "authors"))
	assert.Equal(t, workers, countRows(t, db, "books"))
}
