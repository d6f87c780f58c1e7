package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// AuthorModel reads authors. Authors are only ever written as a side effect
// of creating a book.
type AuthorModel struct {
	DB *sqlx.DB
}

// Get retrieves a single author by primary key.
// Returns ErrRecordNotFound if no author with the given id exists.
func (m AuthorModel) Get(ctx context.Context, id int64) (*Author, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	var author Author
	err := m.DB.GetContext(ctx, &author, m.DB.Rebind(`SELECT id, name FROM authors WHERE id = ?`), id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, &StorageError{Op: "get author", Err: err}
		}
	}
	return &author, nil
}

// findOrCreateAuthor returns the id of the author called name, inserting the
// author first when it does not exist yet. The unique index on authors.name
// turns a concurrent insert of the same name into a no-op, after which the
// winner's row is read back.
func findOrCreateAuthor(ctx context.Context, tx *sqlx.Tx, name string) (int64, error) {
	var id int64

	err := tx.GetContext(ctx, &id, tx.Rebind(`SELECT id FROM authors WHERE name = ?`), name)
	switch {
	case err == nil:
		return id, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, err
	}

	err = tx.GetContext(ctx, &id, tx.Rebind(`
        INSERT INTO authors (name) VALUES (?)
        ON CONFLICT (name) DO NOTHING
        RETURNING id`), name)
	switch {
	case err == nil:
		return id, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, err
	}

	err = tx.GetContext(ctx, &id, tx.Rebind(`SELECT id FROM authors WHERE name = ?`), name)
	return id, err
}
