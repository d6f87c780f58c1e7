package data

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aoideee/book-catalog/internal/validator"
)

// BookModel wraps a *sqlx.DB connection pool and provides methods for
// creating, reading, updating, and deleting book records.
type BookModel struct {
	DB      *sqlx.DB
	Logger  *slog.Logger // optional; receives built list queries at debug level
	dialect string
}

// Get retrieves a single book by its primary key.
// Returns ErrRecordNotFound if no book with the given id exists.
func (m BookModel) Get(ctx context.Context, id int64) (*Book, error) {
	row, err := getBookRow(ctx, m.DB, id)
	if err != nil {
		return nil, storageError("get book", err)
	}
	return row.book(), nil
}

func getBookRow(ctx context.Context, q sqlx.ExtContext, id int64) (*bookRow, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	var row bookRow
	err := sqlx.GetContext(ctx, q, &row, q.Rebind(`
		SELECT id, title, published_year, genre, author_name, author_id
		FROM books
		WHERE id = ?`), id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &row, nil
}

// Insert validates draft and stores it as a new book. The author is looked
// up by exact name and created first when missing; both writes share one
// transaction, so a failure leaves neither behind.
func (m BookModel) Insert(ctx context.Context, draft BookDraft) (*Book, error) {
	d, err := draft.normalize()
	if err != nil {
		return nil, err
	}

	row := bookRow{
		Title:         d.Title,
		PublishedYear: d.PublishedYear,
		Genre:         d.Genre,
		AuthorName:    d.AuthorName,
	}

	err = withTx(ctx, m.DB, "create book", func(tx *sqlx.Tx) error {
		authorID, err := findOrCreateAuthor(ctx, tx, row.AuthorName)
		if err != nil {
			return err
		}
		row.AuthorID = authorID

		return tx.GetContext(ctx, &row.ID, tx.Rebind(`
            INSERT INTO books (title, published_year, genre, author_name, author_id)
            VALUES (?, ?, ?, ?, ?)
            RETURNING id`),
			row.Title, row.PublishedYear, row.Genre, row.AuthorName, row.AuthorID)
	})
	if err != nil {
		return nil, err
	}

	return row.book(), nil
}

// Update applies the present fields of patch to the book with the given id
// and returns the stored result. Returns ErrRecordNotFound if the book does
// not exist. Renaming the author only changes the name stored on the book;
// author_id is left as it was.
func (m BookModel) Update(ctx context.Context, id int64, patch BookPatch) (*Book, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}

	var row bookRow
	err := withTx(ctx, m.DB, "update book", func(tx *sqlx.Tx) error {
		current, err := getBookRow(ctx, tx, id)
		if err != nil {
			return err
		}
		row = patch.merge(*current)

		_, err = tx.ExecContext(ctx, tx.Rebind(`
            UPDATE books
            SET title = ?, published_year = ?, genre = ?, author_name = ?
            WHERE id = ?`),
			row.Title, row.PublishedYear, row.Genre, row.AuthorName, row.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return row.book(), nil
}

// Delete removes the book with the given id from the database. The author
// row is left in place.
// Returns ErrRecordNotFound if no matching record exists.
func (m BookModel) Delete(ctx context.Context, id int64) error {
	// Guard against obviously bad IDs before touching the database.
	if id < 1 {
		return ErrRecordNotFound
	}

	result, err := m.DB.ExecContext(ctx, m.DB.Rebind(`DELETE FROM books WHERE id = ?`), id)
	if err != nil {
		return &StorageError{Op: "delete book", Err: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &StorageError{Op: "delete book", Err: err}
	}

	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// GetAll retrieves the page of books selected by filters together with
// pagination Metadata.
func (m BookModel) GetAll(ctx context.Context, filters BookFilter) ([]*Book, Metadata, error) {
	v := validator.New()
	if ValidateBookFilter(v, filters); !v.Valid() {
		return nil, Metadata{}, &ValidationError{Errors: v.Errors}
	}

	books, err := m.list(ctx, filters)
	if err != nil {
		return nil, Metadata{}, err
	}

	query, args, err := filters.countQuery(m.dialect)
	if err != nil {
		return nil, Metadata{}, &StorageError{Op: "build count query", Err: err}
	}

	var total int
	start := time.Now()
	err = m.DB.GetContext(ctx, &total, query, args...)
	m.logQuery(query, start)
	if err != nil {
		return nil, Metadata{}, &StorageError{Op: "count books", Err: err}
	}

	return books, Metadata{Skip: filters.Skip, Limit: filters.Limit, TotalRecords: total}, nil
}

// ListAll returns every book ordered by title.
func (m BookModel) ListAll(ctx context.Context) ([]*Book, error) {
	return m.list(ctx, BookFilter{})
}

func (m BookModel) list(ctx context.Context, filters BookFilter) ([]*Book, error) {
	query, args, err := filters.selectQuery(m.dialect)
	if err != nil {
		return nil, &StorageError{Op: "build list query", Err: err}
	}

	var rows []bookRow
	start := time.Now()
	err = m.DB.SelectContext(ctx, &rows, query, args...)
	m.logQuery(query, start)
	if err != nil {
		return nil, &StorageError{Op: "list books", Err: err}
	}

	books := make([]*Book, 0, len(rows))
	for _, row := range rows {
		books = append(books, row.book())
	}
	return books, nil
}

func (m BookModel) logQuery(query string, start time.Time) {
	if m.Logger != nil {
		m.Logger.Debug("executed book query", "query", query, "duration", time.Since(start))
	}
}
