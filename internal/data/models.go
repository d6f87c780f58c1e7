package data

import (
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Models is a top-level container that groups all database model types together.
// It is passed around the application so every handler has access to the
// database without importing sqlx directly.
type Models struct {
	Books   BookModel
	Authors AuthorModel
	Users   UserModel
}

// NewModels constructs a Models value wired up to the given connection pool.
// Call this once during application startup.
func NewModels(db *sqlx.DB, logger *slog.Logger) (Models, error) {
	dialect, err := dialectFor(db.DriverName())
	if err != nil {
		return Models{}, err
	}

	return Models{
		Books:   BookModel{DB: db, Logger: logger, dialect: dialect},
		Authors: AuthorModel{DB: db},
		Users:   UserModel{DB: db},
	}, nil
}
