package data

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // Registers the "pgx" driver with database/sql.
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "postgres"
	DriverPGX      = "pgx"
	DriverSQLite   = "sqlite3"
)

// goqu dialect names.
const (
	dialectPostgres = "postgres"
	dialectSQLite   = "sqlite3"
)

const (
	defaultMaxOpenConnections = 25
	defaultMaxIdleConnections = 25
	defaultMaxConnIdleTime    = 15 * time.Minute
	pingTimeout               = 5 * time.Second
)

// dialectFor maps a driver name onto the SQL dialect it speaks.
func dialectFor(driver string) (string, error) {
	switch driver {
	case DriverPostgres, DriverPGX:
		return dialectPostgres, nil
	case DriverSQLite:
		return dialectSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open opens a connection pool for driver and pings it with a 5-second
// timeout to confirm the database is reachable.
func Open(driver, dsn string) (*sqlx.DB, error) {
	if _, err := dialectFor(driver); err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConnections)
	db.SetMaxIdleConns(defaultMaxIdleConnections)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return db, nil
}

// SQLiteDSN builds a DSN for the SQLite file at path with busy_timeout and
// foreign keys enabled, creating the parent directory if needed.
func SQLiteDSN(path string) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create db dir: %w", err)
		}
	}
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", path), nil
}

// withTx runs fn inside a transaction. The transaction is rolled back on
// every exit path except a successful commit, and any database fault is
// reported as a *StorageError.
func withTx(ctx context.Context, db *sqlx.DB, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return storageError(op, err)
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Op: op, Err: err}
	}
	return nil
}

// isUniqueViolation recognises a unique-constraint failure from any of the
// supported drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	return false
}
