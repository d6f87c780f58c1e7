package data

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrRecordNotFound is returned when a query finds no matching row.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateUsername is returned when registering a username that is
	// already taken.
	ErrDuplicateUsername = errors.New("duplicate username")

	// ErrInvalidCredentials is returned by Authenticate for an unknown
	// username and for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid authentication credentials")
)

// ValidationError carries the field-level messages for a rejected draft.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Errors[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// StorageError wraps a fault raised by the database while running Op. The
// enclosing transaction has always been rolled back by the time a caller
// sees one.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// storageError converts err into a *StorageError unless it already is one of
// the package's own outcome kinds, which pass through untouched.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}

	var (
		valErr     *ValidationError
		storageErr *StorageError
	)
	switch {
	case errors.Is(err, ErrRecordNotFound),
		errors.Is(err, ErrDuplicateUsername),
		errors.Is(err, ErrInvalidCredentials),
		errors.As(err, &valErr),
		errors.As(err, &storageErr):
		return err
	default:
		return &StorageError{Op: op, Err: err}
	}
}
