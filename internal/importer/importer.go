// Package importer bulk-loads books from JSON or CSV uploads. Each record is
// validated and created on its own; rows that fail are skipped and reported
// without aborting the batch.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/aoideee/book-catalog/internal/data"
	"github.com/aoideee/book-catalog/internal/validator"
)

// BookCreator persists one validated book draft.
type BookCreator interface {
	Insert(ctx context.Context, draft data.BookDraft) (*data.Book, error)
}

// Importer drives a bulk import against a BookCreator.
type Importer struct {
	Books  BookCreator
	Logger *slog.Logger
}

// Skipped describes a record that was not imported. Row is 1-based and
// counts data rows only.
type Skipped struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Report is the outcome of one import.
type Report struct {
	Created []*data.Book `json:"created"`
	Skipped []Skipped    `json:"skipped"`
}

// ImportReader decodes r as format and imports every record.
func (im Importer) ImportReader(ctx context.Context, r io.Reader, format Format) (Report, error) {
	records, err := Decode(r, format)
	if err != nil {
		return Report{}, err
	}
	return im.Import(ctx, records)
}

// Import creates a book for every valid record. Validation and storage
// failures on a single record are skipped; the returned error is only set
// when ctx ends or the creator fails in some other way.
func (im Importer) Import(ctx context.Context, records []Record) (Report, error) {
	report := Report{Created: make([]*data.Book, 0, len(records)), Skipped: []Skipped{}}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		row := i + 1
		book, err := im.importOne(ctx, rec)
		if err != nil {
			if !skippable(err) {
				return report, err
			}
			report.Skipped = append(report.Skipped, Skipped{Row: row, Reason: err.Error()})
			im.log().Warn("skipping import row", "row", row, "error", err.Error())
			continue
		}

		report.Created = append(report.Created, book)
	}

	im.log().Info("import finished", "created", len(report.Created), "skipped", len(report.Skipped))
	return report, nil
}

func (im Importer) importOne(ctx context.Context, rec Record) (*data.Book, error) {
	draft, err := toDraft(rec)
	if err != nil {
		return nil, err
	}
	return im.Books.Insert(ctx, draft)
}

func (im Importer) log() *slog.Logger {
	if im.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return im.Logger
}

func skippable(err error) bool {
	var (
		valErr     *data.ValidationError
		storageErr *data.StorageError
	)
	return errors.As(err, &valErr) || errors.As(err, &storageErr)
}

// toDraft converts a raw record into a BookDraft. Values that cannot be
// read as the expected type are reported as validation errors; the
// remaining rules are applied by the creator.
func toDraft(rec Record) (data.BookDraft, error) {
	v := validator.New()
	if rec == nil {
		v.AddError("record", "must be an object")
		return data.BookDraft{}, &data.ValidationError{Errors: v.Errors}
	}

	year, ok := intValue(rec["published_year"])
	v.Check(ok, "published_year", "must be an integer")

	title, ok := stringValue(rec["title"])
	v.Check(ok, "title", "must be a string")

	genre, ok := stringValue(rec["genre"])
	v.Check(ok, "genre", "must be a string")

	author, ok := authorName(rec)
	v.Check(ok, "author_name", "must be a string")

	if !v.Valid() {
		return data.BookDraft{}, &data.ValidationError{Errors: v.Errors}
	}

	return data.BookDraft{Title: title, PublishedYear: year, Genre: genre, AuthorName: author}, nil
}

// authorName reads author_name, falling back to a nested {"author": {"name": ...}}.
func authorName(rec Record) (string, bool) {
	if raw, present := rec["author_name"]; present {
		return stringValue(raw)
	}
	if nested, ok := rec["author"].(map[string]any); ok {
		return stringValue(nested["name"])
	}
	return "", true
}

// stringValue treats an absent value as the empty string so that the
// "must be provided" rule reports it.
func stringValue(raw any) (string, bool) {
	switch val := raw.(type) {
	case nil:
		return "", true
	case string:
		return val, true
	default:
		return "", false
	}
}

func intValue(raw any) (int, bool) {
	switch val := raw.(type) {
	case nil:
		return 0, true
	case int:
		return val, true
	case float64:
		if val != math.Trunc(val) || math.Abs(val) > math.MaxInt32 {
			return 0, false
		}
		return int(val), true
	case json.Number:
		i, err := val.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, true
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
