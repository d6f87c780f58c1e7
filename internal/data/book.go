// Package data provides the data models and database interaction logic
// for the book catalog.
package data

import (
	"fmt"
	"strings"
	"time"

	"github.com/aoideee/book-catalog/internal/validator"
)

// MinPublishedYear is the oldest publication year the catalog accepts.
const MinPublishedYear = 1800

// currentYear is evaluated on every validation, so the upper bound moves
// with the calendar.
var currentYear = func() int { return time.Now().Year() }

// Author is a catalog author. Authors are created implicitly the first time
// a book references their name.
type Author struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Book is the response shape of a catalog book.
type Book struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Author        Author `json:"author"`
	Genre         Genre  `json:"genre"`
	PublishedYear int    `json:"published_year"`
}

// bookRow maps one row of the books table. The author name is stored on the
// book as well as referenced through author_id.
type bookRow struct {
	ID            int64  `db:"id"`
	Title         string `db:"title"`
	PublishedYear int    `db:"published_year"`
	Genre         string `db:"genre"`
	AuthorName    string `db:"author_name"`
	AuthorID      int64  `db:"author_id"`
}

func (r bookRow) book() *Book {
	return &Book{
		ID:            r.ID,
		Title:         r.Title,
		Author:        Author{ID: r.AuthorID, Name: r.AuthorName},
		Genre:         Genre(r.Genre),
		PublishedYear: r.PublishedYear,
	}
}

// BookDraft holds the fields a caller must supply when creating a book.
type BookDraft struct {
	Title         string `json:"title"`
	PublishedYear int    `json:"published_year"`
	Genre         string `json:"genre"`
	AuthorName    string `json:"author_name"`
}

// BookPatch holds the fields a caller may supply when partially updating a
// book. A nil field means "not provided, leave as-is".
type BookPatch struct {
	Title         *string `json:"title"`
	PublishedYear *int    `json:"published_year"`
	Genre         *string `json:"genre"`
	AuthorName    *string `json:"author_name"`
}

// Empty reports whether the patch carries no fields at all.
func (p BookPatch) Empty() bool {
	return p.Title == nil && p.PublishedYear == nil && p.Genre == nil && p.AuthorName == nil
}

// ValidateBookDraft records every problem with d in v.
func ValidateBookDraft(v *validator.Validator, d BookDraft) {
	validateTitle(v, d.Title)
	validatePublishedYear(v, d.PublishedYear)
	validateGenre(v, d.Genre)
	validateAuthorName(v, d.AuthorName)
}

// ValidateBookPatch applies the draft rules to the fields present in p.
func ValidateBookPatch(v *validator.Validator, p BookPatch) {
	if p.Title != nil {
		validateTitle(v, *p.Title)
	}
	if p.PublishedYear != nil {
		validatePublishedYear(v, *p.PublishedYear)
	}
	if p.Genre != nil {
		validateGenre(v, *p.Genre)
	}
	if p.AuthorName != nil {
		validateAuthorName(v, *p.AuthorName)
	}
}

func validateTitle(v *validator.Validator, title string) {
	v.Check(validator.NotBlank(title), "title", "must be provided")
}

func validateAuthorName(v *validator.Validator, name string) {
	v.Check(validator.NotBlank(name), "author_name", "must be provided")
}

func validatePublishedYear(v *validator.Validator, year int) {
	upper := currentYear()
	v.Check(validator.Between(year, MinPublishedYear, upper), "published_year",
		fmt.Sprintf("must be between %d and %d", MinPublishedYear, upper))
}

func validateGenre(v *validator.Validator, genre string) {
	_, err := ParseGenre(genre)
	v.Check(err == nil, "genre", "must be one of: "+strings.Join(genreNames(), ", "))
}

// normalize validates d and returns it with trimmed strings and a canonical
// genre.
func (d BookDraft) normalize() (BookDraft, error) {
	v := validator.New()
	ValidateBookDraft(v, d)
	if !v.Valid() {
		return BookDraft{}, &ValidationError{Errors: v.Errors}
	}

	genre, _ := ParseGenre(d.Genre)
	return BookDraft{
		Title:         strings.TrimSpace(d.Title),
		PublishedYear: d.PublishedYear,
		Genre:         genre.String(),
		AuthorName:    strings.TrimSpace(d.AuthorName),
	}, nil
}

// validate checks the present fields of p without touching storage.
func (p BookPatch) validate() error {
	v := validator.New()
	ValidateBookPatch(v, p)
	if !v.Valid() {
		return &ValidationError{Errors: v.Errors}
	}
	return nil
}

// merge overlays the present fields of an already validated p onto the
// stored row.
func (p BookPatch) merge(row bookRow) bookRow {
	if p.Title != nil {
		row.Title = strings.TrimSpace(*p.Title)
	}
	if p.PublishedYear != nil {
		row.PublishedYear = *p.PublishedYear
	}
	if p.Genre != nil {
		genre, _ := ParseGenre(*p.Genre)
		row.Genre = genre.String()
	}
	if p.AuthorName != nil {
		row.AuthorName = strings.TrimSpace(*p.AuthorName)
	}
	return row
}
