// cmd/api/handlers.go
// This file contains the HTTP request handlers for the books resource.
// Each handler is a method on *applicationDependencies so it has access
// to the logger and database models.
package main

import (
	"net/http"

	"github.com/aoideee/book-catalog/internal/data"
	"github.com/aoideee/book-catalog/internal/validator"
)

// createBookInput is the request body for POST /v1/books. The author may be
// given either as author_name or as {"author": {"name": ...}}.
type createBookInput struct {
	Title         string `json:"title"`
	PublishedYear int    `json:"published_year"`
	Genre         string `json:"genre"`
	AuthorName    string `json:"author_name"`
	Author        *struct {
		Name string `json:"name"`
	} `json:"author"`
}

func (in createBookInput) draft() data.BookDraft {
	author := in.AuthorName
	if author == "" && in.Author != nil {
		author = in.Author.Name
	}
	return data.BookDraft{
		Title:         in.Title,
		PublishedYear: in.PublishedYear,
		Genre:         in.Genre,
		AuthorName:    author,
	}
}

// listBooksQuery holds the pagination values of GET /v1/books.
type listBooksQuery struct {
	Skip  int `json:"skip" validate:"gte=0"`
	Limit int `json:"limit" validate:"gt=0"`
}

// createBookHandler handles POST /v1/books.
// It reads a JSON body containing the new book's details, creates the book
// (and its author, on first use of the name) and responds with the created
// book and a 201 Created status.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var input createBookInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	book, err := app.models.Books.Insert(r.Context(), input.draft())
	if err != nil {
		app.dataErrorResponse(w, r, err)
		return
	}

	app.logger.Info("book created",
		"book_id", book.ID,
		"author_id", book.Author.ID,
		"created_by", usernameFromContext(r.Context()),
	)

	headers := make(http.Header)
	headers.Set("Location", "/v1/books/"+itoa(book.ID))

	err = app.writeJSON(w, http.StatusCreated, envelope{"book": book}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showBookHandler handles GET /v1/books/:id.
// Responds 404 if no book with that ID exists.
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	book, err := app.models.Books.Get(r.Context(), id)
	if err != nil {
		app.dataErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listBooksHandler handles GET /v1/books.
// Query parameters: title, author, genre, year_from, year_to, skip, limit,
// sort_by, order. Absent criteria are not applied at all. Unknown sort_by
// and order values fall back to title and asc.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	v := validator.New()

	filter := data.DefaultBookFilter()
	filter.TitleContains = app.readString(qs, "title", "")
	filter.AuthorContains = app.readString(qs, "author", "")
	filter.SortBy = data.ParseSortColumn(app.readString(qs, "sort_by", ""))
	filter.Order = data.ParseSortOrder(app.readString(qs, "order", ""))

	if genre := app.readString(qs, "genre", ""); genre != "" {
		parsed, err := data.ParseGenre(genre)
		v.Check(err == nil, "genre", "is not a known genre")
		filter.Genre = parsed
	}

	filter.YearFrom = app.readOptionalInt(qs, "year_from", v.Errors)
	filter.YearTo = app.readOptionalInt(qs, "year_to", v.Errors)

	page := listBooksQuery{
		Skip:  app.readInt(qs, "skip", 0, v.Errors),
		Limit: app.readInt(qs, "limit", data.DefaultPageLimit, v.Errors),
	}
	v.Struct(page)
	filter.Skip, filter.Limit = page.Skip, page.Limit

	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	books, metadata, err := app.models.Books.GetAll(r.Context(), filter)
	if err != nil {
		app.dataErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"books": books, "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateBookHandler handles PATCH and PUT /v1/books/:id.
// It reads a partial JSON body and applies only the fields that are present.
// Renaming the author changes only the name shown on the book; the author
// reference stays the same. Responds 404 if the book does not exist.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var patch data.BookPatch
	err = app.readJSON(w, r, &patch)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	book, err := app.models.Books.Update(r.Context(), id, patch)
	if err != nil {
		app.dataErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteBookHandler handles DELETE /v1/books/:id.
// The book's author is left in place. Responds 404 if no book with that ID exists.
func (app *applicationDependencies) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Books.Delete(r.Context(), id)
	if err != nil {
		app.dataErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "book successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showAuthorHandler handles GET /v1/authors/:id.
func (app *applicationDependencies) showAuthorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	author, err := app.models.Authors.Get(r.Context(), id)
	if err != nil {
		app.dataErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"author": author}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// healthcheckHandler handles GET /v1/healthcheck.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment": app.config.environment,
			"version":     appVersion,
		},
	}

	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
