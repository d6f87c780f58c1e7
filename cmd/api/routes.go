// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// routes registers all HTTP endpoints and returns the configured router wrapped
// in the middleware chain.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → requestID → logRequest → rateLimit → router
//
// Endpoints (mutations require a bearer token):
//
//	GET    /v1/healthcheck    – service status
//	GET    /v1/books          – filtered, sorted, paginated listing
//	POST   /v1/books          – create a book
//	POST   /v1/books/bulk     – import books from a JSON or CSV upload
//	GET    /v1/books/:id      – retrieve a single book by ID
//	PATCH  /v1/books/:id      – partially update a book
//	PUT    /v1/books/:id      – same as PATCH
//	DELETE /v1/books/:id      – delete a book by ID
//	GET    /v1/authors/:id    – retrieve an author
//	POST   /v1/users          – register a user
//	POST   /v1/users/login    – exchange credentials for an access token
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)

	router.HandlerFunc(http.MethodGet, "/v1/books", app.listBooksHandler)
	router.HandlerFunc(http.MethodPost, "/v1/books", app.requireAuthenticatedUser(app.createBookHandler))
	router.HandlerFunc(http.MethodPost, "/v1/books/bulk", app.requireAuthenticatedUser(app.bulkImportHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:id", app.showBookHandler)
	router.HandlerFunc(http.MethodPatch, "/v1/books/:id", app.requireAuthenticatedUser(app.updateBookHandler))
	router.HandlerFunc(http.MethodPut, "/v1/books/:id", app.requireAuthenticatedUser(app.updateBookHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/books/:id", app.requireAuthenticatedUser(app.deleteBookHandler))

	router.HandlerFunc(http.MethodGet, "/v1/authors/:id", app.showAuthorHandler)

	router.HandlerFunc(http.MethodPost, "/v1/users", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/login", app.loginHandler)

	return app.recoverPanic(app.requestID(app.logRequest(app.rateLimit(router))))
}
