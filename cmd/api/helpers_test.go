package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONIndentsWithSpaces(t *testing.T) {
	app := newTestApplication(t)

	headers := make(http.Header)
	headers.Set("Location", "/v1/books/7")

	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		require.NoError(t, app.writeJSON(rr, http.StatusCreated, envelope{"status": "ok"}, headers))
	})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "/v1/books/7", rr.Header().Get("Location"))
	assert.Equal(t, "{\n  \"status\": \"ok\"\n}\n", rr.Body.String())
}

func TestListBooksRespondsThroughMiddleware(t *testing.T) {
	h := newTestApplication(t).routes()

	res := do(t, h, httptest.NewRequest(http.MethodGet, "/v1/books", nil))

	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, []any{}, res.body["books"])
}

func TestReadJSONRejectsTrailingData(t *testing.T) {
	app := newTestApplication(t)

	tests := []struct {
		body    string
		wantErr string
	}{
		{body: `{"title": "x"}`},
		{body: "{\"title\": \"x\"}\n\t "},
		{body: `{"title": "x"}}`, wantErr: "single JSON value"},
		{body: `{"title": "x"} {}`, wantErr: "single JSON value"},
		{body: `{"title": "x"} junk`, wantErr: "single JSON value"},
		{body: ``, wantErr: "must not be empty"},
		{body: `{"title": "x", "isbn": "1"}`, wantErr: "badly-formed"},
	}

	for _, tt := range tests {
		var dst struct {
			Title string `json:"title"`
		}
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/books", strings.NewReader(tt.body))

		err := app.readJSON(rr, req, &dst)
		if tt.wantErr == "" {
			require.NoError(t, err, tt.body)
			assert.Equal(t, "x", dst.Title)
			continue
		}
		require.Error(t, err, tt.body)
		assert.Contains(t, err.Error(), tt.wantErr, tt.body)
	}
}

func TestCreateUserRejectsTrailingBrace(t *testing.T) {
	h := newTestApplication(t).routes()

	res := do(t, h, jsonRequest(http.MethodPost, "/v1/users", `{"username": "librarian", "password": "s3cret"}}`, ""))
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = do(t, h, jsonRequest(http.MethodPost, "/v1/users", `{"username": "librarian", "password": "s3cret"}`, ""))
	assert.Equal(t, http.StatusCreated, res.status)
}
