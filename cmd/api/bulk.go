// cmd/api/bulk.go
// This file contains the bulk import handler.
package main

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/aoideee/book-catalog/internal/importer"
)

// maxUploadBytes caps bulk uploads.
const maxUploadBytes = 10 << 20

// bulkImportHandler handles POST /v1/books/bulk.
// The upload is either a multipart form with a "file" field or a raw body;
// in both cases its content type selects JSON or CSV decoding. Invalid rows
// are skipped and listed in the response, valid ones are created.
func (app *applicationDependencies) bulkImportHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	body, contentType, err := app.readUpload(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	defer body.Close()

	format, err := importer.FormatFromContentType(contentType)
	if err != nil {
		app.unsupportedMediaTypeResponse(w, r, err)
		return
	}

	records, err := importer.Decode(body, format)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	report, err := app.importer.Import(r.Context(), records)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"created": report.Created, "skipped": report.Skipped}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// readUpload returns the uploaded content and its declared content type.
func (app *applicationDependencies) readUpload(r *http.Request) (io.ReadCloser, string, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return r.Body, contentType, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", err
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", errors.New(`multipart upload must contain a "file" field`)
	}
	if err != nil {
		return nil, "", err
	}

	partType := header.Header.Get("Content-Type")
	if partType == "" || partType == "application/octet-stream" {
		if format, ferr := importer.FormatFromPath(header.Filename); ferr == nil {
			partType = format.ContentType()
		}
	}
	return file, partType, nil
}
