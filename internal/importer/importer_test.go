package importer

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/book-catalog/internal/data"
)

func newTestImporter(t *testing.T) (Importer, data.Models) {
	t.Helper()

	dsn, err := data.SQLiteDSN(filepath.Join(t.TempDir(), "import.db"))
	require.NoError(t, err)

	db, err := data.Open(data.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, data.Migrate(context.Background(), db))

	models, err := data.NewModels(db, nil)
	require.NoError(t, err)

	return Importer{Books: models.Books}, models
}

func TestImportSkipsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	im, models := newTestImporter(t)

	body := `[
		{"title": "Dune", "published_year": 1965, "genre": "SCIENCE", "author_name": "Frank Herbert"},
		{"title": "Future Book", "published_year": 3000, "genre": "SCIENCE", "author_name": "Someone"},
		{"title": "Emma", "published_year": 1815, "genre": "romance", "author": {"name": "Jane Austen"}}
	]`

	report, err := im.ImportReader(ctx, strings.NewReader(body), FormatJSON)
	require.NoError(t, err)

	require.Len(t, report.Created, 2)
	assert.Equal(t, "Dune", report.Created[0].Title)
	assert.Equal(t, "Emma", report.Created[1].Title)
	assert.Equal(t, "Jane Austen", report.Created[1].Author.Name)
	assert.Equal(t, data.GenreRomance, report.Created[1].Genre)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 2, report.Skipped[0].Row)
	assert.Contains(t, report.Skipped[0].Reason, "published_year")

	all, err := models.Books.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportCSV(t *testing.T) {
	ctx := context.Background()
	im, _ := newTestImporter(t)

	body := "author_name,title,genre,published_year\n" +
		"Frank Herbert,Dune,science,1965\n" +
		"Frank Herbert,Children of Dune,SCIENCE,1976\n" +
		"Nobody,,FICTION,1990\n" +
		"Somebody,Bad Year,FICTION,nineteen\n"

	report, err := im.ImportReader(ctx, strings.NewReader(body), FormatCSV)
	require.NoError(t, err)

	require.Len(t, report.Created, 2)
	assert.Equal(t, report.Created[0].Author.ID, report.Created[1].Author.ID, "author is shared")

	require.Len(t, report.Skipped, 2)
	assert.Equal(t, 3, report.Skipped[0].Row)
	assert.Contains(t, report.Skipped[0].Reason, "title")
	assert.Equal(t, 4, report.Skipped[1].Row)
	assert.Contains(t, report.Skipped[1].Reason, "must be an integer")
}

func TestImportNonObjectElementsAreSkipped(t *testing.T) {
	im, _ := newTestImporter(t)

	report, err := im.ImportReader(context.Background(), strings.NewReader(`[42, "x"]`), FormatJSON)
	require.NoError(t, err)

	assert.Empty(t, report.Created)
	assert.Len(t, report.Skipped, 2)
}

func TestImportStopsWhenContextEnds(t *testing.T) {
	im, _ := newTestImporter(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := im.Import(ctx, []Record{{"title": "Dune"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Created)
}

type failingCreator struct{ err error }

func (f failingCreator) Insert(context.Context, data.BookDraft) (*data.Book, error) {
	return nil, f.err
}

func TestImportSkipsStorageErrorsButAbortsOnOthers(t *testing.T) {
	rec := []Record{{"title": "Dune", "published_year": 1965.0, "genre": "SCIENCE", "author_name": "Frank Herbert"}}

	storage := Importer{Books: failingCreator{err: &data.StorageError{Op: "create book", Err: errors.New("disk full")}}}
	report, err := storage.Import(context.Background(), rec)
	require.NoError(t, err)
	assert.Len(t, report.Skipped, 1)

	boom := errors.New("boom")
	other := Importer{Books: failingCreator{err: boom}}
	_, err = other.Import(context.Background(), rec)
	assert.ErrorIs(t, err, boom)
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		format Format
	}{
		{name: "invalid json", body: `[{"title": `, format: FormatJSON},
		{name: "json object", body: `{"title": "Dune"}`, format: FormatJSON},
		{name: "empty csv", body: ``, format: FormatCSV},
		{name: "csv missing column", body: "title,genre,author_name\nDune,SCIENCE,Frank Herbert\n", format: FormatCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.body), tt.format)
			assert.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}

func TestDecodeCSVHeaderWithBOM(t *testing.T) {
	body := "\ufefftitle,published_year,genre,author_name\nDune,1965,SCIENCE,Frank Herbert\n"

	records, err := Decode(strings.NewReader(body), FormatCSV)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Dune", records[0]["title"])
}

func TestFormatFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        Format
		wantErr     bool
	}{
		{contentType: "application/json", want: FormatJSON},
		{contentType: "application/json; charset=utf-8", want: FormatJSON},
		{contentType: "text/csv", want: FormatCSV},
		{contentType: "application/vnd.ms-excel", want: FormatCSV},
		{contentType: "application/xml", wantErr: true},
		{contentType: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := FormatFromContentType(tt.contentType)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnsupportedFormat, tt.contentType)
			continue
		}
		require.NoError(t, err, tt.contentType)
		assert.Equal(t, tt.want, got)
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("/tmp/books.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = FormatFromPath("books.xlsx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestToDraftConvertsYearRepresentations(t *testing.T) {
	for _, raw := range []any{1965.0, "1965", " 1965 ", 1965} {
		d, err := toDraft(Record{"title": "Dune", "published_year": raw, "genre": "SCIENCE", "author_name": "Frank Herbert"})
		require.NoError(t, err)
		assert.Equal(t, 1965, d.PublishedYear)
	}

	_, err := toDraft(Record{"published_year": 1965.5})
	var valErr *data.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Errors, "published_year")

	_, err = toDraft(nil)
	require.ErrorAs(t, err, &valErr)
}
