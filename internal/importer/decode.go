package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Format is the declared shape of an upload.
type Format int

const (
	FormatJSON Format = iota + 1
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	default:
		return "unknown"
	}
}

// ContentType is the canonical media type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

var (
	// ErrUnsupportedFormat is returned for content types or file extensions
	// that are neither JSON nor CSV.
	ErrUnsupportedFormat = errors.New("unsupported import format")

	// ErrMalformedInput is returned when the input cannot be read as its
	// declared format at all.
	ErrMalformedInput = errors.New("malformed import input")
)

// CSVHeader is the column contract for CSV uploads. Columns may appear in any
// order; extra columns are ignored.
var CSVHeader = []string{"title", "published_year", "genre", "author_name"}

// Record is one raw upload row, keyed by field name.
type Record map[string]any

// ParseFormat resolves a format name such as "json" or "csv".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatFromContentType maps an upload's media type onto a Format.
func FormatFromContentType(contentType string) (Format, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, contentType)
	}

	switch mediaType {
	case "application/json":
		return FormatJSON, nil
	case "text/csv", "application/vnd.ms-excel":
		return FormatCSV, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, mediaType)
	}
}

// FormatFromPath picks a Format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Decode reads every record from r in the given format.
func Decode(r io.Reader, format Format) ([]Record, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(r)
	case FormatCSV:
		return decodeCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// decodeJSON expects a top-level array. Elements that are not objects are
// kept as nil records so they are skipped like any other invalid row.
func decodeJSON(r io.Reader) ([]Record, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !jsoniter.ConfigFastest.Valid(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedInput)
	}

	var items []any
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: expected an array of objects", ErrMalformedInput)
	}

	records := make([]Record, len(items))
	for i, item := range items {
		if obj, ok := item.(map[string]any); ok {
			records[i] = obj
		}
	}
	return records, nil
}

func decodeCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing CSV header", ErrMalformedInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, want := range CSVHeader {
		if _, ok := index[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: CSV header is missing %s", ErrMalformedInput, strings.Join(missing, ", "))
	}

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}

		rec := make(Record, len(CSVHeader))
		for _, col := range CSVHeader {
			if i := index[col]; i < len(row) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
