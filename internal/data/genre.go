package data

import (
	"fmt"
	"strings"
)

// Genre is one of the fixed catalog genres. The canonical form is upper case.
type Genre string

const (
	GenreFiction       Genre = "FICTION"
	GenreNonfiction    Genre = "NONFICTION"
	GenreScience       Genre = "SCIENCE"
	GenreHistory       Genre = "HISTORY"
	GenreFantasy       Genre = "FANTASY"
	GenreRomance       Genre = "ROMANCE"
	GenreAutobiography Genre = "AUTOBIOGRAPHY"
)

// Genres lists every accepted genre in display order.
var Genres = []Genre{
	GenreFiction,
	GenreNonfiction,
	GenreScience,
	GenreHistory,
	GenreFantasy,
	GenreRomance,
	GenreAutobiography,
}

// ParseGenre accepts any casing and surrounding whitespace and returns the
// canonical Genre.
func ParseGenre(s string) (Genre, error) {
	g := Genre(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Genres {
		if g == known {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown genre %q", s)
}

func (g Genre) String() string { return string(g) }

// genreNames is used for validation messages and the schema CHECK constraint.
func genreNames() []string {
	names := make([]string, len(Genres))
	for i, g := range Genres {
		names[i] = string(g)
	}
	return names
}
