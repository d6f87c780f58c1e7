package data

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // Registers the postgres dialect.
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // Registers the sqlite3 dialect.
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/aoideee/book-catalog/internal/validator"
)

const (
	booksTable        = "books"
	colID             = "id"
	colTitle          = "title"
	colPublishedYear  = "published_year"
	colGenre          = "genre"
	colAuthorName     = "author_name"
	colAuthorID       = "author_id"
	DefaultPageLimit  = 10
	likeWildcard      = "%"
	sortNameTitle     = "title"
	sortNameYear      = "published_year"
	sortNameAuthor    = "author"
	orderNameAsc      = "asc"
	orderNameDesc     = "desc"
	lowerFunctionName = "LOWER"
)

var bookColumns = []any{colID, colTitle, colPublishedYear, colGenre, colAuthorName, colAuthorID}

// SortColumn is the closed set of columns a listing may be ordered by.
type SortColumn int

const (
	SortByTitle SortColumn = iota
	SortByPublishedYear
	SortByAuthor
)

// ParseSortColumn resolves a sort_by value. Anything unrecognised falls back
// to SortByTitle.
func ParseSortColumn(s string) SortColumn {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case sortNameYear:
		return SortByPublishedYear
	case sortNameAuthor:
		return SortByAuthor
	default:
		return SortByTitle
	}
}

func (c SortColumn) String() string {
	switch c {
	case SortByPublishedYear:
		return sortNameYear
	case SortByAuthor:
		return sortNameAuthor
	default:
		return sortNameTitle
	}
}

func (c SortColumn) column() string {
	switch c {
	case SortByPublishedYear:
		return colPublishedYear
	case SortByAuthor:
		return colAuthorName
	default:
		return colTitle
	}
}

// SortOrder is the direction of a listing.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// ParseSortOrder resolves an order value. Anything other than "desc" is
// Ascending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), orderNameDesc) {
		return Descending
	}
	return Ascending
}

func (o SortOrder) String() string {
	if o == Descending {
		return orderNameDesc
	}
	return orderNameAsc
}

// BookFilter holds the optional criteria, pagination and ordering for a
// book listing. Empty strings, an empty Genre and nil years are not
// criteria at all.
type BookFilter struct {
	TitleContains  string
	AuthorContains string
	Genre          Genre
	YearFrom       *int
	YearTo         *int
	Skip           int
	Limit          int
	SortBy         SortColumn
	Order          SortOrder
}

// DefaultBookFilter returns an unfiltered first page sorted by title.
func DefaultBookFilter() BookFilter {
	return BookFilter{Limit: DefaultPageLimit}
}

// ValidateBookFilter checks the pagination values of f.
func ValidateBookFilter(v *validator.Validator, f BookFilter) {
	v.Check(f.Skip >= 0, "skip", "must be greater than or equal to 0")
	v.Check(f.Limit > 0, "limit", "must be greater than 0")
}

// predicates returns one expression per criterion that is present.
func (f BookFilter) predicates(dialect string) []exp.Expression {
	where := make([]exp.Expression, 0, 5)

	if title := strings.TrimSpace(f.TitleContains); title != "" {
		where = append(where, containsFold(dialect, colTitle, title))
	}
	if author := strings.TrimSpace(f.AuthorContains); author != "" {
		where = append(where, containsFold(dialect, colAuthorName, author))
	}
	if f.Genre != "" {
		where = append(where, goqu.C(colGenre).Eq(f.Genre.String()))
	}
	if f.YearFrom != nil {
		where = append(where, goqu.C(colPublishedYear).Gte(*f.YearFrom))
	}
	if f.YearTo != nil {
		where = append(where, goqu.C(colPublishedYear).Lte(*f.YearTo))
	}

	return where
}

// containsFold matches rows whose col contains s, ignoring case. Postgres
// folds with ILIKE; SQLite's LOWER only folds ASCII letters.
func containsFold(dialect, col, s string) exp.Expression {
	if dialect == dialectPostgres {
		return goqu.C(col).ILike(likeWildcard + s + likeWildcard)
	}
	return goqu.Func(lowerFunctionName, goqu.C(col)).
		Like(likeWildcard + strings.ToLower(s) + likeWildcard)
}

func (f BookFilter) orderExpression() exp.OrderedExpression {
	col := goqu.C(f.SortBy.column())
	if f.Order == Descending {
		return col.Desc()
	}
	return col.Asc()
}

// selectQuery builds the parameterized page query for dialect.
func (f BookFilter) selectQuery(dialect string) (string, []any, error) {
	return goqu.Dialect(dialect).
		From(booksTable).
		Prepared(true).
		Select(bookColumns...).
		Where(f.predicates(dialect)...).
		Order(f.orderExpression(), goqu.C(colID).Asc()).
		Limit(uint(f.Limit)).
		Offset(uint(f.Skip)).
		ToSQL()
}

// countQuery builds the parameterized total-count query for the same
// criteria, ignoring pagination and order.
func (f BookFilter) countQuery(dialect string) (string, []any, error) {
	return goqu.Dialect(dialect).
		From(booksTable).
		Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(f.predicates(dialect)...).
		ToSQL()
}

// Metadata contains pagination information returned alongside list responses.
type Metadata struct {
	Skip         int `json:"skip"`
	Limit        int `json:"limit"`
	TotalRecords int `json:"total_records"`
}
