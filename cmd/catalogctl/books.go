package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/aoideee/book-catalog/internal/data"
)

func newBooksCmd(c *cli) *cobra.Command {
	var (
		filter    = data.DefaultBookFilter()
		genre     string
		sortBy    string
		order     string
		yearFrom  int
		yearTo    int
		showTotal bool
	)

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List books matching optional criteria",
		Long: `List books from the catalog. Every criterion is optional.

Examples:
  catalogctl books --author tolkien --sort-by published_year
  catalogctl books --genre science --year-from 1950 --year-to 1999 --order desc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if genre != "" {
				g, err := data.ParseGenre(genre)
				if err != nil {
					return err
				}
				filter.Genre = g
			}
			if cmd.Flags().Changed("year-from") {
				filter.YearFrom = &yearFrom
			}
			if cmd.Flags().Changed("year-to") {
				filter.YearTo = &yearTo
			}
			filter.SortBy = data.ParseSortColumn(sortBy)
			filter.Order = data.ParseSortOrder(order)

			models, err := c.models(cmd.Context())
			if err != nil {
				return err
			}

			books, metadata, err := models.Books.GetAll(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if c.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"books": books, "metadata": metadata})
			}

			printBooks(cmd.OutOrStdout(), books)
			if showTotal {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d matching books\n", len(books), metadata.TotalRecords)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&filter.TitleContains, "title", "", "Title contains (case-insensitive)")
	flags.StringVar(&filter.AuthorContains, "author", "", "Author name contains (case-insensitive)")
	flags.StringVar(&genre, "genre", "", "Genre ("+strings.ToLower(strings.Join(genreList(), "|"))+")")
	flags.IntVar(&yearFrom, "year-from", 0, "Published in or after this year")
	flags.IntVar(&yearTo, "year-to", 0, "Published in or before this year")
	flags.IntVar(&filter.Skip, "skip", 0, "Number of books to skip")
	flags.IntVar(&filter.Limit, "limit", data.DefaultPageLimit, "Maximum number of books to list")
	flags.StringVar(&sortBy, "sort-by", "title", "Sort column (title|published_year|author)")
	flags.StringVar(&order, "order", "asc", "Sort order (asc|desc)")
	flags.BoolVar(&showTotal, "total", false, "Print the total number of matching books")

	return cmd
}

func genreList() []string {
	names := make([]string, len(data.Genres))
	for i, g := range data.Genres {
		names[i] = g.String()
	}
	return names
}

func printBooks(w io.Writer, books []*data.Book) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tGENRE\tYEAR")
	for _, b := range books {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", b.ID, b.Title, b.Author.Name, b.Genre, b.PublishedYear)
	}
	tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
