package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aoideee/book-catalog/internal/importer"
)

func newImportCmd(c *cli) *cobra.Command {
	var formatName string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import books from a JSON or CSV file",
		Long: `Import books from a JSON array of objects or a CSV file with the columns
title, published_year, genre and author_name. Invalid rows are skipped and
reported; valid rows are created.

Examples:
  catalogctl import books.csv
  catalogctl import export.txt --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			format, err := importer.FormatFromPath(path)
			if formatName != "" {
				format, err = importer.ParseFormat(formatName)
			}
			if err != nil {
				return err
			}

			models, err := c.models(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			im := importer.Importer{Books: models.Books, Logger: c.logger}
			report, err := im.ImportReader(cmd.Context(), f, format)
			if err != nil {
				return err
			}

			if c.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created: %d\n", len(report.Created))
			fmt.Fprintf(out, "skipped: %d\n", len(report.Skipped))
			for _, s := range report.Skipped {
				fmt.Fprintf(out, "  row %d: %s\n", s.Row, s.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&formatName, "format", "", "Input format (json|csv); defaults to the file extension")
	return cmd
}
