package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()
	return out.String(), err
}

func TestCatalogctl(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "catalog.db")
	global := []string{"--db-driver", "sqlite3", "--db-dsn", db, "--bcrypt-cost", "4"}

	out, err := run(t, "", append([]string{"migrate"}, global...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "schema is up to date")

	csvPath := filepath.Join(dir, "books.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"title,published_year,genre,author_name\n"+
			"The Hobbit,1937,FANTASY,J.R.R. Tolkien\n"+
			"The Silmarillion,1977,fantasy,J.R.R. Tolkien\n"+
			"Broken,1700,FANTASY,Nobody\n"), 0o600))

	out, err = run(t, "", append([]string{"import", csvPath}, global...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "created: 2")
	assert.Contains(t, out, "skipped: 1")
	assert.Contains(t, out, "row 3:")

	out, err = run(t, "", append([]string{"books", "--author", "tolkien", "--sort-by", "published_year", "--order", "desc", "--total"}, global...)...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[1], "The Silmarillion")
	assert.Contains(t, lines[2], "The Hobbit")
	assert.Contains(t, out, "2 of 2 matching books")

	out, err = run(t, "s3cret\n", append([]string{"useradd", "librarian"}, global...)...)
	require.NoError(t, err)
	assert.Contains(t, out, `created user "librarian"`)

	_, err = run(t, "other\n", append([]string{"useradd", "librarian"}, global...)...)
	assert.Error(t, err)
}

func TestImportRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "books.xml")
	require.NoError(t, os.WriteFile(path, []byte("<books/>"), 0o600))

	_, err := run(t, "", "import", path, "--db-driver", "sqlite3", "--db-dsn", filepath.Join(dir, "c.db"))
	assert.Error(t, err)
}

func TestBooksRejectsUnknownGenre(t *testing.T) {
	_, err := run(t, "", "books", "--genre", "poetry", "--db-driver", "sqlite3", "--db-dsn", filepath.Join(t.TempDir(), "c.db"))
	assert.Error(t, err)
}
