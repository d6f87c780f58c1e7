// Command catalogctl is the operator CLI for the book catalog: it migrates
// the schema, imports books from local files, creates users and lists books
// straight from the database.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
