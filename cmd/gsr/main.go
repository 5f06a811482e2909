// Package main provides the gsr CLI: it infers and maintains the schema
// mapping and builds Grand Superintendent Reports from a SQLite database.
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
