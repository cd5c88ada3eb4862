// Package main provides the gridbase CLI: a view-driven row query engine
// over workspaces, bases, and tables backed by SQLite.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
