// Shared helpers for gridbase CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/gridbase/internal/sqlite"
	"github.com/mesh-intelligence/gridbase/pkg/types"
)

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	backend := sqlite.NewBackend(sqlite.WithLogger(newLogger()))
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// newLogger builds the CLI logger: silent by default, a development console
// logger on stderr with --verbose.
func newLogger() *zap.Logger {
	if !flagVerbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "marshal JSON:", err)
		os.Exit(exitSysError)
	}
	fmt.Println(string(out))
}

// newTabWriter returns a tabwriter targeting stdout for tabular output.
func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

// fail prints the error with a command prefix and exits. Not-found,
// validation, and duplicate-name errors are user errors; everything else is
// a system error.
func fail(prefix string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, err)
	if isUserError(err) {
		os.Exit(exitUserError)
	}
	os.Exit(exitSysError)
}

func isUserError(err error) bool {
	for _, sentinel := range []error{
		types.ErrNotFound,
		types.ErrInvalidID,
		types.ErrInvalidName,
		types.ErrDuplicateName,
		types.ErrInvalidType,
		types.ErrInvalidNumber,
		types.ErrInvalidCount,
		types.ErrInvalidReorder,
		types.ErrInvalidDirection,
		types.ErrInvalidCursor,
		types.ErrLastView,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
