// Package sqlite provides the public API for the SQLite store backend.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/gridbase/internal/sqlite"
	"github.com/mesh-intelligence/gridbase/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".gridbase-db",
//	})
//	defer backend.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}

// NewBackendWithLogger creates a new SQLite backend that logs through the
// given structured logger.
func NewBackendWithLogger(log *zap.Logger) types.Store {
	return sqlite.NewBackend(sqlite.WithLogger(log))
}
