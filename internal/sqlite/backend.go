package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/gridbase/pkg/types"
)

// dbFileName is the SQLite database file inside DataDir.
const dbFileName = "gridbase.db"

// Backend implements types.Store using SQLite as the storage engine.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	log      *zap.Logger
}

// Compile-time interface check.
var _ types.Store = (*Backend)(nil)

// Option configures a Backend before Attach.
type Option func(*Backend)

// WithLogger sets the structured logger. The default logger discards all
// output.
func WithLogger(log *zap.Logger) Option {
	return func(b *Backend) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach initializes the backend with the given configuration. Creates
// DataDir if it does not exist, opens (or creates) the database file, and
// applies the schema. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	// WAL keeps concurrent readers off the writers' lock; busy_timeout
	// covers short write contention instead of failing immediately.
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return fmt.Errorf("applying pragma: %w", err)
		}
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating indexes: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.attached = true

	b.log.Info("backend attached", zap.String("db_path", dbPath))
	return nil
}

// Detach releases all resources held by the backend. After Detach, all
// operations return ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
		b.db = nil
	}
	b.attached = false

	b.log.Info("backend detached")
	return nil
}

// ensureAttached verifies the backend is attached. The caller must hold
// b.mu (read or write).
func (b *Backend) ensureAttached() error {
	if !b.attached {
		return types.ErrStoreDetached
	}
	return nil
}

// newUUID generates a UUID v7 string for entity IDs.
func newUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// nowRFC3339 formats the current UTC time the way timestamps are stored.
func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// parseRFC3339 parses a stored timestamp, tolerating legacy empty values.
func parseRFC3339(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// isNoRows reports whether err is the no-rows sentinel from database/sql.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
