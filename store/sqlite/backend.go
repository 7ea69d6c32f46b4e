package sqlite

import (
	"context"
	"database/sql"
	"sync"

	"github.com/mwantia/assetdesk/store"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteBackend stores records and blobs in a single SQLite database.
//
// Table `assets` keeps one row per record; its autoincrement `seq` column is the
// creation order returned by listings. Table `blobs` keeps payloads by key.
type SQLiteBackend struct {
	mu sync.RWMutex
	db *sql.DB

	path string
}

// NewSQLiteBackend creates a new SQLite-backed store.
// The dbPath can be ":memory:" for an in-memory database or a file path.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Every connection to ":memory:" is its own database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, err
	}

	backend := &SQLiteBackend{
		db:   db,
		path: dbPath,
	}

	if err := backend.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return backend, nil
}

func (sb *SQLiteBackend) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS assets (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		type TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		category TEXT NOT NULL DEFAULT '',
		folder TEXT NOT NULL DEFAULT '',
		image_ref TEXT NOT NULL,
		create_time INTEGER NOT NULL,
		modify_time INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_assets_type ON assets(type);
	CREATE INDEX IF NOT EXISTS idx_assets_folder ON assets(folder);

	CREATE TABLE IF NOT EXISTS blobs (
		key TEXT PRIMARY KEY,
		content BLOB NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		size INTEGER NOT NULL CHECK(size >= 0),
		create_time INTEGER NOT NULL
	);
	`

	_, err := sb.db.Exec(schema)
	return err
}

// Name returns the identifier name defined for this backend
func (*SQLiteBackend) Name() string {
	return "sqlite"
}

// Open verifies the database connection.
func (sb *SQLiteBackend) Open(ctx context.Context) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	return sb.db.PingContext(ctx)
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (sb *SQLiteBackend) Close(ctx context.Context) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	return sb.db.Close()
}

// Health returns the cheapest possible liveness check.
func (sb *SQLiteBackend) Health() bool {
	return sb.db.Ping() == nil
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (sb *SQLiteBackend) GetCapabilities() *store.Capabilities {
	capabilities := []store.Capability{
		store.CapabilityRecords,
		store.CapabilityBlobs,
	}
	if sb.path != ":memory:" {
		capabilities = append(capabilities, store.CapabilityDurable)
	}

	return &store.Capabilities{
		Capabilities: capabilities,
	}
}
