package core

import "degcore/internal/infra/persistence/sqlite"

// NewSQLiteStore constructs a SQLite-backed result store using the provided
// file path (may be empty for the default).
func NewSQLiteStore(path string) (*sqlite.Store, error) {
	return sqlite.NewStore(path)
}
