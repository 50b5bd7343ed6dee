package core

import (
	"fmt"
	"os"

	"degcore/internal/infra/persistence/memory"
	"degcore/pkg/domain"
)

// StorageDriver identifies a concrete result store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenResultStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	DEGCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	DEGCORE_SQLITE_PATH: path to sqlite file (default ./degcore.db)
//	DEGCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenResultStore() (domain.ResultStore, error) {
	driver := os.Getenv("DEGCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		path := os.Getenv("DEGCORE_SQLITE_PATH")
		return NewSQLiteStore(path)
	case StoragePostgres:
		dsn := os.Getenv("DEGCORE_POSTGRES_DSN")
		return NewPostgresStore(dsn)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
