// Package sqlite provides an embedded, file-backed result store. It reuses
// the in-memory semantics and snapshots the full state to a single table of
// JSON blobs after every successful write.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"degcore/internal/infra/persistence/memory"
	"degcore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.ResultStore = (*Store)(nil)

const defaultPath = "degcore.db"

var sqliteBuckets = []string{"results", "failures"}

// Store persists result-store state to SQLite as JSON blobs.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore constructs a snapshotting SQLite-backed result store.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshot memory.Snapshot
	loaded := false
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan state: %w", err)
		}
		switch bucket {
		case "results":
			if err := json.Unmarshal(payload, &snapshot.Results); err != nil {
				return fmt.Errorf("decode results: %w", err)
			}
		case "failures":
			if err := json.Unmarshal(payload, &snapshot.Failures); err != nil {
				return fmt.Errorf("decode failures: %w", err)
			}
		}
		loaded = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if loaded {
		s.ImportState(snapshot)
	}
	return nil
}

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range sqliteBuckets {
		var data []byte
		switch bucket {
		case "results":
			data, err = json.Marshal(snapshot.Results)
		case "failures":
			data, err = json.Marshal(snapshot.Failures)
		}
		if err != nil {
			return fmt.Errorf("encode %s: %w", bucket, err)
		}
		if _, err := tx.Exec(`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// SaveStratumResults writes through to memory then snapshots to disk.
func (s *Store) SaveStratumResults(ctx context.Context, results domain.StratumResults) error {
	if err := s.Store.SaveStratumResults(ctx, results); err != nil {
		return err
	}
	return s.persist()
}

// SaveStratumFailure writes through to memory then snapshots to disk.
func (s *Store) SaveStratumFailure(ctx context.Context, failure domain.StratumFailure) error {
	if err := s.Store.SaveStratumFailure(ctx, failure); err != nil {
		return err
	}
	return s.persist()
}

// Path returns the backing database file path.
func (s *Store) Path() string { return s.path }

// Close flushes nothing (every write already snapshots) and closes the file.
func (s *Store) Close() error {
	return s.db.Close()
}
