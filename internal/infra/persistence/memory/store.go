// Package memory provides the reference in-memory result store. The durable
// drivers embed it and add snapshot persistence on top.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"degcore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.ResultStore = (*Store)(nil)

const (
	bucketResults  = "results"
	bucketFailures = "failures"
)

// Store keeps stratum outputs in process memory, keyed by stratum. Result
// records are write-once; failures are last-write-wins because a rerun can
// fail at a different stage.
type Store struct {
	mu       sync.RWMutex
	results  map[string]domain.StratumResults
	failures map[string]domain.StratumFailure
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{
		results:  make(map[string]domain.StratumResults),
		failures: make(map[string]domain.StratumFailure),
	}
}

// SaveStratumResults stores one stratum's derived output. A second save for
// the same stratum returns ErrAlreadyStored; cached tables are immutable.
func (s *Store) SaveStratumResults(_ context.Context, results domain.StratumResults) error {
	key := results.Stratum.Key()
	if key == "" {
		return fmt.Errorf("results missing stratum key")
	}
	cloned, err := clone(results)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[key]; ok {
		return domain.ErrAlreadyStored{Bucket: bucketResults, Key: key}
	}
	s.results[key] = cloned
	return nil
}

// SaveStratumFailure records why a stratum produced no results.
func (s *Store) SaveStratumFailure(_ context.Context, failure domain.StratumFailure) error {
	key := failure.Stratum.Key()
	if key == "" {
		return fmt.Errorf("failure missing stratum key")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[key] = failure
	return nil
}

// GetStratumResults returns the cached output for a stratum.
func (s *Store) GetStratumResults(_ context.Context, stratum domain.Stratum) (domain.StratumResults, error) {
	s.mu.RLock()
	stored, ok := s.results[stratum.Key()]
	s.mu.RUnlock()
	if !ok {
		return domain.StratumResults{}, domain.ErrNotFound{Bucket: bucketResults, Key: stratum.Key()}
	}
	return clone(stored)
}

// ListStratumResults returns all stored outputs in stratum-key order.
func (s *Store) ListStratumResults(_ context.Context) ([]domain.StratumResults, error) {
	s.mu.RLock()
	out := make([]domain.StratumResults, 0, len(s.results))
	for _, r := range s.results {
		cloned, err := clone(r)
		if err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		out = append(out, cloned)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Stratum.Key() < out[j].Stratum.Key() })
	return out, nil
}

// ListFailures returns all recorded failures in stratum-key order.
func (s *Store) ListFailures(_ context.Context) ([]domain.StratumFailure, error) {
	s.mu.RLock()
	out := make([]domain.StratumFailure, 0, len(s.failures))
	for _, f := range s.failures {
		out = append(out, f)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Stratum.Key() < out[j].Stratum.Key() })
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// Snapshot is the serializable full state used by the durable drivers.
type Snapshot struct {
	Results  []domain.StratumResults `json:"results"`
	Failures []domain.StratumFailure `json:"failures"`
}

// ExportState returns a deep copy of the full store state in stratum-key
// order.
func (s *Store) ExportState() Snapshot {
	var snap Snapshot
	results, _ := s.ListStratumResults(context.Background())
	snap.Results = results
	failures, _ := s.ListFailures(context.Background())
	snap.Failures = failures
	return snap
}

// ImportState replaces the store contents with the snapshot.
func (s *Store) ImportState(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = make(map[string]domain.StratumResults, len(snap.Results))
	for _, r := range snap.Results {
		s.results[r.Stratum.Key()] = r
	}
	s.failures = make(map[string]domain.StratumFailure, len(snap.Failures))
	for _, f := range snap.Failures {
		s.failures[f.Stratum.Key()] = f
	}
}

// clone deep-copies a results bundle through its JSON form so callers can
// never alias stored state.
func clone(r domain.StratumResults) (domain.StratumResults, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return domain.StratumResults{}, fmt.Errorf("encode results: %w", err)
	}
	var out domain.StratumResults
	if err := json.Unmarshal(data, &out); err != nil {
		return domain.StratumResults{}, fmt.Errorf("decode results: %w", err)
	}
	return out, nil
}
