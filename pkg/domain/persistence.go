package domain

import "context"

// ResultStore persists derived stratum outputs. Records are written exactly
// once; drivers must reject overwrites with ErrAlreadyStored so that cached
// tables stay immutable.
type ResultStore interface {
	// SaveStratumResults stores the complete output of one stratum run.
	SaveStratumResults(ctx context.Context, results StratumResults) error
	// SaveStratumFailure records a per-stratum failure report.
	SaveStratumFailure(ctx context.Context, failure StratumFailure) error
	// GetStratumResults returns the cached output for a stratum, or ErrNotFound.
	GetStratumResults(ctx context.Context, stratum Stratum) (StratumResults, error)
	// ListStratumResults returns all stored stratum outputs in stratum-key order.
	ListStratumResults(ctx context.Context) ([]StratumResults, error)
	// ListFailures returns all recorded failures in stratum-key order.
	ListFailures(ctx context.Context) ([]StratumFailure, error)
	// Close releases driver resources.
	Close() error
}
