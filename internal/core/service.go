package core

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"degcore/pkg/domain"
)

// Service runs comparative differential-expression studies and mediates
// access to cached stratum results.
type Service struct {
	store   domain.ResultStore
	engine  *RulesEngine
	logger  Logger
	clock   Clock
	metrics MetricsRecorder
	tracer  Tracer
	// maxParallel bounds concurrent stratum pipelines.
	maxParallel int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger overrides the default no-op logger.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for report timestamps.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMetrics attaches a metrics recorder to service operations.
func WithMetrics(metrics MetricsRecorder) Option {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithTracer attaches a tracer to service operations.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMaxParallel bounds the number of strata analyzed concurrently.
// Values below one restore the default.
func WithMaxParallel(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxParallel = n
		}
	}
}

// NewService constructs a service backed by the supplied result store and
// rules engine. A nil engine gets the default policy set.
func NewService(store domain.ResultStore, engine *RulesEngine, opts ...Option) *Service {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	s := &Service{
		store:       store,
		engine:      engine,
		logger:      noopLogger{},
		clock:       systemClock{},
		metrics:     noopMetrics{},
		tracer:      noopTracer{},
		maxParallel: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying result store.
func (s *Service) Store() domain.ResultStore {
	return s.store
}

// run wraps one service operation with tracing, metrics, and logging.
func (s *Service) run(ctx context.Context, operation string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, operation)
	started := s.clock.Now()
	err := fn(ctx)
	duration := s.clock.Now().Sub(started)
	span.End(err)
	s.metrics.Observe(ctx, operation, err == nil, duration)
	if err != nil {
		s.logger.Error("operation failed", "operation", operation, "error", err.Error(), "duration", duration.String())
		return err
	}
	s.logger.Info("operation complete", "operation", operation, "duration", duration.String())
	return nil
}

// RunStudy analyzes every stratum of the input independently and assembles
// the comparative report. Statistical failures are isolated per stratum;
// RunStudy itself errs only on invalid requests, persistence faults, or
// context cancellation.
func (s *Service) RunStudy(ctx context.Context, input StudyInput) (domain.StudyReport, error) {
	var report domain.StudyReport
	err := s.run(ctx, "run_study", func(ctx context.Context) error {
		if len(input.Strata) == 0 {
			return fmt.Errorf("study has no strata")
		}
		seen := make(map[string]struct{}, len(input.Strata))
		for _, st := range input.Strata {
			key := st.Stratum.Key()
			if key == "" {
				return fmt.Errorf("stratum with empty region")
			}
			if _, dup := seen[key]; dup {
				return fmt.Errorf("duplicate stratum %s", key)
			}
			seen[key] = struct{}{}
		}
		for _, c := range input.contrasts() {
			if err := c.Validate(); err != nil {
				return err
			}
		}

		outcomes := make([]stratumOutcome, len(input.Strata))
		grp, grpCtx := errgroup.WithContext(ctx)
		grp.SetLimit(s.maxParallel)
		for i, stratum := range input.Strata {
			grp.Go(func() error {
				if err := grpCtx.Err(); err != nil {
					return err
				}
				outcomes[i] = s.runStratum(grpCtx, stratum, input)
				return nil
			})
		}
		if err := grp.Wait(); err != nil {
			return err
		}

		assembled, err := s.persistOutcomes(ctx, outcomes)
		if err != nil {
			return err
		}
		report = assembled
		return nil
	})
	return report, err
}

// persistOutcomes saves each stratum outcome and folds them into a report
// ordered by stratum key.
func (s *Service) persistOutcomes(ctx context.Context, outcomes []stratumOutcome) (domain.StudyReport, error) {
	var report domain.StudyReport
	for _, out := range outcomes {
		switch {
		case out.results != nil:
			if err := s.store.SaveStratumResults(ctx, *out.results); err != nil {
				return domain.StudyReport{}, err
			}
			report.Results = append(report.Results, *out.results)
		case out.failure != nil:
			if err := s.store.SaveStratumFailure(ctx, *out.failure); err != nil {
				return domain.StudyReport{}, err
			}
			report.Failures = append(report.Failures, *out.failure)
		}
		report.Skipped = append(report.Skipped, out.skipped...)
	}
	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Stratum.Key() < report.Results[j].Stratum.Key()
	})
	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].Stratum.Key() < report.Failures[j].Stratum.Key()
	})
	sort.Slice(report.Skipped, func(i, j int) bool {
		if report.Skipped[i].Stratum.Key() != report.Skipped[j].Stratum.Key() {
			return report.Skipped[i].Stratum.Key() < report.Skipped[j].Stratum.Key()
		}
		return report.Skipped[i].Pairing.Key() < report.Skipped[j].Pairing.Key()
	})
	return report, nil
}

// GetStratumResults returns the cached output of a previously analyzed
// stratum.
func (s *Service) GetStratumResults(ctx context.Context, stratum domain.Stratum) (domain.StratumResults, error) {
	var results domain.StratumResults
	err := s.run(ctx, "get_stratum_results", func(ctx context.Context) error {
		var err error
		results, err = s.store.GetStratumResults(ctx, stratum)
		return err
	})
	return results, err
}

// ListStratumResults returns all cached stratum outputs.
func (s *Service) ListStratumResults(ctx context.Context) ([]domain.StratumResults, error) {
	var results []domain.StratumResults
	err := s.run(ctx, "list_stratum_results", func(ctx context.Context) error {
		var err error
		results, err = s.store.ListStratumResults(ctx)
		return err
	})
	return results, err
}

// ListFailures returns all recorded stratum failures.
func (s *Service) ListFailures(ctx context.Context) ([]domain.StratumFailure, error) {
	var failures []domain.StratumFailure
	err := s.run(ctx, "list_failures", func(ctx context.Context) error {
		var err error
		failures, err = s.store.ListFailures(ctx)
		return err
	})
	return failures, err
}

// Close releases the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}
