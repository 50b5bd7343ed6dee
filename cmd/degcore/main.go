// Command degcore runs a comparative differential-expression study described
// by a YAML manifest and prints the resulting report as JSON. Storage and
// artifact backends are selected through DEGCORE_* environment variables.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"degcore/internal/adapters/ingest"
	"degcore/internal/adapters/results"
	"degcore/internal/core"
	"degcore/internal/infra/blob"
	"degcore/pkg/domain"
)

func main() {
	manifestPath := flag.String("manifest", "", "path to the study manifest (YAML)")
	export := flag.Bool("export", false, "export stratum artifacts to the configured blob store")
	parallel := flag.Int("parallel", 0, "max strata analyzed concurrently (0 uses GOMAXPROCS)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if err := run(*manifestPath, *export, *parallel, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "degcore:", err)
		os.Exit(1)
	}
}

func run(manifestPath string, export bool, parallel int, verbose bool) error {
	if manifestPath == "" {
		return fmt.Errorf("-manifest is required")
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	manifest, err := ingest.LoadManifest(manifestPath)
	if err != nil {
		return err
	}
	input, err := manifest.BuildStudyInput()
	if err != nil {
		return err
	}
	logger.Info("study loaded", "study", manifest.Study, "strata", len(input.Strata))

	store, err := core.OpenResultStore()
	if err != nil {
		return fmt.Errorf("open result store: %w", err)
	}

	opts := []core.Option{core.WithLogger(logger)}
	if parallel > 0 {
		opts = append(opts, core.WithMaxParallel(parallel))
	}
	svc := core.NewService(store, nil, opts...)
	defer func() { _ = svc.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := svc.RunStudy(ctx, input)
	if err != nil {
		return err
	}
	for _, failure := range report.Failures {
		logger.Warn("stratum failed", "stratum", failure.Stratum.Key(), "stage", failure.Stage, "reason", failure.Reason)
	}

	if export {
		if err := exportReport(ctx, svc, logger, report); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// exportReport pushes each successful stratum's artifacts through the export
// worker and waits for all of them to land in the blob store.
func exportReport(ctx context.Context, svc *core.Service, logger *slog.Logger, report domain.StudyReport) error {
	blobStore, err := blob.Open(ctx)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}
	worker := results.NewWorker(svc, blobStore, &results.MemoryAuditLog{})
	worker.Start()
	defer func() { _ = worker.Stop(context.Background()) }()

	ids := make([]string, 0, len(report.Results))
	for _, res := range report.Results {
		record, err := worker.EnqueueExport(ctx, results.ExportInput{
			Stratum:     res.Stratum,
			RequestedBy: "degcore-cli",
			Reason:      "study run export",
		})
		if err != nil {
			return err
		}
		ids = append(ids, record.ID)
	}

	for _, id := range ids {
		for {
			record, ok := worker.GetExport(id)
			if !ok {
				return fmt.Errorf("export %s vanished", id)
			}
			if record.Status == results.ExportStatusSucceeded {
				logger.Info("export complete", "stratum", record.Stratum.Key(), "artifacts", len(record.Artifacts))
				break
			}
			if record.Status == results.ExportStatusFailed {
				return fmt.Errorf("export %s: %s", record.Stratum.Key(), record.Error)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(50 * time.Millisecond):
			}
		}
	}
	return nil
}
