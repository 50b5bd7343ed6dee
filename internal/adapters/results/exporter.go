// Package results exports cached stratum outputs as immutable artifacts:
// per-contrast statistics tables, regulated gene lists, and intersection
// summaries. Exports run asynchronously on a single worker goroutine.
package results

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	blobcore "degcore/internal/infra/blob/core"
	"degcore/pkg/domain"
)

// ExportStatus describes the lifecycle stage of an export request.
type ExportStatus string

const (
	ExportStatusQueued    ExportStatus = "queued"
	ExportStatusRunning   ExportStatus = "running"
	ExportStatusSucceeded ExportStatus = "succeeded"
	ExportStatusFailed    ExportStatus = "failed"
)

// ExportArtifact captures one stored artifact of an export.
type ExportArtifact struct {
	Key         string    `json:"key"`
	Kind        string    `json:"kind"` // table|gene_set|intersections
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExportRecord tracks an export request and its resulting artifacts.
type ExportRecord struct {
	ID          string           `json:"id"`
	Stratum     domain.Stratum   `json:"stratum"`
	Status      ExportStatus     `json:"status"`
	Error       string           `json:"error,omitempty"`
	Artifacts   []ExportArtifact `json:"artifacts,omitempty"`
	RequestedBy string           `json:"requested_by"`
	Reason      string           `json:"reason,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

func (r ExportRecord) copy() ExportRecord {
	out := r
	out.Artifacts = append([]ExportArtifact(nil), r.Artifacts...)
	if r.CompletedAt != nil {
		at := *r.CompletedAt
		out.CompletedAt = &at
	}
	return out
}

// ExportInput represents an enqueue request for the worker.
type ExportInput struct {
	Stratum     domain.Stratum
	RequestedBy string
	Reason      string
}

// ResultSource supplies cached stratum outputs to the worker.
type ResultSource interface {
	GetStratumResults(ctx context.Context, stratum domain.Stratum) (domain.StratumResults, error)
}

// AuditLogger records export audit entries.
type AuditLogger interface {
	Record(ctx context.Context, entry AuditEntry)
}

// AuditEntry captures audit trail metadata for exports.
type AuditEntry struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	Actor      string         `json:"actor"`
	Stratum    domain.Stratum `json:"stratum"`
	Status     ExportStatus   `json:"status"`
	Reason     string         `json:"reason,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Worker executes result exports asynchronously.
type Worker struct {
	source ResultSource
	store  blobcore.Store
	audit  AuditLogger

	queue chan exportTask
	mu    sync.RWMutex
	jobs  map[string]*ExportRecord

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type exportTask struct {
	id    string
	input ExportInput
}

// NewWorker constructs an export worker writing through the supplied blob
// store.
func NewWorker(source ResultSource, store blobcore.Store, audit AuditLogger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		source: source,
		store:  store,
		audit:  audit,
		queue:  make(chan exportTask, 32),
		jobs:   make(map[string]*ExportRecord),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins processing export requests.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop signals the worker to halt and waits for completion.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case task := <-w.queue:
			w.process(task)
		}
	}
}

// EnqueueExport schedules an export job and returns the queued record.
func (w *Worker) EnqueueExport(ctx context.Context, input ExportInput) (ExportRecord, error) {
	if w.source == nil {
		return ExportRecord{}, fmt.Errorf("result source not configured")
	}
	if input.Stratum.Key() == "" {
		return ExportRecord{}, fmt.Errorf("stratum required")
	}

	id := newID()
	now := time.Now().UTC()
	record := ExportRecord{
		ID:          id,
		Stratum:     input.Stratum,
		Status:      ExportStatusQueued,
		RequestedBy: input.RequestedBy,
		Reason:      input.Reason,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	w.mu.Lock()
	w.jobs[id] = &record
	queued := record.copy()
	w.mu.Unlock()

	if w.audit != nil {
		w.audit.Record(ctx, AuditEntry{
			ID:         newID(),
			Action:     "results_export",
			Actor:      input.RequestedBy,
			Stratum:    input.Stratum,
			Status:     ExportStatusQueued,
			Reason:     input.Reason,
			OccurredAt: now,
		})
	}

	select {
	case w.queue <- exportTask{id: id, input: input}:
	default:
		return ExportRecord{}, fmt.Errorf("export queue full")
	}
	return queued, nil
}

// GetExport returns a snapshot of the export record.
func (w *Worker) GetExport(id string) (ExportRecord, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	record, ok := w.jobs[id]
	if !ok {
		return ExportRecord{}, false
	}
	return record.copy(), true
}

func (w *Worker) process(task exportTask) {
	w.updateStatus(task.id, ExportStatusRunning, "")

	results, err := w.source.GetStratumResults(w.ctx, task.input.Stratum)
	if err != nil {
		w.fail(task.id, task.input, fmt.Sprintf("load results: %v", err))
		return
	}

	rendered, err := renderArtifacts(results)
	if err != nil {
		w.fail(task.id, task.input, fmt.Sprintf("render artifacts: %v", err))
		return
	}

	artifacts := make([]ExportArtifact, 0, len(rendered))
	for _, art := range rendered {
		info, err := w.store.Put(w.ctx, art.key, bytes.NewReader(art.payload), blobcore.PutOptions{
			ContentType: art.contentType,
			Metadata: map[string]string{
				"stratum": results.Stratum.Key(),
				"kind":    art.kind,
			},
		})
		if err != nil {
			w.fail(task.id, task.input, fmt.Sprintf("store artifact %s: %v", art.key, err))
			return
		}
		artifacts = append(artifacts, ExportArtifact{
			Key:         info.Key,
			Kind:        art.kind,
			ContentType: art.contentType,
			SizeBytes:   info.Size,
			URL:         info.URL,
			CreatedAt:   info.LastModified,
		})
	}

	now := time.Now().UTC()
	w.mu.Lock()
	if record, ok := w.jobs[task.id]; ok {
		record.Status = ExportStatusSucceeded
		record.Artifacts = artifacts
		record.UpdatedAt = now
		record.CompletedAt = &now
	}
	w.mu.Unlock()

	if w.audit != nil {
		w.audit.Record(w.ctx, AuditEntry{
			ID:         newID(),
			Action:     "results_export",
			Actor:      task.input.RequestedBy,
			Stratum:    task.input.Stratum,
			Status:     ExportStatusSucceeded,
			OccurredAt: now,
		})
	}
}

func (w *Worker) updateStatus(id string, status ExportStatus, errMsg string) {
	w.mu.Lock()
	if record, ok := w.jobs[id]; ok {
		record.Status = status
		record.Error = errMsg
		record.UpdatedAt = time.Now().UTC()
	}
	w.mu.Unlock()
}

func (w *Worker) fail(id string, input ExportInput, reason string) {
	now := time.Now().UTC()
	w.mu.Lock()
	if record, ok := w.jobs[id]; ok {
		record.Status = ExportStatusFailed
		record.Error = reason
		record.UpdatedAt = now
		record.CompletedAt = &now
	}
	w.mu.Unlock()

	if w.audit != nil {
		w.audit.Record(w.ctx, AuditEntry{
			ID:         newID(),
			Action:     "results_export",
			Actor:      input.RequestedBy,
			Stratum:    input.Stratum,
			Status:     ExportStatusFailed,
			Reason:     reason,
			OccurredAt: now,
		})
	}
}

func newID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("exp-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

// MemoryAuditLog retains audit entries in memory; used in tests and as the
// default when no external audit sink is configured.
type MemoryAuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
}

// Record implements AuditLogger.
func (l *MemoryAuditLog) Record(_ context.Context, entry AuditEntry) {
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
}

// Entries returns a copy of the recorded entries.
func (l *MemoryAuditLog) Entries() []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
