// Package worker mirrors saved ledger records to the spreadsheet backup.
// It is driven two ways: record events consumed from the queue, and a
// periodic scan that picks up rows whose events were lost.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/amqp"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/metrics"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/sheets"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/storage"
)

// Store is the storage surface the sync worker needs.
type Store interface {
	GetIncome(ctx context.Context, id int64) (core.Income, error)
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	PendingSyncRecords(ctx context.Context, limit int) ([]storage.PendingSyncRecord, error)
	MarkSynced(ctx context.Context, kind storage.RecordKind, id int64, sheetsRef string) error
	MarkSyncError(ctx context.Context, kind storage.RecordKind, id int64, reason string) error
}

// SyncWorker pushes ledger records to the spreadsheet mirror and keeps
// the per-record sync state in the database current.
type SyncWorker struct {
	store        Store
	sheet        sheets.TransactionAppender
	batchSize    int
	pollInterval time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewSyncWorker(store Store, sheet sheets.TransactionAppender, batchSize int, pollInterval time.Duration) *SyncWorker {
	return &SyncWorker{
		store:        store,
		sheet:        sheet,
		batchSize:    batchSize,
		pollInterval: pollInterval,
	}
}

// HandleRecordEvent processes a single record event from the queue. The
// record is re-read from the database so a stale event never mirrors
// outdated data.
func (w *SyncWorker) HandleRecordEvent(ctx context.Context, msg *amqp.RecordEventMessage) error {
	slog.InfoContext(ctx, "Processing record event",
		"event_id", msg.EventID,
		"kind", msg.Kind,
		"record_id", msg.RecordID)

	return w.syncRecord(ctx, storage.RecordKind(msg.Kind), msg.RecordID)
}

// ProcessPendingRecords mirrors one batch of records that are saved but
// not yet synced. This is the backup path for lost queue messages.
func (w *SyncWorker) ProcessPendingRecords(ctx context.Context) error {
	pending, err := w.store.PendingSyncRecords(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending records: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending records", "count", len(pending))

	for _, rec := range pending {
		if err := w.syncRecord(ctx, rec.Kind, rec.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending record",
				"kind", rec.Kind, "id", rec.ID, "error", err)
		}
	}

	return nil
}

// StartupSyncCheck drains records left unsynced by downtime or missed
// events. It uses a larger batch than the periodic scan.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.store.PendingSyncRecords(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending records for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending records found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending records on startup, processing...",
		"count", len(pending))

	synced := 0
	failed := 0
	for _, rec := range pending {
		if err := w.syncRecord(ctx, rec.Kind, rec.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync record during startup",
				"kind", rec.Kind, "id", rec.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)

	return nil
}

// Start begins the periodic pending-records scan. Returns an error if
// the worker is already running.
func (w *SyncWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("sync worker is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.runLoop(ctx)

	slog.InfoContext(ctx, "Sync worker started",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize)

	return nil
}

// Stop signals the scan loop and waits for it to finish or for ctx to
// expire.
func (w *SyncWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)

	select {
	case <-w.doneCh:
		slog.InfoContext(ctx, "Sync worker stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Sync worker stop timed out")
		return ctx.Err()
	}

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	return nil
}

// IsRunning reports whether the periodic scan is active.
func (w *SyncWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *SyncWorker) runLoop(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Scan immediately so a restart does not wait a full interval.
	if err := w.ProcessPendingRecords(ctx); err != nil {
		slog.ErrorContext(ctx, "Pending records scan failed", "error", err)
	}

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.ProcessPendingRecords(ctx); err != nil {
				slog.ErrorContext(ctx, "Pending records scan failed", "error", err)
			}
		}
	}
}

// syncRecord loads one record, appends it to the spreadsheet and records
// the outcome on the row.
func (w *SyncWorker) syncRecord(ctx context.Context, kind storage.RecordKind, id int64) error {
	row, err := w.loadRow(ctx, kind, id)
	if err != nil {
		w.markError(ctx, kind, id, err)
		return fmt.Errorf("load %s %d: %w", kind, id, err)
	}

	ref, err := w.sheet.Append(ctx, row)
	if err != nil {
		metrics.IncSheetsSync(metrics.ResultError)
		w.markError(ctx, kind, id, err)
		return fmt.Errorf("append to sheets: %w", err)
	}
	metrics.IncSheetsSync(metrics.ResultSuccess)

	// The append succeeded; a bookkeeping failure must not requeue it.
	if err := w.store.MarkSynced(ctx, kind, id, ref); err != nil {
		slog.ErrorContext(ctx, "Failed to mark record as synced",
			"kind", kind, "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Synced record to spreadsheet",
		"kind", kind,
		"id", id,
		"sheets_ref", ref)

	return nil
}

func (w *SyncWorker) loadRow(ctx context.Context, kind storage.RecordKind, id int64) (sheets.Row, error) {
	switch kind {
	case storage.RecordIncome:
		income, err := w.store.GetIncome(ctx, id)
		if err != nil {
			return sheets.Row{}, err
		}
		return sheets.Row{
			Kind:        string(kind),
			Date:        income.Date,
			Description: income.Description,
			Amount:      income.Amount,
			Category:    income.Category,
		}, nil
	case storage.RecordExpense:
		expense, err := w.store.GetExpense(ctx, id)
		if err != nil {
			return sheets.Row{}, err
		}
		return sheets.Row{
			Kind:        string(kind),
			Date:        expense.Date,
			Description: expense.Description,
			Amount:      expense.Amount,
			Category:    expense.Category,
		}, nil
	default:
		return sheets.Row{}, fmt.Errorf("unknown record kind %q", kind)
	}
}

func (w *SyncWorker) markError(ctx context.Context, kind storage.RecordKind, id int64, cause error) {
	if err := w.store.MarkSyncError(ctx, kind, id, cause.Error()); err != nil {
		slog.ErrorContext(ctx, "Failed to mark sync error",
			"kind", kind, "id", id, "error", err)
	}
}
