// Package services orchestrates storage, the event bus and the analytics
// engine on behalf of the HTTP handlers and the worker binary.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/amqp"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/metrics"
)

// LedgerStore is the storage surface the ledger service needs.
type LedgerStore interface {
	CreateIncome(ctx context.Context, in core.Income) (int64, error)
	CreateExpense(ctx context.Context, e core.Expense) (int64, error)
	DeleteIncome(ctx context.Context, id int64) error
	DeleteExpense(ctx context.Context, id int64) error
	Close() error
}

// EventPublisher pushes record events onto the broker.
type EventPublisher interface {
	PublishRecordEvent(ctx context.Context, msg *amqp.RecordEventMessage) error
	Close() error
}

// LedgerService persists incomes and expenses and announces each write on
// the event bus. The database is the source of truth: a record is saved
// even when the broker is down, and the worker's pending scan mirrors it
// later.
type LedgerService struct {
	store     LedgerStore
	publisher EventPublisher
}

func NewLedgerService(store LedgerStore, publisher EventPublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

// AddIncome validates and saves an income, then publishes a record event.
func (s *LedgerService) AddIncome(ctx context.Context, in core.Income) (core.Income, error) {
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}

	id, err := s.store.CreateIncome(ctx, in)
	if err != nil {
		return core.Income{}, fmt.Errorf("save income: %w", err)
	}
	in.ID = id
	metrics.IncRecordCreated(amqp.KindIncome)

	s.publishRecordEvent(ctx, amqp.KindIncome, id)

	return in, nil
}

// AddExpense validates and saves an expense, then publishes a record event.
func (s *LedgerService) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	id, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	e.ID = id
	metrics.IncRecordCreated(amqp.KindExpense)

	s.publishRecordEvent(ctx, amqp.KindExpense, id)

	return e, nil
}

// RemoveIncome deletes an income record.
func (s *LedgerService) RemoveIncome(ctx context.Context, id int64) error {
	if err := s.store.DeleteIncome(ctx, id); err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	metrics.IncRecordDeleted(amqp.KindIncome)
	return nil
}

// RemoveExpense deletes an expense record.
func (s *LedgerService) RemoveExpense(ctx context.Context, id int64) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	metrics.IncRecordDeleted(amqp.KindExpense)
	return nil
}

// publishRecordEvent announces a new record. Failures are logged, never
// returned: the record is already safe in the database.
func (s *LedgerService) publishRecordEvent(ctx context.Context, kind string, id int64) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping record event",
			"kind", kind, "record_id", id)
		return
	}

	msg := amqp.NewRecordEventMessage(kind, id, 1)
	if err := s.publisher.PublishRecordEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record event",
			"kind", kind, "record_id", id, "error", err)
	}
}

// Close closes both storage and broker connections.
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
