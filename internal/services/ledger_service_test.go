package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/amqp"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
)

type fakeLedgerStore struct {
	nextID   int64
	incomes  []core.Income
	expenses []core.Expense
	deleted  []int64
	failWith error
	closed   bool
	closeErr error
}

func (f *fakeLedgerStore) CreateIncome(_ context.Context, in core.Income) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.nextID++
	in.ID = f.nextID
	f.incomes = append(f.incomes, in)
	return f.nextID, nil
}

func (f *fakeLedgerStore) CreateExpense(_ context.Context, e core.Expense) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.nextID++
	e.ID = f.nextID
	f.expenses = append(f.expenses, e)
	return f.nextID, nil
}

func (f *fakeLedgerStore) DeleteIncome(_ context.Context, id int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeLedgerStore) DeleteExpense(_ context.Context, id int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeLedgerStore) Close() error {
	f.closed = true
	return f.closeErr
}

type fakePublisher struct {
	published []*amqp.RecordEventMessage
	failWith  error
	closed    bool
}

func (f *fakePublisher) PublishRecordEvent(_ context.Context, msg *amqp.RecordEventMessage) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.published = append(f.published, msg)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func validIncome() core.Income {
	return core.Income{
		Date:        core.NewDate(2025, 1, 15),
		Description: "Salary",
		Amount:      core.Money{Cents: 250000},
		Category:    "Job",
	}
}

func validExpense() core.Expense {
	return core.Expense{
		Date:        core.NewDate(2025, 1, 16),
		Description: "Groceries",
		Amount:      core.Money{Cents: 4250},
		Category:    "Food",
	}
}

func TestLedgerServiceAddIncome(t *testing.T) {
	store := &fakeLedgerStore{}
	pub := &fakePublisher{}
	svc := NewLedgerService(store, pub)

	saved, err := svc.AddIncome(context.Background(), validIncome())
	if err != nil {
		t.Fatalf("AddIncome() error = %v", err)
	}
	if saved.ID != 1 {
		t.Errorf("AddIncome() ID = %d, want 1", saved.ID)
	}
	if len(store.incomes) != 1 {
		t.Fatalf("store has %d incomes, want 1", len(store.incomes))
	}
	if len(pub.published) != 1 {
		t.Fatalf("publisher got %d events, want 1", len(pub.published))
	}

	event := pub.published[0]
	if event.Kind != amqp.KindIncome {
		t.Errorf("event kind = %q, want %q", event.Kind, amqp.KindIncome)
	}
	if event.RecordID != saved.ID {
		t.Errorf("event record id = %d, want %d", event.RecordID, saved.ID)
	}
	if event.Version != 1 {
		t.Errorf("event version = %d, want 1", event.Version)
	}
	if event.EventID == "" {
		t.Error("event id should not be empty")
	}
}

func TestLedgerServiceAddExpense(t *testing.T) {
	store := &fakeLedgerStore{}
	pub := &fakePublisher{}
	svc := NewLedgerService(store, pub)

	saved, err := svc.AddExpense(context.Background(), validExpense())
	if err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}
	if saved.ID != 1 {
		t.Errorf("AddExpense() ID = %d, want 1", saved.ID)
	}
	if len(pub.published) != 1 || pub.published[0].Kind != amqp.KindExpense {
		t.Fatalf("publisher events = %+v, want one expense event", pub.published)
	}
}

func TestLedgerServiceRejectsInvalidRecords(t *testing.T) {
	store := &fakeLedgerStore{}
	pub := &fakePublisher{}
	svc := NewLedgerService(store, pub)

	income := validIncome()
	income.Date = core.Date{}
	if _, err := svc.AddIncome(context.Background(), income); !errors.Is(err, core.ErrInvalidDate) {
		t.Errorf("AddIncome() error = %v, want ErrInvalidDate", err)
	}

	expense := validExpense()
	expense.Amount = core.Money{Cents: 0}
	if _, err := svc.AddExpense(context.Background(), expense); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("AddExpense() error = %v, want ErrInvalidAmount", err)
	}

	if len(store.incomes)+len(store.expenses) != 0 {
		t.Error("invalid records must not reach the store")
	}
	if len(pub.published) != 0 {
		t.Error("invalid records must not publish events")
	}
}

func TestLedgerServicePublishFailureDoesNotFailRequest(t *testing.T) {
	store := &fakeLedgerStore{}
	pub := &fakePublisher{failWith: errors.New("broker down")}
	svc := NewLedgerService(store, pub)

	saved, err := svc.AddIncome(context.Background(), validIncome())
	if err != nil {
		t.Fatalf("AddIncome() error = %v, want success despite publish failure", err)
	}
	if saved.ID != 1 {
		t.Errorf("AddIncome() ID = %d, want 1", saved.ID)
	}
	if len(store.incomes) != 1 {
		t.Error("record must be saved even when publishing fails")
	}
}

func TestLedgerServiceWithoutPublisher(t *testing.T) {
	store := &fakeLedgerStore{}
	svc := NewLedgerService(store, nil)

	if _, err := svc.AddExpense(context.Background(), validExpense()); err != nil {
		t.Fatalf("AddExpense() error = %v, want success without a publisher", err)
	}
}

func TestLedgerServiceStoreFailure(t *testing.T) {
	store := &fakeLedgerStore{failWith: errors.New("disk full")}
	pub := &fakePublisher{}
	svc := NewLedgerService(store, pub)

	if _, err := svc.AddIncome(context.Background(), validIncome()); err == nil {
		t.Fatal("AddIncome() error = nil, want store failure")
	}
	if len(pub.published) != 0 {
		t.Error("no event may be published when the save fails")
	}
}

func TestLedgerServiceRemove(t *testing.T) {
	store := &fakeLedgerStore{}
	svc := NewLedgerService(store, nil)

	if err := svc.RemoveIncome(context.Background(), 7); err != nil {
		t.Fatalf("RemoveIncome() error = %v", err)
	}
	if err := svc.RemoveExpense(context.Background(), 9); err != nil {
		t.Fatalf("RemoveExpense() error = %v", err)
	}
	if len(store.deleted) != 2 || store.deleted[0] != 7 || store.deleted[1] != 9 {
		t.Errorf("deleted ids = %v, want [7 9]", store.deleted)
	}
}

func TestLedgerServiceClose(t *testing.T) {
	t.Run("nil components", func(t *testing.T) {
		svc := &LedgerService{}
		if err := svc.Close(); err != nil {
			t.Fatalf("Close() error = %v, want nil with nil components", err)
		}
	})

	t.Run("closes store and publisher", func(t *testing.T) {
		store := &fakeLedgerStore{}
		pub := &fakePublisher{}
		svc := NewLedgerService(store, pub)

		if err := svc.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if !store.closed || !pub.closed {
			t.Error("Close() must close both store and publisher")
		}
	})

	t.Run("reports store close failure", func(t *testing.T) {
		store := &fakeLedgerStore{closeErr: errors.New("busy")}
		svc := NewLedgerService(store, nil)

		if err := svc.Close(); err == nil {
			t.Fatal("Close() error = nil, want store close failure")
		}
	})
}
