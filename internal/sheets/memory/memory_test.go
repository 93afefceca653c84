package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
	sheets "github.com/sanjaii1/grow-financial-goals-sub000/internal/sheets"
)

func validRow() sheets.Row {
	return sheets.Row{
		Kind:        "expense",
		Date:        core.NewDate(2025, 1, 1),
		Description: "t",
		Amount:      core.Money{Cents: 123},
		Category:    "Food",
	}
}

func TestMemoryStoreAppend(t *testing.T) {
	s := New()

	ref, err := s.Append(context.Background(), validRow())
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}

	ref, err = s.Append(context.Background(), validRow())
	if err != nil || ref != "mem:2" {
		t.Fatalf("unexpected second append: ref=%q err=%v", ref, err)
	}

	if rows := s.Rows(); len(rows) != 2 {
		t.Fatalf("Rows() = %d rows, want 2", len(rows))
	}
}

func TestMemoryStoreRejectsInvalidRow(t *testing.T) {
	s := New()

	row := validRow()
	row.Description = ""
	if _, err := s.Append(context.Background(), row); err == nil {
		t.Fatal("expected validation error for empty description")
	}
	if len(s.Rows()) != 0 {
		t.Fatal("invalid row must not be stored")
	}
}

func TestMemoryStoreFailureInjection(t *testing.T) {
	s := New()
	boom := errors.New("boom")

	s.FailWith(boom)
	if _, err := s.Append(context.Background(), validRow()); !errors.Is(err, boom) {
		t.Fatalf("Append() error = %v, want injected failure", err)
	}
	if err := s.Ping(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Ping() error = %v, want injected failure", err)
	}

	s.FailWith(nil)
	if _, err := s.Append(context.Background(), validRow()); err != nil {
		t.Fatalf("Append() after reset error = %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() after reset error = %v", err)
	}
}
