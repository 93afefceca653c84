// Package memory provides an in-memory TransactionAppender used by tests
// and by local runs without a configured spreadsheet.
package memory

import (
	"context"
	"fmt"
	"sync"

	sheets "github.com/sanjaii1/grow-financial-goals-sub000/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows []sheets.Row
	err  error
}

// Ensure interface conformance
var (
	_ sheets.TransactionAppender = (*Store)(nil)
	_ sheets.Pinger              = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

// FailWith makes every subsequent Append and Ping return err. Pass nil to
// restore normal behavior.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Append stores the row and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, row sheets.Row) (string, error) {
	if err := row.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []sheets.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.Row(nil), s.rows...)
}
