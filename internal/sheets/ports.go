// Package sheets defines the outbound ports for the spreadsheet mirror.
package sheets

import (
	"context"
	"errors"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
)

// Row is one ledger record in spreadsheet form. Incomes and expenses
// share the same shape; Kind tells them apart.
type Row struct {
	Kind        string
	Date        core.Date
	Description string
	Amount      core.Money
	Category    string
}

// Validate rejects rows that would produce garbage spreadsheet lines.
func (r Row) Validate() error {
	if r.Kind == "" {
		return errors.New("missing row kind")
	}
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if r.Description == "" {
		return core.ErrEmptyDescription
	}
	return r.Amount.Validate()
}

// Ports for outbound adapters.
type (
	// TransactionAppender mirrors a ledger record to the spreadsheet and
	// returns a row reference for sync bookkeeping.
	TransactionAppender interface {
		Append(ctx context.Context, row Row) (rowRef string, err error)
	}

	// Pinger checks that the spreadsheet is reachable.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)
