// Package analytics turns flat lists of dated money records into the
// bucketed and ranked summaries the dashboard charts render.
//
// Every function here is a pure transformation over in-memory slices:
// no I/O, no shared state, deterministic for a given input, and safe to
// call concurrently from multiple request handlers.
package analytics

import (
	"time"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
)

type EventKind string

const (
	KindIncome  EventKind = "income"
	KindExpense EventKind = "expense"
)

// Uncategorized is the literal category that groups events recorded
// without one.
const Uncategorized = "Uncategorized"

// MoneyEvent is a single dated, amount-bearing record as seen by the
// aggregation functions. A zero OccurredOn marks a record whose date was
// missing or unparseable; such records are skipped, never an error.
type MoneyEvent struct {
	ID          int64
	Description string
	AmountCents int64
	Category    string
	OccurredOn  core.Date
	Kind        EventKind
}

// PeriodKey identifies one bucket structurally. Day is zero for monthly
// buckets. Keys compare with ==; labels are derived only at render time,
// never parsed back.
type PeriodKey struct {
	Year  int
	Month time.Month
	Day   int
}

// Bucket is one fixed calendar period with its aggregated totals.
type Bucket struct {
	Key               PeriodKey
	TotalIncomeCents  int64
	TotalExpenseCents int64
}

// Label renders the bucket key for charts: "2006-01-02" for daily
// buckets, "Jan 2006" for monthly ones.
func (b Bucket) Label() string {
	if b.Key.Day == 0 {
		return time.Date(b.Key.Year, b.Key.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
	}
	return time.Date(b.Key.Year, b.Key.Month, b.Key.Day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// CategoryTotal is the aggregated amount and share-of-whole for one
// category label.
type CategoryTotal struct {
	Category       string
	TotalCents     int64
	PercentOfWhole float64
}

type PeriodUnit int

const (
	UnitDay PeriodUnit = iota
	UnitMonth
)

// Window describes how far back a bucketed series reaches and how wide
// each bucket is.
type Window struct {
	Unit   PeriodUnit
	Length int
}

// LastDays is the window of the n most recent days, today included.
func LastDays(n int) Window { return Window{Unit: UnitDay, Length: n} }

// LastMonths is the window of the n most recent calendar months, the
// current month included.
func LastMonths(n int) Window { return Window{Unit: UnitMonth, Length: n} }

// FromIncomes adapts stored incomes to events for aggregation.
func FromIncomes(rows []core.Income) []MoneyEvent {
	out := make([]MoneyEvent, len(rows))
	for i, r := range rows {
		out[i] = MoneyEvent{
			ID:          r.ID,
			Description: r.Description,
			AmountCents: r.Amount.Cents,
			Category:    r.Category,
			OccurredOn:  r.Date,
			Kind:        KindIncome,
		}
	}
	return out
}

// FromExpenses adapts stored expenses to events for aggregation.
func FromExpenses(rows []core.Expense) []MoneyEvent {
	out := make([]MoneyEvent, len(rows))
	for i, r := range rows {
		out[i] = MoneyEvent{
			ID:          r.ID,
			Description: r.Description,
			AmountCents: r.Amount.Cents,
			Category:    r.Category,
			OccurredOn:  r.Date,
			Kind:        KindExpense,
		}
	}
	return out
}
