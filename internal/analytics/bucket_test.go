package analytics

import (
	"reflect"
	"testing"
	"time"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
)

func income(cents int64, d core.Date) MoneyEvent {
	return MoneyEvent{AmountCents: cents, OccurredOn: d, Kind: KindIncome}
}

func expense(cents int64, d core.Date, cat string) MoneyEvent {
	return MoneyEvent{AmountCents: cents, OccurredOn: d, Category: cat, Kind: KindExpense}
}

func TestBucketByPeriodMonthlyWindow(t *testing.T) {
	ref := core.NewDate(2025, 1, 31)
	got := BucketByPeriod(nil, nil, LastMonths(12), ref)

	if len(got) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(got))
	}
	want := []PeriodKey{
		{2024, time.February, 0}, {2024, time.March, 0}, {2024, time.April, 0},
		{2024, time.May, 0}, {2024, time.June, 0}, {2024, time.July, 0},
		{2024, time.August, 0}, {2024, time.September, 0}, {2024, time.October, 0},
		{2024, time.November, 0}, {2024, time.December, 0}, {2025, time.January, 0},
	}
	for i, b := range got {
		if b.Key != want[i] {
			t.Fatalf("bucket %d expected key %v, got %v", i, want[i], b.Key)
		}
		if b.TotalIncomeCents != 0 || b.TotalExpenseCents != 0 {
			t.Fatalf("bucket %d expected zero totals, got %+v", i, b)
		}
	}
}

func TestBucketByPeriodMonthlyScenario(t *testing.T) {
	incomes := []MoneyEvent{income(1000, core.NewDate(2025, 1, 15))}
	expenses := []MoneyEvent{expense(400, core.NewDate(2025, 1, 20), "Food")}

	got := BucketByPeriod(incomes, expenses, LastMonths(12), core.NewDate(2025, 1, 31))
	if len(got) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(got))
	}
	last := got[len(got)-1]
	if last.Key != (PeriodKey{2025, time.January, 0}) {
		t.Fatalf("expected Jan 2025 last, got %v", last.Key)
	}
	if last.TotalIncomeCents != 1000 || last.TotalExpenseCents != 400 {
		t.Fatalf("expected 1000/400, got %d/%d", last.TotalIncomeCents, last.TotalExpenseCents)
	}
	for i, b := range got[:len(got)-1] {
		if b.TotalIncomeCents != 0 || b.TotalExpenseCents != 0 {
			t.Fatalf("bucket %d expected zero totals, got %+v", i, b)
		}
	}
}

func TestBucketByPeriodDailyWindows(t *testing.T) {
	ref := core.NewDate(2025, 3, 2)

	got := BucketByPeriod(nil, nil, LastDays(7), ref)
	if len(got) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(got))
	}
	// Crosses the February boundary.
	if got[0].Key != (PeriodKey{2025, time.February, 24}) {
		t.Fatalf("expected window to start 2025-02-24, got %v", got[0].Key)
	}
	if got[6].Key != (PeriodKey{2025, time.March, 2}) {
		t.Fatalf("expected window to end 2025-03-02, got %v", got[6].Key)
	}

	if got := BucketByPeriod(nil, nil, LastDays(30), ref); len(got) != 30 {
		t.Fatalf("expected 30 buckets, got %d", len(got))
	}
}

func TestBucketByPeriodDailyFold(t *testing.T) {
	ref := core.NewDate(2025, 3, 10)
	incomes := []MoneyEvent{
		income(500, core.NewDate(2025, 3, 4)),
		income(250, core.NewDate(2025, 3, 10)),
		income(999, core.NewDate(2025, 3, 3)), // day before the window
	}
	expenses := []MoneyEvent{
		expense(120, core.NewDate(2025, 3, 4), ""),
	}

	got := BucketByPeriod(incomes, expenses, LastDays(7), ref)
	if got[0].TotalIncomeCents != 500 || got[0].TotalExpenseCents != 120 {
		t.Fatalf("first bucket expected 500/120, got %+v", got[0])
	}
	if got[6].TotalIncomeCents != 250 {
		t.Fatalf("last bucket expected income 250, got %+v", got[6])
	}
	var sum int64
	for _, b := range got {
		sum += b.TotalIncomeCents
	}
	if sum != 750 {
		t.Fatalf("expected out-of-window income dropped, got sum %d", sum)
	}
}

func TestBucketByPeriodSkipsMissingDates(t *testing.T) {
	incomes := []MoneyEvent{
		income(1000, core.NewDate(2025, 1, 15)),
		income(777, core.Date{}), // missing date, skipped
	}
	got := BucketByPeriod(incomes, nil, LastMonths(12), core.NewDate(2025, 1, 31))
	var sum int64
	for _, b := range got {
		sum += b.TotalIncomeCents
	}
	if sum != 1000 {
		t.Fatalf("expected dateless event skipped, got sum %d", sum)
	}
}

func TestBucketByPeriodSumInvariant(t *testing.T) {
	ref := core.NewDate(2025, 6, 30)
	incomes := []MoneyEvent{
		income(100, core.NewDate(2025, 6, 1)),
		income(200, core.NewDate(2025, 3, 15)),
		income(300, core.NewDate(2024, 7, 10)),
	}
	var total int64
	for _, ev := range incomes {
		total += ev.AmountCents
	}

	got := BucketByPeriod(incomes, nil, LastMonths(12), ref)
	var sum int64
	for _, b := range got {
		sum += b.TotalIncomeCents
	}
	if sum > total {
		t.Fatalf("bucket sum %d exceeds input total %d", sum, total)
	}
	// All three dates fall inside the 12-month window, so equality holds.
	if sum != total {
		t.Fatalf("expected equality for fully in-window input, got %d != %d", sum, total)
	}
}

func TestBucketByPeriodIdempotent(t *testing.T) {
	incomes := []MoneyEvent{income(1500, core.NewDate(2025, 2, 10))}
	expenses := []MoneyEvent{expense(900, core.NewDate(2025, 2, 11), "Rent")}
	ref := core.NewDate(2025, 2, 28)

	a := BucketByPeriod(incomes, expenses, LastMonths(12), ref)
	b := BucketByPeriod(incomes, expenses, LastMonths(12), ref)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical outputs, got %v vs %v", a, b)
	}
}

func TestBucketByPeriodZeroWindow(t *testing.T) {
	if got := BucketByPeriod(nil, nil, Window{Unit: UnitMonth}, core.NewDate(2025, 1, 1)); got != nil {
		t.Fatalf("expected nil for empty window, got %v", got)
	}
}

func TestBucketLabel(t *testing.T) {
	cases := []struct {
		b    Bucket
		want string
	}{
		{Bucket{Key: PeriodKey{2025, time.January, 0}}, "Jan 2025"},
		{Bucket{Key: PeriodKey{2024, time.December, 0}}, "Dec 2024"},
		{Bucket{Key: PeriodKey{2025, time.January, 2}}, "2025-01-02"},
		{Bucket{Key: PeriodKey{2025, time.November, 30}}, "2025-11-30"},
	}
	for i, tc := range cases {
		if got := tc.b.Label(); got != tc.want {
			t.Fatalf("case %d expected %q, got %q", i, tc.want, got)
		}
	}
}
