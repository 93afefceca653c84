package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/analytics"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
)

type fakeDashboardStore struct {
	incomes  []core.Income
	expenses []core.Expense
	overview core.MonthOverview
	failWith error

	rangeCalls  int
	recentCalls int
}

func (f *fakeDashboardStore) ListIncomesByRange(_ context.Context, from, to core.Date) ([]core.Income, error) {
	f.rangeCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []core.Income
	for _, in := range f.incomes {
		if !in.Date.Before(from.Time) && !in.Date.After(to.Time) {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeDashboardStore) ListExpensesByRange(_ context.Context, from, to core.Date) ([]core.Expense, error) {
	f.rangeCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []core.Expense
	for _, e := range f.expenses {
		if !e.Date.Before(from.Time) && !e.Date.After(to.Time) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeDashboardStore) ListRecentIncomes(_ context.Context, limit int) ([]core.Income, error) {
	f.recentCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	if limit > len(f.incomes) {
		limit = len(f.incomes)
	}
	return f.incomes[:limit], nil
}

func (f *fakeDashboardStore) ListRecentExpenses(_ context.Context, limit int) ([]core.Expense, error) {
	f.recentCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	if limit > len(f.expenses) {
		limit = len(f.expenses)
	}
	return f.expenses[:limit], nil
}

func (f *fakeDashboardStore) ReadMonthOverview(_ context.Context, year, month int) (core.MonthOverview, error) {
	if f.failWith != nil {
		return core.MonthOverview{}, f.failWith
	}
	return f.overview, nil
}

func newDashboardFixture() *fakeDashboardStore {
	return &fakeDashboardStore{
		incomes: []core.Income{
			{ID: 1, Date: core.NewDate(2025, 1, 15), Description: "Salary", Amount: core.Money{Cents: 250000}, Category: "Job"},
			{ID: 2, Date: core.NewDate(2024, 12, 28), Description: "Refund", Amount: core.Money{Cents: 3000}},
		},
		expenses: []core.Expense{
			{ID: 1, Date: core.NewDate(2025, 1, 16), Description: "Groceries", Amount: core.Money{Cents: 12000}, Category: "Food"},
			{ID: 2, Date: core.NewDate(2025, 1, 10), Description: "Train", Amount: core.Money{Cents: 6000}, Category: "Travel"},
			{ID: 3, Date: core.NewDate(2024, 12, 30), Description: "Cinema", Amount: core.Money{Cents: 2000}},
		},
	}
}

func TestDashboardServiceTrend(t *testing.T) {
	store := newDashboardFixture()
	svc := NewDashboardService(store, 16, time.Minute)

	ref := core.NewDate(2025, 1, 20)
	buckets, err := svc.Trend(context.Background(), analytics.LastMonths(12), ref)
	if err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	if len(buckets) != 12 {
		t.Fatalf("Trend() returned %d buckets, want 12", len(buckets))
	}

	first := buckets[0]
	if first.Key.Year != 2024 || first.Key.Month != time.February || first.Key.Day != 0 {
		t.Errorf("first bucket key = %+v, want Feb 2024", first.Key)
	}

	last := buckets[len(buckets)-1]
	if last.Key.Year != 2025 || last.Key.Month != time.January {
		t.Errorf("last bucket key = %+v, want Jan 2025", last.Key)
	}
	if last.TotalIncomeCents != 250000 {
		t.Errorf("Jan 2025 income = %d, want 250000", last.TotalIncomeCents)
	}
	if last.TotalExpenseCents != 18000 {
		t.Errorf("Jan 2025 expenses = %d, want 18000", last.TotalExpenseCents)
	}

	december := buckets[len(buckets)-2]
	if december.TotalIncomeCents != 3000 || december.TotalExpenseCents != 2000 {
		t.Errorf("Dec 2024 totals = %d/%d, want 3000/2000",
			december.TotalIncomeCents, december.TotalExpenseCents)
	}
}

func TestDashboardServiceTrendCaching(t *testing.T) {
	store := newDashboardFixture()
	svc := NewDashboardService(store, 16, time.Minute)
	ref := core.NewDate(2025, 1, 20)

	if _, err := svc.Trend(context.Background(), analytics.LastDays(7), ref); err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	afterFirst := store.rangeCalls

	if _, err := svc.Trend(context.Background(), analytics.LastDays(7), ref); err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	if store.rangeCalls != afterFirst {
		t.Errorf("second Trend() hit the store (%d calls, want %d)", store.rangeCalls, afterFirst)
	}

	// A different window is a different key and must not reuse the entry.
	if _, err := svc.Trend(context.Background(), analytics.LastDays(30), ref); err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	if store.rangeCalls == afterFirst {
		t.Error("a different window must miss the cache")
	}

	svc.Invalidate()
	beforeRefetch := store.rangeCalls
	if _, err := svc.Trend(context.Background(), analytics.LastDays(7), ref); err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	if store.rangeCalls == beforeRefetch {
		t.Error("Invalidate() must force a refetch")
	}
}

func TestDashboardServiceTrendStoreFailure(t *testing.T) {
	store := &fakeDashboardStore{failWith: errors.New("locked")}
	svc := NewDashboardService(store, 16, time.Minute)

	if _, err := svc.Trend(context.Background(), analytics.LastDays(7), core.NewDate(2025, 1, 20)); err == nil {
		t.Fatal("Trend() error = nil, want store failure")
	}
}

func TestDashboardServiceCategories(t *testing.T) {
	store := newDashboardFixture()
	svc := NewDashboardService(store, 16, time.Minute)

	totals, err := svc.Categories(context.Background(), analytics.LastMonths(12), core.NewDate(2025, 1, 20))
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
	if len(totals) != 3 {
		t.Fatalf("Categories() returned %d entries, want 3", len(totals))
	}
	if totals[0].Category != "Food" || totals[0].TotalCents != 12000 {
		t.Errorf("top category = %+v, want Food with 12000", totals[0])
	}
	if totals[1].Category != "Travel" || totals[2].Category != analytics.Uncategorized {
		t.Errorf("order = %q, %q, want Travel then %s", totals[1].Category, totals[2].Category, analytics.Uncategorized)
	}

	var sum float64
	for _, ct := range totals {
		sum += ct.PercentOfWhole
	}
	if sum < 99.999999 || sum > 100.000001 {
		t.Errorf("percentages sum to %v, want 100", sum)
	}
}

func TestDashboardServiceRecent(t *testing.T) {
	store := newDashboardFixture()
	svc := NewDashboardService(store, 16, time.Minute)

	recent, err := svc.Recent(context.Background(), 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Recent() returned %d events, want 3", len(recent))
	}
	if recent[0].Description != "Groceries" {
		t.Errorf("recent[0] = %q, want newest record first", recent[0].Description)
	}
	if recent[1].Description != "Salary" || recent[1].Kind != analytics.KindIncome {
		t.Errorf("recent[1] = %q (%s), want Salary income", recent[1].Description, recent[1].Kind)
	}
	if recent[2].Description != "Train" {
		t.Errorf("recent[2] = %q, want Train", recent[2].Description)
	}

	// Zero limit falls back to the default panel size.
	all, err := svc.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(all) != len(store.incomes)+len(store.expenses) {
		t.Errorf("Recent(0) returned %d events, want all %d", len(all), len(store.incomes)+len(store.expenses))
	}
}

func TestDashboardServiceSummary(t *testing.T) {
	store := newDashboardFixture()
	store.overview = core.MonthOverview{
		Year:         2025,
		Month:        1,
		TotalIncome:  core.Money{Cents: 250000},
		TotalExpense: core.Money{Cents: 18000},
	}
	svc := NewDashboardService(store, 16, time.Minute)

	overview, err := svc.Summary(context.Background(), 2025, 1)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if overview.TotalIncome.Cents != 250000 {
		t.Errorf("overview income = %d, want 250000", overview.TotalIncome.Cents)
	}
	if overview.Net().Cents != 232000 {
		t.Errorf("overview net = %d, want 232000", overview.Net().Cents)
	}
}

func TestWindowBounds(t *testing.T) {
	tests := []struct {
		name     string
		win      analytics.Window
		ref      core.Date
		wantFrom core.Date
		wantTo   core.Date
	}{
		{
			name:     "twelve months",
			win:      analytics.LastMonths(12),
			ref:      core.NewDate(2025, 1, 15),
			wantFrom: core.NewDate(2024, 2, 1),
			wantTo:   core.NewDate(2025, 1, 31),
		},
		{
			name:     "seven days crossing a month",
			win:      analytics.LastDays(7),
			ref:      core.NewDate(2025, 3, 2),
			wantFrom: core.NewDate(2025, 2, 24),
			wantTo:   core.NewDate(2025, 3, 2),
		},
		{
			name:     "single month",
			win:      analytics.LastMonths(1),
			ref:      core.NewDate(2024, 2, 10),
			wantFrom: core.NewDate(2024, 2, 1),
			wantTo:   core.NewDate(2024, 2, 29),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := windowBounds(tt.win, tt.ref)
			if !from.Equal(tt.wantFrom.Time) {
				t.Errorf("from = %v, want %v", from.Time, tt.wantFrom.Time)
			}
			if !to.Equal(tt.wantTo.Time) {
				t.Errorf("to = %v, want %v", to.Time, tt.wantTo.Time)
			}
		})
	}
}

func TestWindowKeyDistinguishesWindows(t *testing.T) {
	ref := core.NewDate(2025, 1, 20)
	keys := map[string]bool{
		windowKey(analytics.LastDays(7), ref):    true,
		windowKey(analytics.LastDays(30), ref):   true,
		windowKey(analytics.LastMonths(12), ref): true,
		windowKey(analytics.LastDays(7), core.NewDate(2025, 1, 21)): true,
	}
	if len(keys) != 4 {
		t.Errorf("window keys collide: %v", keys)
	}
}
