package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/analytics"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/cache"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/metrics"
)

// DashboardStore is the read surface the dashboard service needs.
type DashboardStore interface {
	ListIncomesByRange(ctx context.Context, from, to core.Date) ([]core.Income, error)
	ListExpensesByRange(ctx context.Context, from, to core.Date) ([]core.Expense, error)
	ListRecentIncomes(ctx context.Context, limit int) ([]core.Income, error)
	ListRecentExpenses(ctx context.Context, limit int) ([]core.Expense, error)
	ReadMonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error)
}

// DefaultRecentLimit bounds the recent-transactions panel when the caller
// does not ask for a specific size.
const DefaultRecentLimit = 10

// DashboardService feeds the dashboard panels. Trend and category
// aggregates are cached briefly because chart polling hits them far more
// often than records change; writers call Invalidate to drop the caches.
type DashboardService struct {
	store      DashboardStore
	trends     *cache.LRUCache[[]analytics.Bucket]
	categories *cache.LRUCache[[]analytics.CategoryTotal]
}

func NewDashboardService(store DashboardStore, cacheSize int, ttl time.Duration) *DashboardService {
	return &DashboardService{
		store:      store,
		trends:     cache.NewLRUCache[[]analytics.Bucket](cacheSize, ttl),
		categories: cache.NewLRUCache[[]analytics.CategoryTotal](cacheSize, ttl),
	}
}

// Caches exposes the internal caches for cleanup registration.
func (s *DashboardService) Caches() []cache.Cleaner {
	return []cache.Cleaner{s.trends, s.categories}
}

// Invalidate drops all cached aggregates. Called after every write so the
// next poll recomputes from fresh rows.
func (s *DashboardService) Invalidate() {
	s.trends.Clear()
	s.categories.Clear()
}

// Trend returns the bucketed income/expense series for the window ending
// at ref. A zero ref means today.
func (s *DashboardService) Trend(ctx context.Context, win analytics.Window, ref core.Date) ([]analytics.Bucket, error) {
	ref = normalizeRef(ref)
	key := windowKey(win, ref)

	if buckets, ok := s.trends.Get(key); ok {
		metrics.IncCacheHit()
		return buckets, nil
	}
	metrics.IncCacheMiss()

	started := time.Now()
	from, to := windowBounds(win, ref)

	incomes, expenses, err := s.fetchWindow(ctx, from, to)
	if err != nil {
		return nil, err
	}

	buckets := analytics.BucketByPeriod(incomes, expenses, win, ref)
	s.trends.Set(key, buckets)
	metrics.ObserveAggregation("trend", time.Since(started))

	return buckets, nil
}

// Categories returns the expense category breakdown for the window ending
// at ref, largest share first.
func (s *DashboardService) Categories(ctx context.Context, win analytics.Window, ref core.Date) ([]analytics.CategoryTotal, error) {
	ref = normalizeRef(ref)
	key := windowKey(win, ref)

	if totals, ok := s.categories.Get(key); ok {
		metrics.IncCacheHit()
		return totals, nil
	}
	metrics.IncCacheMiss()

	started := time.Now()
	from, to := windowBounds(win, ref)

	rows, err := s.store.ListExpensesByRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	events := analytics.FromExpenses(rows)
	logSkippedEvents(ctx, "expenses", events)

	totals := analytics.TotalsByCategory(events)
	s.categories.Set(key, totals)
	metrics.ObserveAggregation("categories", time.Since(started))

	return totals, nil
}

// Recent returns the newest records from both ledgers merged into one
// list, most recent first.
func (s *DashboardService) Recent(ctx context.Context, limit int) ([]analytics.MoneyEvent, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	started := time.Now()

	var (
		incomes  []core.Income
		expenses []core.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		incomes, err = s.store.ListRecentIncomes(gctx, limit)
		if err != nil {
			return fmt.Errorf("list recent incomes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListRecentExpenses(gctx, limit)
		if err != nil {
			return fmt.Errorf("list recent expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	recent := analytics.CombineRecent(analytics.FromIncomes(incomes), analytics.FromExpenses(expenses), limit)
	metrics.ObserveAggregation("recent", time.Since(started))

	return recent, nil
}

// Summary returns one month's totals with the SQL-side category breakdown.
func (s *DashboardService) Summary(ctx context.Context, year, month int) (core.MonthOverview, error) {
	started := time.Now()
	overview, err := s.store.ReadMonthOverview(ctx, year, month)
	if err != nil {
		return core.MonthOverview{}, fmt.Errorf("read month overview: %w", err)
	}
	metrics.ObserveAggregation("summary", time.Since(started))
	return overview, nil
}

// fetchWindow loads both ledgers for [from, to] concurrently.
func (s *DashboardService) fetchWindow(ctx context.Context, from, to core.Date) ([]analytics.MoneyEvent, []analytics.MoneyEvent, error) {
	var (
		incomeRows  []core.Income
		expenseRows []core.Expense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		incomeRows, err = s.store.ListIncomesByRange(gctx, from, to)
		if err != nil {
			return fmt.Errorf("list incomes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenseRows, err = s.store.ListExpensesByRange(gctx, from, to)
		if err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	incomes := analytics.FromIncomes(incomeRows)
	expenses := analytics.FromExpenses(expenseRows)
	logSkippedEvents(ctx, "incomes", incomes)
	logSkippedEvents(ctx, "expenses", expenses)

	return incomes, expenses, nil
}

// logSkippedEvents reports how many events the engine will skip for a
// missing date. The rows never carry one out of SQLite, but other stores
// may.
func logSkippedEvents(ctx context.Context, source string, events []analytics.MoneyEvent) {
	skipped := 0
	for _, ev := range events {
		if ev.OccurredOn.IsZero() {
			skipped++
		}
	}
	if skipped > 0 {
		slog.DebugContext(ctx, "Events without a usable date will be skipped",
			"source", source, "count", skipped)
	}
}

func normalizeRef(ref core.Date) core.Date {
	if !ref.IsZero() {
		return ref
	}
	now := time.Now().UTC()
	return core.NewDate(now.Year(), int(now.Month()), now.Day())
}

// windowKey renders a cache key from the structural window and reference
// date.
func windowKey(win analytics.Window, ref core.Date) string {
	return fmt.Sprintf("%d:%d:%04d-%02d-%02d", win.Unit, win.Length, ref.Year(), ref.Month(), ref.Day())
}

// windowBounds computes the fetch range covering the whole window. For
// monthly windows that is the first day of the oldest month through the
// last day of the reference month.
func windowBounds(win analytics.Window, ref core.Date) (core.Date, core.Date) {
	if win.Unit == analytics.UnitMonth {
		start := time.Date(ref.Year(), ref.Time.Month()-time.Month(win.Length-1), 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(ref.Year(), ref.Time.Month()+1, 0, 0, 0, 0, 0, time.UTC)
		return core.Date{Time: start}, core.Date{Time: end}
	}
	start := ref.AddDate(0, 0, -(win.Length - 1))
	return core.Date{Time: start}, ref
}
