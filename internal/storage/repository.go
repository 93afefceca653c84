package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"

	_ "modernc.org/sqlite"
)

// RecordKind distinguishes the two ledger tables for sync bookkeeping.
type RecordKind string

const (
	RecordIncome  RecordKind = "income"
	RecordExpense RecordKind = "expense"
)

// PendingSyncRecord is the minimal data the export queue needs.
type PendingSyncRecord struct {
	Kind      RecordKind
	ID        int64
	Version   int64
	CreatedAt time.Time
}

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func dateKey(d core.Date) int64 {
	return int64(d.Year())*10000 + int64(d.Month())*100 + int64(d.Day())
}

func incomeFromRow(row Income) core.Income {
	return core.Income{
		ID:          row.ID,
		Date:        core.NewDate(int(row.Year), int(row.Month), int(row.Day)),
		Description: row.Description,
		Amount:      core.Money{Cents: row.AmountCents},
		Category:    row.Category,
	}
}

func expenseFromRow(row Expense) core.Expense {
	return core.Expense{
		ID:          row.ID,
		Date:        core.NewDate(int(row.Year), int(row.Month), int(row.Day)),
		Description: row.Description,
		Amount:      core.Money{Cents: row.AmountCents},
		Category:    row.Category,
	}
}

// CreateIncome persists an income and returns its assigned ID.
func (r *SQLiteRepository) CreateIncome(ctx context.Context, in core.Income) (int64, error) {
	row, err := r.queries.CreateIncome(ctx, CreateIncomeParams{
		Description: in.Description,
		AmountCents: in.Amount.Cents,
		Category:    in.Category,
		Year:        int64(in.Date.Year()),
		Month:       int64(in.Date.Month()),
		Day:         int64(in.Date.Day()),
	})
	if err != nil {
		return 0, fmt.Errorf("create income: %w", err)
	}

	slog.InfoContext(ctx, "Income saved",
		"id", row.ID,
		"description", row.Description,
		"amount_cents", row.AmountCents,
		"category", row.Category)
	return row.ID, nil
}

// CreateExpense persists an expense and returns its assigned ID.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	row, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		Description: e.Description,
		AmountCents: e.Amount.Cents,
		Category:    e.Category,
		Year:        int64(e.Date.Year()),
		Month:       int64(e.Date.Month()),
		Day:         int64(e.Date.Day()),
	})
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", row.ID,
		"description", row.Description,
		"amount_cents", row.AmountCents,
		"category", row.Category)
	return row.ID, nil
}

func (r *SQLiteRepository) GetIncome(ctx context.Context, id int64) (core.Income, error) {
	row, err := r.queries.GetIncome(ctx, id)
	if err != nil {
		return core.Income{}, fmt.Errorf("get income %d: %w", id, err)
	}
	return incomeFromRow(row), nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row, err := r.queries.GetExpense(ctx, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return expenseFromRow(row), nil
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, id int64) error {
	if err := r.queries.DeleteIncome(ctx, id); err != nil {
		return fmt.Errorf("delete income %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	if err := r.queries.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	return nil
}

// ListIncomesByRange returns incomes dated inside [from, to], oldest first.
func (r *SQLiteRepository) ListIncomesByRange(ctx context.Context, from, to core.Date) ([]core.Income, error) {
	rows, err := r.queries.ListIncomesByRange(ctx, DateRangeParams{
		FromKey: dateKey(from),
		ToKey:   dateKey(to),
	})
	if err != nil {
		return nil, fmt.Errorf("list incomes by range: %w", err)
	}
	out := make([]core.Income, len(rows))
	for i, row := range rows {
		out[i] = incomeFromRow(row)
	}
	return out, nil
}

// ListExpensesByRange returns expenses dated inside [from, to], oldest first.
func (r *SQLiteRepository) ListExpensesByRange(ctx context.Context, from, to core.Date) ([]core.Expense, error) {
	rows, err := r.queries.ListExpensesByRange(ctx, DateRangeParams{
		FromKey: dateKey(from),
		ToKey:   dateKey(to),
	})
	if err != nil {
		return nil, fmt.Errorf("list expenses by range: %w", err)
	}
	out := make([]core.Expense, len(rows))
	for i, row := range rows {
		out[i] = expenseFromRow(row)
	}
	return out, nil
}

// ListRecentIncomes returns the newest incomes, most recent date first.
func (r *SQLiteRepository) ListRecentIncomes(ctx context.Context, limit int) ([]core.Income, error) {
	rows, err := r.queries.ListRecentIncomes(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list recent incomes: %w", err)
	}
	out := make([]core.Income, len(rows))
	for i, row := range rows {
		out[i] = incomeFromRow(row)
	}
	return out, nil
}

// ListRecentExpenses returns the newest expenses, most recent date first.
func (r *SQLiteRepository) ListRecentExpenses(ctx context.Context, limit int) ([]core.Expense, error) {
	rows, err := r.queries.ListRecentExpenses(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list recent expenses: %w", err)
	}
	out := make([]core.Expense, len(rows))
	for i, row := range rows {
		out[i] = expenseFromRow(row)
	}
	return out, nil
}

// ReadMonthOverview aggregates one month's totals and expense categories
// SQL-side for the summary panel.
func (r *SQLiteRepository) ReadMonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	overview := core.MonthOverview{
		Year:  year,
		Month: month,
	}
	arg := MonthParams{Year: int64(year), Month: int64(month)}

	incomeTotal, err := r.queries.GetMonthIncomeTotal(ctx, arg)
	if err != nil {
		return overview, fmt.Errorf("get month income total: %w", err)
	}
	overview.TotalIncome = core.Money{Cents: incomeTotal}

	expenseTotal, err := r.queries.GetMonthExpenseTotal(ctx, arg)
	if err != nil {
		return overview, fmt.Errorf("get month expense total: %w", err)
	}
	overview.TotalExpense = core.Money{Cents: expenseTotal}

	sums, err := r.queries.GetExpenseCategorySums(ctx, arg)
	if err != nil {
		return overview, fmt.Errorf("get category sums: %w", err)
	}
	for _, cs := range sums {
		overview.ByCategory = append(overview.ByCategory, core.CategoryAmount{
			Name:   cs.Category,
			Amount: core.Money{Cents: cs.TotalCents},
		})
	}

	return overview, nil
}

// MonthCategorySpent sums one category's expenses for a month, for
// budget progress.
func (r *SQLiteRepository) MonthCategorySpent(ctx context.Context, category string, year, month int) (int64, error) {
	total, err := r.queries.GetMonthCategorySpent(ctx, CategoryMonthParams{
		Category: category,
		Year:     int64(year),
		Month:    int64(month),
	})
	if err != nil {
		return 0, fmt.Errorf("get month category spent: %w", err)
	}
	return total, nil
}

// ListCategories returns the distinct category labels in use, for form
// suggestions.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]string, error) {
	cats, err := r.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (r *SQLiteRepository) CreateDebt(ctx context.Context, d core.Debt) (int64, error) {
	row, err := r.queries.CreateDebt(ctx, CreateDebtParams{
		Name:       d.Name,
		TotalCents: d.Total.Cents,
		PaidCents:  d.Paid.Cents,
	})
	if err != nil {
		return 0, fmt.Errorf("create debt: %w", err)
	}
	slog.InfoContext(ctx, "Debt saved", "id", row.ID, "name", row.Name, "total_cents", row.TotalCents)
	return row.ID, nil
}

func (r *SQLiteRepository) ListDebts(ctx context.Context) ([]core.Debt, error) {
	rows, err := r.queries.ListDebts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	out := make([]core.Debt, len(rows))
	for i, row := range rows {
		out[i] = core.Debt{
			ID:    row.ID,
			Name:  row.Name,
			Total: core.Money{Cents: row.TotalCents},
			Paid:  core.Money{Cents: row.PaidCents},
		}
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteDebt(ctx context.Context, id int64) error {
	if err := r.queries.DeleteDebt(ctx, id); err != nil {
		return fmt.Errorf("delete debt %d: %w", id, err)
	}
	return nil
}

// RecordDebtPayment appends a payment row and bumps the debt's paid
// total in one transaction.
func (r *SQLiteRepository) RecordDebtPayment(ctx context.Context, debtID int64, amount core.Money) (core.Debt, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Debt{}, fmt.Errorf("begin payment tx: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	arg := AddDebtPaymentParams{DebtID: debtID, AmountCents: amount.Cents}
	if err := qtx.InsertDebtPayment(ctx, arg); err != nil {
		return core.Debt{}, fmt.Errorf("insert debt payment: %w", err)
	}
	row, err := qtx.AddDebtPaid(ctx, arg)
	if err != nil {
		return core.Debt{}, fmt.Errorf("add debt paid: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Debt{}, fmt.Errorf("commit payment tx: %w", err)
	}

	slog.InfoContext(ctx, "Debt payment recorded",
		"debt_id", debtID, "amount_cents", amount.Cents, "paid_cents", row.PaidCents)
	return core.Debt{
		ID:    row.ID,
		Name:  row.Name,
		Total: core.Money{Cents: row.TotalCents},
		Paid:  core.Money{Cents: row.PaidCents},
	}, nil
}

func goalFromRow(row SavingsGoal) core.SavingsGoal {
	g := core.SavingsGoal{
		ID:     row.ID,
		Name:   row.Name,
		Target: core.Money{Cents: row.TargetCents},
		Saved:  core.Money{Cents: row.SavedCents},
	}
	if row.DeadlineYear != 0 {
		g.Deadline = core.NewDate(int(row.DeadlineYear), int(row.DeadlineMonth), int(row.DeadlineDay))
	}
	return g
}

func (r *SQLiteRepository) CreateSavingsGoal(ctx context.Context, g core.SavingsGoal) (int64, error) {
	arg := CreateSavingsGoalParams{
		Name:        g.Name,
		TargetCents: g.Target.Cents,
		SavedCents:  g.Saved.Cents,
	}
	if !g.Deadline.IsZero() {
		arg.DeadlineYear = int64(g.Deadline.Year())
		arg.DeadlineMonth = int64(g.Deadline.Month())
		arg.DeadlineDay = int64(g.Deadline.Day())
	}
	row, err := r.queries.CreateSavingsGoal(ctx, arg)
	if err != nil {
		return 0, fmt.Errorf("create savings goal: %w", err)
	}
	slog.InfoContext(ctx, "Savings goal saved", "id", row.ID, "name", row.Name, "target_cents", row.TargetCents)
	return row.ID, nil
}

func (r *SQLiteRepository) ListSavingsGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	rows, err := r.queries.ListSavingsGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list savings goals: %w", err)
	}
	out := make([]core.SavingsGoal, len(rows))
	for i, row := range rows {
		out[i] = goalFromRow(row)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteSavingsGoal(ctx context.Context, id int64) error {
	if err := r.queries.DeleteSavingsGoal(ctx, id); err != nil {
		return fmt.Errorf("delete savings goal %d: %w", id, err)
	}
	return nil
}

// AddGoalContribution appends a contribution row and bumps the goal's
// saved total in one transaction.
func (r *SQLiteRepository) AddGoalContribution(ctx context.Context, goalID int64, amount core.Money) (core.SavingsGoal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("begin contribution tx: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	arg := AddGoalContributionParams{GoalID: goalID, AmountCents: amount.Cents}
	if err := qtx.InsertGoalContribution(ctx, arg); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("insert goal contribution: %w", err)
	}
	row, err := qtx.AddGoalSaved(ctx, arg)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("add goal saved: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("commit contribution tx: %w", err)
	}

	slog.InfoContext(ctx, "Goal contribution recorded",
		"goal_id", goalID, "amount_cents", amount.Cents, "saved_cents", row.SavedCents)
	return goalFromRow(row), nil
}

// SetBudget creates or replaces the monthly limit for a category.
func (r *SQLiteRepository) SetBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	row, err := r.queries.UpsertBudget(ctx, UpsertBudgetParams{
		Category:          b.Category,
		MonthlyLimitCents: b.MonthlyLimit.Cents,
	})
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}
	slog.InfoContext(ctx, "Budget saved",
		"id", row.ID, "category", row.Category, "monthly_limit_cents", row.MonthlyLimitCents)
	return core.Budget{
		ID:           row.ID,
		Category:     row.Category,
		MonthlyLimit: core.Money{Cents: row.MonthlyLimitCents},
	}, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.queries.ListBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	out := make([]core.Budget, len(rows))
	for i, row := range rows {
		out[i] = core.Budget{
			ID:           row.ID,
			Category:     row.Category,
			MonthlyLimit: core.Money{Cents: row.MonthlyLimitCents},
		}
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id int64) error {
	if err := r.queries.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget %d: %w", id, err)
	}
	return nil
}

// PendingSyncRecords lists ledger rows still waiting for export, both
// kinds merged, oldest first per kind.
func (r *SQLiteRepository) PendingSyncRecords(ctx context.Context, limit int) ([]PendingSyncRecord, error) {
	incomes, err := r.queries.GetPendingSyncIncomes(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync incomes: %w", err)
	}
	expenses, err := r.queries.GetPendingSyncExpenses(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync expenses: %w", err)
	}

	out := make([]PendingSyncRecord, 0, len(incomes)+len(expenses))
	for _, row := range incomes {
		out = append(out, PendingSyncRecord{Kind: RecordIncome, ID: row.ID, Version: row.Version, CreatedAt: row.CreatedAt})
	}
	for _, row := range expenses {
		out = append(out, PendingSyncRecord{Kind: RecordExpense, ID: row.ID, Version: row.Version, CreatedAt: row.CreatedAt})
	}
	return out, nil
}

// MarkSynced records a successful export together with its sheet ref.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, kind RecordKind, id int64, sheetsRef string) error {
	arg := MarkSyncedParams{ID: id, SheetsRef: sheetsRef}
	var err error
	switch kind {
	case RecordIncome:
		err = r.queries.MarkIncomeSynced(ctx, arg)
	case RecordExpense:
		err = r.queries.MarkExpenseSynced(ctx, arg)
	default:
		return fmt.Errorf("unsupported record kind: %s", kind)
	}
	if err != nil {
		return fmt.Errorf("mark %s %d synced: %w", kind, id, err)
	}

	slog.InfoContext(ctx, "Record marked as synced", "kind", kind, "id", id, "sheets_ref", sheetsRef)
	return nil
}

// MarkSyncError records a failed export attempt with its reason.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, kind RecordKind, id int64, reason string) error {
	arg := MarkSyncErrorParams{ID: id, SyncError: reason}
	var err error
	switch kind {
	case RecordIncome:
		err = r.queries.MarkIncomeSyncError(ctx, arg)
	case RecordExpense:
		err = r.queries.MarkExpenseSyncError(ctx, arg)
	default:
		return fmt.Errorf("unsupported record kind: %s", kind)
	}
	if err != nil {
		return fmt.Errorf("mark %s %d sync error: %w", kind, id, err)
	}

	slog.WarnContext(ctx, "Record marked with sync error", "kind", kind, "id", id, "reason", reason)
	return nil
}
