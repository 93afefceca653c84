package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the narrow database surface the query layer needs. Both
// *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// WithTx returns a Queries bound to an open transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Row shapes mirror the table columns one to one.
type (
	Income struct {
		ID          int64
		Description string
		AmountCents int64
		Category    string
		Year        int64
		Month       int64
		Day         int64
		CreatedAt   time.Time
		SyncStatus  string
		SheetsRef   string
		SyncError   string
		Version     int64
	}

	Expense struct {
		ID          int64
		Description string
		AmountCents int64
		Category    string
		Year        int64
		Month       int64
		Day         int64
		CreatedAt   time.Time
		SyncStatus  string
		SheetsRef   string
		SyncError   string
		Version     int64
	}

	Debt struct {
		ID         int64
		Name       string
		TotalCents int64
		PaidCents  int64
		CreatedAt  time.Time
	}

	SavingsGoal struct {
		ID            int64
		Name          string
		TargetCents   int64
		SavedCents    int64
		DeadlineYear  int64
		DeadlineMonth int64
		DeadlineDay   int64
		CreatedAt     time.Time
	}

	Budget struct {
		ID                int64
		Category          string
		MonthlyLimitCents int64
		CreatedAt         time.Time
		UpdatedAt         time.Time
	}

	CategorySum struct {
		Category   string
		TotalCents int64
	}

	PendingSyncRow struct {
		ID        int64
		Version   int64
		CreatedAt time.Time
	}
)

const ledgerColumns = `id, description, amount_cents, category, year, month, day,
       created_at, sync_status, sheets_ref, sync_error, version`

func scanIncome(row *sql.Row) (Income, error) {
	var i Income
	err := row.Scan(&i.ID, &i.Description, &i.AmountCents, &i.Category,
		&i.Year, &i.Month, &i.Day, &i.CreatedAt,
		&i.SyncStatus, &i.SheetsRef, &i.SyncError, &i.Version)
	return i, err
}

func scanExpense(row *sql.Row) (Expense, error) {
	var e Expense
	err := row.Scan(&e.ID, &e.Description, &e.AmountCents, &e.Category,
		&e.Year, &e.Month, &e.Day, &e.CreatedAt,
		&e.SyncStatus, &e.SheetsRef, &e.SyncError, &e.Version)
	return e, err
}

type CreateIncomeParams struct {
	Description string
	AmountCents int64
	Category    string
	Year        int64
	Month       int64
	Day         int64
}

func (q *Queries) CreateIncome(ctx context.Context, arg CreateIncomeParams) (Income, error) {
	const query = `
INSERT INTO incomes (description, amount_cents, category, year, month, day)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + ledgerColumns
	row := q.db.QueryRowContext(ctx, query,
		arg.Description, arg.AmountCents, arg.Category, arg.Year, arg.Month, arg.Day)
	return scanIncome(row)
}

type CreateExpenseParams struct {
	Description string
	AmountCents int64
	Category    string
	Year        int64
	Month       int64
	Day         int64
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (Expense, error) {
	const query = `
INSERT INTO expenses (description, amount_cents, category, year, month, day)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + ledgerColumns
	row := q.db.QueryRowContext(ctx, query,
		arg.Description, arg.AmountCents, arg.Category, arg.Year, arg.Month, arg.Day)
	return scanExpense(row)
}

func (q *Queries) GetIncome(ctx context.Context, id int64) (Income, error) {
	const query = `SELECT ` + ledgerColumns + ` FROM incomes WHERE id = ?`
	return scanIncome(q.db.QueryRowContext(ctx, query, id))
}

func (q *Queries) GetExpense(ctx context.Context, id int64) (Expense, error) {
	const query = `SELECT ` + ledgerColumns + ` FROM expenses WHERE id = ?`
	return scanExpense(q.db.QueryRowContext(ctx, query, id))
}

func (q *Queries) DeleteIncome(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = ?`, id)
	return err
}

func (q *Queries) DeleteExpense(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	return err
}

type DateRangeParams struct {
	FromKey int64 // year*10000 + month*100 + day, inclusive
	ToKey   int64
}

func (q *Queries) ListIncomesByRange(ctx context.Context, arg DateRangeParams) ([]Income, error) {
	const query = `
SELECT ` + ledgerColumns + `
FROM incomes
WHERE (year * 10000 + month * 100 + day) BETWEEN ? AND ?
ORDER BY year, month, day, id`
	rows, err := q.db.QueryContext(ctx, query, arg.FromKey, arg.ToKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Income
	for rows.Next() {
		var i Income
		if err := rows.Scan(&i.ID, &i.Description, &i.AmountCents, &i.Category,
			&i.Year, &i.Month, &i.Day, &i.CreatedAt,
			&i.SyncStatus, &i.SheetsRef, &i.SyncError, &i.Version); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (q *Queries) ListExpensesByRange(ctx context.Context, arg DateRangeParams) ([]Expense, error) {
	const query = `
SELECT ` + ledgerColumns + `
FROM expenses
WHERE (year * 10000 + month * 100 + day) BETWEEN ? AND ?
ORDER BY year, month, day, id`
	rows, err := q.db.QueryContext(ctx, query, arg.FromKey, arg.ToKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Description, &e.AmountCents, &e.Category,
			&e.Year, &e.Month, &e.Day, &e.CreatedAt,
			&e.SyncStatus, &e.SheetsRef, &e.SyncError, &e.Version); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (q *Queries) ListRecentIncomes(ctx context.Context, limit int64) ([]Income, error) {
	const query = `
SELECT ` + ledgerColumns + `
FROM incomes
ORDER BY year DESC, month DESC, day DESC, id DESC
LIMIT ?`
	rows, err := q.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Income
	for rows.Next() {
		var i Income
		if err := rows.Scan(&i.ID, &i.Description, &i.AmountCents, &i.Category,
			&i.Year, &i.Month, &i.Day, &i.CreatedAt,
			&i.SyncStatus, &i.SheetsRef, &i.SyncError, &i.Version); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (q *Queries) ListRecentExpenses(ctx context.Context, limit int64) ([]Expense, error) {
	const query = `
SELECT ` + ledgerColumns + `
FROM expenses
ORDER BY year DESC, month DESC, day DESC, id DESC
LIMIT ?`
	rows, err := q.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Description, &e.AmountCents, &e.Category,
			&e.Year, &e.Month, &e.Day, &e.CreatedAt,
			&e.SyncStatus, &e.SheetsRef, &e.SyncError, &e.Version); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type MonthParams struct {
	Year  int64
	Month int64
}

func (q *Queries) GetMonthIncomeTotal(ctx context.Context, arg MonthParams) (int64, error) {
	const query = `
SELECT COALESCE(SUM(amount_cents), 0)
FROM incomes
WHERE year = ? AND month = ?`
	var total int64
	err := q.db.QueryRowContext(ctx, query, arg.Year, arg.Month).Scan(&total)
	return total, err
}

func (q *Queries) GetMonthExpenseTotal(ctx context.Context, arg MonthParams) (int64, error) {
	const query = `
SELECT COALESCE(SUM(amount_cents), 0)
FROM expenses
WHERE year = ? AND month = ?`
	var total int64
	err := q.db.QueryRowContext(ctx, query, arg.Year, arg.Month).Scan(&total)
	return total, err
}

func (q *Queries) GetExpenseCategorySums(ctx context.Context, arg MonthParams) ([]CategorySum, error) {
	const query = `
SELECT CASE WHEN TRIM(category) = '' THEN 'Uncategorized' ELSE category END AS label,
       SUM(amount_cents) AS total_cents
FROM expenses
WHERE year = ? AND month = ?
GROUP BY label
ORDER BY total_cents DESC, label ASC`
	rows, err := q.db.QueryContext(ctx, query, arg.Year, arg.Month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CategorySum
	for rows.Next() {
		var cs CategorySum
		if err := rows.Scan(&cs.Category, &cs.TotalCents); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

type CategoryMonthParams struct {
	Category string
	Year     int64
	Month    int64
}

func (q *Queries) GetMonthCategorySpent(ctx context.Context, arg CategoryMonthParams) (int64, error) {
	const query = `
SELECT COALESCE(SUM(amount_cents), 0)
FROM expenses
WHERE category = ? AND year = ? AND month = ?`
	var total int64
	err := q.db.QueryRowContext(ctx, query, arg.Category, arg.Year, arg.Month).Scan(&total)
	return total, err
}

func (q *Queries) ListCategories(ctx context.Context) ([]string, error) {
	const query = `
SELECT DISTINCT category FROM expenses WHERE TRIM(category) <> ''
UNION
SELECT DISTINCT category FROM incomes WHERE TRIM(category) <> ''
ORDER BY 1`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type CreateDebtParams struct {
	Name       string
	TotalCents int64
	PaidCents  int64
}

func (q *Queries) CreateDebt(ctx context.Context, arg CreateDebtParams) (Debt, error) {
	const query = `
INSERT INTO debts (name, total_cents, paid_cents)
VALUES (?, ?, ?)
RETURNING id, name, total_cents, paid_cents, created_at`
	var d Debt
	err := q.db.QueryRowContext(ctx, query, arg.Name, arg.TotalCents, arg.PaidCents).
		Scan(&d.ID, &d.Name, &d.TotalCents, &d.PaidCents, &d.CreatedAt)
	return d, err
}

func (q *Queries) ListDebts(ctx context.Context) ([]Debt, error) {
	const query = `
SELECT id, name, total_cents, paid_cents, created_at
FROM debts
ORDER BY created_at DESC, id DESC`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Debt
	for rows.Next() {
		var d Debt
		if err := rows.Scan(&d.ID, &d.Name, &d.TotalCents, &d.PaidCents, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (q *Queries) DeleteDebt(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM debts WHERE id = ?`, id)
	return err
}

type AddDebtPaymentParams struct {
	DebtID      int64
	AmountCents int64
}

func (q *Queries) InsertDebtPayment(ctx context.Context, arg AddDebtPaymentParams) error {
	const query = `INSERT INTO debt_payments (debt_id, amount_cents) VALUES (?, ?)`
	_, err := q.db.ExecContext(ctx, query, arg.DebtID, arg.AmountCents)
	return err
}

func (q *Queries) AddDebtPaid(ctx context.Context, arg AddDebtPaymentParams) (Debt, error) {
	const query = `
UPDATE debts
SET paid_cents = paid_cents + ?
WHERE id = ?
RETURNING id, name, total_cents, paid_cents, created_at`
	var d Debt
	err := q.db.QueryRowContext(ctx, query, arg.AmountCents, arg.DebtID).
		Scan(&d.ID, &d.Name, &d.TotalCents, &d.PaidCents, &d.CreatedAt)
	return d, err
}

type CreateSavingsGoalParams struct {
	Name          string
	TargetCents   int64
	SavedCents    int64
	DeadlineYear  int64
	DeadlineMonth int64
	DeadlineDay   int64
}

func (q *Queries) CreateSavingsGoal(ctx context.Context, arg CreateSavingsGoalParams) (SavingsGoal, error) {
	const query = `
INSERT INTO savings_goals (name, target_cents, saved_cents, deadline_year, deadline_month, deadline_day)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, name, target_cents, saved_cents, deadline_year, deadline_month, deadline_day, created_at`
	var g SavingsGoal
	err := q.db.QueryRowContext(ctx, query,
		arg.Name, arg.TargetCents, arg.SavedCents,
		arg.DeadlineYear, arg.DeadlineMonth, arg.DeadlineDay).
		Scan(&g.ID, &g.Name, &g.TargetCents, &g.SavedCents,
			&g.DeadlineYear, &g.DeadlineMonth, &g.DeadlineDay, &g.CreatedAt)
	return g, err
}

func (q *Queries) ListSavingsGoals(ctx context.Context) ([]SavingsGoal, error) {
	const query = `
SELECT id, name, target_cents, saved_cents, deadline_year, deadline_month, deadline_day, created_at
FROM savings_goals
ORDER BY created_at DESC, id DESC`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SavingsGoal
	for rows.Next() {
		var g SavingsGoal
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetCents, &g.SavedCents,
			&g.DeadlineYear, &g.DeadlineMonth, &g.DeadlineDay, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (q *Queries) DeleteSavingsGoal(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = ?`, id)
	return err
}

type AddGoalContributionParams struct {
	GoalID      int64
	AmountCents int64
}

func (q *Queries) InsertGoalContribution(ctx context.Context, arg AddGoalContributionParams) error {
	const query = `INSERT INTO goal_contributions (goal_id, amount_cents) VALUES (?, ?)`
	_, err := q.db.ExecContext(ctx, query, arg.GoalID, arg.AmountCents)
	return err
}

func (q *Queries) AddGoalSaved(ctx context.Context, arg AddGoalContributionParams) (SavingsGoal, error) {
	const query = `
UPDATE savings_goals
SET saved_cents = saved_cents + ?
WHERE id = ?
RETURNING id, name, target_cents, saved_cents, deadline_year, deadline_month, deadline_day, created_at`
	var g SavingsGoal
	err := q.db.QueryRowContext(ctx, query, arg.AmountCents, arg.GoalID).
		Scan(&g.ID, &g.Name, &g.TargetCents, &g.SavedCents,
			&g.DeadlineYear, &g.DeadlineMonth, &g.DeadlineDay, &g.CreatedAt)
	return g, err
}

type UpsertBudgetParams struct {
	Category          string
	MonthlyLimitCents int64
}

func (q *Queries) UpsertBudget(ctx context.Context, arg UpsertBudgetParams) (Budget, error) {
	const query = `
INSERT INTO budgets (category, monthly_limit_cents)
VALUES (?, ?)
ON CONFLICT (category) DO UPDATE SET
    monthly_limit_cents = excluded.monthly_limit_cents,
    updated_at = CURRENT_TIMESTAMP
RETURNING id, category, monthly_limit_cents, created_at, updated_at`
	var b Budget
	err := q.db.QueryRowContext(ctx, query, arg.Category, arg.MonthlyLimitCents).
		Scan(&b.ID, &b.Category, &b.MonthlyLimitCents, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (q *Queries) ListBudgets(ctx context.Context) ([]Budget, error) {
	const query = `
SELECT id, category, monthly_limit_cents, created_at, updated_at
FROM budgets
ORDER BY category ASC`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Budget
	for rows.Next() {
		var b Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.MonthlyLimitCents, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (q *Queries) DeleteBudget(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	return err
}

func (q *Queries) listPendingSync(ctx context.Context, table string, limit int64) ([]PendingSyncRow, error) {
	query := `
SELECT id, version, created_at
FROM ` + table + `
WHERE sync_status = 'pending'
ORDER BY created_at ASC
LIMIT ?`
	rows, err := q.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PendingSyncRow
	for rows.Next() {
		var p PendingSyncRow
		if err := rows.Scan(&p.ID, &p.Version, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (q *Queries) GetPendingSyncIncomes(ctx context.Context, limit int64) ([]PendingSyncRow, error) {
	return q.listPendingSync(ctx, "incomes", limit)
}

func (q *Queries) GetPendingSyncExpenses(ctx context.Context, limit int64) ([]PendingSyncRow, error) {
	return q.listPendingSync(ctx, "expenses", limit)
}

type MarkSyncedParams struct {
	ID        int64
	SheetsRef string
}

func (q *Queries) MarkIncomeSynced(ctx context.Context, arg MarkSyncedParams) error {
	const query = `
UPDATE incomes
SET sync_status = 'synced', sheets_ref = ?, sync_error = ''
WHERE id = ?`
	_, err := q.db.ExecContext(ctx, query, arg.SheetsRef, arg.ID)
	return err
}

func (q *Queries) MarkExpenseSynced(ctx context.Context, arg MarkSyncedParams) error {
	const query = `
UPDATE expenses
SET sync_status = 'synced', sheets_ref = ?, sync_error = ''
WHERE id = ?`
	_, err := q.db.ExecContext(ctx, query, arg.SheetsRef, arg.ID)
	return err
}

type MarkSyncErrorParams struct {
	ID        int64
	SyncError string
}

func (q *Queries) MarkIncomeSyncError(ctx context.Context, arg MarkSyncErrorParams) error {
	const query = `
UPDATE incomes
SET sync_status = 'error', sync_error = ?
WHERE id = ?`
	_, err := q.db.ExecContext(ctx, query, arg.SyncError, arg.ID)
	return err
}

func (q *Queries) MarkExpenseSyncError(ctx context.Context, arg MarkSyncErrorParams) error {
	const query = `
UPDATE expenses
SET sync_status = 'error', sync_error = ?
WHERE id = ?`
	_, err := q.db.ExecContext(ctx, query, arg.SyncError, arg.ID)
	return err
}
