package analytics

import "github.com/sanjaii1/grow-financial-goals-sub000/internal/core"

// PercentOf returns 100 * part / whole. A non-positive whole yields 0.
// The result is not capped at 100.
func PercentOf(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}

// DebtProgress reports how much of a debt has been repaid, 0-100.
// Overpayments clamp at 100.
func DebtProgress(d core.Debt) float64 {
	p := PercentOf(d.Paid.Cents, d.Total.Cents)
	if p > 100 {
		return 100
	}
	return p
}

// GoalProgress reports how much of a savings goal has been funded, 0-100.
// Contributions beyond the target clamp at 100.
func GoalProgress(g core.SavingsGoal) float64 {
	p := PercentOf(g.Saved.Cents, g.Target.Cents)
	if p > 100 {
		return 100
	}
	return p
}

// BudgetProgress reports the share of the monthly limit already spent.
// A value above 100 means the budget is blown; callers decide how to
// render that, so it is not clamped here.
func BudgetProgress(spentCents int64, b core.Budget) float64 {
	return PercentOf(spentCents, b.MonthlyLimit.Cents)
}
