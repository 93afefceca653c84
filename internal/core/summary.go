package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthOverview is a compact income/expense summary for a specific year+month.
type MonthOverview struct {
	Year         int
	Month        int // 1-12
	TotalIncome  Money
	TotalExpense Money
	ByCategory   []CategoryAmount // expense categories, largest first
}

// Net returns income minus expenses for the month. Negative means overspent.
func (o MonthOverview) Net() Money {
	return Money{Cents: o.TotalIncome.Cents - o.TotalExpense.Cents}
}
