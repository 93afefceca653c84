package analytics

import (
	"testing"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
)

func TestPercentOf(t *testing.T) {
	cases := []struct {
		part, whole int64
		want        float64
	}{
		{0, 0, 0},
		{50, 0, 0},
		{50, -10, 0},
		{0, 200, 0},
		{50, 200, 25},
		{200, 200, 100},
		{300, 200, 150}, // not capped
	}
	for i, tc := range cases {
		if got := PercentOf(tc.part, tc.whole); got != tc.want {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, got)
		}
	}
}

func TestDebtProgress(t *testing.T) {
	d := core.Debt{Total: core.Money{Cents: 100000}, Paid: core.Money{Cents: 25000}}
	if got := DebtProgress(d); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
	// Overpayment clamps.
	d.Paid.Cents = 120000
	if got := DebtProgress(d); got != 100 {
		t.Fatalf("expected clamp at 100, got %v", got)
	}
}

func TestGoalProgress(t *testing.T) {
	g := core.SavingsGoal{Target: core.Money{Cents: 50000}, Saved: core.Money{Cents: 50000}}
	if got := GoalProgress(g); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
	g.Saved.Cents = 60000
	if got := GoalProgress(g); got != 100 {
		t.Fatalf("expected clamp at 100, got %v", got)
	}
	g.Saved.Cents = 0
	if got := GoalProgress(g); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestBudgetProgress(t *testing.T) {
	b := core.Budget{Category: "Food", MonthlyLimit: core.Money{Cents: 40000}}
	if got := BudgetProgress(10000, b); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
	// A blown budget reports above 100.
	if got := BudgetProgress(60000, b); got != 150 {
		t.Fatalf("expected 150, got %v", got)
	}
}
