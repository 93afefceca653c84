package analytics

import (
	"math"
	"reflect"
	"testing"
)

func TestTotalsByCategoryScenario(t *testing.T) {
	events := []MoneyEvent{
		{AmountCents: 300, Category: "Food"},
		{AmountCents: 100, Category: "Food"},
		{AmountCents: 200, Category: "Travel"},
	}
	got := TotalsByCategory(events)
	if len(got) != 2 {
		t.Fatalf("expected 2 totals, got %d", len(got))
	}
	if got[0].Category != "Food" || got[0].TotalCents != 400 {
		t.Fatalf("expected Food 400 first, got %+v", got[0])
	}
	if got[1].Category != "Travel" || got[1].TotalCents != 200 {
		t.Fatalf("expected Travel 200 second, got %+v", got[1])
	}
	if math.Abs(got[0].PercentOfWhole-66.67) > 0.01 {
		t.Fatalf("expected Food ~66.67%%, got %v", got[0].PercentOfWhole)
	}
	if math.Abs(got[1].PercentOfWhole-33.33) > 0.01 {
		t.Fatalf("expected Travel ~33.33%%, got %v", got[1].PercentOfWhole)
	}
}

func TestTotalsByCategoryPercentagesSumTo100(t *testing.T) {
	events := []MoneyEvent{
		{AmountCents: 1234, Category: "a"},
		{AmountCents: 5678, Category: "b"},
		{AmountCents: 91, Category: "c"},
		{AmountCents: 3, Category: "d"},
		{AmountCents: 777, Category: "a"},
	}
	got := TotalsByCategory(events)
	var sum float64
	for _, ct := range got {
		sum += ct.PercentOfWhole
	}
	if math.Abs(sum-100) > 1e-6 {
		t.Fatalf("percentages sum to %v, expected 100", sum)
	}
}

func TestTotalsByCategoryEmpty(t *testing.T) {
	if got := TotalsByCategory(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
	// Zero grand total behaves like empty input.
	zero := []MoneyEvent{{AmountCents: 0, Category: "Food"}}
	if got := TotalsByCategory(zero); got != nil {
		t.Fatalf("expected nil for zero total, got %v", got)
	}
}

func TestTotalsByCategoryUncategorized(t *testing.T) {
	events := []MoneyEvent{
		{AmountCents: 100, Category: ""},
		{AmountCents: 50, Category: "   "},
		{AmountCents: 25, Category: "Food"},
	}
	got := TotalsByCategory(events)
	if len(got) != 2 {
		t.Fatalf("expected 2 totals, got %d", len(got))
	}
	if got[0].Category != Uncategorized || got[0].TotalCents != 150 {
		t.Fatalf("expected Uncategorized 150 first, got %+v", got[0])
	}
}

func TestTotalsByCategoryInputOrderIndependent(t *testing.T) {
	base := []MoneyEvent{
		{AmountCents: 300, Category: "Food"},
		{AmountCents: 100, Category: "Food"},
		{AmountCents: 200, Category: "Travel"},
		{AmountCents: 200, Category: "Rent"},
	}
	reversed := make([]MoneyEvent, len(base))
	for i, ev := range base {
		reversed[len(base)-1-i] = ev
	}
	interleaved := []MoneyEvent{base[2], base[0], base[3], base[1]}

	want := TotalsByCategory(base)
	for i, perm := range [][]MoneyEvent{reversed, interleaved} {
		if got := TotalsByCategory(perm); !reflect.DeepEqual(got, want) {
			t.Fatalf("permutation %d changed output: %v vs %v", i, got, want)
		}
	}
}

func TestTotalsByCategoryTieBreak(t *testing.T) {
	events := []MoneyEvent{
		{AmountCents: 200, Category: "Zoo"},
		{AmountCents: 200, Category: "Art"},
		{AmountCents: 200, Category: "Food"},
	}
	got := TotalsByCategory(events)
	labels := []string{got[0].Category, got[1].Category, got[2].Category}
	want := []string{"Art", "Food", "Zoo"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("expected label-ascending tie break %v, got %v", want, labels)
	}
}
