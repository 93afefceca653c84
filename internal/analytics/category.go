package analytics

import (
	"sort"
	"strings"
)

// TotalsByCategory groups events of one kind by category and ranks the
// totals. Blank categories group under Uncategorized. The result is
// sorted by total descending with ties broken by label ascending, so the
// output never depends on input order or on map iteration order. A zero
// grand total yields nil.
func TotalsByCategory(events []MoneyEvent) []CategoryTotal {
	sums := make(map[string]int64)
	var grand int64
	for _, ev := range events {
		cat := strings.TrimSpace(ev.Category)
		if cat == "" {
			cat = Uncategorized
		}
		sums[cat] += ev.AmountCents
		grand += ev.AmountCents
	}
	if grand == 0 {
		return nil
	}

	out := make([]CategoryTotal, 0, len(sums))
	for cat, total := range sums {
		out = append(out, CategoryTotal{
			Category:       cat,
			TotalCents:     total,
			PercentOfWhole: 100 * float64(total) / float64(grand),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalCents != out[j].TotalCents {
			return out[i].TotalCents > out[j].TotalCents
		}
		return out[i].Category < out[j].Category
	})
	return out
}
