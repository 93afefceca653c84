package analytics

import (
	"time"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
)

// BucketByPeriod folds incomes and expenses into a fixed window of
// chronological buckets ending at ref (inclusive). The window is fully
// pre-populated before any event is folded in, so a period with no
// events still yields a zero bucket and absent data charts as zero.
//
// Events whose date is missing are skipped and events outside the
// window are ignored; neither is an error. Which total an event feeds
// depends on the list it came from, not on its Kind field. A zero ref
// means today.
func BucketByPeriod(incomes, expenses []MoneyEvent, win Window, ref core.Date) []Bucket {
	if win.Length <= 0 {
		return nil
	}
	if ref.IsZero() {
		now := time.Now().UTC()
		ref = core.NewDate(now.Year(), int(now.Month()), now.Day())
	}

	keys := windowKeys(win, ref)
	buckets := make([]Bucket, len(keys))
	index := make(map[PeriodKey]int, len(keys))
	for i, k := range keys {
		buckets[i] = Bucket{Key: k}
		index[k] = i
	}

	fold := func(events []MoneyEvent, asIncome bool) {
		for _, ev := range events {
			if ev.OccurredOn.IsZero() {
				continue
			}
			i, ok := index[keyFor(ev.OccurredOn, win.Unit)]
			if !ok {
				continue
			}
			if asIncome {
				buckets[i].TotalIncomeCents += ev.AmountCents
			} else {
				buckets[i].TotalExpenseCents += ev.AmountCents
			}
		}
	}
	fold(incomes, true)
	fold(expenses, false)

	return buckets
}

// windowKeys generates the structural keys for the window ending at ref,
// oldest first. Month arithmetic goes through time.Date so year
// boundaries normalize.
func windowKeys(win Window, ref core.Date) []PeriodKey {
	keys := make([]PeriodKey, 0, win.Length)
	switch win.Unit {
	case UnitMonth:
		for i := win.Length - 1; i >= 0; i-- {
			t := time.Date(ref.Year(), ref.Time.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
			keys = append(keys, PeriodKey{Year: t.Year(), Month: t.Month()})
		}
	default:
		for i := win.Length - 1; i >= 0; i-- {
			t := ref.AddDate(0, 0, -i)
			keys = append(keys, PeriodKey{Year: t.Year(), Month: t.Month(), Day: t.Day()})
		}
	}
	return keys
}

func keyFor(d core.Date, unit PeriodUnit) PeriodKey {
	if unit == UnitMonth {
		return PeriodKey{Year: d.Year(), Month: d.Time.Month()}
	}
	return PeriodKey{Year: d.Year(), Month: d.Time.Month(), Day: d.Day()}
}
