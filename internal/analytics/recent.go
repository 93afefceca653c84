package analytics

import (
	"sort"
	"strings"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
)

// CombineRecent merges incomes and expenses into one list ordered most
// recent first and truncated to limit. The sort is stable, so same-day
// records keep the concatenation order; records without a date sink to
// the end.
func CombineRecent(incomes, expenses []MoneyEvent, limit int) []MoneyEvent {
	if limit < 0 {
		limit = 0
	}
	all := make([]MoneyEvent, 0, len(incomes)+len(expenses))
	all = append(all, incomes...)
	all = append(all, expenses...)
	sort.SliceStable(all, func(i, j int) bool {
		di, dj := all[i].OccurredOn, all[j].OccurredOn
		if di.IsZero() || dj.IsZero() {
			return !di.IsZero() && dj.IsZero()
		}
		return di.After(dj.Time)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

// FilterQuery narrows a list of events. Zero fields match everything;
// set fields combine with AND. Category matching is case-insensitive and
// treats blank event categories as Uncategorized.
type FilterQuery struct {
	Category string
	Text     string
	From     core.Date
	To       core.Date
}

// Filter returns the events matching q, preserving input order.
func Filter(events []MoneyEvent, q FilterQuery) []MoneyEvent {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]MoneyEvent, 0, len(events))
	for _, ev := range events {
		if q.Category != "" {
			cat := strings.TrimSpace(ev.Category)
			if cat == "" {
				cat = Uncategorized
			}
			if !strings.EqualFold(cat, q.Category) {
				continue
			}
		}
		if text != "" && !strings.Contains(strings.ToLower(ev.Description), text) {
			continue
		}
		if !q.From.IsZero() && (ev.OccurredOn.IsZero() || ev.OccurredOn.Before(q.From.Time)) {
			continue
		}
		if !q.To.IsZero() && (ev.OccurredOn.IsZero() || ev.OccurredOn.After(q.To.Time)) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

type SortBy int

const (
	SortByDate SortBy = iota
	SortByAmount
)

// SortEvents orders events in place by the given field. The sort is
// stable, so equal keys keep their relative order across calls.
func SortEvents(events []MoneyEvent, by SortBy, desc bool) {
	sort.SliceStable(events, func(i, j int) bool {
		switch by {
		case SortByAmount:
			if desc {
				return events[i].AmountCents > events[j].AmountCents
			}
			return events[i].AmountCents < events[j].AmountCents
		default:
			if desc {
				return events[i].OccurredOn.After(events[j].OccurredOn.Time)
			}
			return events[i].OccurredOn.Before(events[j].OccurredOn.Time)
		}
	})
}
