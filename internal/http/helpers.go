package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/analytics"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
)

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(dateStr string) (core.Date, error) {
	parsedTime, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: parsedTime}, nil
}

// monthRange returns the first and last day of the given month.
func monthRange(year, month int) (core.Date, core.Date) {
	from := core.NewDate(year, month, 1)
	to := core.Date{Time: time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)}
	return from, to
}

// formatEuros formats cents as a Euro currency string (e.g. "€12,34").
func formatEuros(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s€%d,%02d", sign, cents/100, cents%100)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(input string) string {
	sanitized := strings.TrimSpace(input)
	sanitized = strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, sanitized)
	return sanitized
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// progressWidth converts a progress percentage into a CSS bar width,
// keeping tiny non-zero values visible and clamping at 100.
func progressWidth(percent float64) int {
	width := int(percent + 0.5)
	if width < 0 {
		width = 0
	}
	if width > 0 && width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}

// sortEventsFromQuery applies the sort and dir query parameters to a
// record list, defaulting to newest first.
func sortEventsFromQuery(events []analytics.MoneyEvent, query url.Values) {
	by := analytics.SortByDate
	if strings.TrimSpace(query.Get("sort")) == "amount" {
		by = analytics.SortByAmount
	}
	desc := strings.TrimSpace(query.Get("dir")) != "asc"
	analytics.SortEvents(events, by, desc)
}

// recordView is the row shape shared by the income and expense list
// partials.
type recordView struct {
	ID          int64
	Date        string
	Description string
	Category    string
	Amount      string
}

// renderRecordList renders a list partial from money events.
func (s *Server) renderRecordList(w http.ResponseWriter, r *http.Request, name string, events []analytics.MoneyEvent) {
	items := make([]recordView, 0, len(events))
	for _, ev := range events {
		category := strings.TrimSpace(ev.Category)
		if category == "" {
			category = analytics.Uncategorized
		}
		date := ""
		if !ev.OccurredOn.IsZero() {
			date = ev.OccurredOn.Format("2006-01-02")
		}
		items = append(items, recordView{
			ID:          ev.ID,
			Date:        date,
			Description: ev.Description,
			Category:    category,
			Amount:      formatEuros(ev.AmountCents),
		})
	}

	data := struct {
		Items []recordView
	}{Items: items}

	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Record list template failed", "error", err, "template", name)
		_, _ = w.Write([]byte(`<div class="records"><div class="row placeholder">Error rendering list</div></div>`))
	}
}
