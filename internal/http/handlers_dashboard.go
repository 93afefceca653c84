package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/analytics"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/services"
)

// handleIndex renders the dashboard page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	categories, err := s.browser.ListCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category list failed", "error", err)
	}

	now := time.Now()
	data := struct {
		Today      string
		Year       int
		Month      int
		Categories []string
	}{
		Today:      now.Format("2006-01-02"),
		Year:       now.Year(),
		Month:      int(now.Month()),
		Categories: categories,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleDashboardSummary renders the month summary partial.
func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	params := ParseMonthParams(r.URL.Query())
	if params.Month < 1 || params.Month > 12 {
		corrected := int(time.Now().Month())
		slog.WarnContext(ctx, "Invalid month parameter",
			"year", params.Year,
			"month", params.Month,
			"corrected_to", corrected)
		params.Month = corrected
	}

	overview, err := s.dashboard.Summary(ctx, params.Year, params.Month)
	if err != nil {
		slog.ErrorContext(ctx, "Month summary failed", "error", err, "year", params.Year, "month", params.Month)
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Error loading summary</div></section>`))
		return
	}

	net := overview.Net()
	netClass := ""
	if net.Cents > 0 {
		netClass = "summary__net--positive"
	} else if net.Cents < 0 {
		netClass = "summary__net--negative"
	}

	data := struct {
		Year     int
		Month    int
		Label    string
		Income   string
		Expenses string
		Net      string
		NetClass string
	}{
		Year:     overview.Year,
		Month:    overview.Month,
		Label:    time.Date(overview.Year, time.Month(overview.Month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006"),
		Income:   formatEuros(overview.TotalIncome.Cents),
		Expenses: formatEuros(overview.TotalExpense.Cents),
		Net:      formatEuros(net.Cents),
		NetClass: netClass,
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard_summary", data); err != nil {
		slog.ErrorContext(ctx, "Summary template failed", "error", err)
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Error rendering summary</div></section>`))
	}
}

// trendWindow maps a chart mode to its aggregation window. An empty
// mode falls back to the twelve month view.
func trendWindow(mode string) (analytics.Window, bool) {
	switch mode {
	case "daily7":
		return analytics.LastDays(7), true
	case "daily30":
		return analytics.LastDays(30), true
	case "monthly12", "":
		return analytics.LastMonths(12), true
	default:
		return analytics.Window{}, false
	}
}

// handleDashboardTrend returns the bucketed income/expense series that
// feeds the dashboard chart.
func (s *Server) handleDashboardTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	mode := strings.TrimSpace(r.URL.Query().Get("mode"))
	window, ok := trendWindow(mode)
	if !ok {
		http.Error(w, "unknown trend mode", http.StatusBadRequest)
		return
	}

	buckets, err := s.dashboard.Trend(ctx, window, core.Date{})
	if err != nil {
		slog.ErrorContext(ctx, "Trend query failed", "error", err, "mode", mode)
		buckets = nil
	}

	type point struct {
		Label   string `json:"label"`
		Income  int64  `json:"income"`
		Expense int64  `json:"expense"`
	}
	points := make([]point, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, point{
			Label:   b.Label(),
			Income:  b.TotalIncomeCents,
			Expense: b.TotalExpenseCents,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(points)
}

// handleDashboardCategories renders the spending-by-category partial.
func (s *Server) handleDashboardCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	mode := strings.TrimSpace(r.URL.Query().Get("mode"))
	window, ok := trendWindow(mode)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Unknown period</div>`))
		return
	}

	totals, err := s.dashboard.Categories(ctx, window, core.Date{})
	if err != nil {
		slog.ErrorContext(ctx, "Category totals failed", "error", err, "mode", mode)
		_, _ = w.Write([]byte(`<div id="categories" class="categories"><div class="placeholder">Error loading categories</div></div>`))
		return
	}

	type categoryView struct {
		Name    string
		Amount  string
		Percent string
		Width   int
	}
	categories := make([]categoryView, 0, len(totals))
	for _, t := range totals {
		categories = append(categories, categoryView{
			Name:    t.Category,
			Amount:  formatEuros(t.TotalCents),
			Percent: strconv.FormatFloat(t.PercentOfWhole, 'f', 1, 64) + "%",
			Width:   progressWidth(t.PercentOfWhole),
		})
	}

	data := struct {
		Categories []categoryView
	}{Categories: categories}

	if err := s.templates.ExecuteTemplate(w, "category_breakdown", data); err != nil {
		slog.ErrorContext(ctx, "Category template failed", "error", err)
		_, _ = w.Write([]byte(`<div id="categories" class="categories"><div class="placeholder">Error rendering categories</div></div>`))
	}
}

// handleDashboardRecent renders the latest transactions partial.
func (s *Server) handleDashboardRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	limit := services.DefaultRecentLimit
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	events, err := s.dashboard.Recent(ctx, limit)
	if err != nil {
		slog.ErrorContext(ctx, "Recent transactions failed", "error", err, "limit", limit)
		_, _ = w.Write([]byte(`<div id="recent" class="recent"><div class="placeholder">Error loading transactions</div></div>`))
		return
	}

	type transactionView struct {
		ID          int64
		Kind        string
		Description string
		Category    string
		Amount      string
		Date        string
	}
	transactions := make([]transactionView, 0, len(events))
	for _, ev := range events {
		category := strings.TrimSpace(ev.Category)
		if category == "" {
			category = analytics.Uncategorized
		}
		amountCents := ev.AmountCents
		if ev.Kind == analytics.KindExpense {
			amountCents = -amountCents
		}
		date := ""
		if !ev.OccurredOn.IsZero() {
			date = ev.OccurredOn.Format("02/01")
		}
		transactions = append(transactions, transactionView{
			ID:          ev.ID,
			Kind:        string(ev.Kind),
			Description: ev.Description,
			Category:    category,
			Amount:      formatEuros(amountCents),
			Date:        date,
		})
	}

	data := struct {
		Transactions []transactionView
	}{Transactions: transactions}

	if err := s.templates.ExecuteTemplate(w, "recent_transactions", data); err != nil {
		slog.ErrorContext(ctx, "Recent transactions template failed", "error", err)
		_, _ = w.Write([]byte(`<div id="recent" class="recent"><div class="placeholder">Error rendering transactions</div></div>`))
	}
}
