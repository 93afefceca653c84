package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/analytics"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/export"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/metrics"
)

// handleExportTransactions streams the month's records as a spreadsheet.
func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	params := ParseMonthParams(r.URL.Query())
	from, to := monthRange(params.Year, params.Month)

	incomes, err := s.browser.ListIncomesByRange(ctx, from, to)
	if err != nil {
		slog.ErrorContext(ctx, "Export incomes query failed", "error", err, "year", params.Year, "month", params.Month)
		metrics.ObserveExport("xlsx", metrics.ResultError, time.Since(start))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	expenses, err := s.browser.ListExpensesByRange(ctx, from, to)
	if err != nil {
		slog.ErrorContext(ctx, "Export expenses query failed", "error", err, "year", params.Year, "month", params.Month)
		metrics.ObserveExport("xlsx", metrics.ResultError, time.Since(start))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	events := append(analytics.FromIncomes(incomes), analytics.FromExpenses(expenses)...)
	analytics.SortEvents(events, analytics.SortByDate, false)

	payload, err := export.BuildTransactionsXLSX(events)
	if err != nil {
		slog.ErrorContext(ctx, "Spreadsheet build failed", "error", err)
		metrics.ObserveExport("xlsx", metrics.ResultError, time.Since(start))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	metrics.ObserveExport("xlsx", metrics.ResultSuccess, time.Since(start))
	slog.InfoContext(ctx, "Transactions exported",
		"year", params.Year,
		"month", params.Month,
		"records", len(events),
		"bytes", len(payload))

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=transactions-%04d-%02d.xlsx", params.Year, params.Month))
	_, _ = w.Write(payload)
}

// handleExportStatement streams the month statement as a PDF.
func (s *Server) handleExportStatement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	params := ParseMonthParams(r.URL.Query())
	from, to := monthRange(params.Year, params.Month)

	overview, err := s.dashboard.Summary(ctx, params.Year, params.Month)
	if err != nil {
		slog.ErrorContext(ctx, "Statement summary query failed", "error", err, "year", params.Year, "month", params.Month)
		metrics.ObserveExport("pdf", metrics.ResultError, time.Since(start))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	expenses, err := s.browser.ListExpensesByRange(ctx, from, to)
	if err != nil {
		slog.ErrorContext(ctx, "Statement expenses query failed", "error", err, "year", params.Year, "month", params.Month)
		metrics.ObserveExport("pdf", metrics.ResultError, time.Since(start))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	totals := analytics.TotalsByCategory(analytics.FromExpenses(expenses))

	payload, err := export.BuildStatementPDF(overview, totals)
	if err != nil {
		slog.ErrorContext(ctx, "Statement build failed", "error", err)
		metrics.ObserveExport("pdf", metrics.ResultError, time.Since(start))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	metrics.ObserveExport("pdf", metrics.ResultSuccess, time.Since(start))
	slog.InfoContext(ctx, "Statement exported",
		"year", params.Year,
		"month", params.Month,
		"bytes", len(payload))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=statement-%04d-%02d.pdf", params.Year, params.Month))
	_, _ = w.Write(payload)
}
