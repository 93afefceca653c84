package http

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/analytics"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
)

// handleExpenses dispatches the expense collection routes.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	case http.MethodDelete:
		s.deleteExpense(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// listExpenses renders the filterable expense list partial.
func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	query := r.URL.Query()
	params := ParseMonthParams(query)
	from, to := monthRange(params.Year, params.Month)
	if v := strings.TrimSpace(query.Get("from")); v != "" {
		if d, err := parseDate(v); err == nil {
			from = d
		}
	}
	if v := strings.TrimSpace(query.Get("to")); v != "" {
		if d, err := parseDate(v); err == nil {
			to = d
		}
	}

	expenses, err := s.browser.ListExpensesByRange(ctx, from, to)
	if err != nil {
		slog.ErrorContext(ctx, "List expenses failed",
			"error", err,
			"from", from.Format("2006-01-02"),
			"to", to.Format("2006-01-02"))
		_, _ = w.Write([]byte(`<div class="records"><div class="row placeholder">Error loading expenses</div></div>`))
		return
	}

	events := analytics.Filter(analytics.FromExpenses(expenses), analytics.FilterQuery{
		Category: sanitizeInput(query.Get("category")),
		Text:     sanitizeInput(query.Get("q")),
	})
	sortEventsFromQuery(events, query)

	s.renderRecordList(w, r, "expense_list", events)
}

// createExpense validates and stores a new expense.
func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		slog.ErrorContext(r.Context(), "Form parse failed", "method", r.Method, "url", r.URL.Path)
		resp.Write(w)
		return
	}

	now := time.Now()
	when := core.NewDate(now.Year(), int(now.Month()), now.Day())
	if v := strings.TrimSpace(r.Form.Get("date")); v != "" {
		d, err := parseDate(v)
		if err != nil {
			UnprocessableEntityError("Invalid date").Write(w)
			return
		}
		when = d
	}

	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		UnprocessableEntityError("Invalid amount").Write(w)
		return
	}

	expense := core.Expense{
		Date:        when,
		Description: sanitizeInput(r.Form.Get("description")),
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(r.Form.Get("category")),
	}
	if err := expense.Validate(); err != nil {
		UnprocessableEntityError("Invalid data: " + err.Error()).Write(w)
		return
	}

	saved, err := s.ledger.AddExpense(r.Context(), expense)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save expense",
			"error", err,
			"description", expense.Description,
			"amount_cents", expense.Amount.Cents,
			"category", expense.Category)
		InternalServerError("Error saving expense").Write(w)
		return
	}

	s.dashboard.Invalidate()

	slog.InfoContext(r.Context(), "Expense created",
		"expense_id", saved.ID,
		"description", saved.Description,
		"amount_cents", saved.Amount.Cents,
		"category", saved.Category)

	message := fmt.Sprintf("Expense saved: %s (%s)", saved.Description, formatEuros(saved.Amount.Cents))
	NewHTMXResponse().
		TriggerRecordCreated("expense", saved.Date.Year(), saved.Date.Month()).
		TriggerFormReset().
		TriggerSuccessNotification(message).
		BodyHTML(`<div class="success">` + template.HTMLEscapeString(message) + `</div>`).
		Write(w)
}

// deleteExpense removes an expense by id from a JSON or form body.
func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id, errResp := parseBodyID(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	if err := s.ledger.RemoveExpense(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete expense", "error", err, "expense_id", id)
		InternalServerError("Error deleting expense").Write(w)
		return
	}

	s.dashboard.Invalidate()

	slog.InfoContext(r.Context(), "Expense deleted", "expense_id", id)

	NewHTMXResponse().
		TriggerRecordDeleted("expense").
		TriggerDashboardRefresh().
		TriggerSuccessNotification("Expense deleted").
		Write(w)
}
