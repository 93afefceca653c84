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

// handleIncomes dispatches the income collection routes.
func (s *Server) handleIncomes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listIncomes(w, r)
	case http.MethodPost:
		s.createIncome(w, r)
	case http.MethodDelete:
		s.deleteIncome(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// listIncomes renders the filterable income list partial.
func (s *Server) listIncomes(w http.ResponseWriter, r *http.Request) {
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

	incomes, err := s.browser.ListIncomesByRange(ctx, from, to)
	if err != nil {
		slog.ErrorContext(ctx, "List incomes failed",
			"error", err,
			"from", from.Format("2006-01-02"),
			"to", to.Format("2006-01-02"))
		_, _ = w.Write([]byte(`<div class="records"><div class="row placeholder">Error loading incomes</div></div>`))
		return
	}

	events := analytics.Filter(analytics.FromIncomes(incomes), analytics.FilterQuery{
		Category: sanitizeInput(query.Get("category")),
		Text:     sanitizeInput(query.Get("q")),
	})
	sortEventsFromQuery(events, query)

	s.renderRecordList(w, r, "income_list", events)
}

// createIncome validates and stores a new income.
func (s *Server) createIncome(w http.ResponseWriter, r *http.Request) {
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

	income := core.Income{
		Date:        when,
		Description: sanitizeInput(r.Form.Get("description")),
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(r.Form.Get("category")),
	}
	if err := income.Validate(); err != nil {
		UnprocessableEntityError("Invalid data: " + err.Error()).Write(w)
		return
	}

	saved, err := s.ledger.AddIncome(r.Context(), income)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save income",
			"error", err,
			"description", income.Description,
			"amount_cents", income.Amount.Cents,
			"category", income.Category)
		InternalServerError("Error saving income").Write(w)
		return
	}

	s.dashboard.Invalidate()

	slog.InfoContext(r.Context(), "Income created",
		"income_id", saved.ID,
		"description", saved.Description,
		"amount_cents", saved.Amount.Cents,
		"category", saved.Category)

	message := fmt.Sprintf("Income saved: %s (%s)", saved.Description, formatEuros(saved.Amount.Cents))
	NewHTMXResponse().
		TriggerRecordCreated("income", saved.Date.Year(), saved.Date.Month()).
		TriggerFormReset().
		TriggerSuccessNotification(message).
		BodyHTML(`<div class="success">` + template.HTMLEscapeString(message) + `</div>`).
		Write(w)
}

// deleteIncome removes an income by id from a JSON or form body.
func (s *Server) deleteIncome(w http.ResponseWriter, r *http.Request) {
	id, errResp := parseBodyID(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	if err := s.ledger.RemoveIncome(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete income", "error", err, "income_id", id)
		InternalServerError("Error deleting income").Write(w)
		return
	}

	s.dashboard.Invalidate()

	slog.InfoContext(r.Context(), "Income deleted", "income_id", id)

	NewHTMXResponse().
		TriggerRecordDeleted("income").
		TriggerDashboardRefresh().
		TriggerSuccessNotification("Income deleted").
		Write(w)
}
