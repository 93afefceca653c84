package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/analytics"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
)

// handleBudgets dispatches the budget collection routes.
func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listBudgets(w, r)
	case http.MethodPost:
		s.createBudget(w, r)
	case http.MethodDelete:
		s.deleteBudget(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// listBudgets renders the budget list partial with the current month's
// spending against each limit.
func (s *Server) listBudgets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	budgets, err := s.planner.ListBudgets(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "List budgets failed", "error", err)
		_, _ = w.Write([]byte(`<div class="budgets"><div class="row placeholder">Error loading budgets</div></div>`))
		return
	}

	now := time.Now()

	type budgetView struct {
		ID       int64
		Category string
		Limit    string
		Spent    string
		Percent  string
		Width    int
		Status   string
	}
	items := make([]budgetView, 0, len(budgets))
	for _, b := range budgets {
		spent, err := s.planner.MonthCategorySpent(ctx, b.Category, now.Year(), int(now.Month()))
		if err != nil {
			slog.ErrorContext(ctx, "Budget spending query failed", "error", err, "category", b.Category)
			spent = 0
		}
		progress := analytics.BudgetProgress(spent, b)
		status := "ok"
		if progress >= 100 {
			status = "over"
		} else if progress >= 80 {
			status = "near"
		}
		items = append(items, budgetView{
			ID:       b.ID,
			Category: b.Category,
			Limit:    formatEuros(b.MonthlyLimit.Cents),
			Spent:    formatEuros(spent),
			Percent:  strconv.FormatFloat(progress, 'f', 1, 64) + "%",
			Width:    progressWidth(progress),
			Status:   status,
		})
	}

	data := struct {
		Budgets []budgetView
	}{Budgets: items}

	if err := s.templates.ExecuteTemplate(w, "budget_list", data); err != nil {
		slog.ErrorContext(ctx, "Budget list template failed", "error", err)
		_, _ = w.Write([]byte(`<div class="budgets"><div class="row placeholder">Error rendering budgets</div></div>`))
	}
}

// createBudget validates and stores a monthly budget. Setting a budget
// for an existing category replaces its limit.
func (s *Server) createBudget(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	limitCents, err := core.ParseDecimalToCents(strings.TrimSpace(r.Form.Get("limit")))
	if err != nil {
		UnprocessableEntityError("Invalid limit amount").Write(w)
		return
	}

	budget := core.Budget{
		Category:     sanitizeInput(r.Form.Get("category")),
		MonthlyLimit: core.Money{Cents: limitCents},
	}
	if err := budget.Validate(); err != nil {
		UnprocessableEntityError("Invalid data: " + err.Error()).Write(w)
		return
	}

	saved, err := s.planner.SetBudget(r.Context(), budget)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save budget", "error", err, "category", budget.Category)
		InternalServerError("Error saving budget").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Budget set",
		"budget_id", saved.ID,
		"category", saved.Category,
		"limit_cents", saved.MonthlyLimit.Cents)

	NewHTMXResponse().
		TriggerBudgetsChanged().
		TriggerFormReset().
		TriggerSuccessNotification("Budget set for " + saved.Category).
		Write(w)
}

// deleteBudget removes a budget by id from a JSON or form body.
func (s *Server) deleteBudget(w http.ResponseWriter, r *http.Request) {
	id, errResp := parseBodyID(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	if err := s.planner.DeleteBudget(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete budget", "error", err, "budget_id", id)
		InternalServerError("Error deleting budget").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Budget deleted", "budget_id", id)

	NewHTMXResponse().
		TriggerBudgetsChanged().
		TriggerSuccessNotification("Budget deleted").
		Write(w)
}
