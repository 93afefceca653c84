package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/analytics"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
)

// handleDebts dispatches the debt collection routes.
func (s *Server) handleDebts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listDebts(w, r)
	case http.MethodPost:
		s.createDebt(w, r)
	case http.MethodDelete:
		s.deleteDebt(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// listDebts renders the debt list partial with repayment progress.
func (s *Server) listDebts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	debts, err := s.planner.ListDebts(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "List debts failed", "error", err)
		_, _ = w.Write([]byte(`<div class="debts"><div class="row placeholder">Error loading debts</div></div>`))
		return
	}

	type debtView struct {
		ID        int64
		Name      string
		Total     string
		Paid      string
		Remaining string
		Percent   string
		Width     int
	}
	items := make([]debtView, 0, len(debts))
	for _, d := range debts {
		progress := analytics.DebtProgress(d)
		items = append(items, debtView{
			ID:        d.ID,
			Name:      d.Name,
			Total:     formatEuros(d.Total.Cents),
			Paid:      formatEuros(d.Paid.Cents),
			Remaining: formatEuros(d.Total.Cents - d.Paid.Cents),
			Percent:   strconv.FormatFloat(progress, 'f', 1, 64) + "%",
			Width:     progressWidth(progress),
		})
	}

	data := struct {
		Debts []debtView
	}{Debts: items}

	if err := s.templates.ExecuteTemplate(w, "debt_list", data); err != nil {
		slog.ErrorContext(ctx, "Debt list template failed", "error", err)
		_, _ = w.Write([]byte(`<div class="debts"><div class="row placeholder">Error rendering debts</div></div>`))
	}
}

// createDebt validates and stores a new debt.
func (s *Server) createDebt(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	totalCents, err := core.ParseDecimalToCents(strings.TrimSpace(r.Form.Get("total")))
	if err != nil {
		UnprocessableEntityError("Invalid total amount").Write(w)
		return
	}

	var paidCents int64
	if v := strings.TrimSpace(r.Form.Get("paid")); v != "" {
		paidCents, err = core.ParseDecimalToCents(v)
		if err != nil {
			UnprocessableEntityError("Invalid paid amount").Write(w)
			return
		}
	}

	debt := core.Debt{
		Name:  sanitizeInput(r.Form.Get("name")),
		Total: core.Money{Cents: totalCents},
		Paid:  core.Money{Cents: paidCents},
	}
	if err := debt.Validate(); err != nil {
		UnprocessableEntityError("Invalid data: " + err.Error()).Write(w)
		return
	}

	id, err := s.planner.CreateDebt(r.Context(), debt)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save debt", "error", err, "name", debt.Name)
		InternalServerError("Error saving debt").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Debt created",
		"debt_id", id,
		"name", debt.Name,
		"total_cents", debt.Total.Cents)

	NewHTMXResponse().
		TriggerDebtsChanged().
		TriggerFormReset().
		TriggerSuccessNotification("Debt saved: " + debt.Name).
		Write(w)
}

// deleteDebt removes a debt by id from a JSON or form body.
func (s *Server) deleteDebt(w http.ResponseWriter, r *http.Request) {
	id, errResp := parseBodyID(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	if err := s.planner.DeleteDebt(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete debt", "error", err, "debt_id", id)
		InternalServerError("Error deleting debt").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Debt deleted", "debt_id", id)

	NewHTMXResponse().
		TriggerDebtsChanged().
		TriggerSuccessNotification("Debt deleted").
		Write(w)
}

// handleDebtPayment records a repayment against a debt.
func (s *Server) handleDebtPayment(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("id")), 10, 64)
	if err != nil || id <= 0 {
		BadRequestError("Invalid debt id").Write(w)
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(r.Form.Get("amount")))
	if err != nil || cents <= 0 {
		UnprocessableEntityError("Invalid payment amount").Write(w)
		return
	}

	debt, err := s.planner.RecordDebtPayment(r.Context(), id, core.Money{Cents: cents})
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to record debt payment",
			"error", err,
			"debt_id", id,
			"amount_cents", cents)
		InternalServerError("Error recording payment").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Debt payment recorded",
		"debt_id", debt.ID,
		"paid_cents", debt.Paid.Cents,
		"total_cents", debt.Total.Cents)

	message := fmt.Sprintf("Payment recorded: %s now at %s of %s",
		debt.Name, formatEuros(debt.Paid.Cents), formatEuros(debt.Total.Cents))
	NewHTMXResponse().
		TriggerDebtsChanged().
		TriggerFormReset().
		TriggerSuccessNotification(message).
		Write(w)
}
