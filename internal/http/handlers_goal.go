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

// handleGoals dispatches the savings goal collection routes.
func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listGoals(w, r)
	case http.MethodPost:
		s.createGoal(w, r)
	case http.MethodDelete:
		s.deleteGoal(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// listGoals renders the savings goal list partial with funding progress.
func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	goals, err := s.planner.ListSavingsGoals(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "List goals failed", "error", err)
		_, _ = w.Write([]byte(`<div class="goals"><div class="row placeholder">Error loading goals</div></div>`))
		return
	}

	type goalView struct {
		ID       int64
		Name     string
		Target   string
		Saved    string
		Deadline string
		Percent  string
		Width    int
	}
	items := make([]goalView, 0, len(goals))
	for _, g := range goals {
		progress := analytics.GoalProgress(g)
		deadline := ""
		if !g.Deadline.IsEmpty() {
			deadline = g.Deadline.Format("2006-01-02")
		}
		items = append(items, goalView{
			ID:       g.ID,
			Name:     g.Name,
			Target:   formatEuros(g.Target.Cents),
			Saved:    formatEuros(g.Saved.Cents),
			Deadline: deadline,
			Percent:  strconv.FormatFloat(progress, 'f', 1, 64) + "%",
			Width:    progressWidth(progress),
		})
	}

	data := struct {
		Goals []goalView
	}{Goals: items}

	if err := s.templates.ExecuteTemplate(w, "goal_list", data); err != nil {
		slog.ErrorContext(ctx, "Goal list template failed", "error", err)
		_, _ = w.Write([]byte(`<div class="goals"><div class="row placeholder">Error rendering goals</div></div>`))
	}
}

// createGoal validates and stores a new savings goal.
func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	targetCents, err := core.ParseDecimalToCents(strings.TrimSpace(r.Form.Get("target")))
	if err != nil {
		UnprocessableEntityError("Invalid target amount").Write(w)
		return
	}

	var savedCents int64
	if v := strings.TrimSpace(r.Form.Get("saved")); v != "" {
		savedCents, err = core.ParseDecimalToCents(v)
		if err != nil {
			UnprocessableEntityError("Invalid saved amount").Write(w)
			return
		}
	}

	var deadline core.Date
	if v := strings.TrimSpace(r.Form.Get("deadline")); v != "" {
		deadline, err = parseDate(v)
		if err != nil {
			UnprocessableEntityError("Invalid deadline").Write(w)
			return
		}
	}

	goal := core.SavingsGoal{
		Name:     sanitizeInput(r.Form.Get("name")),
		Target:   core.Money{Cents: targetCents},
		Saved:    core.Money{Cents: savedCents},
		Deadline: deadline,
	}
	if err := goal.Validate(); err != nil {
		UnprocessableEntityError("Invalid data: " + err.Error()).Write(w)
		return
	}

	id, err := s.planner.CreateSavingsGoal(r.Context(), goal)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save goal", "error", err, "name", goal.Name)
		InternalServerError("Error saving goal").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Savings goal created",
		"goal_id", id,
		"name", goal.Name,
		"target_cents", goal.Target.Cents)

	NewHTMXResponse().
		TriggerGoalsChanged().
		TriggerFormReset().
		TriggerSuccessNotification("Goal saved: " + goal.Name).
		Write(w)
}

// deleteGoal removes a savings goal by id from a JSON or form body.
func (s *Server) deleteGoal(w http.ResponseWriter, r *http.Request) {
	id, errResp := parseBodyID(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	if err := s.planner.DeleteSavingsGoal(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete goal", "error", err, "goal_id", id)
		InternalServerError("Error deleting goal").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Savings goal deleted", "goal_id", id)

	NewHTMXResponse().
		TriggerGoalsChanged().
		TriggerSuccessNotification("Goal deleted").
		Write(w)
}

// handleGoalContribution adds funds to a savings goal.
func (s *Server) handleGoalContribution(w http.ResponseWriter, r *http.Request) {
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
		BadRequestError("Invalid goal id").Write(w)
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(r.Form.Get("amount")))
	if err != nil || cents <= 0 {
		UnprocessableEntityError("Invalid contribution amount").Write(w)
		return
	}

	goal, err := s.planner.AddGoalContribution(r.Context(), id, core.Money{Cents: cents})
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to add goal contribution",
			"error", err,
			"goal_id", id,
			"amount_cents", cents)
		InternalServerError("Error adding contribution").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Goal contribution added",
		"goal_id", goal.ID,
		"saved_cents", goal.Saved.Cents,
		"target_cents", goal.Target.Cents)

	message := fmt.Sprintf("Contribution added: %s now at %s of %s",
		goal.Name, formatEuros(goal.Saved.Cents), formatEuros(goal.Target.Cents))
	NewHTMXResponse().
		TriggerGoalsChanged().
		TriggerFormReset().
		TriggerSuccessNotification(message).
		Write(w)
}
