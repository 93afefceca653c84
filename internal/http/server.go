// Package http serves the web UI: the dashboard page, HTMX partials for
// records, debts, goals and budgets, file exports and the operational
// endpoints.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/config"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/log"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/metrics"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/services"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/sheets"
	appweb "github.com/sanjaii1/grow-financial-goals-sub000/web"
)

// LedgerBrowser lists stored records for the filterable list partials
// and the export builders.
type LedgerBrowser interface {
	ListIncomesByRange(ctx context.Context, from, to core.Date) ([]core.Income, error)
	ListExpensesByRange(ctx context.Context, from, to core.Date) ([]core.Expense, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// PlannerStore persists debts, savings goals and budgets.
type PlannerStore interface {
	CreateDebt(ctx context.Context, debt core.Debt) (int64, error)
	ListDebts(ctx context.Context) ([]core.Debt, error)
	DeleteDebt(ctx context.Context, id int64) error
	RecordDebtPayment(ctx context.Context, debtID int64, amount core.Money) (core.Debt, error)

	CreateSavingsGoal(ctx context.Context, goal core.SavingsGoal) (int64, error)
	ListSavingsGoals(ctx context.Context) ([]core.SavingsGoal, error)
	DeleteSavingsGoal(ctx context.Context, id int64) error
	AddGoalContribution(ctx context.Context, goalID int64, amount core.Money) (core.SavingsGoal, error)

	SetBudget(ctx context.Context, budget core.Budget) (core.Budget, error)
	ListBudgets(ctx context.Context) ([]core.Budget, error)
	DeleteBudget(ctx context.Context, id int64) error
	MonthCategorySpent(ctx context.Context, category string, year, month int) (int64, error)
}

// Server wraps http.Server with the application's handlers and state.
type Server struct {
	http.Server
	templates   *template.Template
	ledger      *services.LedgerService
	dashboard   *services.DashboardService
	browser     LedgerBrowser
	planner     PlannerStore
	pinger      sheets.Pinger
	rateLimiter *rateLimiter
	reqLog      *log.StructuredLogger
	started     time.Time

	shutdownOnce sync.Once
}

type contextKey string

// requestIDKey carries the generated request ID through handler contexts.
const requestIDKey contextKey = "request_id"

// NewServer configures routes and templates and returns a server ready
// for ListenAndServe. The pinger may be nil when the spreadsheet mirror
// is disabled.
func NewServer(cfg *config.Config, ledger *services.LedgerService, dashboard *services.DashboardService, browser LedgerBrowser, planner PlannerStore, pinger sheets.Pinger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    ":" + cfg.Port,
			Handler: mux,
		},
		ledger:      ledger,
		dashboard:   dashboard,
		browser:     browser,
		planner:     planner,
		pinger:      pinger,
		rateLimiter: newRateLimiter(cfg.RateLimitPerMinute),
		reqLog: log.NewStructuredLogger(log.New(log.Config{
			Handler:   slog.Default().Handler(),
			Component: log.ComponentHTTP,
		})),
		started: time.Now(),
	}

	// Parse embedded templates at startup.
	templates, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = templates

	// Static assets, embedded and cacheable.
	if staticFS, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			fileServer.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static assets", "error", err)
	}

	mux.HandleFunc("/", s.withMiddleware(s.handleIndex))
	mux.HandleFunc("/dashboard/summary", s.withMiddleware(s.handleDashboardSummary))
	mux.HandleFunc("/dashboard/trend", s.withMiddleware(s.handleDashboardTrend))
	mux.HandleFunc("/dashboard/categories", s.withMiddleware(s.handleDashboardCategories))
	mux.HandleFunc("/dashboard/recent", s.withMiddleware(s.handleDashboardRecent))
	mux.HandleFunc("/incomes", s.withMiddleware(s.handleIncomes))
	mux.HandleFunc("/expenses", s.withMiddleware(s.handleExpenses))
	mux.HandleFunc("/debts", s.withMiddleware(s.handleDebts))
	mux.HandleFunc("/debts/payment", s.withMiddleware(s.handleDebtPayment))
	mux.HandleFunc("/goals", s.withMiddleware(s.handleGoals))
	mux.HandleFunc("/goals/contribution", s.withMiddleware(s.handleGoalContribution))
	mux.HandleFunc("/budgets", s.withMiddleware(s.handleBudgets))
	mux.HandleFunc("/export/transactions.xlsx", s.withMiddleware(s.handleExportTransactions))
	mux.HandleFunc("/export/statement.pdf", s.withMiddleware(s.handleExportStatement))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// withMiddleware wraps a handler with client IP extraction, request IDs,
// write rate limiting, security headers and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.reqLog.LogHTTPStart(ctx, r, clientIP)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Rate limit mutating requests only; reads stay cheap.
		limited := (r.Method == http.MethodPost || r.Method == http.MethodDelete) &&
			!s.rateLimiter.allow(clientIP)
		if limited {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP,
				"method", r.Method,
				"url", r.URL.Path)
			rw.Header().Set("Retry-After", "60")
			http.Error(rw, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
		} else {
			next(rw, r)
		}

		duration := time.Since(start)
		metrics.ObserveHTTPRequest(r.Method, r.URL.Path, rw.statusCode, duration)
		s.reqLog.LogHTTPEnd(ctx, r, rw.statusCode, duration.Milliseconds(), clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown stops the rate limiter's cleanup goroutine and then shuts
// down the underlying HTTP server. Safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
