// Package http is the server-rendered web surface of the tracker: session
// auth, dashboard, expense entry, budgets, reports, and the chart JSON API.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"expenses/internal/core"
	applog "expenses/internal/log"
	"expenses/internal/middleware/ratelimit"
	"expenses/internal/middleware/security"
	"expenses/internal/middleware/trace"
	"expenses/internal/services"
	"expenses/internal/storage"
	appweb "expenses/web"
)

// ReportExporter pushes a monthly summary to an external sheet.
type ReportExporter interface {
	ExportMonthlySummary(ctx context.Context, userEmail string, year, month int, summary []core.CategorySummary) error
}

// Options configures the server beyond its service dependencies.
type Options struct {
	Addr          string
	SecureCookies bool
	SessionTTL    time.Duration
	Exporter      ReportExporter // nil disables report export
	Logger        *applog.Logger // nil gets a component-scoped default
}

type Server struct {
	http.Server
	templates *template.Template

	store    *storage.Repository
	recorder *services.Recorder
	exporter ReportExporter

	secureCookies bool
	sessionTTL    time.Duration

	limiter *ratelimit.Limiter
	tracer  *trace.Middleware

	// Dashboard overviews are cheap to recompute but hit on every page
	// load; cache them per user+month and invalidate on writes.
	overviewCache *lruCache[core.MonthOverview]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(opts Options, store *storage.Repository, recorder *services.Recorder) *Server {
	mux := http.NewServeMux()

	s := &Server{
		store:    store,
		recorder: recorder,
		exporter: opts.Exporter,

		secureCookies: opts.SecureCookies,
		sessionTTL:    opts.SessionTTL,

		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:  trace.NewMiddleware(security.ExtractClientIP),

		overviewCache:    newLRUCache[core.MonthOverview](200, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}
	if s.sessionTTL <= 0 {
		s.sessionTTL = 720 * time.Hour
	}

	go s.startCacheCleanup()

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})

	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /register", s.handleRegisterForm)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("GET /logout", s.handleLogout)

	mux.HandleFunc("GET /dashboard", s.requireSession(s.handleDashboard))
	mux.HandleFunc("GET /add-expense", s.requireSession(s.handleAddExpenseForm))
	mux.HandleFunc("POST /add-expense", s.requireSession(s.handleAddExpense))
	mux.HandleFunc("GET /budgets", s.requireSession(s.handleBudgets))
	mux.HandleFunc("POST /budgets", s.requireSession(s.handleCreateBudget))
	mux.HandleFunc("POST /budgets/delete", s.requireSession(s.handleDeleteBudget))
	mux.HandleFunc("GET /categories", s.requireSession(s.handleCategories))
	mux.HandleFunc("POST /categories", s.requireSession(s.handleCreateCategory))
	mux.HandleFunc("GET /reports/monthly", s.requireSession(s.handleMonthlyReport))
	mux.HandleFunc("POST /reports/monthly", s.requireSession(s.handleMonthlyReport))
	mux.HandleFunc("POST /reports/monthly/export", s.requireSession(s.handleExportReport))
	mux.HandleFunc("GET /reports/trends", s.requireSession(s.handleTrends))
	mux.HandleFunc("GET /alerts", s.requireSession(s.handleAlerts))

	mux.HandleFunc("GET /api/dashboard/chart-data", s.requireSessionJSON(s.handleChartData))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	onLimit := func(w http.ResponseWriter, r *http.Request) {
		slog.WarnContext(r.Context(), "Rate limit exceeded",
			"client_ip", security.ExtractClientIP(r), "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Retry-After", "60")
		http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
	}
	limited := s.limitWrites(onLimit, mux)

	logger := opts.Logger
	if logger == nil {
		logger = applog.New(slog.LevelInfo, "http")
	}
	withLogger := applog.Middleware(logger)(limited)

	s.Server = http.Server{
		Addr:         opts.Addr,
		Handler:      s.tracer.Middleware(headers.Middleware(withLogger)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// limitWrites rate-limits mutating requests only; page reads stay cheap.
func (s *Server) limitWrites(onLimit func(http.ResponseWriter, *http.Request), next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && !s.limiter.Allow(security.ExtractClientIP(r)) {
			onLimit(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.overviewCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) overviewCacheKey(userID int64, year, month int) string {
	return strconv.FormatInt(userID, 10) + "-" + strconv.Itoa(year) + "-" + strconv.Itoa(month)
}

func (s *Server) invalidateOverview(userID int64, year, month int) {
	s.overviewCache.Delete(s.overviewCacheKey(userID, year, month))
}

func (s *Server) getOverview(ctx context.Context, userID int64, year, month int) (core.MonthOverview, error) {
	key := s.overviewCacheKey(userID, year, month)

	if data, found := s.overviewCache.Get(key); found {
		slog.DebugContext(ctx, "Overview cache hit", "user_id", userID, "year", year, "month", month)
		return data, nil
	}

	data, err := s.store.MonthOverview(ctx, userID, year, month)
	if err != nil {
		return core.MonthOverview{}, err
	}

	s.overviewCache.Set(key, data)
	return data, nil
}
