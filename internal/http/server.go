package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/report"
	"fintrack/internal/session"
)

// sessionCookie is the name of the opaque session token cookie.
const sessionCookie = "fintrack_session"

// Options configures a Server.
type Options struct {
	Addr               string
	Backend            backend.Backend
	Sessions           *session.Manager
	Logger             *log.Logger
	CacheSize          int
	CacheTTL           time.Duration
	RateLimitPerMinute int
}

// Server is the API server. It embeds http.Server so callers can use
// ListenAndServe directly.
type Server struct {
	http.Server

	backend  backend.Backend
	sessions *session.Manager
	reports  *report.Generator
	logger   *log.Logger
	metrics  *Metrics

	// Dashboard responses cached per (user, year, month), invalidated by
	// any write from that user.
	dashCache *cache.LRU[DashboardResponse]

	detector *security.Detector
	limiter  *ratelimit.Limiter

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 100
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	s := &Server{
		backend:  opts.Backend,
		sessions: opts.Sessions,
		reports:  report.NewGenerator(opts.Backend),
		logger:   opts.Logger.WithComponent(log.ComponentHTTP),

		dashCache: cache.NewLRU[DashboardResponse](opts.CacheSize, opts.CacheTTL),

		detector: security.NewDetector(),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),

		stopCacheCleanup: make(chan struct{}),
	}
	s.metrics = NewMetrics(func() float64 {
		return float64(opts.Sessions.ActiveSessions())
	})

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)

	mux.HandleFunc("POST /api/transactions", s.withSession(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions", s.withSession(s.handleListTransactions))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withSession(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/budgets", s.withSession(s.handleBudgetReport))
	mux.HandleFunc("PUT /api/budgets", s.withSession(s.handleUpsertBudget))

	mux.HandleFunc("GET /api/goals", s.withSession(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.withSession(s.handleCreateGoal))
	mux.HandleFunc("PATCH /api/goals/{id}", s.withSession(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.withSession(s.handleDeleteGoal))

	mux.HandleFunc("GET /api/dashboard", s.withSession(s.handleDashboard))
	mux.HandleFunc("GET /api/analytics", s.withSession(s.handleAnalytics))
	mux.HandleFunc("GET /api/insights", s.withSession(s.handleInsights))

	mux.HandleFunc("GET /api/profile", s.withSession(s.handleGetProfile))
	mux.HandleFunc("PUT /api/profile", s.withSession(s.handleUpdateProfile))

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", s.metrics.Handler())

	traceMw := trace.NewMiddleware(opts.Logger, s.detector.ExtractClientIP, s.metrics.ObserveRequest)

	var handler http.Handler = mux
	handler = s.filterSuspicious(handler)
	handler = s.limitWrites(handler)
	handler = traceMw.Middleware(handler)
	handler = log.Middleware(opts.Logger)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)

	s.Server = http.Server{
		Addr:    opts.Addr,
		Handler: handler,
	}

	go s.startCacheCleanup()

	return s
}

// limitWrites applies the per-IP rate limit to write methods only. Reads and
// the health, readiness, and metrics endpoints pass through unthrottled.
func (s *Server) limitWrites(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			clientIP := s.detector.ExtractClientIP(r)
			if !s.limiter.Allow(clientIP) {
				s.logger.WarnContext(r.Context(), "Rate limit exceeded",
					log.FieldClientIP, clientIP,
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path)
				ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").
					Header("Retry-After", "60").
					Write(w)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// filterSuspicious rejects obvious probe traffic before it reaches a handler.
func (s *Server) filterSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			s.logger.WarnContext(r.Context(), "Suspicious request rejected",
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, s.detector.ExtractClientIP(r))
			NotFoundError("not found").Write(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withSession resolves the session cookie and rejects unauthenticated calls.
func (s *Server) withSession(next func(http.ResponseWriter, *http.Request, session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil {
			UnauthorizedError("login required").Write(w)
			return
		}
		sess, ok := s.sessions.Get(c.Value)
		if !ok {
			UnauthorizedError("session expired, log in again").Write(w)
			return
		}
		next(w, r, sess)
	}
}

// invalidateDashboard drops every cached dashboard month for one user.
func (s *Server) invalidateDashboard(userID string) {
	s.dashCache.DeletePrefix(userID + ":")
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.dashCache.CleanExpired(); cleaned > 0 {
				s.logger.Debug("Cache cleanup completed",
					"entries_removed", cleaned)
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
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}

		if s.limiter != nil {
			s.limiter.Stop()
		}

		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady pings the active backend so orchestration only routes traffic
// to an instance that can actually serve data.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.backend.Ping(ctx); err != nil {
		s.logger.ErrorContext(r.Context(), "Readiness probe failed",
			log.FieldError, err)
		ErrorResponse(http.StatusServiceUnavailable, "backend unreachable").Write(w)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
