package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"donations/internal/backend"
	"donations/internal/charts"
	"donations/internal/core"
	"donations/internal/export"
	applog "donations/internal/log"
	"donations/internal/middleware/ratelimit"
	"donations/internal/middleware/security"
	"donations/internal/middleware/trace"
	"donations/internal/services"
	"donations/internal/theme"
	appweb "donations/web"
)

const readyTimeout = 2 * time.Second

// Dependencies are the collaborators the handlers read from.
type Dependencies struct {
	Service *services.DashboardService
	Theme   *theme.Preference
	Charts  *charts.Renderer
	Health  backend.Pinger // optional
	Logger  *applog.Logger
}

// Settings holds presentation and throttling options.
type Settings struct {
	CurrencySymbol     string
	DefaultWindow      core.WindowSize
	RateLimitPerMinute int
	TrustedProxies     []string
}

// Stats is a snapshot of the middleware counters.
type Stats struct {
	Requests           int64
	LastResponseTime   time.Duration
	RateLimitedClients int64
	ThrottledRequests  int64
	SuspiciousRequests int64
}

type Server struct {
	http.Server
	templates *template.Template
	svc       *services.DashboardService
	prefs     *theme.Preference
	charts    *charts.Renderer
	health    backend.Pinger
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	tracer    *trace.Middleware
	settings  Settings
	logger    *applog.Logger

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, deps Dependencies, settings Settings) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	if !settings.DefaultWindow.IsValid() {
		settings.DefaultWindow = core.DefaultWindow
	}

	mux := http.NewServeMux()
	detector := security.NewDetector(logger)
	for _, cidr := range settings.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring trusted proxy", applog.FieldError, err)
		}
	}

	s := &Server{
		svc:      deps.Service,
		prefs:    deps.Theme,
		charts:   deps.Charts,
		health:   deps.Health,
		detector: detector,
		tracer:   trace.NewMiddleware(logger, detector.ExtractClientIP),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: settings.RateLimitPerMinute,
		}),
		settings: settings,
		logger:   logger.WithComponent(applog.ComponentHTTP),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.WithComponent(applog.ComponentTemplate).Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	throttled := s.limiter.Middleware(detector.ExtractClientIP, s.handleRateLimited)

	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/ui/dashboard", s.handleDashboardPartial)
	mux.HandleFunc("/charts/trend.svg", s.handleChart(charts.KindTrend))
	mux.HandleFunc("/charts/donors.svg", s.handleChart(charts.KindDonors))
	mux.Handle("/export.csv", throttled(security.NoStore(s.handleExport(export.FormatCSV))))
	mux.Handle("/export.xlsx", throttled(security.NoStore(s.handleExport(export.FormatXLSX))))
	mux.Handle("/theme", throttled(security.NoStore(http.HandlerFunc(s.handleTheme))))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Server = http.Server{
		Addr:              addr,
		Handler:           headers.Middleware(detector.Middleware(s.tracer.Middleware(mux))),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Stats reports request, throttling and probe counters since start.
func (s *Server) Stats() Stats {
	traced := s.tracer.GetMetrics()
	limited := s.limiter.GetMetrics()
	return Stats{
		Requests:           traced.TotalRequests,
		LastResponseTime:   traced.LastResponseTime,
		RateLimitedClients: limited.ClientCount,
		ThrottledRequests:  limited.TotalHits,
		SuspiciousRequests: s.detector.SuspiciousRequests(),
	}
}

// Shutdown stops background work and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)

		stats := s.Stats()
		s.logger.InfoContext(ctx, "HTTP server stopped",
			applog.FieldOperation, applog.OpShutdown,
			"requests", stats.Requests,
			"throttled_requests", stats.ThrottledRequests,
			"rate_limited_clients", stats.RateLimitedClients,
			"suspicious_requests", stats.SuspiciousRequests)
	})
	return shutdownErr
}

// requireGet writes a 405 and returns false for anything but GET or HEAD.
func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	MethodNotAllowedError(strings.Join([]string{http.MethodGet, http.MethodHead}, ", ")).Write(w)
	return false
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit)
	logger.WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	TooManyRequestsError("Too many requests. Please try again in a minute.").Write(w)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.templates == nil || s.svc == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
