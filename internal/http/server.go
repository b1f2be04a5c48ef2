package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/middleware/ratelimit"
	"tracker/internal/middleware/security"
	"tracker/internal/middleware/trace"
)

// ExpenseAPI is the service behind the expense routes.
type ExpenseAPI interface {
	List(ctx context.Context) ([]core.ExpenseRecord, error)
	Create(ctx context.Context, title string, amount float64) (core.ExpenseRecord, error)
	Ready(ctx context.Context) error
}

type Options struct {
	Logger *applog.Logger
	// Limiter throttles POST requests per client. Nil disables rate limiting.
	Limiter *ratelimit.Limiter
	// TrustedProxies are the CIDRs allowed to set X-Forwarded-For.
	// Nil trusts the private ranges.
	TrustedProxies []string
}

// Server wraps http.Server with the expense API routes.
type Server struct {
	http.Server
	expenses ExpenseAPI
	logger   *applog.Logger
	trace    *trace.Middleware
	limiter  *ratelimit.Limiter
}

var privateRanges = []string{
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"::1/128",
	"fc00::/7",
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, expenses ExpenseAPI, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = applog.Discard()
	}
	if opts.TrustedProxies == nil {
		opts.TrustedProxies = privateRanges
	}
	logger := opts.Logger.WithComponent(applog.ComponentHTTP)

	s := &Server{
		expenses: expenses,
		logger:   logger,
		trace:    trace.NewMiddleware(opts.Logger),
		limiter:  opts.Limiter,
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
		logger.Warn("Invalid trusted proxies, trusting none", applog.FieldError, err)
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(
		gin.CustomRecovery(s.recover),
		s.trace.Handler(),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:    []string{"Origin", "Content-Type", trace.RequestIDHeader},
			ExposeHeaders:   []string{trace.RequestIDHeader},
			MaxAge:          12 * time.Hour,
		}),
		security.Headers(security.DefaultHeadersConfig()),
	)
	if opts.Limiter != nil {
		engine.Use(opts.Limiter.Middleware(http.MethodPost))
	}

	engine.GET("/healthz", handleHealth)
	engine.GET("/readyz", s.handleReady)

	api := engine.Group("/api")
	api.GET("/expenses", s.handleListExpenses)
	api.POST("/expenses", s.handleCreateExpense)

	engine.NoRoute(func(c *gin.Context) {
		writeMessage(c, http.StatusNotFound, "Not found")
	})
	engine.NoMethod(func(c *gin.Context) {
		writeMessage(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	s.Server = http.Server{
		Addr:           addr,
		Handler:        engine,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 64 << 10,
	}
	return s
}

// Metrics reports request counters gathered by the trace middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.trace.GetMetrics()
}

func (s *Server) recover(c *gin.Context, recovered any) {
	applog.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "Panic while serving request",
		"panic", recovered,
		applog.FieldPath, c.Request.URL.Path)
	writeError(c, http.StatusInternalServerError, "internal server error")
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.expenses.Ready(ctx); err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "metrics": s.metricsBody()})
}

func (s *Server) metricsBody() gin.H {
	m := s.Metrics()
	body := gin.H{
		"requests":        m.TotalRequests,
		"avg_response_ms": m.AverageResponseTime.Milliseconds(),
	}
	if s.limiter != nil {
		body["rate_limited"] = s.limiter.Rejected()
		body["active_clients"] = s.limiter.ActiveClients()
	}
	return body
}
