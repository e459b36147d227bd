// Package http provides the coinboard HTTP API.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/coinboard/coinboard/internal/auth"
	"github.com/coinboard/coinboard/internal/dashboard"
	"github.com/coinboard/coinboard/internal/store"
)

// Server serves the dashboard API.
type Server struct {
	echo       *echo.Echo
	logger     *zap.Logger
	config     *Config
	store      *store.Store
	tokens     *auth.Manager
	aggregator *dashboard.Aggregator
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(cfg *Config, logger *zap.Logger, st *store.Store, tokens *auth.Manager, agg *dashboard.Aggregator) (*Server, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if st == nil || tokens == nil || agg == nil {
		return nil, fmt.Errorf("store, token manager, and aggregator are required")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8080}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(metricsMiddleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:       e,
		logger:     logger,
		config:     cfg,
		store:      st,
		tokens:     tokens,
		aggregator: agg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Public auth routes
	s.echo.POST("/auth/signup", s.handleSignup)
	s.echo.POST("/auth/login", s.handleLogin)

	// Everything else requires a bearer credential
	protected := s.echo.Group("", auth.Middleware(s.tokens))
	protected.GET("/onboarding", s.handleGetOnboarding)
	protected.GET("/onboarding/status", s.handleOnboardingStatus)
	protected.POST("/onboarding", s.handleSaveOnboarding)
	protected.GET("/dashboard", s.handleDashboard)
	protected.POST("/feedback", s.handleSubmitFeedback)
	protected.GET("/feedback/:feedbackType/:itemId", s.handleGetFeedback)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
