// Package httpapi exposes schema analysis, pattern filtering, and
// failure refinement over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/edgarsift/internal/logging"
	"github.com/fyrsmithlabs/edgarsift/internal/refine"
	"github.com/fyrsmithlabs/edgarsift/internal/schema"
	"github.com/fyrsmithlabs/edgarsift/internal/transform"
)

// Config holds server configuration.
type Config struct {
	Host             string
	Port             int
	DefaultThreshold float64
}

// Server wires the analysis services behind an echo HTTP API.
type Server struct {
	echo     *echo.Echo
	detector *transform.Detector
	filter   *transform.FilterService
	refiner  *refine.Analyzer
	logger   *logging.Logger
	config   *Config
}

// NewServer creates the HTTP server. All services are required.
func NewServer(detector *transform.Detector, filter *transform.FilterService, refiner *refine.Analyzer, logger *logging.Logger, cfg *Config) (*Server, error) {
	if detector == nil || filter == nil || refiner == nil {
		return nil, fmt.Errorf("detector, filter, and refiner are required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8750, DefaultThreshold: 0.7}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			method := c.Request().Method
			path := c.Path()
			RequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Response().Status)).Inc()
			RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

			ctx := logging.WithRequestID(c.Request().Context(), c.Response().Header().Get(echo.HeaderXRequestID))
			logger.Info(ctx, "http request",
				zap.String("method", method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
			)
			return err
		}
	})

	s := &Server{
		echo:     e,
		detector: detector,
		filter:   filter,
		refiner:  refiner,
		logger:   logger,
		config:   cfg,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/v1")
	v1.POST("/analyze", s.handleAnalyze)
	v1.POST("/filter", s.handleFilter)
	v1.POST("/refine", s.handleRefine)
}

// AnalyzeRequest is the request body for POST /v1/analyze and /v1/filter.
type AnalyzeRequest struct {
	Examples []transform.ExamplePair `json:"examples"`
	// Threshold applies to /v1/filter only; omitting it selects the
	// server default. A pointer so an explicit 0 is distinguishable
	// from absent.
	Threshold *float64 `json:"threshold,omitempty"`
}

// AnalyzeResponse is the response body for POST /v1/analyze.
type AnalyzeResponse struct {
	Differences []schema.Difference `json:"differences"`
	Patterns    []transform.Pattern `json:"patterns"`
	Summary     string              `json:"summary"`
}

// RefineRequest is the request body for POST /v1/refine.
type RefineRequest struct {
	Failures []refine.Failure `json:"failures"`
}

// RefineResponse is the response body for POST /v1/refine.
type RefineResponse struct {
	Analysis    *refine.Analysis    `json:"analysis"`
	Suggestions []refine.Suggestion `json:"suggestions"`
}

// HealthResponse is the response body for GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Examples) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "examples field is required")
	}

	parsed := s.detector.Detect(req.Examples)
	PatternsDetected.WithLabelValues("detected").Add(float64(len(parsed.Patterns)))

	return c.JSON(http.StatusOK, AnalyzeResponse{
		Differences: parsed.Differences,
		Patterns:    parsed.Patterns,
		Summary:     s.filter.ConfidenceSummary(parsed),
	})
}

func (s *Server) handleFilter(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Examples) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "examples field is required")
	}

	threshold := s.config.DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	parsed := s.detector.Detect(req.Examples)
	filtered, err := s.filter.Filter(parsed, threshold)
	if err != nil {
		if errors.Is(err, transform.ErrInvalidThreshold) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	PatternsDetected.WithLabelValues("included").Add(float64(len(filtered.Included)))
	PatternsDetected.WithLabelValues("excluded").Add(float64(len(filtered.Excluded)))

	return c.JSON(http.StatusOK, filtered)
}

func (s *Server) handleRefine(c echo.Context) error {
	var req RefineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	FailuresAnalyzed.Add(float64(len(req.Failures)))

	analysis := s.refiner.Analyze(req.Failures)
	return c.JSON(http.StatusOK, RefineResponse{
		Analysis:    analysis,
		Suggestions: s.refiner.SuggestRefinements(analysis),
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
