// Package server wires the HTTP surface of the conversation history
// service.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/hrygo/ideasense/internal/metrics"
	"github.com/hrygo/ideasense/internal/profile"
	apiv1 "github.com/hrygo/ideasense/server/router/api/v1"
	"github.com/hrygo/ideasense/store"
)

type Server struct {
	echo    *echo.Echo
	profile *profile.Profile
	store   *store.Store
}

func NewServer(p *profile.Profile, st *store.Store, m *metrics.Metrics) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(30),
			Burst:     60,
			ExpiresIn: 3 * time.Minute,
		},
	)))
	e.Use(requestLogger())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": p.Version,
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))

	apiv1.NewConversationService(st).Register(e.Group("/api/v1"))

	return &Server{echo: e, profile: p, store: st}
}

// Start blocks serving HTTP until the listener fails or Shutdown runs.
func (s *Server) Start(_ context.Context) error {
	return s.echo.Start(fmt.Sprintf("%s:%d", s.profile.Addr, s.profile.Port))
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		slog.Error("server_shutdown_failed", "error", err)
	}
	if err := s.store.Close(); err != nil {
		slog.Error("store_close_failed", "error", err)
	}
	slog.Info("server_stopped")
}

// Echo exposes the router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("http_request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID))
			return nil
		},
	})
}
