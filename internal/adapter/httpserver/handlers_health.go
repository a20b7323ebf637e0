package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/DinuthRashmika/waste-collector/internal/adapter/metrics"
	"github.com/DinuthRashmika/waste-collector/internal/platform/version"
)

const (
	startupCheckTimeout   = 2 * time.Second
	readinessCheckTimeout = 5 * time.Second
)

// HealthCheck is a named dependency check. ReadinessOnly checks are skipped by
// the startup check: the collection backend being down should stop traffic to
// the dashboard, not restart it.
type HealthCheck struct {
	Name          string
	Check         func(ctx context.Context) error
	ReadinessOnly bool
}

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health/startup", s.handleStartup)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
	if s.registry != nil {
		s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler(s.registry)))
	}
}

func (s *Server) handleStartup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), startupCheckTimeout)
	defer cancel()

	return s.runHealthChecks(c, ctx, false)
}

func (s *Server) handleLiveness(c echo.Context) error {
	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).Seconds(),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write liveness response: %w", err)
	}
	return nil
}

func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessCheckTimeout)
	defer cancel()

	return s.runHealthChecks(c, ctx, true)
}

// runHealthChecks runs every applicable check and reports each result. The
// first failing check is named in failed_check.
func (s *Server) runHealthChecks(c echo.Context, ctx context.Context, readiness bool) error {
	status := http.StatusOK
	response := map[string]any{"status": "ready"}
	results := make(map[string]string, len(s.healthChecks))

	for _, hc := range s.healthChecks {
		if hc.ReadinessOnly && !readiness {
			continue
		}
		if err := hc.Check(ctx); err != nil {
			results[hc.Name] = err.Error()
			if status == http.StatusOK {
				status = http.StatusServiceUnavailable
				response["status"] = "unhealthy"
				response["failed_check"] = hc.Name
				response["error"] = err.Error()
			}
			slog.WarnContext(ctx, "Health check failed", "check", hc.Name, "error", err)
			continue
		}
		results[hc.Name] = "ok"
	}
	if len(results) > 0 {
		response["checks"] = results
	}

	if err := c.JSON(status, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleVersion(c echo.Context) error {
	if err := c.JSON(http.StatusOK, version.Get()); err != nil {
		return fmt.Errorf("failed to write version response: %w", err)
	}
	return nil
}
