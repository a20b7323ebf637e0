package httpserver

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/DinuthRashmika/waste-collector/internal/app"
	"github.com/DinuthRashmika/waste-collector/internal/domain"
	"github.com/DinuthRashmika/waste-collector/internal/platform/config"
	"github.com/DinuthRashmika/waste-collector/web"
)

// viewRegistry is the part of app.Views the HTTP surface drives.
type viewRegistry interface {
	Mount(ctx context.Context, sessionID string) (uuid.UUID, *app.RequestListSync)
	Get(viewID uuid.UUID, sessionID string) (*app.RequestListSync, error)
	UnmountSession(sessionID string) int
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	views    viewRegistry
	sessions domain.SessionStore

	templates *template.Template

	cookieStore  *sessions.CookieStore
	registry     *prometheus.Registry
	healthChecks []HealthCheck
	startTime    time.Time
}

// NewServer wires the collector dashboard. registry may be nil, in which case
// neither HTTP metrics nor /metrics are served.
func NewServer(cfg *config.Config, views viewRegistry, store domain.SessionStore, registry *prometheus.Registry, healthChecks []HealthCheck) (*Server, error) {
	templates, err := template.ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		views:        views,
		sessions:     store,
		templates:    templates,
		cookieStore:  setupCookieStore(cfg),
		registry:     registry,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// Cookie session. The bearer token itself lives in the SessionStore under the
// session id; the cookie only carries the id and the display name.
const (
	sessionName         = "collector-session"
	sessionKeyID        = "sid"
	sessionKeyCollector = "collector"
)

func (s *Server) renderTemplate(c echo.Context, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(c.Request().Context(), "Template execution failed", "path", c.Request().URL.Path, "error", err)
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(status, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}

func setupCookieStore(cfg *config.Config) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
