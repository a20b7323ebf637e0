package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/DinuthRashmika/waste-collector/internal/app"
	apperrors "github.com/DinuthRashmika/waste-collector/internal/platform/errors"
)

const (
	ctxKeySessionID = "sessionID"
	ctxKeyCollector = "collectorName"

	dashboardPath = "/collector/dashboard"
	maxTokenLen   = 8192
)

func (s *Server) registerAuthRoutes(csrfMiddleware, rateLimiter echo.MiddlewareFunc) {
	s.echo.GET(app.LoginPath, s.handleLoginPage, csrfMiddleware)
	s.echo.POST(app.LoginPath, s.handleLogin, rateLimiter, csrfMiddleware)
	s.echo.POST("/logout", s.handleLogout, s.requireSession, csrfMiddleware)
}

func (s *Server) handleLanding(c echo.Context) error {
	target := app.LoginPath
	if _, ok := s.authenticatedSession(c); ok {
		target = dashboardPath
	}
	if err := c.Redirect(http.StatusFound, target); err != nil {
		return fmt.Errorf("failed to redirect: %w", err)
	}
	return nil
}

// requireSession admits requests whose cookie names a session that still holds
// a credential. Browsers are sent to the login page, scripts get a 401.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sessionID, ok := s.authenticatedSession(c)
		if !ok {
			if wantsJSON(c) {
				return apperrors.UnauthorizedError("login required")
			}
			return c.Redirect(http.StatusFound, app.LoginPath)
		}

		c.Set(ctxKeySessionID, sessionID)
		if session, err := s.cookieStore.Get(c.Request(), sessionName); err == nil {
			if name, ok := session.Values[sessionKeyCollector].(string); ok {
				c.Set(ctxKeyCollector, name)
			}
		}
		return next(c)
	}
}

// authenticatedSession returns the session id from the cookie if its
// credential is still present in the session store.
func (s *Server) authenticatedSession(c echo.Context) (string, bool) {
	session, err := s.cookieStore.Get(c.Request(), sessionName)
	if err != nil {
		return "", false
	}
	sessionID, ok := session.Values[sessionKeyID].(string)
	if !ok || sessionID == "" {
		return "", false
	}

	token, err := app.NewSession(s.sessions, sessionID).Token(c.Request().Context())
	if err != nil {
		slog.WarnContext(c.Request().Context(), "Failed to read session", "session_id", sessionID, "error", err)
		return "", false
	}
	return sessionID, token != ""
}

type loginPage struct {
	Error     string
	CSRFToken any
}

func (s *Server) handleLoginPage(c echo.Context) error {
	if _, ok := s.authenticatedSession(c); ok {
		if err := c.Redirect(http.StatusFound, dashboardPath); err != nil {
			return fmt.Errorf("failed to redirect: %w", err)
		}
		return nil
	}
	return s.renderTemplate(c, http.StatusOK, "login.html", loginPage{CSRFToken: c.Get("csrf")})
}

// handleLogin stores a pasted bearer token for a fresh session. Token issuance
// happens elsewhere; the backend rejects bad tokens on first use.
func (s *Server) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	token := strings.TrimSpace(c.FormValue("token"))
	token = strings.TrimPrefix(token, "Bearer ")
	if token == "" || len(token) > maxTokenLen {
		page := loginPage{Error: "Please paste a valid access token.", CSRFToken: c.Get("csrf")}
		return s.renderTemplate(c, http.StatusBadRequest, "login.html", page)
	}

	// A new id per login so a session id fixed before login is never reused.
	if old, err := s.cookieStore.Get(c.Request(), sessionName); err == nil {
		if oldID, ok := old.Values[sessionKeyID].(string); ok && oldID != "" {
			s.endSession(c, oldID, "")
		}
	}

	sessionID := uuid.NewString()
	if err := app.NewSession(s.sessions, sessionID).SetToken(ctx, token); err != nil {
		return apperrors.InternalError("failed to store session", err)
	}

	session, err := s.cookieStore.New(c.Request(), sessionName)
	if err != nil {
		slog.DebugContext(ctx, "Discarding unreadable session cookie", "error", err)
	}
	name := collectorName(token)
	session.Values[sessionKeyID] = sessionID
	session.Values[sessionKeyCollector] = name
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		return apperrors.InternalError("failed to save session", err)
	}

	slog.InfoContext(ctx, "Collector logged in", "session_id", sessionID, "collector", name)

	if err := c.Redirect(http.StatusSeeOther, dashboardPath); err != nil {
		return fmt.Errorf("failed to redirect: %w", err)
	}
	return nil
}

// handleLogout ends the session through the view the form was posted from, or
// directly when no view is given.
func (s *Server) handleLogout(c echo.Context) error {
	sessionID, _ := c.Get(ctxKeySessionID).(string)
	target := s.endSession(c, sessionID, c.FormValue("view"))

	session, err := s.cookieStore.Get(c.Request(), sessionName)
	if err != nil {
		session, err = s.cookieStore.New(c.Request(), sessionName)
		if err != nil {
			return apperrors.InternalError("failed to create new session during logout", err)
		}
	}
	session.Options.MaxAge = -1
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		return apperrors.InternalError("failed to save logout session", err)
	}

	slog.InfoContext(c.Request().Context(), "Collector logged out", "session_id", sessionID)

	if err := c.Redirect(http.StatusSeeOther, target); err != nil {
		return fmt.Errorf("failed to redirect: %w", err)
	}
	return nil
}

// endSession clears the credential, unmounts every view of the session and
// returns where to navigate.
func (s *Server) endSession(c echo.Context, sessionID, viewParam string) string {
	ctx := c.Request().Context()
	target := app.LoginPath

	ended := false
	if viewID, err := uuid.Parse(viewParam); err == nil {
		if rls, err := s.views.Get(viewID, sessionID); err == nil {
			target = rls.EndSession(ctx)
			ended = true
		}
	}
	if !ended {
		if err := app.NewSession(s.sessions, sessionID).Clear(ctx); err != nil {
			slog.ErrorContext(ctx, "Failed to clear session on logout", "session_id", sessionID, "error", err)
		}
	}

	s.views.UnmountSession(sessionID)
	return target
}
