package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/DinuthRashmika/waste-collector/internal/app"
	"github.com/DinuthRashmika/waste-collector/internal/domain"
	"github.com/DinuthRashmika/waste-collector/internal/platform/correlation"
	apperrors "github.com/DinuthRashmika/waste-collector/internal/platform/errors"
)

func (s *Server) registerDashboardRoutes(csrfMiddleware, rateLimiter echo.MiddlewareFunc) {
	s.echo.GET(dashboardPath, s.handleMount, s.requireSession)
	s.echo.GET("/collector/views/:view", s.handleView, s.requireSession, csrfMiddleware)
	s.echo.POST("/collector/views/:view/requests/:id/complete", s.handleComplete, rateLimiter, s.requireSession, csrfMiddleware)
	s.echo.GET("/collector/request/:id/map", s.handleRequestMap, s.requireSession)
}

// viewResponse is a dashboard view as scripts see it.
type viewResponse struct {
	ViewID  string          `json:"viewId"`
	Phase   string          `json:"phase"`
	Error   string          `json:"error,omitempty"`
	Cards   []domain.Card   `json:"cards"`
	Markers []domain.Marker `json:"markers"`
	Notices []string        `json:"notices,omitempty"`
}

type dashboardPage struct {
	viewResponse
	CollectorName string
	Loading       bool
	Empty         bool
	CSRFToken     any
}

type requestMapPage struct {
	ViewID string
	Card   domain.Card
	Marker *domain.Marker
}

// handleMount mounts a fresh view, which issues the one initial fetch, and sends
// the browser to it. Reloading the view page afterwards never fetches again.
func (s *Server) handleMount(c echo.Context) error {
	sessionID, _ := c.Get(ctxKeySessionID).(string)

	viewID, _ := s.views.Mount(c.Request().Context(), sessionID)

	if err := c.Redirect(http.StatusSeeOther, viewPath(viewID)); err != nil {
		return fmt.Errorf("failed to redirect: %w", err)
	}
	return nil
}

func (s *Server) handleView(c echo.Context) error {
	viewID, rls, err := s.lookupView(c, c.Param("view"))
	if err != nil {
		return err
	}

	resp := buildViewResponse(c, viewID, rls)
	if wantsJSON(c) {
		if err := c.JSON(http.StatusOK, resp); err != nil {
			return fmt.Errorf("failed to write view response: %w", err)
		}
		return nil
	}

	name, _ := c.Get(ctxKeyCollector).(string)
	if name == "" {
		name = defaultCollectorName
	}
	page := dashboardPage{
		viewResponse:  resp,
		CollectorName: name,
		Loading:       resp.Phase == app.PhaseLoading.String(),
		Empty:         resp.Phase == app.PhaseReady.String() && len(resp.Cards) == 0,
		CSRFToken:     c.Get("csrf"),
	}
	return s.renderTemplate(c, http.StatusOK, "dashboard.html", page)
}

func (s *Server) handleComplete(c echo.Context) error {
	ctx := c.Request().Context()
	viewID, rls, err := s.lookupView(c, c.Param("view"))
	if err != nil {
		return err
	}
	requestID := c.Param("id")

	err = rls.Complete(ctx, requestID)
	switch {
	case errors.Is(err, domain.ErrViewClosed):
		return apperrors.NotFoundError("view not found").WithField("view_id", viewID.String())
	case errors.Is(err, domain.ErrRequestNotInList) && wantsJSON(c):
		return apperrors.NotFoundError("request not in list").WithField("request_id", requestID)
	case err != nil && !errors.Is(err, domain.ErrRequestNotInList) && wantsJSON(c):
		snap := rls.Snapshot()
		return apperrors.ExternalError(snap.Err, err).WithField("request_id", requestID)
	}

	if wantsJSON(c) {
		if err := c.JSON(http.StatusOK, buildViewResponse(c, viewID, rls)); err != nil {
			return fmt.Errorf("failed to write view response: %w", err)
		}
		return nil
	}

	// The outcome, success notice or error, is part of the view's state.
	if err := c.Redirect(http.StatusSeeOther, viewPath(viewID)); err != nil {
		return fmt.Errorf("failed to redirect: %w", err)
	}
	return nil
}

// handleRequestMap shows one request of a view on its own map.
func (s *Server) handleRequestMap(c echo.Context) error {
	viewID, rls, err := s.lookupView(c, c.QueryParam("view"))
	if err != nil {
		return err
	}
	requestID := c.Param("id")

	snap := rls.Snapshot()
	for _, r := range snap.Requests {
		if r.ID != requestID {
			continue
		}
		page := requestMapPage{ViewID: viewID.String(), Card: app.Cards([]domain.CollectionRequest{r})[0]}
		if markers := app.Markers(c.Request().Context(), []domain.CollectionRequest{r}); len(markers) == 1 {
			page.Marker = &markers[0]
		}
		return s.renderTemplate(c, http.StatusOK, "request_map.html", page)
	}
	return apperrors.NotFoundError("request not in list").WithField("request_id", requestID)
}

func (s *Server) lookupView(c echo.Context, param string) (uuid.UUID, *app.RequestListSync, error) {
	viewID, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, nil, apperrors.ValidationError("invalid view id")
	}

	sessionID, _ := c.Get(ctxKeySessionID).(string)
	rls, err := s.views.Get(viewID, sessionID)
	if err != nil {
		return uuid.Nil, nil, apperrors.NotFoundError("view not found").WithField("view_id", viewID.String())
	}

	ctx := correlation.WithViewID(c.Request().Context(), viewID.String())
	c.SetRequest(c.Request().WithContext(ctx))
	return viewID, rls, nil
}

func buildViewResponse(c echo.Context, viewID uuid.UUID, rls *app.RequestListSync) viewResponse {
	snap := rls.Snapshot()
	return viewResponse{
		ViewID:  viewID.String(),
		Phase:   snap.Phase.String(),
		Error:   snap.Err,
		Cards:   app.Cards(snap.Requests),
		Markers: app.Markers(c.Request().Context(), snap.Requests),
		Notices: rls.DrainNotices(),
	}
}

func viewPath(viewID uuid.UUID) string {
	return "/collector/views/" + viewID.String()
}
