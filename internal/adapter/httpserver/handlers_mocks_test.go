package httpserver

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/DinuthRashmika/waste-collector/internal/adapter/memory"
	"github.com/DinuthRashmika/waste-collector/internal/app"
	"github.com/DinuthRashmika/waste-collector/internal/domain"
	"github.com/DinuthRashmika/waste-collector/internal/platform/config"
)

// --- Mock implementations ---

type mockRequestAPI struct {
	listFn     func(ctx context.Context, token string) ([]domain.CollectionRequest, error)
	completeFn func(ctx context.Context, token, requestID string) (*domain.CollectionRequest, error)

	listCalls     atomic.Int32
	completeCalls atomic.Int32
}

func (m *mockRequestAPI) ListConfirmed(ctx context.Context, token string) ([]domain.CollectionRequest, error) {
	m.listCalls.Add(1)
	if m.listFn != nil {
		return m.listFn(ctx, token)
	}
	return nil, nil
}

func (m *mockRequestAPI) Complete(ctx context.Context, token, requestID string) (*domain.CollectionRequest, error) {
	m.completeCalls.Add(1)
	if m.completeFn != nil {
		return m.completeFn(ctx, token, requestID)
	}
	return &domain.CollectionRequest{ID: requestID, Status: domain.StatusCompleted}, nil
}

func listing(requests ...domain.CollectionRequest) func(context.Context, string) ([]domain.CollectionRequest, error) {
	return func(context.Context, string) ([]domain.CollectionRequest, error) {
		return requests, nil
	}
}

// --- Test helpers ---

const testToken = "test-bearer-token"

func testRequest(id string, lat, lng *float64) domain.CollectionRequest {
	return domain.CollectionRequest{
		ID:         id,
		User:       domain.RequestUser{Name: "Resident " + id},
		Address:    "No. " + id + ", Main Street",
		AddressLat: lat,
		AddressLng: lng,
		Status:     domain.StatusConfirmed,
	}
}

func coord(f float64) *float64 { return &f }

func newTestServer(t *testing.T, api domain.RequestAPI, opts ...func(*Server)) *Server {
	t.Helper()

	tmpl := template.Must(template.New("login.html").Parse(`Login {{.Error}}`))
	template.Must(tmpl.New("dashboard.html").Parse(
		`Dashboard {{.CollectorName}} phase={{.Phase}} error={{.Error}} empty={{.Empty}} ` +
			`{{range .Cards}}card={{.ID}}:{{.Weight}}:{{.CanComplete}} {{end}}` +
			`{{range .Markers}}marker={{.ID}} {{end}}` +
			`{{range .Notices}}notice={{.}} {{end}}`))
	template.Must(tmpl.New("request_map.html").Parse(`Map {{.Card.ID}} {{if .Marker}}marker{{else}}no-location{{end}}`))

	store := sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!!"))
	store.Options = &sessions.Options{
		Path:   "/",
		MaxAge: 3600,
	}

	sessionStore := memory.NewSessionStore()
	srv := &Server{
		echo: echo.New(),
		config: &config.Config{
			SessionMaxAge:  time.Hour,
			RateLimitRPS:   1000,
			RateLimitBurst: 1000,
		},
		views:       app.NewViews(api, sessionStore, clockwork.NewFakeClock(), time.Hour, nil),
		sessions:    sessionStore,
		templates:   tmpl,
		cookieStore: store,
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return ErrorHandlingMiddleware()(handler)(c)
}

// loginSession stores a credential and returns the cookies of a session holding it.
func loginSession(t *testing.T, srv *Server, name string) (string, []*http.Cookie) {
	t.Helper()

	sessionID := uuid.NewString()
	require.NoError(t, app.NewSession(srv.sessions, sessionID).SetToken(context.Background(), testToken))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	session, err := srv.cookieStore.Get(req, sessionName)
	require.NoError(t, err)
	session.Values[sessionKeyID] = sessionID
	session.Values[sessionKeyCollector] = name
	require.NoError(t, session.Save(req, rec))

	return sessionID, rec.Result().Cookies()
}

// mountReady mounts a view for sessionID and waits for its initial load.
func mountReady(t *testing.T, srv *Server, sessionID string) (uuid.UUID, *app.RequestListSync) {
	t.Helper()

	viewID, rls := srv.views.Mount(context.Background(), sessionID)
	require.Eventually(t, func() bool {
		return rls.Snapshot().Phase != app.PhaseLoading
	}, time.Second, 5*time.Millisecond)
	return viewID, rls
}

// serve runs req through the full middleware chain.
func serve(srv *Server, req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

// viewContext builds a handler context for a logged-in session.
func viewContext(srv *Server, req *http.Request, sessionID string, names, values []string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	c.Set(ctxKeySessionID, sessionID)
	return c, rec
}

var errBackendDown = errors.New("connection refused")
