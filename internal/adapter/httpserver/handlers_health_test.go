package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DinuthRashmika/waste-collector/internal/platform/version"
)

func healthOK(_ context.Context) error { return nil }

func healthErr(msg string) func(context.Context) error {
	return func(_ context.Context) error { return errors.New(msg) }
}

func backendCheck(check func(context.Context) error) HealthCheck {
	return HealthCheck{Name: "collection_backend", Check: check, ReadinessOnly: true}
}

func TestHandleStartup_SkipsReadinessOnlyChecks(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/startup", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	srv := newTestServer(t, &mockRequestAPI{},
		withHealthChecks(
			HealthCheck{Name: "redis", Check: healthOK},
			backendCheck(healthErr("collection backend unreachable")),
		),
	)

	require.NoError(t, srv.handleStartup(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"redis":"ok"}}`, rec.Body.String())
}

func TestHandleReadiness_BackendDown(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	srv := newTestServer(t, &mockRequestAPI{},
		withHealthChecks(
			HealthCheck{Name: "redis", Check: healthOK},
			backendCheck(healthErr("collection backend unhealthy: status 503")),
		),
	)

	require.NoError(t, srv.handleReadiness(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp["status"])
	assert.Equal(t, "collection_backend", resp["failed_check"])
	assert.Equal(t, map[string]any{
		"redis":              "ok",
		"collection_backend": "collection backend unhealthy: status 503",
	}, resp["checks"])
}

func TestHandleReadiness_ReportsFirstFailure(t *testing.T) {
	srv := newTestServer(t, &mockRequestAPI{},
		withHealthChecks(
			HealthCheck{Name: "redis", Check: healthErr("connection refused")},
			backendCheck(healthErr("collection backend unreachable")),
		),
	)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health/ready", nil), nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"failed_check":"redis"`)
	assert.Contains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, rec.Body.String(), "collection backend unreachable")
}

func TestHandleReadiness_NoChecks(t *testing.T) {
	srv := newTestServer(t, &mockRequestAPI{})

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health/ready", nil), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleLiveness(t *testing.T) {
	srv := newTestServer(t, &mockRequestAPI{})

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health/live", nil), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"uptime"`)
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(t, &mockRequestAPI{})

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/version", nil), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var info version.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, version.Get(), info)
}

func TestMetricsRoute_OnlyWithRegistry(t *testing.T) {
	srv := newTestServer(t, &mockRequestAPI{})

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/metrics", nil), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
