package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"toolkit-keeper/internal/config"
	"toolkit-keeper/internal/models"
	"toolkit-keeper/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProfile = `
name: api-test
boundary:
  enabled: true
  type: default
  settings:
    width: 4
diagnostics:
  enabled: true
  type: default
  providers:
    - type: diagnostics.process
      name: process
      platforms: [all]
      settings:
        interval: 10ms
services:
  - type: heartbeat
    name: beat
    platforms: [all]
`

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testProfile), 0o644))
	cfg := &config.AppConfig{
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		Frame:   config.FrameConfig{Rate: 100, FixedRate: 50},
		Runtime: config.RuntimeConfig{Profile: path},
	}
	server := services.NewDefaultServer(cfg)
	require.NoError(t, server.Init())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = server.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return NewRouter(server, cfg)
}

func call(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)
	w := call(t, r, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)

	health := decode[models.HealthResponse](t, w)
	assert.Equal(t, "UP", health.Status)
	assert.Equal(t, 2, health.Metrics.Systems)
	assert.Equal(t, 2, health.Metrics.Services)
}

func TestListAndGetServices(t *testing.T) {
	r := newTestRouter(t)

	w := call(t, r, http.MethodGet, apiPrefix+"/services", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[models.ServiceListResponse](t, w)
	assert.Equal(t, services.StateRunning, list.State)
	require.Len(t, list.Systems, 2)
	assert.Equal(t, "Boundary System", list.Systems[0].Name)
	assert.Len(t, list.Services, 2)

	w = call(t, r, http.MethodGet, apiPrefix+"/services/systems.BoundarySystem", "")
	require.Equal(t, http.StatusOK, w.Code)
	details := decode[[]models.ServiceDetail](t, w)
	require.Len(t, details, 1)
	assert.Equal(t, models.KindSystem, details[0].Kind)

	w = call(t, r, http.MethodGet, apiPrefix+"/services/systems.DiagnosticsDataProvider?name=process", "")
	require.Equal(t, http.StatusOK, w.Code)
	details = decode[[]models.ServiceDetail](t, w)
	require.Len(t, details, 1)
	assert.Equal(t, "Diagnostics System", details[0].Parent)

	w = call(t, r, http.MethodGet, apiPrefix+"/services/systems.Nothing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "service.notexist", decode[models.ErrorResponse](t, w).Code)
}

func TestEnableDisableRemove(t *testing.T) {
	r := newTestRouter(t)

	w := call(t, r, http.MethodPost, apiPrefix+"/services/systems.Heartbeat/disable?name=beat", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = call(t, r, http.MethodPost, apiPrefix+"/services/systems.Heartbeat/enable", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = call(t, r, http.MethodPost, apiPrefix+"/services/systems.Heartbeat/enable?name=other", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(t, r, http.MethodDelete, apiPrefix+"/services/systems.Heartbeat?name=beat", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = call(t, r, http.MethodGet, apiPrefix+"/services/systems.Heartbeat", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlatforms(t *testing.T) {
	r := newTestRouter(t)

	w := call(t, r, http.MethodGet, apiPrefix+"/platforms", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[models.PlatformListResponse](t, w)
	assert.NotEmpty(t, list.Platforms)

	w = call(t, r, http.MethodPost, apiPrefix+"/platforms/check", `{"platforms":["all"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[models.PlatformCheckResponse](t, w).Eligible)

	w = call(t, r, http.MethodPost, apiPrefix+"/platforms/check", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFocusAndPause(t *testing.T) {
	r := newTestRouter(t)

	assert.Equal(t, http.StatusOK, call(t, r, http.MethodPost, apiPrefix+"/focus", `{"focused":false}`).Code)
	assert.Equal(t, http.StatusOK, call(t, r, http.MethodPost, apiPrefix+"/pause", `{"paused":true}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodPost, apiPrefix+"/focus", `{}`).Code)
}

func TestReload(t *testing.T) {
	r := newTestRouter(t)
	w := call(t, r, http.MethodPost, apiPrefix+"/reload", "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestDiagnosticsCollectsSamples(t *testing.T) {
	r := newTestRouter(t)

	require.Eventually(t, func() bool {
		w := call(t, r, http.MethodGet, apiPrefix+"/diagnostics", "")
		if w.Code != http.StatusOK {
			return false
		}
		resp := decode[models.DiagnosticsResponse](t, w)
		return resp.Enabled && len(resp.Samples) == 1 && resp.Samples[0].Provider == "process"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	call(t, r, http.MethodGet, "/healthz", "")

	w := call(t, r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "toolkit_lifecycle_phase_duration_seconds")
	assert.Contains(t, w.Body.String(), "toolkit_http_requests_total")
}

func TestRequestIDHeader(t *testing.T) {
	r := newTestRouter(t)

	w := call(t, r, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, apiPrefix+"/services/systems.Nothing", nil)
	req.Header.Set("X-Request-ID", "cli-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "cli-42", w.Header().Get("X-Request-ID"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
