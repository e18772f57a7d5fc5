package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/char5742/swipe-detector/internal/config"
	"github.com/char5742/swipe-detector/internal/features"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server, *fakeScreen) {
	t.Helper()
	s := NewServer(config.DefaultConfig(), 0, filepath.Join(t.TempDir(), "config.toml"))
	screen := newFakeScreen()
	withFakeDevice(s.service, screen)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		if s.service.IsRunning() {
			_ = s.service.Stop()
		}
	})
	return s, ts, screen
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func TestHealth(t *testing.T) {
	_, ts, _ := newTestServer(t)
	var got map[string]string
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/health", nil, &got))
	assert.Equal(t, "ok", got["status"])
}

func TestServiceLifecycle(t *testing.T) {
	_, ts, screen := newTestServer(t)

	var got map[string]string
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPost, "/api/service/start", nil, &got))
	assert.Equal(t, "started", got["status"])
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPost, "/api/service/start", nil, &got))
	assert.Equal(t, "already_running", got["status"])

	var status struct {
		Status  string `json:"status"`
		Details Status `json:"details"`
	}
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/service/status", nil, &status))
	assert.Equal(t, "running", status.Status)
	assert.Equal(t, fakeDevice, status.Details.Device)
	assert.NotEmpty(t, status.Details.Session)

	screen.tap(5000, 250, 400)
	assert.Eventually(t, func() bool {
		var recent []GestureRecord
		do(t, ts, http.MethodGet, "/api/gestures", nil, &recent)
		return len(recent) == 1 && recent[0].Kind == "tap"
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPost, "/api/service/stop", nil, &got))
	assert.Equal(t, "stopped", got["status"])
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPost, "/api/service/stop", nil, &got))
	assert.Equal(t, "not_running", got["status"])

	require.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/service/status", nil, &status))
	assert.Equal(t, "stopped", status.Status)
}

func TestStartWithoutDevice(t *testing.T) {
	s, ts, _ := newTestServer(t)
	s.service.scan = func() ([]features.Device, error) { return nil, nil }

	var got map[string]string
	assert.Equal(t, http.StatusNotFound, do(t, ts, http.MethodPost, "/api/service/start", nil, &got))
	assert.Contains(t, got["error"], "no multi-touch device")
	assert.False(t, s.service.IsRunning())
}

func TestDevices(t *testing.T) {
	_, ts, _ := newTestServer(t)

	var devices []features.Device
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/devices", nil, &devices))
	assert.Equal(t, []features.Device{fakeDevice}, devices)
}

func TestSetPreferredDevice(t *testing.T) {
	s, ts, _ := newTestServer(t)

	body := map[string]any{"touch_device": "Fake Touchscreen", "grab": true}
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPut, "/api/devices/preferred", body, nil))
	assert.Equal(t, "Fake Touchscreen", s.GetConfig().DevicePrefs.PreferredTouchDevice)
	assert.True(t, s.GetConfig().DevicePrefs.Grab)
}

func TestUpdateConfig(t *testing.T) {
	s, ts, _ := newTestServer(t)

	body := map[string]any{"gesture": map[string]any{"swipe_factor": 2}}
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPut, "/api/config", body, nil))
	assert.Equal(t, 2.0, s.GetConfig().Gesture.SwipeFactor)
	assert.Equal(t, config.DefaultConfig().Timing, s.GetConfig().Timing, "省略したフィールドはそのまま")

	var cfg config.Config
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/config", nil, &cfg))
	assert.Equal(t, 2.0, cfg.Gesture.SwipeFactor)

	var got map[string]string
	bad := map[string]any{"multi_touch": map[string]any{"fingers": 0}}
	assert.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodPut, "/api/config", bad, &got))
	assert.NotEmpty(t, got["error"])
	assert.Equal(t, 2, s.GetConfig().MultiTouch.Fingers)
}

func TestSaveConfig(t *testing.T) {
	s, ts, _ := newTestServer(t)
	path := filepath.Join(t.TempDir(), "saved.yaml")

	var got map[string]string
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPost, "/api/config/save", map[string]string{"path": path}, &got))
	assert.Equal(t, path, got["path"])

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, s.GetConfig().Timing, loaded.Timing)

	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPost, "/api/config/save", nil, &got))
	assert.Equal(t, s.configPath, got["path"])
}
