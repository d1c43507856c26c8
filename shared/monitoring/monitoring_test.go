package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func fixedMonitor() *Monitor {
	m := NewMonitor()
	m.now = func() time.Time { return time.Date(2025, 3, 4, 9, 30, 0, 0, time.UTC) }
	return m
}

func TestMonitorStatus(t *testing.T) {
	m := fixedMonitor()

	if !m.IsHealthy() {
		t.Error("monitor with no runs should be healthy")
	}
	if got := m.GetStatusSummary(); got != "No runs yet" {
		t.Errorf("GetStatusSummary() = %q, want %q", got, "No runs yet")
	}

	m.RecordSuccess("Quito: 3 of 5 drones can fly", time.Second)
	if !m.IsHealthy() {
		t.Error("monitor should be healthy after success")
	}
	if got := m.GetStatusSummary(); got != "✅ Last run: Mar 4 09:30 (Quito: 3 of 5 drones can fly)" {
		t.Errorf("GetStatusSummary() = %q", got)
	}

	m.RecordPartialFailure(errors.New("publish failed"), time.Second)
	if !m.IsHealthy() {
		t.Error("partial failure should not change health")
	}

	m.RecordCriticalFailure(errors.New("weather API returned status 502"), time.Second)
	if m.IsHealthy() {
		t.Error("monitor should be unhealthy after critical failure")
	}
	if got := m.GetStatusSummary(); got != "❌ Last run failed: Mar 4 09:30 (weather API returned status 502)" {
		t.Errorf("GetStatusSummary() = %q", got)
	}
}

func TestHealthHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := fixedMonitor()
	r := gin.New()
	NewHealthHandlers(m).Register(r)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	if w := get("/health"); w.Code != http.StatusOK || !strings.HasPrefix(w.Body.String(), "OK - ") {
		t.Errorf("/health = %d %q", w.Code, w.Body.String())
	}

	m.RecordCriticalFailure(errors.New("boom"), time.Millisecond)
	if w := get("/health"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("/health after failure = %d, want 503", w.Code)
	}
	if w := get("/status"); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "boom") {
		t.Errorf("/status = %d %q", w.Code, w.Body.String())
	}

	RecordWeatherFetch("success", time.Millisecond)
	if w := get("/metrics"); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "weather_fetch_total") {
		t.Errorf("/metrics = %d, missing weather_fetch_total", w.Code)
	}
}

func TestRecordMetrics(t *testing.T) {
	before := testutil.ToFloat64(WeatherFetchTotal.WithLabelValues("stale"))
	RecordWeatherFetch("stale", 10*time.Millisecond)
	if got := testutil.ToFloat64(WeatherFetchTotal.WithLabelValues("stale")); got != before+1 {
		t.Errorf("weather_fetch_total{status=stale} = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(AssistantRequestsTotal.WithLabelValues("error"))
	RecordAssistantRequest("error", 10*time.Millisecond)
	if got := testutil.ToFloat64(AssistantRequestsTotal.WithLabelValues("error")); got != before+1 {
		t.Errorf("assistant_requests_total{status=error} = %v, want %v", got, before+1)
	}

	if got := testutil.ToFloat64(AppInfo); got != 1 {
		t.Errorf("dashboard_app_info = %v, want 1", got)
	}
}
