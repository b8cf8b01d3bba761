package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCheckHealthAggregation(t *testing.T) {
	hc := NewHealthChecker("contact", "v1")
	hc.AddCheck("a", func() CheckResult { return CheckResult{Status: StatusHealthy} })

	if got := hc.CheckHealth().Status; got != StatusHealthy {
		t.Fatalf("expected healthy, got %s", got)
	}

	hc.AddCheck("b", func() CheckResult { return CheckResult{Status: StatusDegraded} })
	if got := hc.CheckHealth().Status; got != StatusDegraded {
		t.Fatalf("expected degraded, got %s", got)
	}

	hc.AddCheck("c", func() CheckResult { return CheckResult{Status: StatusUnhealthy} })
	if got := hc.CheckHealth().Status; got != StatusUnhealthy {
		t.Fatalf("expected unhealthy, got %s", got)
	}
}

func TestHealthHandlerStatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hc := NewHealthChecker("contact", "v1")
	hc.AddCheck("ok", func() CheckResult { return CheckResult{Status: StatusHealthy} })

	r := gin.New()
	r.GET("/health", hc.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	hc.AddCheck("down", func() CheckResult { return CheckResult{Status: StatusUnhealthy} })
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestCRMConfiguredCheck(t *testing.T) {
	if got := CRMConfiguredCheck("")().Status; got != StatusDegraded {
		t.Fatalf("missing key should degrade, got %s", got)
	}
	if got := CRMConfiguredCheck("secret")().Status; got != StatusHealthy {
		t.Fatalf("configured key should be healthy, got %s", got)
	}
}

func TestConfigurationHealthCheck(t *testing.T) {
	check := ConfigurationHealthCheck(map[string]string{"MAIL_HOST": ""})
	if got := check().Status; got != StatusUnhealthy {
		t.Fatalf("missing config should be unhealthy, got %s", got)
	}

	check = ConfigurationHealthCheck(map[string]string{"MAIL_HOST": "smtp.example.de"})
	if got := check().Status; got != StatusHealthy {
		t.Fatalf("present config should be healthy, got %s", got)
	}
}
