package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/canteenpulse/internal/domain/models"
	"github.com/guttosm/canteenpulse/internal/metrics"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := metrics.NewManager()
	h := NewHandler(&mockReportService{rep: sampleReport()}, &mockRatingService{})
	r := NewRouter(h, RouterOptions{RateLimitPerMinute: 100, Metrics: m})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/weekly-report?canteenId=canteen_01", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
	var out models.WeeklyReport
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if out.CanteenID != "canteen_01" {
		t.Fatalf("unexpected body: %+v", out)
	}

	// the request above is visible on /metrics under its route template
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `route="/api/v1/weekly-report"`) {
		t.Fatalf("metrics missing route label:\n%s", w.Body.String())
	}
}

func TestNewRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&mockReportService{}, &mockRatingService{}), RouterOptions{})

	want := map[string]bool{
		"GET /ping":                              false,
		"GET /metrics":                           false,
		"GET /swagger/*any":                      false,
		"POST /api/v1/ratings":                   false,
		"GET /api/v1/ratings":                    false,
		"GET /api/v1/weekly-report":              false,
		"GET /api/v1/weekly-report/materialized": false,
		"POST /api/v1/weekly-report/recompute":   false,
	}
	for _, ri := range r.Routes() {
		key := ri.Method + " " + ri.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for k, found := range want {
		if !found {
			t.Fatalf("route %s not registered", k)
		}
	}
}

func TestNewRouter_RateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&mockReportService{}, &mockRatingService{}), RouterOptions{RateLimitPerMinute: 1})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes=%v", codes)
	}
}
