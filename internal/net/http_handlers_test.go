package net

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/navsystem"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/net/proto"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/observability"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/telemetry"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/logging"
)

var stepsRows = []string{
	".......",
	".......",
	".......",
	"....###",
	"....###",
	"###.###",
}

func newTestHandler(t *testing.T, obs observability.Config) (http.Handler, *logging.Metrics, *prometheus.Registry) {
	t.Helper()
	metrics := &logging.Metrics{}
	reg := prometheus.NewRegistry()
	prom, err := telemetry.NewPrometheusMetrics(reg, "test")
	if err != nil {
		t.Fatalf("register metrics: %v", err)
	}
	handler := NewHTTPHandler(HTTPHandlerConfig{
		Observability: obs,
		System:        navsystem.Config{Metrics: telemetry.Multi(telemetry.WrapMetrics(metrics), prom)},
		Metrics:       metrics,
		Gatherer:      reg,
	})
	return handler, metrics, reg
}

func postPath(t *testing.T, handler http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/path", bytes.NewReader(raw))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestHTTPHealth(t *testing.T) {
	handler, _, _ := newTestHandler(t, observability.Config{})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.Code != http.StatusOK || resp.Body.String() != "ok" {
		t.Fatalf("unexpected health response %d %q", resp.Code, resp.Body.String())
	}
}

func TestHTTPPathFindsRoute(t *testing.T) {
	handler, metrics, _ := newTestHandler(t, observability.Config{})

	resp := postPath(t, handler, PathRequest{
		Build: proto.BuildRequest{JumpHeight: 3, BodyHeight: 1, Rows: stepsRows},
		Query: proto.PathQuery{Start: proto.Vec2{X: 16, Z: 70}, Goal: proto.Vec2{X: 176, Z: 101}},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 OK, got %d: %s", resp.Code, resp.Body.String())
	}
	if contentType := resp.Header().Get("Content-Type"); contentType != "application/json" {
		t.Fatalf("expected Content-Type application/json, got %q", contentType)
	}

	var msg proto.PathMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &msg); err != nil {
		t.Fatalf("failed to decode path payload: %v", err)
	}
	if !msg.Found || len(msg.Waypoints) != 5 {
		t.Fatalf("expected a five waypoint path, got %+v", msg)
	}
	if got := metrics.Snapshot()["path_found"]; got != 1 {
		t.Fatalf("expected path_found to be counted once, got %d", got)
	}
}

func TestHTTPPathReportsNoPath(t *testing.T) {
	handler, _, _ := newTestHandler(t, observability.Config{})

	resp := postPath(t, handler, PathRequest{
		Build: proto.BuildRequest{JumpHeight: 3, BodyHeight: 1, Rows: stepsRows},
		Query: proto.PathQuery{Start: proto.Vec2{X: 16, Z: 70}, Goal: proto.Vec2{X: 5000, Z: 101}},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 OK, got %d", resp.Code)
	}
	var msg proto.PathMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &msg); err != nil {
		t.Fatalf("failed to decode path payload: %v", err)
	}
	if msg.Found || msg.Anchor != nil || msg.Reason != navsystem.ReasonGoalInvalid {
		t.Fatalf("expected an unresolved goal, got %+v", msg)
	}
}

func TestHTTPPathRejectsBadRequests(t *testing.T) {
	handler, _, _ := newTestHandler(t, observability.Config{})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/path", nil))
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/path", strings.NewReader("{")))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", resp.Code)
	}

	resp = postPath(t, handler, PathRequest{Build: proto.BuildRequest{Width: 2, Height: 2, Tiles: []int{0, 0, 3, 0}}})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid tiles, got %d", resp.Code)
	}

	resp = postPath(t, handler, PathRequest{Build: proto.BuildRequest{Width: 0, Height: 2}})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty map, got %d", resp.Code)
	}
}

func TestHTTPDiagnosticsAndMetrics(t *testing.T) {
	handler, _, _ := newTestHandler(t, observability.Config{})
	postPath(t, handler, PathRequest{
		Build: proto.BuildRequest{JumpHeight: 3, BodyHeight: 1, Rows: stepsRows},
		Query: proto.PathQuery{Start: proto.Vec2{X: 16, Z: 70}, Goal: proto.Vec2{X: 176, Z: 101}},
	})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/diagnostics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected diagnostics 200, got %d", resp.Code)
	}
	var payload struct {
		Status         string            `json:"status"`
		ActiveSessions int               `json:"activeSessions"`
		Telemetry      map[string]uint64 `json:"telemetry"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode diagnostics: %v", err)
	}
	if payload.Status != "ok" || payload.ActiveSessions != 0 || payload.Telemetry["graph_builds"] != 1 {
		t.Fatalf("unexpected diagnostics %+v", payload)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); !strings.Contains(body, `test_events_total{key="path_found"} 1`) {
		t.Fatalf("expected path_found counter in exposition, got:\n%s", body)
	}
}

func TestHTTPPprofIsOptIn(t *testing.T) {
	handler, _, _ := newTestHandler(t, observability.Config{})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected pprof to be disabled, got %d", resp.Code)
	}

	handler, _, _ = newTestHandler(t, observability.Config{EnablePprof: true})
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected pprof index, got %d", resp.Code)
	}
}
