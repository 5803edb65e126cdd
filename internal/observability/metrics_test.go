package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewServerCollector(reg)
	if err != nil {
		t.Fatalf("NewServerCollector: %v", err)
	}

	r := chi.NewRouter()
	r.Use(collector.Middleware)
	r.Get("/api/positions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/positions?date=2030-01-01", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("/api/positions", "GET", "418")); got != 1 {
		t.Fatalf("orrery_http_requests_total = %v, want 1", got)
	}
	if count := histogramSampleCount(t, reg, "orrery_http_request_duration_seconds", map[string]string{
		"route":  "/api/positions",
		"method": "GET",
	}); count != 1 {
		t.Fatalf("orrery_http_request_duration_seconds sample_count = %d, want 1", count)
	}
	if got := testutil.ToFloat64(collector.HTTPInFlight); got != 0 {
		t.Fatalf("in-flight gauge = %v after request, want 0", got)
	}
}

func TestMiddlewareDefaultsStatusOK(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewServerCollector(reg)
	if err != nil {
		t.Fatalf("NewServerCollector: %v", err)
	}
	h := collector.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("unmatched", "GET", "200")); got != 1 {
		t.Fatalf("unmatched request count = %v, want 1", got)
	}
}

func TestUnaryInterceptorRecordsErrorCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewServerCollector(reg)
	if err != nil {
		t.Fatalf("NewServerCollector: %v", err)
	}

	interceptor := collector.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	_, _ = interceptor(context.Background(), struct{}{}, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		time.Sleep(time.Millisecond)
		return nil, status.Error(codes.Unavailable, "draining")
	})

	if got := testutil.ToFloat64(collector.RPCRequests.WithLabelValues("Health", "Check", "Unavailable")); got != 1 {
		t.Fatalf("orrery_grpc_requests_total = %v, want 1", got)
	}
}

func TestCollectorReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewServerCollector(reg)
	if err != nil {
		t.Fatalf("first NewServerCollector: %v", err)
	}
	second, err := NewServerCollector(reg)
	if err != nil {
		t.Fatalf("second NewServerCollector: %v", err)
	}
	if first.HTTPRequests != second.HTTPRequests {
		t.Fatalf("expected the already registered counter to be reused")
	}
}

func TestEphemerisCollectorCacheRatio(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewEphemerisCollector(reg)
	if err != nil {
		t.Fatalf("NewEphemerisCollector: %v", err)
	}
	collector.ObserveCache(false)
	collector.ObserveCache(true)
	collector.ObserveCache(true)
	collector.ObserveCache(true)
	collector.ObserveComputation("positions", 2*time.Millisecond)

	if got := testutil.ToFloat64(collector.CacheHitRatio); got != 0.75 {
		t.Fatalf("hit ratio = %v, want 0.75", got)
	}
	if got := testutil.ToFloat64(collector.CacheMisses); got != 1 {
		t.Fatalf("misses = %v, want 1", got)
	}
	if count := histogramSampleCount(t, reg, "orrery_ephemeris_computation_duration_seconds", map[string]string{"kind": "positions"}); count != 1 {
		t.Fatalf("computation sample_count = %d, want 1", count)
	}

	var nilCollector *EphemerisCollector
	nilCollector.ObserveCache(true)
	nilCollector.ObserveComputation("info", time.Second)
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewServerCollector(reg)
	if err != nil {
		t.Fatalf("NewServerCollector: %v", err)
	}
	if _, err := NewEphemerisCollector(reg); err != nil {
		t.Fatalf("NewEphemerisCollector: %v", err)
	}
	collector.HTTPRequests.WithLabelValues("/healthz", "GET", "200").Inc()

	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"orrery_http_requests_total",
		"orrery_http_requests_in_flight",
		"orrery_snapshot_cache_hit_ratio",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
}

func TestSplitMethod(t *testing.T) {
	cases := map[string][2]string{
		"":                             {"unknown", "unknown"},
		"/grpc.health.v1.Health/Check": {"Health", "Check"},
		"Check":                        {"unknown", "unknown"},
	}
	for in, want := range cases {
		s, m := SplitMethod(in)
		if s != want[0] || m != want[1] {
			t.Fatalf("SplitMethod(%q) = %q, %q; want %q, %q", in, s, m, want[0], want[1])
		}
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
