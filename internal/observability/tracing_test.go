package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/signalsfoundry/orrery/internal/logging"
)

func TestApplyTracingEnv(t *testing.T) {
	t.Setenv("ORRERY_TRACING_ENABLED", "TRUE")
	t.Setenv("ORRERY_TRACING_EXPORTER", "OTLP")
	t.Setenv("ORRERY_TRACING_SAMPLE_RATIO", "0.25")
	t.Setenv("ORRERY_OTLP_ENDPOINT", "collector:4317")

	cfg := ApplyTracingEnv(DefaultTracingConfig())
	if !cfg.Enabled || cfg.Exporter != "otlp" || cfg.SampleRatio != 0.25 || cfg.Endpoint != "collector:4317" {
		t.Fatalf("unexpected config %#v", cfg)
	}
	if cfg.ServiceName != "orrery-server" {
		t.Fatalf("service name = %q, want default", cfg.ServiceName)
	}
}

func TestApplyTracingEnvIgnoresBadRatio(t *testing.T) {
	t.Setenv("ORRERY_TRACING_SAMPLE_RATIO", "7")
	if cfg := TracingConfigFromEnv(); cfg.SampleRatio != 1 {
		t.Fatalf("sample ratio = %v, want 1", cfg.SampleRatio)
	}
}

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), DefaultTracingConfig(), logging.Noop())
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}
	ShutdownWithTimeout(context.Background(), shutdown, nil)

	_, span := StartSpan(context.Background(), "test")
	span.End()
}

func TestInitTracingUnknownExporter(t *testing.T) {
	cfg := DefaultTracingConfig()
	cfg.Enabled = true
	cfg.Exporter = "zipkin"
	if _, err := InitTracing(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected unsupported exporter error")
	}
}

func TestInitTracingStdoutWriter(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultTracingConfig()
	cfg.Enabled = true
	cfg.Writer = &buf

	shutdown, err := InitTracing(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}
	t.Cleanup(func() {
		_, _ = InitTracing(context.Background(), DefaultTracingConfig(), nil)
	})

	_, span := StartSpan(context.Background(), "ephemeris.Positions")
	span.End()
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !strings.Contains(buf.String(), "ephemeris.Positions") {
		t.Fatalf("span not exported: %q", buf.String())
	}
}
