package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestJSONLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Writer: &buf}).With(String("component", "dates"))

	log.Debug(context.Background(), "stale response dropped",
		Int("token", 3), Float64("radius", 230), Bool("push", true), Err(errors.New("boom")))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line %q: %v", buf.String(), err)
	}
	if rec["msg"] != "stale response dropped" || rec["component"] != "dates" {
		t.Fatalf("unexpected record %#v", rec)
	}
	if rec["token"] != float64(3) || rec["push"] != true || rec["error"] != "boom" {
		t.Fatalf("missing fields in %#v", rec)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Writer: &buf})
	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestErrNil(t *testing.T) {
	if f := Err(nil); f.Key != "error" || f.Value != "" {
		t.Fatalf("Err(nil) = %#v", f)
	}
}

func TestEnsureRequestIDIsStable(t *testing.T) {
	ctx, id := EnsureRequestID(context.Background())
	if id == "" {
		t.Fatalf("expected a request id")
	}
	again, id2 := EnsureRequestID(ctx)
	if id2 != id || RequestIDFromContext(again) != id {
		t.Fatalf("request id changed: %q vs %q", id, id2)
	}
	if NewRequestID() == NewRequestID() {
		t.Fatalf("request ids should be unique")
	}
}

func TestContextLogger(t *testing.T) {
	if LoggerFromContext(context.Background()) != nil {
		t.Fatalf("expected no logger on a bare context")
	}
	ctx := ContextWithLogger(context.Background(), nil)
	if LoggerFromContext(ctx) == nil {
		t.Fatalf("expected the noop logger to be stored")
	}
}

func TestContextRequestIDIsStamped(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "json", Writer: &buf})
	ctx := ContextWithRequestID(context.Background(), "req-42")

	log.Info(ctx, "positions served")
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	if rec[RequestIDKey] != "req-42" {
		t.Fatalf("request id not stamped: %#v", rec)
	}

	// A logger already bound to an id does not get a second one.
	buf.Reset()
	ctx, bound := WithRequestLogger(ctx, log)
	bound.Info(ctx, "again")
	if n := strings.Count(buf.String(), RequestIDKey); n != 1 {
		t.Fatalf("request_id appears %d times in %q", n, buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]string{"": "INFO", "debug": "DEBUG", "WARNING": "WARN", "error": "ERROR"} {
		got, err := ParseLevel(in)
		if err != nil || got.String() != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected an error for an unknown level")
	}
	if ValidFormat("xml") || !ValidFormat("JSON") {
		t.Fatalf("ValidFormat misclassified")
	}
}
