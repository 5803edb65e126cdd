package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/signalsfoundry/orrery/internal/config"
	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/model"
)

func TestOrreryServerStartupSmoke(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	healthLis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Cache.DSN = ":memory:"
	cfg.Ephemeris.Rings = map[string]float64{"saturn": 520}
	log := logging.New(logging.Config{Level: "warn", Format: "text"})

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx, cfg, log, lis, healthLis)
	}()

	base := "http://" + lis.Addr().String()
	var snap model.PositionSnapshot
	waitFor(t, func() error {
		resp, err := http.Get(base + "/api/positions?date=2030-01-01")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&snap)
	})
	if snap.Positions[model.Saturn].Radius != 520 {
		t.Fatalf("saturn radius = %v, want override 520", snap.Positions[model.Saturn].Radius)
	}

	conn, err := grpc.NewClient(healthLis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("grpc.NewClient: %v", err)
	}
	defer conn.Close()
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("health = %v", resp.GetStatus())
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}

func TestRunRejectsBadRingOverride(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	defer lis.Close()

	cfg := config.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Ephemeris.Rings = map[string]float64{"sun": 10}
	if err := run(context.Background(), cfg, logging.Noop(), lis, nil); err == nil {
		t.Fatalf("expected error for a ring on the sun")
	}
}

func TestRootCommandBindsFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Parse([]string{"--addr", ":9999", "--cache=false"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if got := cmd.Flags().Lookup("addr").Value.String(); got != ":9999" {
		t.Fatalf("addr = %q", got)
	}
	if cmd.PersistentFlags().Lookup("config") == nil {
		t.Fatalf("missing --config flag")
	}
}

func waitFor(t *testing.T, fn func() error) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		err := fn()
		if err == nil {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not met: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
