package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/signalsfoundry/orrery/model"
)

func openMemory(t *testing.T) *SnapshotCache {
	t.Helper()
	c, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestLoadMiss(t *testing.T) {
	c := openMemory(t)
	_, err := c.Load(context.Background(), "2030-01-01")
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Load error = %v, want ErrCacheMiss", err)
	}
}

func TestStoreAndLoad(t *testing.T) {
	c := openMemory(t)
	ctx := context.Background()
	snap := model.PositionSnapshot{Date: "2030-01-01", Positions: map[model.BodyID]model.Polar{
		model.Earth: {Radius: 230, Angle: 1.75},
		model.Mars:  {Radius: 290, Angle: -0.5},
	}}
	if err := c.Store(ctx, snap); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, err := c.Load(ctx, "2030-01-01")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Date != snap.Date || len(got.Positions) != 2 || got.Positions[model.Mars] != snap.Positions[model.Mars] {
		t.Fatalf("Load = %#v", got)
	}

	snap.Positions[model.Mars] = model.Polar{Radius: 300, Angle: 0}
	if err := c.Store(ctx, snap); err != nil {
		t.Fatalf("Store replace: %v", err)
	}
	if n, _ := c.Len(ctx); n != 1 {
		t.Fatalf("Len = %d after replace, want 1", n)
	}
	got, _ = c.Load(ctx, "2030-01-01")
	if got.Positions[model.Mars].Radius != 300 {
		t.Fatalf("replace not applied: %#v", got.Positions[model.Mars])
	}
}

func TestStoreRequiresDate(t *testing.T) {
	if err := openMemory(t).Store(context.Background(), model.PositionSnapshot{}); err == nil {
		t.Fatalf("expected an error for a snapshot without date")
	}
}

func TestPurge(t *testing.T) {
	c := openMemory(t)
	ctx := context.Background()
	for _, d := range []string{"2030-01-01", "2030-01-02"} {
		if err := c.Store(ctx, model.PositionSnapshot{Date: d}); err != nil {
			t.Fatalf("Store: %v", err)
		}
	}
	if err := c.Purge(ctx); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if n, _ := c.Len(ctx); n != 0 {
		t.Fatalf("Len = %d after purge", n)
	}
}

func TestFileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Store(ctx, model.PositionSnapshot{Date: "2030-01-01", Positions: map[model.BodyID]model.Polar{model.Venus: {Radius: 170}}}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	c.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Load(ctx, "2030-01-01")
	if err != nil || got.Positions[model.Venus].Radius != 170 {
		t.Fatalf("Load after reopen = %#v, %v", got, err)
	}
}
