// Package storage persists computed position snapshots in SQLite so repeat
// lookups for a date skip the ephemeris computation.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/signalsfoundry/orrery/model"
)

// ErrCacheMiss is returned by Load when no snapshot is stored for a date.
var ErrCacheMiss = errors.New("snapshot cache miss")

// SnapshotCache is a SQLite-backed snapshot store keyed by date.
type SnapshotCache struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at dsn. ":memory:" gives a
// private in-process database.
func Open(dsn string) (*SnapshotCache, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snapshot cache: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises
	// writers.
	db.SetMaxOpenConns(1)

	c := &SnapshotCache{db: db, now: time.Now}
	if err := c.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *SnapshotCache) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		date TEXT PRIMARY KEY,
		positions TEXT NOT NULL,
		computed_at INTEGER NOT NULL
	);
	`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("create snapshot tables: %w", err)
	}
	return nil
}

// Load returns the snapshot stored for date.
func (c *SnapshotCache) Load(ctx context.Context, date string) (model.PositionSnapshot, error) {
	var raw string
	err := c.db.QueryRowContext(ctx, `SELECT positions FROM snapshots WHERE date = ?`, date).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PositionSnapshot{}, fmt.Errorf("%w: %s", ErrCacheMiss, date)
	}
	if err != nil {
		return model.PositionSnapshot{}, fmt.Errorf("load snapshot %s: %w", date, err)
	}

	snap := model.PositionSnapshot{Date: date}
	if err := json.Unmarshal([]byte(raw), &snap.Positions); err != nil {
		return model.PositionSnapshot{}, fmt.Errorf("decode snapshot %s: %w", date, err)
	}
	return snap, nil
}

// Store saves snap, replacing any previous entry for its date.
func (c *SnapshotCache) Store(ctx context.Context, snap model.PositionSnapshot) error {
	if snap.Date == "" {
		return fmt.Errorf("store snapshot: date is required")
	}
	raw, err := json.Marshal(snap.Positions)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", snap.Date, err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots (date, positions, computed_at) VALUES (?, ?, ?)`,
		snap.Date, string(raw), c.now().Unix())
	if err != nil {
		return fmt.Errorf("store snapshot %s: %w", snap.Date, err)
	}
	return nil
}

// Purge drops every stored snapshot.
func (c *SnapshotCache) Purge(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("purge snapshots: %w", err)
	}
	return nil
}

// Len returns the number of stored snapshots.
func (c *SnapshotCache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}

// Close releases the database.
func (c *SnapshotCache) Close() error {
	return c.db.Close()
}
