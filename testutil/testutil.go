// Package testutil provides in-memory stores and fixed clocks for package tests.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/uptrace/bun"

	bundb "github.com/Porx312/ProjectD/db"
	"github.com/Porx312/ProjectD/ids"
	"github.com/Porx312/ProjectD/store"
)

// Epoch is the start time of every test clock.
var Epoch = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

// Clock is a deterministic clock that advances one second on every reading.
type Clock struct {
	mu  sync.Mutex
	cur time.Time
}

func NewClock() *Clock {
	return &Clock{cur: Epoch}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

// Set moves the clock so the next reading is t plus one second.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = t
}

// NewDB opens a private in-memory SQLite database with all tables created.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := bundb.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := bundb.CreateTables(context.Background(), db); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return db
}

// NewStore returns a store over a fresh database and the clock it uses.
func NewStore(t *testing.T) (*store.Store, *Clock) {
	t.Helper()
	clock := NewClock()
	s := store.New(NewDB(t), store.WithClock(clock.Now), store.WithIDs(ids.OrDefault(7)))
	return s, clock
}
