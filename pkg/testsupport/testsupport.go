// Package testsupport provides shared fixtures for package tests: an
// in-memory SQLite database behind bun, a miniredis-backed cache store, and
// a query-counting hook.
package testsupport

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/zap"

	"github.com/verano-labs/go-entity-cache/cache"
	"github.com/verano-labs/go-entity-cache/internal/cacheinfra"

	_ "github.com/mattn/go-sqlite3"
)

// NewDB opens an in-memory SQLite database wrapped in bun. The single
// connection keeps the in-memory database alive for the test's duration.
func NewDB(t testing.TB) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// NewRedisStore starts a miniredis server and returns it together with a
// redis-backed cache store pointed at it. Stopping the server mid-test is a
// cheap way to simulate a failing cache.
func NewRedisStore(t testing.TB) (*miniredis.Miniredis, cache.Store) {
	t.Helper()

	srv := miniredis.RunT(t)
	store, err := cacheinfra.NewRedisStore("redis://"+srv.Addr(), zap.NewNop())
	if err != nil {
		t.Fatalf("connect to miniredis: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return srv, store
}

// QueryCounter is a bun query hook counting every statement sent to the
// database. Tests use it to assert that a code path never reached the store.
type QueryCounter struct {
	n atomic.Int64
}

var _ bun.QueryHook = (*QueryCounter)(nil)

func (c *QueryCounter) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	c.n.Add(1)
	return ctx
}

func (c *QueryCounter) AfterQuery(context.Context, *bun.QueryEvent) {}

// Count returns the number of statements observed so far.
func (c *QueryCounter) Count() int64 { return c.n.Load() }
