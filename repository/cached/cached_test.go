package cached_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/verano-labs/go-entity-cache/audit"
	"github.com/verano-labs/go-entity-cache/cache"
	"github.com/verano-labs/go-entity-cache/pkg/testsupport"
	"github.com/verano-labs/go-entity-cache/repository"
	"github.com/verano-labs/go-entity-cache/repository/cached"
)

type widget struct {
	bun.BaseModel `bun:"table:widgets,alias:w"`

	ID    int64  `bun:"idwidgets,pk,autoincrement"`
	Name  string `bun:"name,notnull"`
	Level int    `bun:"level"`
}

type widgetCreate struct {
	Name  string
	Level int
}

type widgetUpdate struct {
	Name  string
	Level int
}

type widgetRead struct {
	ID    int64  `msgpack:"id"`
	Name  string `msgpack:"name"`
	Level int    `msgpack:"level"`
}

func widgetHandlers() repository.Handlers[widget, widgetCreate, widgetUpdate, widgetRead] {
	return repository.Handlers[widget, widgetCreate, widgetUpdate, widgetRead]{
		Table:    "widgets",
		PKColumn: "idwidgets",
		PKValue:  func(w *widget) int64 { return w.ID },
		FromCreate: func(in widgetCreate) *widget {
			return &widget{Name: in.Name, Level: in.Level}
		},
		ApplyUpdate: func(w *widget, in widgetUpdate) {
			w.Name = in.Name
			w.Level = in.Level
		},
		ToRead: func(w *widget) widgetRead {
			return widgetRead{ID: w.ID, Name: w.Name, Level: w.Level}
		},
	}
}

type fixture struct {
	db     *bun.DB
	srv    *miniredis.Miniredis
	store  cache.Store
	reg    *cached.KeyRegistry
	engine *repository.Engine[widget, widgetCreate, widgetUpdate, widgetRead]
	reader *cached.Reader[widget, widgetCreate, widgetUpdate, widgetRead]
	logs   *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testsupport.NewDB(t)
	_, err := db.NewCreateTable().Model((*widget)(nil)).Exec(context.Background())
	require.NoError(t, err)

	srv, store := testsupport.NewRedisStore(t)

	core, logs := observer.New(zap.DebugLevel)
	rec := audit.NewRecorder(zap.New(core))
	reg := cached.NewKeyRegistry()
	inv := cached.NewInvalidator(store, reg, rec)

	engine, err := repository.NewEngine(db, widgetHandlers(), rec, inv)
	require.NoError(t, err)

	reader, err := cached.NewReader(engine, store, reg, rec, 0)
	require.NoError(t, err)

	return &fixture{db: db, srv: srv, store: store, reg: reg, engine: engine, reader: reader, logs: logs}
}

func (f *fixture) create(t *testing.T, in widgetCreate) *widget {
	t.Helper()
	w, err := f.engine.Create(context.Background(), in)
	require.NoError(t, err)
	return w
}

func cacheLogCount(logs *observer.ObservedLogs) int {
	return logs.FilterFieldKey("cache_key").Len()
}

func TestGetByIDMissPopulatesThenHits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.create(t, widgetCreate{Name: "anvil", Level: 3})
	key := cache.Key("widgets", w.ID)

	got, err := f.reader.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "anvil", got.Name)
	assert.True(t, f.srv.Exists(key), "first read must populate the cache")
	assert.Equal(t, 1, f.reg.Len())

	// Remove the row behind the cache's back; a hit never touches the
	// database, so the snapshot is still served.
	_, err = f.db.NewDelete().Model((*widget)(nil)).Where("idwidgets = ?", w.ID).Exec(ctx)
	require.NoError(t, err)

	got, err = f.reader.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "anvil", got.Name)
}

func TestGetByIDAppliesDefaultTTL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.create(t, widgetCreate{Name: "anvil"})
	key := cache.Key("widgets", w.ID)

	_, err := f.reader.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, cache.DefaultTTL, f.srv.TTL(key))

	// Past the TTL the snapshot is gone and the database is authoritative.
	f.srv.FastForward(cache.DefaultTTL + time.Second)
	_, err = f.db.NewUpdate().Model(&widget{ID: w.ID, Name: "hammer", Level: 1}).WherePK().Exec(ctx)
	require.NoError(t, err)

	got, err := f.reader.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "hammer", got.Name)
}

func TestGetByIDNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.reader.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.False(t, f.srv.Exists(cache.Key("widgets", 404)), "missing rows are not cached")
}

func TestUpdateInvalidatesSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.create(t, widgetCreate{Name: "anvil", Level: 1})
	key := cache.Key("widgets", w.ID)

	_, err := f.reader.GetByID(ctx, w.ID)
	require.NoError(t, err)
	require.True(t, f.srv.Exists(key))

	_, err = f.engine.Update(ctx,
		repository.Keyed{"idwidgets": w.ID}, widgetUpdate{Name: "hammer", Level: 2})
	require.NoError(t, err)
	assert.False(t, f.srv.Exists(key), "update must delete the snapshot")
	assert.Zero(t, f.reg.Len())

	got, err := f.reader.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "hammer", got.Name, "next read observes the new state")
}

func TestDeleteInvalidatesSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.create(t, widgetCreate{Name: "anvil"})
	key := cache.Key("widgets", w.ID)

	_, err := f.reader.GetByID(ctx, w.ID)
	require.NoError(t, err)

	require.NoError(t, f.engine.Delete(ctx, repository.Keyed{"idwidgets": w.ID}))
	assert.False(t, f.srv.Exists(key))

	_, err = f.reader.GetByID(ctx, w.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteAbsentRowLeavesCacheAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.create(t, widgetCreate{Name: "anvil"})
	key := cache.Key("widgets", w.ID)

	_, err := f.reader.GetByID(ctx, w.ID)
	require.NoError(t, err)

	err = f.engine.Delete(ctx, repository.Keyed{"idwidgets": int64(404)})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.True(t, f.srv.Exists(key), "failed delete must not invalidate")
	assert.Equal(t, 1, f.reg.Len())
}

func TestFailingCacheDegradesReadsToDatabase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.create(t, widgetCreate{Name: "anvil"})

	f.srv.Close()

	got, err := f.reader.GetByID(ctx, w.ID)
	require.NoError(t, err, "cache errors must not fail the read")
	assert.Equal(t, "anvil", got.Name)
	assert.GreaterOrEqual(t, cacheLogCount(f.logs), 1, "absorbed cache errors are recorded")
}

func TestFailingCacheNeverChangesWriteOutcome(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.create(t, widgetCreate{Name: "anvil"})

	f.srv.Close()

	updated, err := f.engine.Update(ctx,
		repository.Keyed{"idwidgets": w.ID}, widgetUpdate{Name: "hammer"})
	require.NoError(t, err, "invalidation failures are absorbed")
	assert.Equal(t, "hammer", updated.Name)

	err = f.engine.Delete(ctx, repository.Keyed{"idwidgets": w.ID})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cacheLogCount(f.logs), 2)
}

func TestCorruptSnapshotFallsThroughToDatabase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.create(t, widgetCreate{Name: "anvil"})
	key := cache.Key("widgets", w.ID)

	require.NoError(t, f.srv.Set(key, "not msgpack"))

	got, err := f.reader.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "anvil", got.Name)
	assert.Equal(t, 1, cacheLogCount(f.logs))
}

func TestInvalidateTypeFlushesRegisteredKeys(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, widgetCreate{Name: "a"})
	b := f.create(t, widgetCreate{Name: "b"})

	_, err := f.reader.GetByID(ctx, a.ID)
	require.NoError(t, err)
	_, err = f.reader.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, 2, f.reg.Len())

	core, _ := observer.New(zap.DebugLevel)
	inv := cached.NewInvalidator(f.store, f.reg, audit.NewRecorder(zap.New(core)))
	inv.InvalidateType(ctx, "widgets")

	assert.False(t, f.srv.Exists(cache.Key("widgets", a.ID)))
	assert.False(t, f.srv.Exists(cache.Key("widgets", b.ID)))
	assert.Zero(t, f.reg.Len())
}
