package cached

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/verano-labs/go-entity-cache/audit"
	"github.com/verano-labs/go-entity-cache/cache"
	"github.com/verano-labs/go-entity-cache/repository"
)

// Reader serves single-entity reads cache-first. On a miss it loads the row
// through the engine, projects it onto the read schema, and populates the
// cache best-effort under the configured TTL.
type Reader[T, C, U, R any] struct {
	engine *repository.Engine[T, C, U, R]
	store  cache.Store
	reg    *KeyRegistry
	rec    *audit.Recorder
	ttl    time.Duration
}

// NewReader builds a cache-aside reader over the given engine and store. A
// non-positive ttl falls back to cache.DefaultTTL; a nil registry disables
// key tracking.
func NewReader[T, C, U, R any](engine *repository.Engine[T, C, U, R], store cache.Store, reg *KeyRegistry, rec *audit.Recorder, ttl time.Duration) (*Reader[T, C, U, R], error) {
	if engine == nil {
		return nil, fmt.Errorf("cached reader: engine is required")
	}
	if store == nil {
		return nil, fmt.Errorf("cached reader: store is required")
	}
	if rec == nil {
		rec = audit.NewRecorder(nil)
	}
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Reader[T, C, U, R]{engine: engine, store: store, reg: reg, rec: rec, ttl: ttl}, nil
}

// GetByID returns the read projection for id. Cache errors on either leg are
// recorded and absorbed; only database errors surface to the caller.
func (r *Reader[T, C, U, R]) GetByID(ctx context.Context, id int64) (R, error) {
	var zero R
	key := cache.Key(r.engine.Handlers().Table, id)

	raw, err := r.store.Get(ctx, key)
	switch {
	case err == nil:
		snapshot, decErr := cache.DecodeSnapshot[R](raw)
		if decErr == nil {
			return snapshot, nil
		}
		// A corrupt snapshot falls through to the database like a miss.
		r.rec.CacheFailure(ctx, "decode", key, decErr)
	case !errors.Is(err, cache.ErrMiss):
		r.rec.CacheFailure(ctx, "get", key, err)
	}

	loaded, err := r.engine.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	snapshot := r.engine.Handlers().ToRead(loaded)

	if data, encErr := cache.EncodeSnapshot(snapshot); encErr != nil {
		r.rec.CacheFailure(ctx, "encode", key, encErr)
	} else if setErr := r.store.SetEx(ctx, key, r.ttl, data); setErr != nil {
		r.rec.CacheFailure(ctx, "set", key, setErr)
	} else if r.reg != nil {
		r.reg.add(key)
	}

	return snapshot, nil
}
