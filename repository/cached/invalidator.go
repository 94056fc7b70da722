package cached

import (
	"context"

	"github.com/verano-labs/go-entity-cache/audit"
	"github.com/verano-labs/go-entity-cache/cache"
	"github.com/verano-labs/go-entity-cache/repository"
)

// Invalidator deletes cached snapshots after successful updates and deletes.
// Every cache error is recorded and absorbed: by the time invalidation runs
// the write has already committed, and the TTL caps how long a stale
// snapshot can outlive a lost delete.
type Invalidator struct {
	store cache.Store
	reg   *KeyRegistry
	rec   *audit.Recorder
}

var _ repository.Invalidator = (*Invalidator)(nil)

// NewInvalidator builds an invalidator over the given store. A nil registry
// disables key tracking; a nil recorder drops the failure records.
func NewInvalidator(store cache.Store, reg *KeyRegistry, rec *audit.Recorder) *Invalidator {
	if rec == nil {
		rec = audit.NewRecorder(nil)
	}
	return &Invalidator{store: store, reg: reg, rec: rec}
}

// Invalidate removes the snapshot for one entity row.
func (i *Invalidator) Invalidate(ctx context.Context, entityType string, id int64) {
	i.deleteKey(ctx, cache.Key(entityType, id))
}

// InvalidateType removes every registered snapshot of an entity type. Used
// by maintenance flows after bulk changes; requires a registry.
func (i *Invalidator) InvalidateType(ctx context.Context, entityType string) {
	if i.reg == nil {
		return
	}
	for _, key := range i.reg.forPrefix(cache.TypePrefix(entityType)) {
		i.deleteKey(ctx, key)
	}
}

func (i *Invalidator) deleteKey(ctx context.Context, key string) {
	if i.reg != nil {
		i.reg.remove(key)
	}
	if err := i.store.Delete(ctx, key); err != nil {
		i.rec.CacheFailure(ctx, "delete", key, err)
	}
}
