package cached

import (
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// KeyRegistry tracks the cache keys currently believed to hold a snapshot.
// Readers register a key after populating it and the invalidator unregisters
// it on delete, so a whole entity type can be flushed without a backend scan.
// The registry is advisory: entries for expired snapshots are harmless, the
// delete is simply a no-op.
type KeyRegistry struct {
	keys *xsync.MapOf[string, struct{}]
}

// NewKeyRegistry returns an empty registry safe for concurrent use.
func NewKeyRegistry() *KeyRegistry {
	return &KeyRegistry{keys: xsync.NewMapOf[string, struct{}]()}
}

func (r *KeyRegistry) add(key string) {
	r.keys.Store(key, struct{}{})
}

func (r *KeyRegistry) remove(key string) {
	r.keys.Delete(key)
}

// forPrefix returns every registered key starting with prefix.
func (r *KeyRegistry) forPrefix(prefix string) []string {
	var matched []string
	r.keys.Range(func(key string, _ struct{}) bool {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
		return true
	})
	return matched
}

// Len returns the number of registered keys.
func (r *KeyRegistry) Len() int {
	return r.keys.Size()
}
