// Package cache defines the key-value store contract used by the cache-aside
// read path, the deterministic cache key scheme, and the snapshot codec for
// cached read projections.
//
// Two backends satisfy the Store interface (see internal/cacheinfra): a
// redis-backed store for deployments and an in-process sturdyc store for
// development and tests. Both honour the same semantics: Get returns ErrMiss
// for an absent key, SetEx writes with a time-to-live, and Delete removes a
// single key.
//
// Callers on the read and write paths treat every Store error as non-fatal: a
// failing cache degrades to the persistent store, it never fails the business
// operation. The only error callers branch on is ErrMiss, which distinguishes
// "not cached" from "cache broken" for logging purposes.
package cache
