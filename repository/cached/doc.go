// Package cached layers a cache-aside read path and write-triggered
// invalidation on top of the repository engine. The cache is an optimization
// only: a missing, failing, or slow cache degrades reads to the database and
// never changes the outcome of a write.
package cached
