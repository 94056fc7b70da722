// Package repository implements the entity-agnostic CRUD engine over a bun
// database. An Engine is parameterized by an entity type and its schema
// roles (create input, update input, read projection) plus a Handlers bundle
// that declares the entity's table name, its primary key column, and how to
// move between the roles. The key column is static per entity type; nothing
// is discovered by reflection at runtime.
//
// Every mutating operation is wrapped in audit records (attempt, success,
// failure) and, for update and delete, followed by cache invalidation. The
// store write and the invalidation are not jointly atomic: a failed
// invalidation is logged and absorbed, leaving staleness bounded by the
// cache TTL.
package repository
