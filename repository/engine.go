package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/verano-labs/go-entity-cache/audit"
)

// Invalidator removes the cached snapshot for a single entity row. Failures
// are absorbed by the implementation; the triggering write already committed
// and staleness is bounded by the snapshot TTL.
type Invalidator interface {
	Invalidate(ctx context.Context, entityType string, id int64)
}

// Engine provides audited CRUD for one entity type. T is the persisted
// record, C and U the create and update inputs, R the read projection.
type Engine[T, C, U, R any] struct {
	db  bun.IDB
	h   Handlers[T, C, U, R]
	rec *audit.Recorder
	inv Invalidator
}

// NewEngine builds an engine for one entity. The invalidator may be nil when
// no cache sits in front of the entity.
func NewEngine[T, C, U, R any](db bun.IDB, h Handlers[T, C, U, R], rec *audit.Recorder, inv Invalidator) (*Engine[T, C, U, R], error) {
	if db == nil {
		return nil, fmt.Errorf("engine: database is required")
	}
	if err := h.validate(); err != nil {
		return nil, err
	}
	if rec == nil {
		rec = audit.NewRecorder(nil)
	}
	return &Engine[T, C, U, R]{db: db, h: h, rec: rec, inv: inv}, nil
}

// Handlers returns the entity mapping this engine was built with.
func (e *Engine[T, C, U, R]) Handlers() Handlers[T, C, U, R] { return e.h }

// Create inserts a new record built from input and returns it with its
// generated key. Uniqueness violations surface as a DuplicateError.
func (e *Engine[T, C, U, R]) Create(ctx context.Context, input C) (*T, error) {
	e.rec.Attempt(ctx, audit.ActionCreate, e.h.Table, zap.Any("input", input))

	rec := e.h.FromCreate(input)
	if _, err := e.db.NewInsert().Model(rec).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			dup := &DuplicateError{Entity: e.h.Table, Err: err}
			e.rec.Failure(ctx, audit.ActionCreate, e.h.Table, dup)
			return nil, dup
		}
		e.rec.Failure(ctx, audit.ActionCreate, e.h.Table, err)
		return nil, fmt.Errorf("create %s: %w", e.h.Table, err)
	}

	e.rec.Success(ctx, audit.ActionCreate, e.h.Table, e.h.PKValue(rec))
	return rec, nil
}

// Get loads the record with the given primary key. Reads are not audited.
func (e *Engine[T, C, U, R]) Get(ctx context.Context, id int64) (*T, error) {
	rec := new(T)
	err := e.db.NewSelect().
		Model(rec).
		Where("? = ?", bun.Ident(e.h.PKColumn), id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: e.h.Table, Key: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", e.h.Table, err)
	}
	return rec, nil
}

// GetMulti lists records matching filters, ordered by primary key. A
// non-positive limit means no limit.
func (e *Engine[T, C, U, R]) GetMulti(ctx context.Context, filters Filters, offset, limit int) ([]T, error) {
	var recs []T
	q := e.db.NewSelect().Model(&recs)
	q = applyFilters(q, filters)
	q = q.OrderExpr("? ASC", bun.Ident(e.h.PKColumn))
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list %s: %w", e.h.Table, err)
	}
	return recs, nil
}

// Count returns the number of records matching filters. It runs as its own
// statement, so a listing and its count may observe different snapshots
// under concurrent writes.
func (e *Engine[T, C, U, R]) Count(ctx context.Context, filters Filters) (int, error) {
	q := e.db.NewSelect().Model((*T)(nil))
	q = applyFilters(q, filters)
	n, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", e.h.Table, err)
	}
	return n, nil
}

// Update loads the keyed record, applies input, and writes it back. The key
// is resolved from args before any store call or audit record.
func (e *Engine[T, C, U, R]) Update(ctx context.Context, args Keyed, input U) (*T, error) {
	id, err := e.resolveKey(args)
	if err != nil {
		return nil, err
	}

	e.rec.Attempt(ctx, audit.ActionUpdate, e.h.Table,
		zap.Int64("pk", id), zap.Any("input", input))

	rec := new(T)
	err = e.db.NewSelect().
		Model(rec).
		Where("? = ?", bun.Ident(e.h.PKColumn), id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		e.rec.FailureNotFound(ctx, audit.ActionUpdate, e.h.Table, id)
		return nil, &NotFoundError{Entity: e.h.Table, Key: id}
	}
	if err != nil {
		e.rec.Failure(ctx, audit.ActionUpdate, e.h.Table, err, zap.Int64("pk", id))
		return nil, fmt.Errorf("update %s: %w", e.h.Table, err)
	}

	e.h.ApplyUpdate(rec, input)

	res, err := e.db.NewUpdate().Model(rec).WherePK().Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			dup := &DuplicateError{Entity: e.h.Table, Err: err}
			e.rec.Failure(ctx, audit.ActionUpdate, e.h.Table, dup, zap.Int64("pk", id))
			return nil, dup
		}
		e.rec.Failure(ctx, audit.ActionUpdate, e.h.Table, err, zap.Int64("pk", id))
		return nil, fmt.Errorf("update %s: %w", e.h.Table, err)
	}
	if n, raErr := res.RowsAffected(); raErr == nil && n == 0 {
		// The row vanished between the load and the write.
		e.rec.FailureNotFound(ctx, audit.ActionUpdate, e.h.Table, id)
		return nil, &NotFoundError{Entity: e.h.Table, Key: id}
	}

	e.invalidate(ctx, id)
	e.rec.Success(ctx, audit.ActionUpdate, e.h.Table, id)
	return rec, nil
}

// Delete removes the keyed record. The key is resolved from args before any
// store call or audit record.
func (e *Engine[T, C, U, R]) Delete(ctx context.Context, args Keyed) error {
	id, err := e.resolveKey(args)
	if err != nil {
		return err
	}

	e.rec.Attempt(ctx, audit.ActionDelete, e.h.Table, zap.Int64("pk", id))

	res, err := e.db.NewDelete().
		Model((*T)(nil)).
		Where("? = ?", bun.Ident(e.h.PKColumn), id).
		Exec(ctx)
	if err != nil {
		e.rec.Failure(ctx, audit.ActionDelete, e.h.Table, err, zap.Int64("pk", id))
		return fmt.Errorf("delete %s: %w", e.h.Table, err)
	}
	if n, raErr := res.RowsAffected(); raErr == nil && n == 0 {
		e.rec.FailureNotFound(ctx, audit.ActionDelete, e.h.Table, id)
		return &NotFoundError{Entity: e.h.Table, Key: id}
	}

	e.invalidate(ctx, id)
	e.rec.Success(ctx, audit.ActionDelete, e.h.Table, id)
	return nil
}

func (e *Engine[T, C, U, R]) invalidate(ctx context.Context, id int64) {
	if e.inv != nil {
		e.inv.Invalidate(ctx, e.h.Table, id)
	}
}

// resolveKey extracts the primary key from keyed arguments. Missing or
// malformed keys fail before the store is touched.
func (e *Engine[T, C, U, R]) resolveKey(args Keyed) (int64, error) {
	raw, ok := args[e.h.PKColumn]
	if !ok || raw == nil {
		return 0, &MissingKeyError{Entity: e.h.Table, Column: e.h.PKColumn}
	}
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, &MissingKeyError{Entity: e.h.Table, Column: e.h.PKColumn}
	}
}

func applyFilters(q *bun.SelectQuery, filters Filters) *bun.SelectQuery {
	for _, col := range filters.sortedColumns() {
		q = q.Where("? = ?", bun.Ident(col), filters[col])
	}
	return q
}
