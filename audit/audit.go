// Package audit records structured attempt, success, and failure events for
// every mutating repository operation on the user activity channel. Records
// are enriched with the ambient request and user identifiers; the audit
// logger never swallows the error it reports.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/verano-labs/go-entity-cache/logging"
)

// Action identifies the mutating operation being audited.
type Action string

// Audited actions.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Recorder is the stateless audit facade consumed by the repository engine.
type Recorder struct {
	log *zap.Logger
}

// NewRecorder builds a recorder writing to the given activity logger.
func NewRecorder(activity *zap.Logger) *Recorder {
	if activity == nil {
		activity = zap.NewNop()
	}
	return &Recorder{log: activity}
}

// Attempt records that a mutating operation is about to run, including a
// summarized form of its input.
func (r *Recorder) Attempt(ctx context.Context, action Action, entity string, fields ...zap.Field) {
	logging.Ctx(ctx, r.log).Info("operation attempted",
		append(baseFields(action, entity), fields...)...)
}

// Success records a completed mutation and the primary key it affected.
func (r *Recorder) Success(ctx context.Context, action Action, entity string, pk int64) {
	logging.Ctx(ctx, r.log).Info("operation succeeded",
		append(baseFields(action, entity), zap.Int64("pk", pk))...)
}

// FailureNotFound records a mutation that failed because the target row does
// not exist. This is a domain-expected outcome and logs at warning severity.
func (r *Recorder) FailureNotFound(ctx context.Context, action Action, entity string, pk int64) {
	logging.Ctx(ctx, r.log).Warn("operation failed: entity not found",
		append(baseFields(action, entity), zap.Int64("pk", pk))...)
}

// Failure records an unexpected mutation failure with full diagnostic
// detail. The caller re-raises the error after recording it.
func (r *Recorder) Failure(ctx context.Context, action Action, entity string, err error, fields ...zap.Field) {
	logging.Ctx(ctx, r.log).Error("operation failed",
		append(append(baseFields(action, entity), fields...), zap.Error(err))...)
}

// CacheFailure records an absorbed cache error. The triggering write is
// still considered successful; staleness is bounded by the snapshot TTL.
func (r *Recorder) CacheFailure(ctx context.Context, op, key string, err error) {
	logging.Ctx(ctx, r.log).Error("cache "+op+" failed",
		zap.String("cache_key", key),
		zap.Error(err))
}

func baseFields(action Action, entity string) []zap.Field {
	return []zap.Field{
		zap.String("action", string(action)),
		zap.String("entity", entity),
	}
}
