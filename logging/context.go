package logging

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	userIDKey
)

// AnonymousUser is the user identity recorded until a caller-supplied
// identity header has been validated for the request.
const AnonymousUser = "anonymous"

// NewRequestContext seeds a context with a fresh request identifier and the
// anonymous user identity. It is called once at request entry; the returned
// context is scoped to that request's call chain and must not outlive it.
func NewRequestContext(ctx context.Context) (context.Context, string) {
	requestID := uuid.New().String()
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	ctx = context.WithValue(ctx, userIDKey, AnonymousUser)
	return ctx, requestID
}

// WithUserID overwrites the ambient user identity for the remainder of the
// request's call chain.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequestID returns the ambient request identifier, or "" outside a request.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// UserID returns the ambient user identity, defaulting to AnonymousUser.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok && id != "" {
		return id
	}
	return AnonymousUser
}

// Ctx returns the logger enriched with the ambient request and user
// identifiers so call sites never repeat them. Outside a request chain the
// logger is returned unchanged.
func Ctx(ctx context.Context, l *zap.Logger) *zap.Logger {
	requestID := RequestID(ctx)
	if requestID == "" {
		return l
	}
	return l.With(
		zap.String("request_id", requestID),
		zap.String("user_id", UserID(ctx)),
	)
}
