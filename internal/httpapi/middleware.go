package httpapi

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verano-labs/go-entity-cache/logging"
)

// UserHeader identifies the caller on non-public routes.
const UserHeader = "X-User-ID"

// ErrMissingUserHeader is returned when a non-public route is called without
// the identity header.
var ErrMissingUserHeader = errors.New("missing " + UserHeader + " header")

// publicPaths are served without an identity header.
var publicPaths = map[string]struct{}{
	"/healthz": {},
}

// RequestContext seeds every request with a fresh request id and the caller
// identity from the X-User-ID header. Non-public routes without the header
// are rejected before reaching a handler.
func RequestContext(api *API) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _ := logging.NewRequestContext(c.Request.Context())

		user := c.GetHeader(UserHeader)
		if user != "" {
			ctx = logging.WithUserID(ctx, user)
		}
		c.Request = c.Request.WithContext(ctx)

		if user == "" {
			if _, public := publicPaths[c.Request.URL.Path]; !public {
				api.respondError(c, ErrMissingUserHeader)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// TrafficLog records method, path, status, and latency for every request on
// the traffic channel. The deferred write covers every exit path, aborts and
// panics included.
func TrafficLog(traffic *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			logging.Ctx(c.Request.Context(), traffic).Info("request completed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", c.Writer.Status()),
				zap.Duration("latency", time.Since(start)),
			)
		}()
		c.Next()
	}
}
