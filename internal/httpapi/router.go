package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verano-labs/go-entity-cache/logging"
	"github.com/verano-labs/go-entity-cache/pkg/di"
)

// NewRouter assembles the middleware chain and the per-entity routes.
func NewRouter(channels *logging.Channels, c *di.Container) *gin.Engine {
	if channels == nil {
		channels = logging.NewNop()
	}
	api := NewAPI(channels.Error())

	r := gin.New()
	r.Use(
		gin.Recovery(),
		TrafficLog(channels.Traffic()),
		RequestContext(api),
	)

	r.GET("/healthz", func(c *gin.Context) {
		respond(c, http.StatusOK, gin.H{"status": "ok"}, nil)
	})

	Mount(r, api, "/items", c.Items.Engine, c.Items.Reader)
	Mount(r, api, "/users", c.Users.Engine, c.Users.Reader)

	return r
}
