package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/verano-labs/go-entity-cache/pagination"
	"github.com/verano-labs/go-entity-cache/repository"
	"github.com/verano-labs/go-entity-cache/repository/cached"
)

// defaultListLimit bounds a listing when the client does not pass one.
const defaultListLimit = 100

// validatable is implemented by every create and update input schema.
type validatable interface {
	Validate() error
}

// resource serves the CRUD routes for one entity. Single-entity reads go
// through the cache-aside reader; everything else hits the engine directly.
type resource[T any, C validatable, U validatable, R any] struct {
	api    *API
	engine *repository.Engine[T, C, U, R]
	reader *cached.Reader[T, C, U, R]
}

// Mount registers the entity's routes under path.
func Mount[T any, C validatable, U validatable, R any](
	router gin.IRouter,
	api *API,
	path string,
	engine *repository.Engine[T, C, U, R],
	reader *cached.Reader[T, C, U, R],
) {
	res := &resource[T, C, U, R]{api: api, engine: engine, reader: reader}

	g := router.Group(path)
	g.POST("", res.create)
	g.GET("", res.list)
	g.GET("/:id", res.get)
	g.PATCH("/:id", res.update)
	g.DELETE("/:id", res.delete)
}

func (r *resource[T, C, U, R]) create(c *gin.Context) {
	var input C
	if err := c.ShouldBindJSON(&input); err != nil {
		r.api.respondInvalid(c, err)
		return
	}
	if err := input.Validate(); err != nil {
		r.api.respondInvalid(c, err)
		return
	}

	rec, err := r.engine.Create(c.Request.Context(), input)
	if err != nil {
		r.api.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, r.engine.Handlers().ToRead(rec), nil)
}

func (r *resource[T, C, U, R]) list(c *gin.Context) {
	offset := queryInt(c, "offset", 0)
	limit := queryInt(c, "limit", defaultListLimit)

	recs, err := r.engine.GetMulti(c.Request.Context(), nil, offset, limit)
	if err != nil {
		r.api.respondError(c, err)
		return
	}
	total, err := r.engine.Count(c.Request.Context(), nil)
	if err != nil {
		r.api.respondError(c, err)
		return
	}

	toRead := r.engine.Handlers().ToRead
	reads := make([]R, len(recs))
	for i := range recs {
		reads[i] = toRead(&recs[i])
	}

	meta := pagination.Calculate(total, limit, offset)
	respond(c, http.StatusOK, reads, &meta)
}

func (r *resource[T, C, U, R]) get(c *gin.Context) {
	id, ok := r.pathID(c)
	if !ok {
		return
	}

	read, err := r.reader.GetByID(c.Request.Context(), id)
	if err != nil {
		r.api.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, read, nil)
}

func (r *resource[T, C, U, R]) update(c *gin.Context) {
	id, ok := r.pathID(c)
	if !ok {
		return
	}

	var input U
	if err := c.ShouldBindJSON(&input); err != nil {
		r.api.respondInvalid(c, err)
		return
	}
	if err := input.Validate(); err != nil {
		r.api.respondInvalid(c, err)
		return
	}

	rec, err := r.engine.Update(c.Request.Context(),
		repository.Keyed{r.engine.Handlers().PKColumn: id}, input)
	if err != nil {
		r.api.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, r.engine.Handlers().ToRead(rec), nil)
}

func (r *resource[T, C, U, R]) delete(c *gin.Context) {
	id, ok := r.pathID(c)
	if !ok {
		return
	}

	err := r.engine.Delete(c.Request.Context(),
		repository.Keyed{r.engine.Handlers().PKColumn: id})
	if err != nil {
		r.api.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil, nil)
}

func (r *resource[T, C, U, R]) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		r.api.respondInvalid(c, err)
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
