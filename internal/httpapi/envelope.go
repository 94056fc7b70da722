package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verano-labs/go-entity-cache/logging"
	"github.com/verano-labs/go-entity-cache/pagination"
	"github.com/verano-labs/go-entity-cache/repository"
)

// Envelope is the uniform response body. Meta is present on list responses
// only.
type Envelope struct {
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Data    any              `json:"data,omitempty"`
	Meta    *pagination.Meta `json:"meta,omitempty"`
}

// API carries the boundary-wide dependencies shared by all resources.
type API struct {
	errs *zap.Logger
}

// NewAPI builds the boundary with the given error channel logger.
func NewAPI(errs *zap.Logger) *API {
	if errs == nil {
		errs = zap.NewNop()
	}
	return &API{errs: errs}
}

func respond(c *gin.Context, status int, data any, meta *pagination.Meta) {
	c.JSON(status, Envelope{
		Code:    status,
		Message: http.StatusText(status),
		Data:    data,
		Meta:    meta,
	})
}

// respondInvalid reports a malformed or rejected input.
func (a *API) respondInvalid(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, Envelope{
		Code:    http.StatusUnprocessableEntity,
		Message: err.Error(),
	})
}

// respondError maps the domain error taxonomy to status codes. Unexpected
// errors are logged on the error channel and surface as an opaque 500.
func (a *API) respondError(c *gin.Context, err error) {
	var status int
	message := err.Error()

	switch {
	case errors.Is(err, ErrMissingUserHeader):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, repository.ErrMissingKey):
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
		logging.Ctx(c.Request.Context(), a.errs).Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		message = http.StatusText(http.StatusInternalServerError)
	}

	c.JSON(status, Envelope{Code: status, Message: message})
}
