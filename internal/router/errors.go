package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/craftloom/storefront/pkg/catalog"
	"github.com/craftloom/storefront/pkg/global"
	"github.com/craftloom/storefront/pkg/store"
)

// writeError maps domain sentinels onto HTTP codes and the standard
// response envelope. Unknown errors become a 500 with a generic message
// so internals never leak to the client.
func (r *Router) writeError(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrInvalidQuantity),
		errors.Is(err, store.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrInsufficientStock),
		errors.Is(err, store.ErrDuplicateEmail):
		status = http.StatusConflict
	case errors.Is(err, catalog.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrPersistenceUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		r.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, global.ErrorResponse(message, nil))
		return
	}
	c.JSON(status, global.ErrorResponse(err.Error(), nil))
}

// bindError turns gin binding failures into a 400 envelope.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request body", []global.ValidationError{
		{Field: "body", Message: err.Error(), Code: "invalid"},
	}))
}
