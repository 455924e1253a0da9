package router

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftloom/storefront/pkg/global"
)

// AdminAuth guards admin routes. The caller must present the configured
// key in the x-admin-key header; anything else gets a 401 envelope.
func (r *Router) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("x-admin-key")
		if key == "" {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Admin key required", []global.ValidationError{
				{Field: "x-admin-key", Message: "x-admin-key header is required", Code: "required"},
			}))
			c.Abort()
			return
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(r.adminKey)) != 1 {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid admin key", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}
