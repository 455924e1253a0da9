package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftloom/storefront/pkg/global"
	"github.com/craftloom/storefront/pkg/models"
)

func (r *Router) GetCart(c *gin.Context) {
	cart, err := r.carts.Get(c.Request.Context(), c.Param("userEmail"))
	if err != nil {
		r.writeError(c, err, "Failed to get cart")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cartPayload(cart)))
}

// SaveCart replaces the whole cart in one write. The legacy client sends
// its full item list on every change.
func (r *Router) SaveCart(c *gin.Context) {
	var req models.SaveCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	cart, err := r.carts.Replace(c.Request.Context(), req.UserEmail, req.Items)
	if err != nil {
		r.writeError(c, err, "Failed to save cart")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cartPayload(cart)))
}

func (r *Router) AddCartItem(c *gin.Context) {
	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	cart, err := r.carts.AddItem(c.Request.Context(), c.Param("userEmail"), req.ProductID, quantity)
	if err != nil {
		r.writeError(c, err, "Failed to add item")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cartPayload(cart)))
}

func (r *Router) SetCartQuantity(c *gin.Context) {
	var req models.SetCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	cart, err := r.carts.SetQuantity(c.Request.Context(), c.Param("userEmail"), c.Param("productId"), req.Quantity)
	if err != nil {
		r.writeError(c, err, "Failed to set quantity")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cartPayload(cart)))
}

func (r *Router) RemoveCartItem(c *gin.Context) {
	cart, err := r.carts.RemoveLine(c.Request.Context(), c.Param("userEmail"), c.Param("productId"))
	if err != nil {
		r.writeError(c, err, "Failed to remove item")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cartPayload(cart)))
}

func (r *Router) ClearCart(c *gin.Context) {
	email := c.Param("userEmail")
	if err := r.carts.Clear(c.Request.Context(), email); err != nil {
		r.writeError(c, err, "Failed to clear cart")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{"cleared": email}))
}

func (r *Router) GetAllCarts(c *gin.Context) {
	carts, err := r.carts.ListAll(c.Request.Context())
	if err != nil {
		r.writeError(c, err, "Failed to list carts")
		return
	}
	payloads := make([]gin.H, 0, len(carts))
	for i := range carts {
		payloads = append(payloads, cartPayload(&carts[i]))
	}
	c.JSON(http.StatusOK, global.SuccessResponse(payloads))
}

// cartPayload flattens the internal line map into the item list the
// client renders, plus the computed totals.
func cartPayload(cart *models.Cart) gin.H {
	items := cart.Items()
	return gin.H{
		"userEmail":   cart.UserEmail,
		"items":       items,
		"totalItems":  cart.TotalItems,
		"totalAmount": models.FormatPriceMinor(cart.TotalMinor()),
		"lastUpdated": cart.LastUpdated,
	}
}
