package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/craftloom/storefront/pkg/global"
	"github.com/craftloom/storefront/pkg/models"
)

func (r *Router) GetAllProducts(c *gin.Context) {
	filter := models.ProductFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Material: c.Query("material"),
		Owner:    c.Query("owner"),
		Status:   c.Query("status"),
	}
	if v := c.Query("minRating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid minRating", []global.ValidationError{
				{Field: "minRating", Message: "must be a number", Code: "invalid"},
			}))
			return
		}
		filter.MinRating = f
	}
	if v := c.Query("maxRating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid maxRating", []global.ValidationError{
				{Field: "maxRating", Message: "must be a number", Code: "invalid"},
			}))
			return
		}
		filter.MaxRating = f
	}

	products, err := r.catalog.List(c.Request.Context(), filter)
	if err != nil {
		r.writeError(c, err, "Failed to get products")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(products))
}

func (r *Router) GetProductByID(c *gin.Context) {
	product, err := r.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.writeError(c, err, "Failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func (r *Router) GetProductsByOwner(c *gin.Context) {
	products, err := r.catalog.List(c.Request.Context(), models.ProductFilter{Owner: c.Param("email")})
	if err != nil {
		r.writeError(c, err, "Failed to get products")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(products))
}

// SubmitProduct creates a seller listing. It always enters the catalog
// as pending until an admin approves it.
func (r *Router) SubmitProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := r.catalog.Submit(c.Request.Context(), &req)
	if err != nil {
		r.writeError(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(product))
}

func (r *Router) UpdateProduct(c *gin.Context) {
	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := r.catalog.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		r.writeError(c, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

// ReduceStock is the storefront-facing relative debit. A reduceBy of
// zero is rejected rather than treated as a read.
func (r *Router) ReduceStock(c *gin.Context) {
	var req struct {
		ReduceBy int `json:"reduceBy" binding:"required,gte=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := r.catalog.AdjustStock(c.Request.Context(), c.Param("id"), -req.ReduceBy, models.StockChangeCheckout, "")
	if err != nil {
		r.writeError(c, err, "Failed to update stock")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func (r *Router) AdminSetStock(c *gin.Context) {
	var req struct {
		Stock *int `json:"stock" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := r.catalog.SetAbsoluteStock(c.Request.Context(), c.Param("id"), *req.Stock, "admin")
	if err != nil {
		r.writeError(c, err, "Failed to set stock")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func (r *Router) AdminSetStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := r.catalog.SetApprovalStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		r.writeError(c, err, "Failed to update status")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func (r *Router) AdminDeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := r.catalog.Delete(c.Request.Context(), id); err != nil {
		r.writeError(c, err, "Failed to delete product")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{"deleted": id}))
}
