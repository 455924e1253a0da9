package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/craftloom/storefront/pkg/ai"
	"github.com/craftloom/storefront/pkg/global"
	"github.com/craftloom/storefront/pkg/models"
)

func (r *Router) PlaceOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := r.orders.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		r.writeError(c, err, "Failed to place order")
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(order))
}

func (r *Router) GetOrdersByUser(c *gin.Context) {
	orders, err := r.orders.ListByUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		r.writeError(c, err, "Failed to get orders")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(orders))
}

func (r *Router) GetAllOrders(c *gin.Context) {
	orders, err := r.orders.ListAll(c.Request.Context())
	if err != nil {
		r.writeError(c, err, "Failed to get orders")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(orders))
}

// ExportOrdersCSV streams the flattened order report as an attachment.
func (r *Router) ExportOrdersCSV(c *gin.Context) {
	filename := "orders-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := r.exporter.OrdersCSV(c.Request.Context(), c.Writer); err != nil {
		// Headers may already be out; log rather than switch to JSON mid-stream.
		r.log.Error("csv export failed", zap.Error(err))
	}
}

func (r *Router) AdvanceOrderStatus(c *gin.Context) {
	var req models.AdvanceOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := r.orders.AdvanceStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		r.writeError(c, err, "Failed to update order status")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}

func (r *Router) CancelOrder(c *gin.Context) {
	order, err := r.orders.CancelOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.writeError(c, err, "Failed to cancel order")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}

func (r *Router) GetSummary(c *gin.Context) {
	summary, err := r.exporter.Summary(c.Request.Context())
	if err != nil {
		r.writeError(c, err, "Failed to build summary")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(summary))
}

// GetAISummary returns the AI narrative over the dashboard counters, or
// 503 when the AI service is not configured.
func (r *Router) GetAISummary(c *gin.Context) {
	if !ai.IsEnabled() {
		c.JSON(http.StatusServiceUnavailable, global.ErrorResponse("AI service is not enabled", nil))
		return
	}

	response, err := ai.GenerateSalesSummary(c.Request.Context(), r.exporter)
	if err != nil {
		r.writeError(c, err, "Failed to generate AI summary")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(response))
}
