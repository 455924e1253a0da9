// Package router wires the HTTP surface: the gin engine, CORS, the
// admin-key middleware and every /api route.
package router

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/craftloom/storefront/pkg/cart"
	"github.com/craftloom/storefront/pkg/catalog"
	"github.com/craftloom/storefront/pkg/orders"
	"github.com/craftloom/storefront/pkg/report"
	"github.com/craftloom/storefront/pkg/store"
)

// Deps carries everything the handlers need.
type Deps struct {
	Repo     store.Repository
	Catalog  *catalog.Service
	Carts    *cart.Service
	Orders   *orders.Service
	Exporter *report.Exporter
	Backend  string
	AdminKey string
	Log      *zap.Logger
}

type Router struct {
	Engine *gin.Engine

	repo     store.Repository
	catalog  *catalog.Service
	carts    *cart.Service
	orders   *orders.Service
	exporter *report.Exporter
	backend  string
	adminKey string
	log      *zap.Logger
}

// New builds the engine with CORS and all routes registered.
func New(deps Deps) *Router {
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "x-admin-key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r := &Router{
		Engine:   engine,
		repo:     deps.Repo,
		catalog:  deps.Catalog,
		carts:    deps.Carts,
		orders:   deps.Orders,
		exporter: deps.Exporter,
		backend:  deps.Backend,
		adminKey: deps.AdminKey,
		log:      deps.Log,
	}
	r.registerRoutes()
	return r
}

func (r *Router) registerRoutes() {
	api := r.Engine.Group("/api")
	{
		api.GET("/health", r.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", r.Register)
			auth.POST("/login", r.Login)
			auth.POST("/admin/login", r.AdminLogin)
			auth.GET("/all", r.AdminAuth(), r.GetAllUsers)
			auth.GET("/admins", r.AdminAuth(), r.GetAllAdmins)
		}
		api.DELETE("/users/:email", r.AdminAuth(), r.DeleteUser)

		products := api.Group("/products")
		{
			products.GET("", r.GetAllProducts)
			products.POST("", r.SubmitProduct)
			products.GET("/owner/:email", r.GetProductsByOwner)
			products.GET("/:id", r.GetProductByID)
			products.PUT("/:id", r.UpdateProduct)
			products.PUT("/:id/stock", r.ReduceStock)
			products.PUT("/:id/admin/stock", r.AdminAuth(), r.AdminSetStock)
			products.PUT("/:id/admin/status", r.AdminAuth(), r.AdminSetStatus)
			products.DELETE("/:id/admin", r.AdminAuth(), r.AdminDeleteProduct)
		}

		carts := api.Group("/cart")
		{
			carts.POST("/save", r.SaveCart)
			carts.GET("/all", r.AdminAuth(), r.GetAllCarts)
			carts.GET("/:userEmail", r.GetCart)
			carts.DELETE("/:userEmail", r.ClearCart)
			carts.POST("/:userEmail/items", r.AddCartItem)
			carts.PUT("/:userEmail/items/:productId", r.SetCartQuantity)
			carts.DELETE("/:userEmail/items/:productId", r.RemoveCartItem)
		}

		ordersGroup := api.Group("/orders")
		{
			ordersGroup.POST("", r.PlaceOrder)
			ordersGroup.GET("/user/:email", r.GetOrdersByUser)
			ordersGroup.GET("/all", r.AdminAuth(), r.GetAllOrders)
			ordersGroup.GET("/export", r.AdminAuth(), r.ExportOrdersCSV)
			ordersGroup.PUT("/:id/status", r.AdminAuth(), r.AdvanceOrderStatus)
			ordersGroup.PUT("/:id/cancel", r.CancelOrder)
		}

		reports := api.Group("/reports")
		reports.Use(r.AdminAuth())
		{
			reports.GET("/summary", r.GetSummary)
			reports.GET("/ai-summary", r.GetAISummary)
		}
	}
}
