// Package store defines the persistence seam of the storefront. Business
// services depend on Repository only; the mongo and filestore packages
// provide the two implementations, selected once at startup.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/craftloom/storefront/pkg/models"
)

// Business-rule and infrastructure errors surfaced to callers. Handlers map
// these to HTTP statuses; services wrap them with context via fmt.Errorf %w.
var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrValidation             = errors.New("validation error")
	ErrDuplicateEmail         = errors.New("email already exists")
	ErrPersistenceUnavailable = errors.New("storage unavailable")
)

// Repository is the document-store surface the services run against.
// AdjustStock must be atomic per product: a debit below zero is rejected
// whole, never applied partially, and concurrent debits never drive stock
// negative. UpsertCart must replace the cart in a single document write.
type Repository interface {
	Ping(ctx context.Context) error

	// Products
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	ReplaceProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, delta int) (*models.Product, error)
	SetStock(ctx context.Context, id string, stock int) (*models.Product, error)
	AppendStockLog(ctx context.Context, entry *models.StockLog) error

	// Carts
	GetCart(ctx context.Context, userEmail string) (*models.Cart, error)
	UpsertCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, userEmail string) error
	ListCarts(ctx context.Context) ([]models.Cart, error)

	// Orders
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetOrderByToken(ctx context.Context, token string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userEmail string) ([]models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, order *models.Order) error

	// Users and admins
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, email string) error
	CreateAdmin(ctx context.Context, admin *models.Admin) error
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	ListAdmins(ctx context.Context) ([]models.Admin, error)

	// Outbox
	EnqueueOutbox(ctx context.Context, entry *models.OutboxEntry) error
	DueOutbox(ctx context.Context, now time.Time, limit int) ([]models.OutboxEntry, error)
	MarkOutboxDone(ctx context.Context, id string) error
	RescheduleOutbox(ctx context.Context, entry *models.OutboxEntry) error
}

// Health describes the storage backend for the health endpoint, replacing
// the ambient connected-flag the legacy server mutated globally.
type Health struct {
	Backend   string `json:"backend"`
	Connected bool   `json:"connected"`
}

// CheckHealth probes the repository once, per request.
func CheckHealth(ctx context.Context, backend string, repo Repository) Health {
	return Health{Backend: backend, Connected: repo.Ping(ctx) == nil}
}
