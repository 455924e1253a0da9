package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Payment methods accepted at checkout. Payment is simulated: everything
// except Cash on Delivery completes immediately.
const (
	PaymentCreditCard     = "Credit Card"
	PaymentDebitCard      = "Debit Card"
	PaymentUPI            = "UPI"
	PaymentCashOnDelivery = "Cash on Delivery"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Order statuses. The lifecycle only ever moves forward through
// placed -> confirmed -> shipped -> delivered; cancelled is a terminal
// side-exit reachable from placed or confirmed only.
const (
	OrderStatusPlaced    = "placed"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// orderStatusSequence fixes the forward progression order.
var orderStatusSequence = []string{
	OrderStatusPlaced,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// StatusIndex returns the position of a status in the forward sequence,
// or -1 for cancelled and unknown statuses.
func StatusIndex(status string) int {
	for i, s := range orderStatusSequence {
		if s == status {
			return i
		}
	}
	return -1
}

// OrderItem is a frozen snapshot of a product at purchase time. Orders stay
// historically accurate even if the product is edited or deleted later.
type OrderItem struct {
	ProductID  string `json:"productId" bson:"product_id"`
	Name       string `json:"name" bson:"name"`
	PriceMinor int64  `json:"price_minor" bson:"price_minor"`
	Price      string `json:"price" bson:"price"`
	Quantity   int    `json:"quantity" bson:"quantity"`
	Material   string `json:"material" bson:"material"`
}

// StatusEvent is one entry in an order's status history.
type StatusEvent struct {
	Status    string    `json:"status" bson:"status"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// ShippingDetails is the recipient block captured at checkout.
type ShippingDetails struct {
	FullName   string `json:"fullName" bson:"full_name" binding:"required"`
	Email      string `json:"email" bson:"email" binding:"required,email"`
	Address    string `json:"address" bson:"address" binding:"required"`
	City       string `json:"city" bson:"city" binding:"required"`
	PostalCode string `json:"postalCode" bson:"postal_code" binding:"required"`
}

// Order is immutable after creation except for its status fields and the
// history appended on every transition.
type Order struct {
	ID              string          `json:"id" bson:"_id"`
	UserEmail       string          `json:"userEmail" bson:"user_email"`
	Items           []OrderItem     `json:"items" bson:"items"`
	TotalMinor      int64           `json:"total_minor" bson:"total_minor"`
	TotalAmount     string          `json:"totalAmount" bson:"total_amount"`
	ShippingDetails ShippingDetails `json:"shippingDetails" bson:"shipping_details"`
	PaymentMethod   string          `json:"paymentMethod" bson:"payment_method"`
	PaymentStatus   string          `json:"paymentStatus" bson:"payment_status"`
	OrderStatus     string          `json:"orderStatus" bson:"order_status"`
	StatusHistory   []StatusEvent   `json:"statusHistory" bson:"status_history"`
	ClientToken     string          `json:"clientToken,omitempty" bson:"client_token,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updated_at"`
}

func NewOrderID() string {
	return bson.NewObjectID().Hex()
}

// AppendStatus records a transition in the history and stamps the order.
func (o *Order) AppendStatus(status string) {
	now := time.Now()
	o.OrderStatus = status
	o.StatusHistory = append(o.StatusHistory, StatusEvent{Status: status, Timestamp: now})
	o.UpdatedAt = now
}

// CanAdvanceTo reports whether target is a legal next status: the immediate
// successor in the forward sequence, or cancelled from placed/confirmed.
func (o *Order) CanAdvanceTo(target string) bool {
	if target == OrderStatusCancelled {
		return o.OrderStatus == OrderStatusPlaced || o.OrderStatus == OrderStatusConfirmed
	}
	current := StatusIndex(o.OrderStatus)
	next := StatusIndex(target)
	if current < 0 || next < 0 {
		return false
	}
	return next == current+1
}

// IsTerminal reports whether no further transitions are allowed.
func (o *Order) IsTerminal() bool {
	return o.OrderStatus == OrderStatusDelivered || o.OrderStatus == OrderStatusCancelled
}

// ValidPaymentMethod checks the checkout payment enum.
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentCreditCard, PaymentDebitCard, PaymentUPI, PaymentCashOnDelivery:
		return true
	}
	return false
}

// CreateOrderRequest is the checkout payload. Any client-supplied prices or
// totals are ignored; the server snapshots the catalog instead.
type CreateOrderRequest struct {
	UserEmail       string             `json:"userEmail" binding:"required,email"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingDetails ShippingDetails    `json:"shippingDetails" binding:"required"`
	PaymentMethod   string             `json:"paymentMethod" binding:"required"`
	ClientToken     string             `json:"clientToken"`
}

type OrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
}

type AdvanceOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
