package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Stock change reasons recorded in the audit trail.
const (
	StockChangeCheckout     = "checkout"
	StockChangeCompensation = "compensation"
	StockChangeCancellation = "cancellation"
	StockChangeAdminSet     = "admin_set"
)

// StockLog records one stock movement for auditing. Best-effort: a failed
// log write never fails the movement itself.
type StockLog struct {
	ID          string    `json:"id" bson:"_id"`
	ProductID   string    `json:"product_id" bson:"product_id"`
	Delta       int       `json:"delta" bson:"delta"`
	StockAfter  int       `json:"stock_after" bson:"stock_after"`
	Reason      string    `json:"reason" bson:"reason"`
	Reference   string    `json:"reference,omitempty" bson:"reference,omitempty"` // order id, admin email
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

func NewStockLog(productID string, delta, stockAfter int, reason, reference string) *StockLog {
	return &StockLog{
		ID:         bson.NewObjectID().Hex(),
		ProductID:  productID,
		Delta:      delta,
		StockAfter: stockAfter,
		Reason:     reason,
		Reference:  reference,
		CreatedAt:  time.Now(),
	}
}
