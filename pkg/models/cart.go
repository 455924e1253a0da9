package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CartLine is one product+quantity entry in a cart. Name, price, material,
// image and rating are snapshots taken when the line was added, so the cart
// display and total stay stable even if the seller edits the product.
type CartLine struct {
	ProductID  string  `json:"productId" bson:"product_id"`
	Name       string  `json:"name" bson:"name"`
	PriceMinor int64   `json:"price_minor" bson:"price_minor"`
	Price      string  `json:"price" bson:"price"`
	Material   string  `json:"material" bson:"material"`
	Image      string  `json:"image" bson:"image"`
	Rating     float64 `json:"rating" bson:"rating"`
	Quantity   int     `json:"quantity" bson:"quantity"`
}

// Cart holds one user's lines, keyed by product so a product never appears
// on two lines. The whole document is written in a single upsert.
type Cart struct {
	ID          string              `json:"id" bson:"_id"`
	UserEmail   string              `json:"userEmail" bson:"user_email"`
	Lines       map[string]CartLine `json:"lines" bson:"lines"`
	TotalItems  int                 `json:"totalItems" bson:"total_items"`
	LastUpdated time.Time           `json:"lastUpdated" bson:"last_updated"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
}

func NewCart(userEmail string) *Cart {
	now := time.Now()
	return &Cart{
		ID:          bson.NewObjectID().Hex(),
		UserEmail:   userEmail,
		Lines:       make(map[string]CartLine),
		LastUpdated: now,
		CreatedAt:   now,
	}
}

// Touch recomputes the derived totalItems and bumps lastUpdated.
func (c *Cart) Touch() {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	c.TotalItems = total
	c.LastUpdated = time.Now()
}

// Items returns the lines in a stable order for JSON responses.
func (c *Cart) Items() []CartLine {
	items := make([]CartLine, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, line)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items
}

// TotalMinor sums price*quantity across lines using snapshot prices.
func (c *Cart) TotalMinor() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.PriceMinor * int64(line.Quantity)
	}
	return total
}

type AddCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type SetCartQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// SaveCartRequest is the legacy wholesale cart save. Duplicate productIds
// are aggregated into one line before persisting.
type SaveCartRequest struct {
	UserEmail string         `json:"userEmail" binding:"required,email"`
	Items     []SaveCartItem `json:"items"`
}

type SaveCartItem struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name"`
	Price     string  `json:"price"`
	Material  string  `json:"material"`
	Image     string  `json:"image"`
	Rating    float64 `json:"rating"`
	Quantity  int     `json:"quantity"`
}
