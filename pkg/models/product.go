package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Product approval statuses. Seller submissions start pending; only an
// admin moves them to approved or rejected.
const (
	ProductStatusPending  = "pending"
	ProductStatusApproved = "approved"
	ProductStatusRejected = "rejected"
)

// Product represents a sellable handmade item in the catalog.
type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	PriceMinor  int64     `json:"price_minor" bson:"price_minor"`
	Currency    string    `json:"currency" bson:"currency"`
	Price       string    `json:"price" bson:"price"` // formatted snapshot for the UI
	Material    string    `json:"material" bson:"material"`
	Rating      float64   `json:"rating" bson:"rating"`
	Image       string    `json:"image" bson:"image"`
	Owner       string    `json:"owner" bson:"owner"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Category    string    `json:"category" bson:"category"`
	Stock       int       `json:"stock" bson:"stock"`
	InStock     bool      `json:"inStock" bson:"in_stock"`
	Status      string    `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// RecomputeInStock keeps the derived flag in sync with stock. It is never
// set independently.
func (p *Product) RecomputeInStock() {
	p.InStock = p.Stock > 0
}

func (p *Product) SetTimestamps() {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// CanTransitionTo reports whether the approval status change is legal:
// pending may become approved or rejected, nothing else moves.
func (p *Product) CanTransitionTo(status string) bool {
	if p.Status != ProductStatusPending {
		return false
	}
	return status == ProductStatusApproved || status == ProductStatusRejected
}

// CreateProductRequest is a seller submission. Price arrives as the
// currency-tagged string the UI uses; it is normalized to minor units.
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Price       string  `json:"price" binding:"required"`
	Material    string  `json:"material" binding:"required"`
	Rating      float64 `json:"rating" binding:"omitempty,gte=1,lte=5"`
	Image       string  `json:"image" binding:"required"`
	Owner       string  `json:"owner"`
	Description string  `json:"description" binding:"max=500"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock" binding:"gte=0"`
}

func (req *CreateProductRequest) ToProduct() (*Product, error) {
	priceMinor, err := ParsePriceMinor(req.Price)
	if err != nil {
		return nil, err
	}

	product := &Product{
		ID:          bson.NewObjectID().Hex(),
		Name:        req.Name,
		PriceMinor:  priceMinor,
		Currency:    DefaultCurrency,
		Price:       FormatPriceMinor(priceMinor),
		Material:    req.Material,
		Rating:      req.Rating,
		Image:       req.Image,
		Owner:       req.Owner,
		Description: req.Description,
		Category:    req.Category,
		Stock:       req.Stock,
		Status:      ProductStatusPending,
	}
	if product.Owner == "" {
		product.Owner = "anonymous"
	}
	if product.Category == "" {
		product.Category = "Handmade"
	}
	if product.Rating == 0 {
		product.Rating = 4.0
	}
	product.RecomputeInStock()
	product.SetTimestamps()
	return product, nil
}

// UpdateProductRequest carries an owner-checked partial edit.
type UpdateProductRequest struct {
	Owner       string   `json:"owner" binding:"required"`
	Name        *string  `json:"name"`
	Price       *string  `json:"price"`
	Material    *string  `json:"material"`
	Rating      *float64 `json:"rating" binding:"omitempty,gte=1,lte=5"`
	Image       *string  `json:"image"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
}

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Search    string
	Category  string
	Material  string
	MinRating float64
	MaxRating float64
	Owner     string
	Status    string
}
