// Package cart maintains one cart per user. Lines are keyed by product so
// adding an existing product aggregates quantity instead of duplicating the
// line, and every save is one atomic document upsert.
//
// Stock is deliberately not checked here: availability changes between
// add-to-cart and checkout, so the catalog is authoritative only at order
// placement.
package cart

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/craftloom/storefront/pkg/models"
	"github.com/craftloom/storefront/pkg/store"
)

// ProductGetter is the slice of the catalog the aggregator needs for
// add-time snapshots.
type ProductGetter interface {
	Get(ctx context.Context, id string) (*models.Product, error)
}

type Service struct {
	repo    store.Repository
	catalog ProductGetter
	log     *zap.Logger
}

func NewService(repo store.Repository, catalog ProductGetter, log *zap.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, log: log}
}

// Get returns the user's cart, or an empty one if none is stored yet.
func (s *Service) Get(ctx context.Context, userEmail string) (*models.Cart, error) {
	c, err := s.repo.GetCart(ctx, userEmail)
	if err == nil {
		if c.Lines == nil {
			c.Lines = make(map[string]models.CartLine)
		}
		return c, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return models.NewCart(userEmail), nil
	}
	return nil, err
}

// AddItem merges quantityDelta into an existing line or inserts a new one,
// snapshotting the product's current name, price, material, image and
// rating for display.
func (s *Service) AddItem(ctx context.Context, userEmail, productID string, quantityDelta int) (*models.Cart, error) {
	if quantityDelta < 1 {
		return nil, fmt.Errorf("%w: quantity delta must be at least 1", store.ErrInvalidQuantity)
	}

	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, userEmail)
	if err != nil {
		return nil, err
	}

	if line, ok := c.Lines[productID]; ok {
		line.Quantity += quantityDelta
		c.Lines[productID] = line
	} else {
		c.Lines[productID] = models.CartLine{
			ProductID:  product.ID,
			Name:       product.Name,
			PriceMinor: product.PriceMinor,
			Price:      product.Price,
			Material:   product.Material,
			Image:      product.Image,
			Rating:     product.Rating,
			Quantity:   quantityDelta,
		}
	}

	return s.save(ctx, c)
}

func (s *Service) RemoveLine(ctx context.Context, userEmail, productID string) (*models.Cart, error) {
	c, err := s.Get(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	if _, ok := c.Lines[productID]; !ok {
		return nil, store.ErrNotFound
	}
	delete(c.Lines, productID)
	return s.save(ctx, c)
}

func (s *Service) SetQuantity(ctx context.Context, userEmail, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", store.ErrInvalidQuantity)
	}
	c, err := s.Get(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	line, ok := c.Lines[productID]
	if !ok {
		return nil, store.ErrNotFound
	}
	line.Quantity = quantity
	c.Lines[productID] = line
	return s.save(ctx, c)
}

func (s *Service) Clear(ctx context.Context, userEmail string) error {
	return s.repo.DeleteCart(ctx, userEmail)
}

// Total sums price*quantity using the snapshot prices, so the figure is
// stable even if a seller edits a price mid-session.
func (s *Service) Total(ctx context.Context, userEmail string) (int64, error) {
	c, err := s.Get(ctx, userEmail)
	if err != nil {
		return 0, err
	}
	return c.TotalMinor(), nil
}

// Replace is the legacy wholesale save from the client. Duplicate
// productIds are aggregated into one line, then the cart is written as a
// single upsert, never delete-then-reinsert.
func (s *Service) Replace(ctx context.Context, userEmail string, items []models.SaveCartItem) (*models.Cart, error) {
	c, err := s.Get(ctx, userEmail)
	if err != nil {
		return nil, err
	}

	lines := make(map[string]models.CartLine, len(items))
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		if existing, ok := lines[item.ProductID]; ok {
			existing.Quantity += qty
			lines[item.ProductID] = existing
			continue
		}
		priceMinor, err := models.ParsePriceMinor(item.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: item %s: %v", store.ErrValidation, item.ProductID, err)
		}
		lines[item.ProductID] = models.CartLine{
			ProductID:  item.ProductID,
			Name:       item.Name,
			PriceMinor: priceMinor,
			Price:      models.FormatPriceMinor(priceMinor),
			Material:   item.Material,
			Image:      item.Image,
			Rating:     item.Rating,
			Quantity:   qty,
		}
	}
	c.Lines = lines
	return s.save(ctx, c)
}

// RemovePurchased drops exactly the purchased lines after checkout; lines
// for other products survive a partial checkout.
func (s *Service) RemovePurchased(ctx context.Context, userEmail string, productIDs []string) error {
	c, err := s.Get(ctx, userEmail)
	if err != nil {
		return err
	}
	for _, id := range productIDs {
		delete(c.Lines, id)
	}
	if len(c.Lines) == 0 {
		return s.repo.DeleteCart(ctx, userEmail)
	}
	_, err = s.save(ctx, c)
	return err
}

func (s *Service) ListAll(ctx context.Context) ([]models.Cart, error) {
	return s.repo.ListCarts(ctx)
}

func (s *Service) save(ctx context.Context, c *models.Cart) (*models.Cart, error) {
	c.Touch()
	if err := s.repo.UpsertCart(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
