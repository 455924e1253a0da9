// Package catalog is the source of truth for sellable items and their
// stock. All stock mutations flow through here: admin edits and checkout
// debits, never automatic increments.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/craftloom/storefront/pkg/models"
	"github.com/craftloom/storefront/pkg/store"
)

// ErrNotOwner rejects edits by anyone but the listing seller.
var ErrNotOwner = errors.New("not the product owner")

// Cache is the optional product read cache. A nil cache disables caching.
type Cache interface {
	Get(ctx context.Context, id string) (*models.Product, error)
	Set(ctx context.Context, product *models.Product) error
	Invalidate(ctx context.Context, id string) error
}

type Service struct {
	repo  store.Repository
	cache Cache
	log   *zap.Logger
}

func NewService(repo store.Repository, cache Cache, log *zap.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

// Submit creates a seller listing in pending status.
func (s *Service) Submit(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	product, err := req.ToProduct()
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, product)
	return product, nil
}

// Get reads through the cache.
func (s *Service) Get(ctx context.Context, id string) (*models.Product, error) {
	if s.cache != nil {
		if product, err := s.cache.Get(ctx, id); err == nil {
			return product, nil
		}
	}
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, product)
	return product, nil
}

func (s *Service) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

// Update applies an owner-checked edit. Stock, approval status and identity
// are not editable here.
func (s *Service) Update(ctx context.Context, id string, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.Owner != req.Owner {
		return nil, ErrNotOwner
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		minor, err := models.ParsePriceMinor(*req.Price)
		if err != nil {
			return nil, err
		}
		product.PriceMinor = minor
		product.Price = models.FormatPriceMinor(minor)
	}
	if req.Material != nil {
		product.Material = *req.Material
	}
	if req.Rating != nil {
		product.Rating = *req.Rating
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	product.RecomputeInStock()
	product.SetTimestamps()

	if err := s.repo.ReplaceProduct(ctx, product); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, product)
	return product, nil
}

// AdjustStock applies a relative stock change, all-or-nothing: a debit
// larger than the available stock fails ErrInsufficientStock and changes
// nothing. The repository guarantees atomicity per product.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int, reason, reference string) (*models.Product, error) {
	if delta == 0 {
		return s.Get(ctx, id)
	}
	product, err := s.repo.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	s.logStockChange(ctx, models.NewStockLog(id, delta, product.Stock, reason, reference))
	s.cacheSet(ctx, product)
	return product, nil
}

// SetAbsoluteStock is the admin override: sets stock outright and
// recomputes inStock.
func (s *Service) SetAbsoluteStock(ctx context.Context, id string, stock int, reference string) (*models.Product, error) {
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock must be non-negative", store.ErrInvalidQuantity)
	}
	before, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.SetStock(ctx, id, stock)
	if err != nil {
		return nil, err
	}
	s.logStockChange(ctx, models.NewStockLog(id, stock-before.Stock, product.Stock, models.StockChangeAdminSet, reference))
	s.cacheSet(ctx, product)
	return product, nil
}

// SetApprovalStatus moves a pending listing to approved or rejected. Any
// other transition fails ErrInvalidTransition.
func (s *Service) SetApprovalStatus(ctx context.Context, id, status string) (*models.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", store.ErrInvalidTransition, product.Status, status)
	}
	product.Status = status
	product.SetTimestamps()
	if err := s.repo.ReplaceProduct(ctx, product); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, product)
	return product, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.log.Warn("product cache invalidation failed", zap.String("product_id", id), zap.Error(err))
		}
	}
	return nil
}

func (s *Service) cacheSet(ctx context.Context, product *models.Product) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, product); err != nil {
		s.log.Warn("product cache write failed", zap.String("product_id", product.ID), zap.Error(err))
	}
}

func (s *Service) logStockChange(ctx context.Context, entry *models.StockLog) {
	if err := s.repo.AppendStockLog(ctx, entry); err != nil {
		s.log.Warn("stock log write failed",
			zap.String("product_id", entry.ProductID),
			zap.Int("delta", entry.Delta),
			zap.Error(err))
	}
}
