// Package orders owns the order lifecycle: all-or-nothing checkout with
// stock debit, forward-only status progression, and compensating stock
// credits on failure or cancellation.
package orders

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/craftloom/storefront/pkg/models"
	"github.com/craftloom/storefront/pkg/store"
)

// Stock is the slice of the catalog checkout needs: snapshots and atomic
// stock adjustment.
type Stock interface {
	Get(ctx context.Context, id string) (*models.Product, error)
	AdjustStock(ctx context.Context, id string, delta int, reason, reference string) (*models.Product, error)
}

// CartCleaner removes purchased lines from the buyer's cart after a
// successful checkout.
type CartCleaner interface {
	RemovePurchased(ctx context.Context, userEmail string, productIDs []string) error
}

type Service struct {
	repo    store.Repository
	catalog Stock
	carts   CartCleaner
	log     *zap.Logger
}

func NewService(repo store.Repository, catalog Stock, carts CartCleaner, log *zap.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, carts: carts, log: log}
}

// PlaceOrder runs the checkout:
//
//  1. every line is validated against the catalog before anything is
//     debited; one bad line fails the whole order with zero stock change;
//  2. stock is debited line by line, and a failure at line k credits back
//     lines 1..k-1 before the error surfaces;
//  3. the total is computed server-side from catalog snapshots, never from
//     client-supplied prices;
//  4. payment is simulated: pending for Cash on Delivery, completed
//     otherwise;
//  5. if the order insert hits a storage outage after the debits, the
//     record is queued to the outbox under the client token and the debits
//     stand. The outbox owns the write from there.
//
// A replayed client token returns the already-created order without
// touching stock again.
func (s *Service) PlaceOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: unknown payment method %q", store.ErrValidation, req.PaymentMethod)
	}

	if existing, err := s.repo.GetOrderByToken(ctx, req.ClientToken); err == nil {
		return existing, nil
	}

	quantities, err := aggregateLines(req.Items)
	if err != nil {
		return nil, err
	}

	// Validation pass: nothing is debited until every line clears.
	items := make([]models.OrderItem, 0, len(quantities.ids))
	var totalMinor int64
	for _, productID := range quantities.ids {
		qty := quantities.byID[productID]
		product, err := s.catalog.Get(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", productID, err)
		}
		if product.Stock < qty {
			return nil, fmt.Errorf("%w: %s has %d in stock, wanted %d",
				store.ErrInsufficientStock, product.Name, product.Stock, qty)
		}
		items = append(items, models.OrderItem{
			ProductID:  product.ID,
			Name:       product.Name,
			PriceMinor: product.PriceMinor,
			Price:      product.Price,
			Quantity:   qty,
			Material:   product.Material,
		})
		totalMinor += product.PriceMinor * int64(qty)
	}

	order := &models.Order{
		ID:              models.NewOrderID(),
		UserEmail:       req.UserEmail,
		Items:           items,
		TotalMinor:      totalMinor,
		TotalAmount:     models.FormatPriceMinor(totalMinor),
		ShippingDetails: req.ShippingDetails,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   paymentStatusFor(req.PaymentMethod),
		ClientToken:     req.ClientToken,
	}
	order.AppendStatus(models.OrderStatusPlaced)
	order.CreatedAt = order.UpdatedAt

	// Debit pass. Validation ran under no lock, so a concurrent checkout
	// can still win a race here; the repository's atomic floor check is the
	// real gate, and earlier debits are compensated on any failure.
	debited := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if _, err := s.catalog.AdjustStock(ctx, item.ProductID, -item.Quantity, models.StockChangeCheckout, order.ID); err != nil {
			s.creditBack(ctx, debited, order.ID)
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("line %s: %w", item.ProductID, err)
			}
			return nil, fmt.Errorf("%w: %s", store.ErrInsufficientStock, item.Name)
		}
		debited = append(debited, item)
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, store.ErrPersistenceUnavailable) && order.ClientToken != "" {
			if qErr := s.repo.EnqueueOutbox(ctx, models.NewOutboxEntry(*order)); qErr == nil {
				s.log.Warn("order write queued to outbox",
					zap.String("order_id", order.ID),
					zap.String("client_token", order.ClientToken))
				s.clearPurchased(ctx, order)
				return order, nil
			}
		}
		s.creditBack(ctx, debited, order.ID)
		return nil, err
	}

	s.clearPurchased(ctx, order)
	s.log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("user", order.UserEmail),
		zap.Int("lines", len(order.Items)),
		zap.Int64("total_minor", order.TotalMinor))
	return order, nil
}

// AdvanceStatus moves an order to the immediate successor in
// placed -> confirmed -> shipped -> delivered. Cancellation goes through
// CancelOrder so stock is credited back.
func (s *Service) AdvanceStatus(ctx context.Context, orderID, target string) (*models.Order, error) {
	if target == models.OrderStatusCancelled {
		return s.CancelOrder(ctx, orderID)
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanAdvanceTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", store.ErrInvalidTransition, order.OrderStatus, target)
	}

	order.AppendStatus(target)
	if target == models.OrderStatusDelivered && order.PaymentMethod == models.PaymentCashOnDelivery {
		order.PaymentStatus = models.PaymentStatusCompleted
	}
	if err := s.repo.UpdateOrderStatus(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder is valid from placed or confirmed only. Shipped goods cannot
// be silently cancelled. Every line quantity is credited back to stock
// before the order is marked cancelled.
func (s *Service) CancelOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.OrderStatus != models.OrderStatusPlaced && order.OrderStatus != models.OrderStatusConfirmed {
		return nil, fmt.Errorf("%w: cannot cancel a %s order", store.ErrInvalidTransition, order.OrderStatus)
	}

	for _, item := range order.Items {
		if _, err := s.catalog.AdjustStock(ctx, item.ProductID, item.Quantity, models.StockChangeCancellation, order.ID); err != nil {
			// The product may have been deleted since purchase; the rest of
			// the credits still apply.
			s.log.Warn("stock credit on cancel failed",
				zap.String("order_id", order.ID),
				zap.String("product_id", item.ProductID),
				zap.Error(err))
		}
	}

	order.AppendStatus(models.OrderStatusCancelled)
	if err := s.repo.UpdateOrderStatus(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) Get(ctx context.Context, orderID string) (*models.Order, error) {
	return s.repo.GetOrder(ctx, orderID)
}

func (s *Service) ListByUser(ctx context.Context, userEmail string) ([]models.Order, error) {
	return s.repo.ListOrdersByUser(ctx, userEmail)
}

func (s *Service) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.repo.ListOrders(ctx)
}

// creditBack reverses debits already applied for a failed checkout.
func (s *Service) creditBack(ctx context.Context, debited []models.OrderItem, orderID string) {
	for _, item := range debited {
		if _, err := s.catalog.AdjustStock(ctx, item.ProductID, item.Quantity, models.StockChangeCompensation, orderID); err != nil {
			s.log.Error("compensating stock credit failed",
				zap.String("order_id", orderID),
				zap.String("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		}
	}
}

// clearPurchased drops exactly the purchased lines from the buyer's cart;
// a failure here never fails the checkout.
func (s *Service) clearPurchased(ctx context.Context, order *models.Order) {
	if s.carts == nil {
		return
	}
	ids := make([]string, len(order.Items))
	for i, item := range order.Items {
		ids[i] = item.ProductID
	}
	if err := s.carts.RemovePurchased(ctx, order.UserEmail, ids); err != nil {
		s.log.Warn("cart cleanup after checkout failed",
			zap.String("user", order.UserEmail),
			zap.Error(err))
	}
}

func paymentStatusFor(method string) string {
	if method == models.PaymentCashOnDelivery {
		return models.PaymentStatusPending
	}
	return models.PaymentStatusCompleted
}

type lineQuantities struct {
	ids  []string // insertion order, for deterministic item order
	byID map[string]int
}

// aggregateLines folds duplicate productIds in the request into one
// quantity each, mirroring the cart's one-line-per-product invariant.
func aggregateLines(items []models.OrderItemRequest) (*lineQuantities, error) {
	agg := &lineQuantities{byID: make(map[string]int, len(items))}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: product %s", store.ErrInvalidQuantity, item.ProductID)
		}
		if _, ok := agg.byID[item.ProductID]; !ok {
			agg.ids = append(agg.ids, item.ProductID)
		}
		agg.byID[item.ProductID] += item.Quantity
	}
	if len(agg.ids) == 0 {
		return nil, fmt.Errorf("%w: order has no items", store.ErrValidation)
	}
	return agg, nil
}
