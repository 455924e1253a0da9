package catalog

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/craftloom/storefront/pkg/filestore"
	"github.com/craftloom/storefront/pkg/models"
	"github.com/craftloom/storefront/pkg/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewService(repo, nil, zaptest.NewLogger(t))
}

func submitProduct(t *testing.T, svc *Service, name string, stock int) *models.Product {
	t.Helper()
	product, err := svc.Submit(context.Background(), &models.CreateProductRequest{
		Name:     name,
		Price:    "₹499",
		Material: "Jute",
		Image:    "/images/basket.jpg",
		Owner:    "seller@example.com",
		Stock:    stock,
	})
	if err != nil {
		t.Fatal(err)
	}
	return product
}

func TestSubmitStartsPending(t *testing.T) {
	svc := newTestService(t)
	product := submitProduct(t, svc, "Handwoven Basket", 10)

	if product.Status != models.ProductStatusPending {
		t.Fatalf("status = %q, want pending", product.Status)
	}
	got, err := svc.Get(context.Background(), product.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Handwoven Basket" || got.Stock != 10 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestApprovalTransitions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	product := submitProduct(t, svc, "Clay Pot", 5)

	approved, err := svc.SetApprovalStatus(ctx, product.ID, models.ProductStatusApproved)
	if err != nil {
		t.Fatal(err)
	}
	if approved.Status != models.ProductStatusApproved {
		t.Fatalf("status = %q, want approved", approved.Status)
	}

	// The decision is final.
	if _, err := svc.SetApprovalStatus(ctx, product.ID, models.ProductStatusRejected); !errors.Is(err, store.ErrInvalidTransition) {
		t.Fatalf("approved -> rejected err = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.SetApprovalStatus(ctx, product.ID, models.ProductStatusPending); !errors.Is(err, store.ErrInvalidTransition) {
		t.Fatalf("approved -> pending err = %v, want ErrInvalidTransition", err)
	}
}

func TestSetApprovalStatusUnknownProduct(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.SetApprovalStatus(context.Background(), "missing", models.ProductStatusApproved); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAdjustStockFloor(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	product := submitProduct(t, svc, "Bamboo Lamp", 3)

	if _, err := svc.AdjustStock(ctx, product.ID, -5, models.StockChangeCheckout, "order-1"); !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// The failed debit must not move stock at all.
	got, err := svc.Get(ctx, product.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Stock != 3 {
		t.Fatalf("stock = %d after failed debit, want 3", got.Stock)
	}

	updated, err := svc.AdjustStock(ctx, product.ID, -3, models.StockChangeCheckout, "order-2")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Stock != 0 || updated.InStock {
		t.Fatalf("stock = %d inStock = %v, want 0/false", updated.Stock, updated.InStock)
	}
}

func TestAdjustStockZeroDeltaIsARead(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	product := submitProduct(t, svc, "Coffee Cup", 7)

	got, err := svc.AdjustStock(ctx, product.ID, 0, models.StockChangeAdminSet, "")
	if err != nil {
		t.Fatal(err)
	}
	if got.Stock != 7 {
		t.Fatalf("stock = %d, want 7", got.Stock)
	}
}

func TestSetAbsoluteStock(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	product := submitProduct(t, svc, "Jewelry Box", 2)

	updated, err := svc.SetAbsoluteStock(ctx, product.ID, 20, "admin")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Stock != 20 || !updated.InStock {
		t.Fatalf("stock = %d inStock = %v", updated.Stock, updated.InStock)
	}

	if _, err := svc.SetAbsoluteStock(ctx, product.ID, -1, "admin"); !errors.Is(err, store.ErrInvalidQuantity) {
		t.Fatalf("negative stock err = %v, want ErrInvalidQuantity", err)
	}
}

func TestUpdateChecksOwner(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	product := submitProduct(t, svc, "Clay Pot", 5)

	name := "Glazed Clay Pot"
	if _, err := svc.Update(ctx, product.ID, &models.UpdateProductRequest{
		Owner: "intruder@example.com",
		Name:  &name,
	}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}

	updated, err := svc.Update(ctx, product.ID, &models.UpdateProductRequest{
		Owner: "seller@example.com",
		Name:  &name,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Glazed Clay Pot" {
		t.Fatalf("name = %q", updated.Name)
	}
}

func TestUpdatePriceReformatsSnapshot(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	product := submitProduct(t, svc, "Clay Pot", 5)

	price := "₹349.50"
	updated, err := svc.Update(ctx, product.ID, &models.UpdateProductRequest{
		Owner: "seller@example.com",
		Price: &price,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.PriceMinor != 34950 || updated.Price != "₹349.50" {
		t.Fatalf("price = %d / %q", updated.PriceMinor, updated.Price)
	}
}

func TestDeleteRemovesProduct(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	product := submitProduct(t, svc, "Clay Pot", 5)

	if err := svc.Delete(ctx, product.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, product.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
