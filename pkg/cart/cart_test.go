package cart

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/craftloom/storefront/pkg/catalog"
	"github.com/craftloom/storefront/pkg/filestore"
	"github.com/craftloom/storefront/pkg/models"
	"github.com/craftloom/storefront/pkg/store"
)

const buyer = "buyer@example.com"

func newTestEnv(t *testing.T) (*Service, *catalog.Service) {
	t.Helper()
	repo, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := zaptest.NewLogger(t)
	catalogSvc := catalog.NewService(repo, nil, logger)
	return NewService(repo, catalogSvc, logger), catalogSvc
}

func seedProduct(t *testing.T, catalogSvc *catalog.Service, name, price string, stock int) *models.Product {
	t.Helper()
	product, err := catalogSvc.Submit(context.Background(), &models.CreateProductRequest{
		Name:     name,
		Price:    price,
		Material: "Jute",
		Image:    "/images/item.jpg",
		Owner:    "seller@example.com",
		Stock:    stock,
	})
	if err != nil {
		t.Fatal(err)
	}
	return product
}

func TestGetReturnsEmptyCartForNewUser(t *testing.T) {
	svc, _ := newTestEnv(t)
	c, err := svc.Get(context.Background(), buyer)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Lines) != 0 || c.TotalItems != 0 {
		t.Fatalf("expected empty cart, got %+v", c)
	}
}

func TestAddItemMergesQuantity(t *testing.T) {
	svc, catalogSvc := newTestEnv(t)
	ctx := context.Background()
	product := seedProduct(t, catalogSvc, "Handwoven Basket", "₹499", 10)

	if _, err := svc.AddItem(ctx, buyer, product.ID, 1); err != nil {
		t.Fatal(err)
	}
	c, err := svc.AddItem(ctx, buyer, product.ID, 1)
	if err != nil {
		t.Fatal(err)
	}

	if len(c.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(c.Lines))
	}
	if line := c.Lines[product.ID]; line.Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", line.Quantity)
	}
	if c.TotalItems != 2 {
		t.Fatalf("totalItems = %d, want 2", c.TotalItems)
	}
}

func TestAddItemRejectsNonPositiveDelta(t *testing.T) {
	svc, catalogSvc := newTestEnv(t)
	product := seedProduct(t, catalogSvc, "Clay Pot", "₹299", 5)

	for _, delta := range []int{0, -1} {
		if _, err := svc.AddItem(context.Background(), buyer, product.ID, delta); !errors.Is(err, store.ErrInvalidQuantity) {
			t.Fatalf("delta %d err = %v, want ErrInvalidQuantity", delta, err)
		}
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _ := newTestEnv(t)
	if _, err := svc.AddItem(context.Background(), buyer, "missing", 1); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSetQuantity(t *testing.T) {
	svc, catalogSvc := newTestEnv(t)
	ctx := context.Background()
	product := seedProduct(t, catalogSvc, "Clay Pot", "₹299", 5)

	if _, err := svc.AddItem(ctx, buyer, product.ID, 1); err != nil {
		t.Fatal(err)
	}
	c, err := svc.SetQuantity(ctx, buyer, product.ID, 4)
	if err != nil {
		t.Fatal(err)
	}
	if c.Lines[product.ID].Quantity != 4 {
		t.Fatalf("quantity = %d, want 4", c.Lines[product.ID].Quantity)
	}

	if _, err := svc.SetQuantity(ctx, buyer, product.ID, 0); !errors.Is(err, store.ErrInvalidQuantity) {
		t.Fatalf("quantity 0 err = %v, want ErrInvalidQuantity", err)
	}
	if _, err := svc.SetQuantity(ctx, buyer, "missing", 2); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing line err = %v, want ErrNotFound", err)
	}
}

func TestRemoveLine(t *testing.T) {
	svc, catalogSvc := newTestEnv(t)
	ctx := context.Background()
	product := seedProduct(t, catalogSvc, "Clay Pot", "₹299", 5)

	if _, err := svc.AddItem(ctx, buyer, product.ID, 2); err != nil {
		t.Fatal(err)
	}
	c, err := svc.RemoveLine(ctx, buyer, product.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Lines) != 0 {
		t.Fatalf("lines = %d, want 0", len(c.Lines))
	}

	if _, err := svc.RemoveLine(ctx, buyer, product.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second remove err = %v, want ErrNotFound", err)
	}
}

func TestSnapshotPriceSurvivesProductEdit(t *testing.T) {
	svc, catalogSvc := newTestEnv(t)
	ctx := context.Background()
	product := seedProduct(t, catalogSvc, "Jewelry Box", "₹799", 8)

	if _, err := svc.AddItem(ctx, buyer, product.ID, 1); err != nil {
		t.Fatal(err)
	}

	newPrice := "₹999"
	if _, err := catalogSvc.Update(ctx, product.ID, &models.UpdateProductRequest{
		Owner: "seller@example.com",
		Price: &newPrice,
	}); err != nil {
		t.Fatal(err)
	}

	total, err := svc.Total(ctx, buyer)
	if err != nil {
		t.Fatal(err)
	}
	if total != 79900 {
		t.Fatalf("total = %d, want snapshot 79900", total)
	}
}

func TestReplaceAggregatesDuplicates(t *testing.T) {
	svc, _ := newTestEnv(t)
	ctx := context.Background()

	c, err := svc.Replace(ctx, buyer, []models.SaveCartItem{
		{ProductID: "p1", Name: "Basket", Price: "₹499", Quantity: 1},
		{ProductID: "p2", Name: "Pot", Price: "₹299", Quantity: 2},
		{ProductID: "p1", Name: "Basket", Price: "₹499", Quantity: 3},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(c.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(c.Lines))
	}
	if c.Lines["p1"].Quantity != 4 {
		t.Fatalf("p1 quantity = %d, want 4", c.Lines["p1"].Quantity)
	}
	if c.TotalItems != 6 {
		t.Fatalf("totalItems = %d, want 6", c.TotalItems)
	}
	if got := c.TotalMinor(); got != 4*49900+2*29900 {
		t.Fatalf("total = %d", got)
	}
}

func TestReplaceRejectsBadPrice(t *testing.T) {
	svc, _ := newTestEnv(t)
	_, err := svc.Replace(context.Background(), buyer, []models.SaveCartItem{
		{ProductID: "p1", Name: "Basket", Price: "free", Quantity: 1},
	})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestRemovePurchasedKeepsOtherLines(t *testing.T) {
	svc, _ := newTestEnv(t)
	ctx := context.Background()

	if _, err := svc.Replace(ctx, buyer, []models.SaveCartItem{
		{ProductID: "p1", Name: "Basket", Price: "₹499", Quantity: 1},
		{ProductID: "p2", Name: "Pot", Price: "₹299", Quantity: 2},
	}); err != nil {
		t.Fatal(err)
	}

	if err := svc.RemovePurchased(ctx, buyer, []string{"p1"}); err != nil {
		t.Fatal(err)
	}
	c, err := svc.Get(ctx, buyer)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Lines) != 1 || c.Lines["p2"].Quantity != 2 {
		t.Fatalf("surviving lines = %+v", c.Lines)
	}

	// Removing the last line drops the stored cart entirely.
	if err := svc.RemovePurchased(ctx, buyer, []string{"p2"}); err != nil {
		t.Fatal(err)
	}
	c, err = svc.Get(ctx, buyer)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Lines) != 0 {
		t.Fatalf("lines = %d, want 0", len(c.Lines))
	}
}

func TestClear(t *testing.T) {
	svc, catalogSvc := newTestEnv(t)
	ctx := context.Background()
	product := seedProduct(t, catalogSvc, "Clay Pot", "₹299", 5)

	if _, err := svc.AddItem(ctx, buyer, product.ID, 2); err != nil {
		t.Fatal(err)
	}
	if err := svc.Clear(ctx, buyer); err != nil {
		t.Fatal(err)
	}
	c, err := svc.Get(ctx, buyer)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Lines) != 0 {
		t.Fatalf("lines after clear = %d", len(c.Lines))
	}
}
