package orders

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/craftloom/storefront/pkg/filestore"
	"github.com/craftloom/storefront/pkg/models"
	"github.com/craftloom/storefront/pkg/store"
)

func queuedOrder(token string) models.Order {
	order := models.Order{
		ID:            models.NewOrderID(),
		UserEmail:     buyer,
		Items:         []models.OrderItem{{ProductID: "p1", Name: "Basket", PriceMinor: 49900, Price: "₹499", Quantity: 1}},
		TotalMinor:    49900,
		TotalAmount:   "₹499",
		PaymentMethod: models.PaymentUPI,
		PaymentStatus: models.PaymentStatusCompleted,
		ClientToken:   token,
	}
	order.AppendStatus(models.OrderStatusPlaced)
	order.CreatedAt = order.UpdatedAt
	return order
}

func TestDrainDeliversQueuedOrder(t *testing.T) {
	repo, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	order := queuedOrder("tok-outbox-1")
	if err := repo.EnqueueOutbox(ctx, models.NewOutboxEntry(order)); err != nil {
		t.Fatal(err)
	}

	NewOutboxWorker(repo, zaptest.NewLogger(t)).Drain(ctx)

	stored, err := repo.GetOrderByToken(ctx, "tok-outbox-1")
	if err != nil {
		t.Fatalf("order not delivered: %v", err)
	}
	if stored.ID != order.ID {
		t.Fatalf("delivered order id = %s, want %s", stored.ID, order.ID)
	}

	due, err := repo.DueOutbox(ctx, time.Now().Add(time.Hour), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 0 {
		t.Fatalf("entries still due = %d, want 0", len(due))
	}
}

func TestDrainSkipsAlreadyDeliveredToken(t *testing.T) {
	repo, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	order := queuedOrder("tok-outbox-2")
	if err := repo.CreateOrder(ctx, &order); err != nil {
		t.Fatal(err)
	}
	// The queued copy races a write that already landed.
	if err := repo.EnqueueOutbox(ctx, models.NewOutboxEntry(order)); err != nil {
		t.Fatal(err)
	}

	NewOutboxWorker(repo, zaptest.NewLogger(t)).Drain(ctx)

	orders, err := repo.ListOrders(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1 (no duplicate insert)", len(orders))
	}
	due, err := repo.DueOutbox(ctx, time.Now().Add(time.Hour), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 0 {
		t.Fatalf("entries still due = %d, want 0", len(due))
	}
}

// downRepo simulates an order-collection outage while the outbox itself
// stays writable.
type downRepo struct {
	store.Repository
}

func (d *downRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return store.ErrPersistenceUnavailable
}

func TestDrainReschedulesOnFailure(t *testing.T) {
	inner, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	repo := &downRepo{Repository: inner}
	ctx := context.Background()

	order := queuedOrder("tok-outbox-3")
	if err := repo.EnqueueOutbox(ctx, models.NewOutboxEntry(order)); err != nil {
		t.Fatal(err)
	}

	NewOutboxWorker(repo, zaptest.NewLogger(t)).Drain(ctx)

	// Immediately after the failure nothing is due; the entry moved into
	// backoff instead of being dropped or marked done.
	due, err := inner.DueOutbox(ctx, time.Now(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 0 {
		t.Fatalf("entries due immediately = %d, want 0", len(due))
	}

	later, err := inner.DueOutbox(ctx, time.Now().Add(time.Hour), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(later) != 1 {
		t.Fatalf("entries pending = %d, want 1", len(later))
	}
	if later[0].Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", later[0].Attempts)
	}
	if later[0].LastError == "" {
		t.Fatal("LastError not recorded")
	}
}

func TestPlaceOrderFallsBackToOutbox(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Handwoven Basket", "₹499", 10)

	repo := &downRepo{Repository: env.repo}
	svc := NewService(repo, env.catalog, env.carts, zaptest.NewLogger(t))

	req := orderRequest(models.PaymentUPI, models.OrderItemRequest{ProductID: product.ID, Quantity: 2})
	req.ClientToken = "tok-outbox-4"

	order, err := svc.PlaceOrder(ctx, req)
	if err != nil {
		t.Fatalf("checkout should succeed via outbox, got %v", err)
	}
	// Debits stand while the record waits in the queue.
	if got := env.stockOf(t, product.ID); got != 8 {
		t.Fatalf("stock = %d, want 8", got)
	}

	// Storage recovers; the worker lands the order.
	NewOutboxWorker(env.repo, zaptest.NewLogger(t)).Drain(ctx)
	stored, err := env.repo.GetOrderByToken(ctx, "tok-outbox-4")
	if err != nil {
		t.Fatalf("order not delivered after recovery: %v", err)
	}
	if stored.ID != order.ID || stored.TotalMinor != 2*49900 {
		t.Fatalf("delivered order mismatch: %+v", stored)
	}
}

func TestPlaceOrderWithoutTokenCompensatesOnOutage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Clay Pot", "₹299", 5)

	repo := &downRepo{Repository: env.repo}
	svc := NewService(repo, env.catalog, env.carts, zaptest.NewLogger(t))

	_, err := svc.PlaceOrder(ctx, orderRequest(models.PaymentUPI,
		models.OrderItemRequest{ProductID: product.ID, Quantity: 2},
	))
	if err == nil {
		t.Fatal("tokenless checkout must fail when the order cannot be stored")
	}
	if got := env.stockOf(t, product.ID); got != 5 {
		t.Fatalf("stock = %d, want 5 after compensation", got)
	}
}
