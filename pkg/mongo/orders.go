package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/craftloom/storefront/pkg/models"
	"github.com/craftloom/storefront/pkg/store"
)

func (r *Repo) CreateOrder(ctx context.Context, order *models.Order) error {
	_, err := r.collection(collOrders).InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		// Same client token raced in twice; the first insert won.
		return nil
	}
	if err != nil {
		return unavailable("insert order", err)
	}
	return nil
}

func (r *Repo) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.collection(collOrders).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, unavailable("find order", err)
	}
	return &order, nil
}

func (r *Repo) GetOrderByToken(ctx context.Context, token string) (*models.Order, error) {
	if token == "" {
		return nil, store.ErrNotFound
	}
	var order models.Order
	err := r.collection(collOrders).FindOne(ctx, bson.D{{Key: "client_token", Value: token}}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, unavailable("find order by token", err)
	}
	return &order, nil
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

func (r *Repo) ListOrdersByUser(ctx context.Context, userEmail string) ([]models.Order, error) {
	cursor, err := r.collection(collOrders).Find(ctx, bson.D{{Key: "user_email", Value: userEmail}}, newestFirst)
	if err != nil {
		return nil, unavailable("list user orders", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, unavailable("decode orders", err)
	}
	return orders, nil
}

func (r *Repo) ListOrders(ctx context.Context) ([]models.Order, error) {
	cursor, err := r.collection(collOrders).Find(ctx, bson.D{}, newestFirst)
	if err != nil {
		return nil, unavailable("list orders", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, unavailable("decode orders", err)
	}
	return orders, nil
}

// UpdateOrderStatus persists only the mutable fields of an order; the items
// and totals stay frozen.
func (r *Repo) UpdateOrderStatus(ctx context.Context, order *models.Order) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "order_status", Value: order.OrderStatus},
		{Key: "payment_status", Value: order.PaymentStatus},
		{Key: "status_history", Value: order.StatusHistory},
		{Key: "updated_at", Value: order.UpdatedAt},
	}}}
	res, err := r.collection(collOrders).UpdateOne(ctx, bson.D{{Key: "_id", Value: order.ID}}, update)
	if err != nil {
		return unavailable("update order status", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
