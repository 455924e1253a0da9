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

func (r *Repo) GetCart(ctx context.Context, userEmail string) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection(collCarts).FindOne(ctx, bson.D{{Key: "user_email", Value: userEmail}}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, unavailable("find cart", err)
	}
	return &cart, nil
}

// UpsertCart writes the whole cart as one document replace with upsert. A
// concurrent reader sees either the previous cart or the new one, never an
// empty window. This replaces the legacy delete-then-reinsert save.
func (r *Repo) UpsertCart(ctx context.Context, cart *models.Cart) error {
	filter := bson.D{{Key: "user_email", Value: cart.UserEmail}}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection(collCarts).ReplaceOne(ctx, filter, cart, opts); err != nil {
		return unavailable("upsert cart", err)
	}
	return nil
}

func (r *Repo) DeleteCart(ctx context.Context, userEmail string) error {
	if _, err := r.collection(collCarts).DeleteOne(ctx, bson.D{{Key: "user_email", Value: userEmail}}); err != nil {
		return unavailable("delete cart", err)
	}
	return nil
}

func (r *Repo) ListCarts(ctx context.Context) ([]models.Cart, error) {
	cursor, err := r.collection(collCarts).Find(ctx, bson.D{})
	if err != nil {
		return nil, unavailable("list carts", err)
	}
	defer cursor.Close(ctx)

	var carts []models.Cart
	if err := cursor.All(ctx, &carts); err != nil {
		return nil, unavailable("decode carts", err)
	}
	return carts, nil
}
