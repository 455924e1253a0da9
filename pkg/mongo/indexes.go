package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type indexConfig struct {
	CollectionName string
	IndexModel     mongo.IndexModel
}

var requiredIndexes = []indexConfig{
	// Products: text search across name/material/category, owner listings,
	// rating sort.
	{
		CollectionName: collProducts,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "material", Value: "text"},
				{Key: "category", Value: "text"},
			},
			Options: options.Index().SetName("idx_product_text_search"),
		},
	},
	{
		CollectionName: collProducts,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "owner", Value: 1}},
			Options: options.Index().SetName("idx_product_owner"),
		},
	},
	{
		CollectionName: collProducts,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "rating", Value: -1}},
			Options: options.Index().SetName("idx_product_rating"),
		},
	},

	// Carts: one cart per user.
	{
		CollectionName: collCarts,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "user_email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_cart_user_unique"),
		},
	},

	// Orders: per-user history sorted by creation, idempotency token.
	{
		CollectionName: collOrders,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "user_email", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_user_orders"),
		},
	},
	{
		CollectionName: collOrders,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{{Key: "client_token", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "client_token", Value: bson.D{{Key: "$type", Value: "string"}}}}).
				SetName("idx_order_token_unique"),
		},
	},

	// Accounts: unique emails.
	{
		CollectionName: collUsers,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_user_email_unique"),
		},
	},
	{
		CollectionName: collAdmins,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_admin_email_unique"),
		},
	},

	// Outbox: due-entry scan and token dedupe.
	{
		CollectionName: collOutbox,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "next_attempt", Value: 1},
			},
			Options: options.Index().SetName("idx_outbox_due"),
		},
	},
	{
		CollectionName: collOutbox,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{{Key: "client_token", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "client_token", Value: bson.D{{Key: "$type", Value: "string"}}}}).
				SetName("idx_outbox_token_unique"),
		},
	},

	// Stock logs: per-product history newest first.
	{
		CollectionName: collStockLogs,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "product_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_stock_history"),
		},
	},
}

// EnsureIndexes creates the index set at startup; it is safe to run on
// every boot.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	for _, idx := range requiredIndexes {
		if _, err := r.collection(idx.CollectionName).Indexes().CreateOne(ctx, idx.IndexModel); err != nil {
			return fmt.Errorf("create index on %s: %w", idx.CollectionName, err)
		}
	}
	return nil
}
