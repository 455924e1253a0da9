// Package mongo is the document-store Repository implementation on
// mongo-driver/v2. One client is created at startup and shared; per-request
// work runs under the caller's context.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/craftloom/storefront/pkg/store"
)

const (
	collProducts  = "products"
	collCarts     = "carts"
	collOrders    = "orders"
	collUsers     = "users"
	collAdmins    = "admins"
	collOutbox    = "outbox"
	collStockLogs = "stock_logs"
)

type Repo struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Repository = (*Repo)(nil)

// Connect builds the client, pings once and returns the repository. The
// caller decides whether a failure means falling back to the file store.
func Connect(ctx context.Context, uri, database string) (*Repo, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	clientOptions := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("create mongo client: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Repo{client: client, db: client.Database(database)}, nil
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func (r *Repo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *Repo) collection(name string) *mongo.Collection {
	return r.db.Collection(name)
}

// unavailable tags infrastructure failures so handlers can answer 503 and
// checkout can divert the order write to the outbox.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", store.ErrPersistenceUnavailable, op, err)
}
