package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/craftloom/storefront/pkg/models"
	"github.com/craftloom/storefront/pkg/store"
)

func (r *Repo) CreateProduct(ctx context.Context, p *models.Product) error {
	if _, err := r.collection(collProducts).InsertOne(ctx, p); err != nil {
		return unavailable("insert product", err)
	}
	return nil
}

func (r *Repo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.collection(collProducts).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, unavailable("find product", err)
	}
	return &product, nil
}

func buildProductQuery(filter models.ProductFilter) bson.D {
	query := bson.D{}
	if filter.Search != "" {
		query = append(query, bson.E{Key: "$text", Value: bson.D{{Key: "$search", Value: filter.Search}}})
	}
	if filter.Category != "" {
		query = append(query, bson.E{Key: "category", Value: filter.Category})
	}
	if filter.Material != "" {
		query = append(query, bson.E{Key: "material", Value: bson.D{
			{Key: "$regex", Value: filter.Material},
			{Key: "$options", Value: "i"},
		}})
	}
	if filter.MinRating > 0 || filter.MaxRating > 0 {
		rating := bson.D{}
		if filter.MinRating > 0 {
			rating = append(rating, bson.E{Key: "$gte", Value: filter.MinRating})
		}
		if filter.MaxRating > 0 {
			rating = append(rating, bson.E{Key: "$lte", Value: filter.MaxRating})
		}
		query = append(query, bson.E{Key: "rating", Value: rating})
	}
	if filter.Owner != "" {
		query = append(query, bson.E{Key: "owner", Value: filter.Owner})
	}
	if filter.Status != "" {
		query = append(query, bson.E{Key: "status", Value: filter.Status})
	}
	return query
}

func (r *Repo) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection(collProducts).Find(ctx, buildProductQuery(filter), opts)
	if err != nil {
		return nil, unavailable("list products", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, unavailable("decode products", err)
	}
	return products, nil
}

func (r *Repo) ReplaceProduct(ctx context.Context, p *models.Product) error {
	res, err := r.collection(collProducts).ReplaceOne(ctx, bson.D{{Key: "_id", Value: p.ID}}, p)
	if err != nil {
		return unavailable("replace product", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.collection(collProducts).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return unavailable("delete product", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// AdjustStock applies the delta in a single document-level atomic update.
// The filter carries the floor check, so a debit that would drive stock
// negative matches nothing and nothing is written. The pipeline's second
// stage recomputes in_stock from the post-update stock.
func (r *Repo) AdjustStock(ctx context.Context, id string, delta int) (*models.Product, error) {
	filter := bson.D{{Key: "_id", Value: id}}
	if delta < 0 {
		filter = append(filter, bson.E{Key: "stock", Value: bson.D{{Key: "$gte", Value: -delta}}})
	}
	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "stock", Value: bson.D{{Key: "$add", Value: bson.A{"$stock", delta}}}},
			{Key: "updated_at", Value: "$$NOW"},
		}}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "in_stock", Value: bson.D{{Key: "$gt", Value: bson.A{"$stock", 0}}}},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := r.collection(collProducts).FindOneAndUpdate(ctx, filter, update, opts).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either the product is missing or the floor check rejected the debit.
		if _, getErr := r.GetProduct(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, store.ErrInsufficientStock
	}
	if err != nil {
		return nil, unavailable("adjust stock", err)
	}
	return &product, nil
}

func (r *Repo) SetStock(ctx context.Context, id string, stock int) (*models.Product, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "stock", Value: stock},
		{Key: "in_stock", Value: stock > 0},
		{Key: "updated_at", Value: time.Now()},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := r.collection(collProducts).FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, unavailable("set stock", err)
	}
	return &product, nil
}

func (r *Repo) AppendStockLog(ctx context.Context, entry *models.StockLog) error {
	if _, err := r.collection(collStockLogs).InsertOne(ctx, entry); err != nil {
		return unavailable("insert stock log", err)
	}
	return nil
}
