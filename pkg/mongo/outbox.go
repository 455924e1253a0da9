package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/craftloom/storefront/pkg/models"
	"github.com/craftloom/storefront/pkg/store"
)

func (r *Repo) EnqueueOutbox(ctx context.Context, entry *models.OutboxEntry) error {
	_, err := r.collection(collOutbox).InsertOne(ctx, entry)
	if mongo.IsDuplicateKeyError(err) {
		// Already queued under this client token.
		return nil
	}
	if err != nil {
		return unavailable("enqueue outbox", err)
	}
	return nil
}

func (r *Repo) DueOutbox(ctx context.Context, now time.Time, limit int) ([]models.OutboxEntry, error) {
	filter := bson.D{
		{Key: "status", Value: models.OutboxStatusPending},
		{Key: "next_attempt", Value: bson.D{{Key: "$lte", Value: now}}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "next_attempt", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection(collOutbox).Find(ctx, filter, opts)
	if err != nil {
		return nil, unavailable("list due outbox", err)
	}
	defer cursor.Close(ctx)

	var entries []models.OutboxEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, unavailable("decode outbox", err)
	}
	return entries, nil
}

func (r *Repo) MarkOutboxDone(ctx context.Context, id string) error {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: models.OutboxStatusDone}}}}
	res, err := r.collection(collOutbox).UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return unavailable("mark outbox done", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repo) RescheduleOutbox(ctx context.Context, entry *models.OutboxEntry) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "attempts", Value: entry.Attempts},
		{Key: "next_attempt", Value: entry.NextAttempt},
		{Key: "last_error", Value: entry.LastError},
	}}}
	res, err := r.collection(collOutbox).UpdateOne(ctx, bson.D{{Key: "_id", Value: entry.ID}}, update)
	if err != nil {
		return unavailable("reschedule outbox", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
