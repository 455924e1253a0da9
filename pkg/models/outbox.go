package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusDone    = "done"
)

// OutboxEntry is a durably queued order write that failed against the
// primary store. Entries are keyed by the order's client token so a retry
// can never create a duplicate order.
type OutboxEntry struct {
	ID          string    `json:"id" bson:"_id"`
	ClientToken string    `json:"client_token" bson:"client_token"`
	Order       Order     `json:"order" bson:"order"`
	Status      string    `json:"status" bson:"status"`
	Attempts    int       `json:"attempts" bson:"attempts"`
	NextAttempt time.Time `json:"next_attempt" bson:"next_attempt"`
	LastError   string    `json:"last_error,omitempty" bson:"last_error,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

func NewOutboxEntry(order Order) *OutboxEntry {
	now := time.Now()
	return &OutboxEntry{
		ID:          bson.NewObjectID().Hex(),
		ClientToken: order.ClientToken,
		Order:       order,
		Status:      OutboxStatusPending,
		NextAttempt: now,
		CreatedAt:   now,
	}
}

// Backoff schedules the next retry: 1s, 2s, 4s... capped at five minutes.
func (e *OutboxEntry) Backoff(err error) {
	e.Attempts++
	if err != nil {
		e.LastError = err.Error()
	}
	delay := time.Second << uint(min(e.Attempts, 9))
	if delay > 5*time.Minute {
		delay = 5 * time.Minute
	}
	e.NextAttempt = time.Now().Add(delay)
}
