package orders

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/craftloom/storefront/pkg/models"
	"github.com/craftloom/storefront/pkg/store"
)

const (
	outboxPollInterval = 5 * time.Second
	outboxBatchSize    = 20
)

// OutboxWorker retries queued order writes until they land. Entries are
// keyed by client token, so a retry that races a successful write is
// detected and marked done instead of inserting a duplicate.
type OutboxWorker struct {
	repo store.Repository
	log  *zap.Logger
}

func NewOutboxWorker(repo store.Repository, log *zap.Logger) *OutboxWorker {
	return &OutboxWorker{repo: repo, log: log}
}

// Run polls for due entries until the context is cancelled.
func (w *OutboxWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(outboxPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Drain(ctx)
		}
	}
}

// Drain processes one batch of due entries.
func (w *OutboxWorker) Drain(ctx context.Context) {
	entries, err := w.repo.DueOutbox(ctx, time.Now(), outboxBatchSize)
	if err != nil {
		w.log.Warn("outbox poll failed", zap.Error(err))
		return
	}
	for i := range entries {
		w.deliver(ctx, &entries[i])
	}
}

func (w *OutboxWorker) deliver(ctx context.Context, entry *models.OutboxEntry) {
	// A previous attempt may have landed right before the process died.
	if _, err := w.repo.GetOrderByToken(ctx, entry.ClientToken); err == nil {
		w.markDone(ctx, entry)
		return
	}

	if err := w.repo.CreateOrder(ctx, &entry.Order); err != nil {
		entry.Backoff(err)
		if rErr := w.repo.RescheduleOutbox(ctx, entry); rErr != nil {
			w.log.Warn("outbox reschedule failed", zap.String("entry_id", entry.ID), zap.Error(rErr))
		}
		w.log.Warn("outbox delivery failed",
			zap.String("order_id", entry.Order.ID),
			zap.Int("attempts", entry.Attempts),
			zap.Time("next_attempt", entry.NextAttempt),
			zap.Error(err))
		return
	}

	w.markDone(ctx, entry)
	w.log.Info("outbox delivered order",
		zap.String("order_id", entry.Order.ID),
		zap.Int("attempts", entry.Attempts+1))
}

func (w *OutboxWorker) markDone(ctx context.Context, entry *models.OutboxEntry) {
	if err := w.repo.MarkOutboxDone(ctx, entry.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		w.log.Warn("outbox mark-done failed", zap.String("entry_id", entry.ID), zap.Error(err))
	}
}
