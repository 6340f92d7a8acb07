package service

import (
	"context"
	"log"
	"strconv"
	"time"

	"campfire/internal/model"
	"campfire/internal/pkg"
)

// OutboxSender delivers one pending push entry.
type OutboxSender func(ctx context.Context, entry *model.NotificationOutbox) error

// OutboxRelayer drains the notification outbox into the push pipeline. It is
// the only background loop in the process and sits outside the request path;
// a failed send marks the row failed with a retry count instead of blocking
// the batch.
type OutboxRelayer struct {
	store     NotificationStore
	sender    OutboxSender
	batchSize int
	interval  time.Duration
}

func NewOutboxRelayer(store NotificationStore, sender OutboxSender) *OutboxRelayer {
	return &OutboxRelayer{
		store:     store,
		sender:    sender,
		batchSize: 200,
		interval:  time.Second,
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.store.ListPendingOutbox(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		entry := rows[i]
		if err := r.sender(ctx, &entry); err != nil {
			log.Printf("outbox send %d failed: %v", entry.ID, err)
			_ = r.store.MarkOutboxFailed(ctx, entry.ID)
			continue
		}
		_ = r.store.MarkOutboxSent(ctx, entry.ID)
	}
}

// KafkaSender publishes entries keyed by recipient so one user's pushes stay
// ordered within a partition.
func KafkaSender(producer *pkg.KafkaProducer) OutboxSender {
	return func(ctx context.Context, entry *model.NotificationOutbox) error {
		key := strconv.FormatUint(entry.RecipientID, 10)
		return producer.Send(ctx, []byte(key), []byte(entry.Payload))
	}
}

// LogSender is the fallback when no Kafka brokers are configured.
func LogSender(ctx context.Context, entry *model.NotificationOutbox) error {
	log.Printf("OUTBOX SEND notification=%s recipient=%d", entry.NotificationID, entry.RecipientID)
	return nil
}
