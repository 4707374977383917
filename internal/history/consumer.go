package history

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	inats "github.com/codeshift-app/codeshift/internal/nats"
)

// Consumer listens on the conversion event subject and persists entries to
// the database.
type Consumer struct {
	repo        *Repository
	consumerMgr *inats.ConsumerManager
}

func NewConsumer(repo *Repository, consumerMgr *inats.ConsumerManager) *Consumer {
	return &Consumer{
		repo:        repo,
		consumerMgr: consumerMgr,
	}
}

// Start begins the consume loop. Blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	consumer, err := c.consumerMgr.EnsureConsumer(ctx, inats.StreamEvents, "history-persister", inats.SubjectConversionEvent)
	if err != nil {
		return err
	}

	slog.Info("history consumer started", "consumer", "history-persister")

	for {
		msgs, err := consumer.Fetch(10, jetstream.FetchMaxWait(inats.FetchTimeout))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Debug("history consumer: fetching events", "error", err)
			continue
		}

		for msg := range msgs.Messages() {
			c.handleEvent(ctx, msg)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *Consumer) handleEvent(ctx context.Context, msg jetstream.Msg) {
	var event inats.ConversionEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		slog.Error("history consumer: unmarshaling event", "error", err)
		_ = msg.Nak()
		return
	}

	log := &ConversionLog{
		ID:             uuid.New(),
		UserID:         event.UserID,
		SourceLanguage: event.SourceLanguage,
		TargetLanguage: event.TargetLanguage,
		Status:         event.Status,
		DurationMs:     event.DurationMs,
		CreatedAt:      event.Timestamp,
	}

	if err := c.repo.Insert(ctx, log); err != nil {
		slog.Error("history consumer: persisting conversion log", "error", err, "user_id", event.UserID)
		_ = msg.Nak()
		return
	}

	_ = msg.Ack()

	slog.Debug("history consumer: persisted event",
		"user_id", event.UserID,
		"pair", event.SourceLanguage+"->"+event.TargetLanguage,
		"status", event.Status,
	)
}
