package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/you/storefront/internal/store"
)

// BasketRecorder stores the co-purchases of one order.
type BasketRecorder interface {
	RecordBasket(ctx context.Context, productIDs []int64) error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var retryDelay = time.Second

// StartAssociationBuilder consumes order.created events and folds each basket
// into the product association table. Offsets are committed manually: a
// message that cannot be decoded is committed and skipped. A basket the store
// rejects (a product deleted since the order) is logged and committed; any
// other failure is retried until the basket is stored.
func StartAssociationBuilder(ctx context.Context, broker, topic string, rec BasketRecorder) <-chan struct{} {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{broker},
		Topic:          topic,
		GroupID:        "storefront-associations",
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
	})
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer r.Close()
		consume(ctx, r, rec, topic)
	}()
	return done
}

func consume(ctx context.Context, r messageReader, rec BasketRecorder, topic string) {
	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("association builder stopped")
				return
			}
			log.Error().Err(err).Msg("fetch message error")
			if !sleep(ctx, retryDelay) {
				return
			}
			continue
		}

		var ev OrderCreated
		if err := json.Unmarshal(m.Value, &ev); err != nil || ev.Type != TypeOrderCreated || ev.OrderID == 0 {
			log.Error().Err(err).Str("topic", topic).Int64("offset", m.Offset).Msg("unusable message, skipping")
			if err := r.CommitMessages(ctx, m); err != nil {
				log.Error().Err(err).Msg("failed to commit skipped message")
			}
			continue
		}

		// the reader moves on after a fetch, so a failed basket is retried in place
		for {
			err := rec.RecordBasket(ctx, ev.ProductIDs())
			if err == nil {
				break
			}
			if rejected(err) {
				log.Warn().Err(err).Int64("order_id", ev.OrderID).Ints64("products", ev.ProductIDs()).
					Msg("basket rejected by store, skipping")
				break
			}
			log.Error().Err(err).Int64("order_id", ev.OrderID).Msg("failed to record basket")
			if !sleep(ctx, retryDelay) {
				return
			}
		}

		if err := r.CommitMessages(ctx, m); err != nil {
			log.Error().Err(err).Msg("commit message failed")
			continue
		}
		log.Debug().Int64("order_id", ev.OrderID).Msg("basket recorded")
	}
}

// rejected reports errors that retrying the same basket cannot fix.
func rejected(err error) bool {
	return errors.Is(err, store.ErrInvalidInput) || errors.Is(err, store.ErrConflict)
}

// sleep waits for d and reports false when ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
