package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/you/storefront/internal/store"
)

const TypeOrderCreated = "order.created"

// OrderCreated is the message written for every committed order.
type OrderCreated struct {
	Type      string               `json:"type"`
	OrderID   int64                `json:"order_id"`
	UserID    int64                `json:"user_id"`
	CreatedAt time.Time            `json:"created_at"`
	Items     []store.NewOrderItem `json:"items"`
}

func (e OrderCreated) ProductIDs() []int64 {
	ids := make([]int64, len(e.Items))
	for i, it := range e.Items {
		ids[i] = it.ProductID
	}
	return ids
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	w messageWriter
}

// NewPublisher returns an asynchronous publisher: OrderCreated queues the
// message and returns, delivery failures are logged by the writer.
func NewPublisher(broker, topic string) *Publisher {
	return &Publisher{w: &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // same order id, same partition
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
		Completion:   logDelivery,
	}}
}

func logDelivery(msgs []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, m := range msgs {
		log.Error().Err(err).Str("topic", m.Topic).Bytes("order_id", m.Key).Msg("order event not delivered")
	}
}

func (p *Publisher) OrderCreated(ctx context.Context, o store.Order, items []store.NewOrderItem) error {
	body, err := json.Marshal(OrderCreated{
		Type:      TypeOrderCreated,
		OrderID:   o.ID,
		UserID:    o.UserID,
		CreatedAt: o.CreatedAt,
		Items:     items,
	})
	if err != nil {
		return fmt.Errorf("events: encode order %d: %w", o.ID, err)
	}
	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(o.ID, 10)),
		Value: body,
	})
	if err != nil {
		return fmt.Errorf("events: write order %d: %w", o.ID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.w.Close()
}
