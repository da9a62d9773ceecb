package shop

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/you/storefront/internal/store"
)

type OrderStore interface {
	CreateOrder(ctx context.Context, userID int64, items []store.NewOrderItem) (store.Order, error)
	GetOrder(ctx context.Context, id int64) (store.OrderWithItems, error)
	ListOrders(ctx context.Context) ([]store.OrderWithItems, error)
}

// OrderPublisher announces committed orders to other services.
type OrderPublisher interface {
	OrderCreated(ctx context.Context, o store.Order, items []store.NewOrderItem) error
}

type NewOrder struct {
	UserID int64                `json:"user_id"`
	Items  []store.NewOrderItem `json:"items"`
}

func (n NewOrder) validate() error {
	if n.UserID <= 0 {
		return invalid("user_id required")
	}
	if len(n.Items) == 0 {
		return invalid("items required")
	}
	for i, it := range n.Items {
		if it.ProductID <= 0 {
			return invalid(fmt.Sprintf("items[%d]: product_id required", i))
		}
		if it.Quantity <= 0 {
			return invalid(fmt.Sprintf("items[%d]: quantity must be positive", i))
		}
	}
	return nil
}

type Orders struct {
	store  OrderStore
	events OrderPublisher // nil disables publishing
}

func NewOrders(s OrderStore, events OrderPublisher) *Orders {
	return &Orders{store: s, events: events}
}

// Create stores the order with all its items or nothing at all. Publishing
// happens after commit; a failed publish is logged and does not undo the
// order.
func (s *Orders) Create(ctx context.Context, n NewOrder) (store.Order, error) {
	if err := n.validate(); err != nil {
		return store.Order{}, err
	}
	o, err := s.store.CreateOrder(ctx, n.UserID, n.Items)
	if err != nil {
		return store.Order{}, classify(err, "order")
	}

	if s.events != nil {
		if err := s.events.OrderCreated(ctx, o, n.Items); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Int64("order_id", o.ID).Msg("publish order.created failed")
		}
	}
	return o, nil
}

func (s *Orders) Get(ctx context.Context, id int64) (store.OrderWithItems, error) {
	o, err := s.store.GetOrder(ctx, id)
	return o, classify(err, "order")
}

func (s *Orders) List(ctx context.Context) ([]store.OrderWithItems, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(orders), nil
}
