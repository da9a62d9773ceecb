package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CreateOrder inserts the order and its items in one transaction. Each item
// takes the current product price as its unit price. Items are inserted in
// the given order; the first failure rolls everything back.
func (db *DB) CreateOrder(ctx context.Context, userID int64, items []NewOrderItem) (Order, error) {
	var o Order
	err := db.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO orders (user_id) VALUES ($1) RETURNING id, user_id, created_at`, userID,
		).Scan(&o.ID, &o.UserID, &o.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i, it := range items {
			tag, err := tx.Exec(ctx, `
				INSERT INTO order_items (order_id, product_id, quantity, price)
				SELECT $1, p.id, $3, p.price FROM products p WHERE p.id = $2`,
				o.ID, it.ProductID, it.Quantity)
			if err != nil {
				return fmt.Errorf("insert item %d: %w", i, err)
			}
			if tag.RowsAffected() == 0 {
				return &Error{
					Sentinel: ErrInvalidInput,
					Cause:    fmt.Errorf("item %d: product %d does not exist", i, it.ProductID),
				}
			}
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

// Orders are read through an inner join, so an order without items is never
// returned.
const ordersWithItems = `
	SELECT o.id, o.user_id, o.created_at,
		json_agg(json_build_object(
			'product_id', oi.product_id,
			'quantity', oi.quantity,
			'price', oi.price
		) ORDER BY oi.id) AS items
	FROM orders o
	JOIN order_items oi ON o.id = oi.order_id`

func (db *DB) ListOrders(ctx context.Context) ([]OrderWithItems, error) {
	rows, err := db.pool.Query(ctx, ordersWithItems+` GROUP BY o.id ORDER BY o.id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var orders []OrderWithItems
	for rows.Next() {
		var o OrderWithItems
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt, &o.Items); err != nil {
			return nil, mapError(err)
		}
		orders = append(orders, o)
	}
	return orders, mapError(rows.Err())
}

func (db *DB) GetOrder(ctx context.Context, id int64) (OrderWithItems, error) {
	var o OrderWithItems
	err := db.pool.QueryRow(ctx, ordersWithItems+` WHERE o.id = $1 GROUP BY o.id`, id).
		Scan(&o.ID, &o.UserID, &o.CreatedAt, &o.Items)
	return o, mapError(err)
}
