package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
)

// Suggestions ranks the products that shared an order with productID by how
// many times they did so. Ties are broken by product id.
func (db *DB) Suggestions(ctx context.Context, productID int64, limit int) ([]Suggestion, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT
			p.id,
			p.name,
			p.image_url,
			COUNT(*) AS frequency,
			COALESCE(AVG(o2.price), 0)::float8 AS avg_price
		FROM order_items o1
		JOIN order_items o2 ON o1.order_id = o2.order_id
		JOIN products p ON o2.product_id = p.id
		WHERE o1.product_id = $1
			AND o2.product_id <> $1
		GROUP BY p.id
		ORDER BY frequency DESC, p.id ASC
		LIMIT $2`, productID, limit)
	if err != nil {
		return nil, mapError(err)
	}
	suggestions, err := pgx.CollectRows(rows, pgx.RowToStructByName[Suggestion])
	return suggestions, mapError(err)
}

// TopAssociations reads the most frequent pairs of the precomputed table.
func (db *DB) TopAssociations(ctx context.Context, limit int) ([]Association, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT
			p1.name AS product1,
			p2.name AS product2,
			pa.frequency
		FROM product_associations pa
		JOIN products p1 ON pa.product1 = p1.id
		JOIN products p2 ON pa.product2 = p2.id
		ORDER BY pa.frequency DESC, pa.product1, pa.product2
		LIMIT $1`, limit)
	if err != nil {
		return nil, mapError(err)
	}
	associations, err := pgx.CollectRows(rows, pgx.RowToStructByName[Association])
	return associations, mapError(err)
}

// RecordBasket counts one co-purchase for every unordered pair of distinct
// products in the basket.
func (db *DB) RecordBasket(ctx context.Context, productIDs []int64) error {
	pairs := Pairs(productIDs)
	if len(pairs) == 0 {
		return nil
	}
	return db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, p := range pairs {
			_, err := tx.Exec(ctx, `
				INSERT INTO product_associations (product1, product2, frequency)
				VALUES ($1, $2, 1)
				ON CONFLICT (product1, product2)
				DO UPDATE SET frequency = product_associations.frequency + 1`,
				p[0], p[1])
			if err != nil {
				return fmt.Errorf("record pair %d-%d: %w", p[0], p[1], err)
			}
		}
		return nil
	})
}

// Pairs returns each unordered pair of distinct ids once, smaller id first,
// sorted so concurrent writers lock rows in the same order.
func Pairs(ids []int64) [][2]int64 {
	seen := make(map[int64]struct{}, len(ids))
	uniq := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })

	var pairs [][2]int64
	for i := 0; i < len(uniq); i++ {
		for j := i + 1; j < len(uniq); j++ {
			pairs = append(pairs, [2]int64{uniq[i], uniq[j]})
		}
	}
	return pairs
}
