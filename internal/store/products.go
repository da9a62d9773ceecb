package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const productColumns = `id, name, description, category, price::float8 AS price, image_url`

// ListProducts returns every product matching all axes of f.
func (db *DB) ListProducts(ctx context.Context, f ProductFilter) ([]Product, error) {
	sql, args := Select(`SELECT ` + productColumns + ` FROM products`).
		Where(f.Clauses()...).
		OrderBy("id").
		Build()
	rows, err := db.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[Product])
	return products, mapError(err)
}

func (db *DB) GetProduct(ctx context.Context, id int64) (Product, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		return Product{}, mapError(err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Product])
	return p, mapError(err)
}

func (db *DB) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	rows, err := db.pool.Query(ctx, `
		INSERT INTO products (name, description, category, price, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productColumns,
		in.Name, in.Description, in.Category, in.Price, in.ImageURL)
	if err != nil {
		return Product{}, mapError(err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Product])
	return p, mapError(err)
}

// UpdateProduct overwrites every mutable column with the values in in,
// including NULLs for nil fields.
func (db *DB) UpdateProduct(ctx context.Context, id int64, in ProductInput) (Product, error) {
	rows, err := db.pool.Query(ctx, `
		UPDATE products
		SET name = $1, description = $2, category = $3, price = $4, image_url = $5
		WHERE id = $6
		RETURNING `+productColumns,
		in.Name, in.Description, in.Category, in.Price, in.ImageURL, id)
	if err != nil {
		return Product{}, mapError(err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Product])
	return p, mapError(err)
}

func (db *DB) DeleteProduct(ctx context.Context, id int64) error {
	return deleteByID(ctx, db.pool, "products", id)
}

func (db *DB) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT category FROM products WHERE category IS NOT NULL ORDER BY category ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	return categories, mapError(err)
}
