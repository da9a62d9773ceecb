package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

func (db *DB) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := db.pool.Query(ctx, `SELECT id, name FROM users ORDER BY id`)
	if err != nil {
		return nil, mapError(err)
	}
	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[User])
	return users, mapError(err)
}

func (db *DB) GetUser(ctx context.Context, id int64) (User, error) {
	var u User
	err := db.pool.QueryRow(ctx, `SELECT id, name FROM users WHERE id = $1`, id).Scan(&u.ID, &u.Name)
	return u, mapError(err)
}

func (db *DB) CreateUser(ctx context.Context, name string) (User, error) {
	var u User
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (name) VALUES ($1) RETURNING id, name`, name,
	).Scan(&u.ID, &u.Name)
	return u, mapError(err)
}

// UpdateUser renames a user; ErrNotFound when id matches nothing.
func (db *DB) UpdateUser(ctx context.Context, id int64, name string) (User, error) {
	var u User
	err := db.pool.QueryRow(ctx,
		`UPDATE users SET name = $1 WHERE id = $2 RETURNING id, name`, name, id,
	).Scan(&u.ID, &u.Name)
	return u, mapError(err)
}

func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	return deleteByID(ctx, db.pool, "users", id)
}

// table is always a package constant, never caller input
func deleteByID(ctx context.Context, q querier, table string, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
