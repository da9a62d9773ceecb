package shop

import (
	"context"

	"github.com/you/storefront/internal/store"
)

type UserStore interface {
	ListUsers(ctx context.Context) ([]store.User, error)
	GetUser(ctx context.Context, id int64) (store.User, error)
	CreateUser(ctx context.Context, name string) (store.User, error)
	UpdateUser(ctx context.Context, id int64, name string) (store.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type Users struct {
	store UserStore
}

func NewUsers(s UserStore) *Users {
	return &Users{store: s}
}

func (u *Users) List(ctx context.Context) ([]store.User, error) {
	users, err := u.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(users), nil
}

func (u *Users) Get(ctx context.Context, id int64) (store.User, error) {
	user, err := u.store.GetUser(ctx, id)
	return user, classify(err, "user")
}

func (u *Users) Create(ctx context.Context, name string) (store.User, error) {
	if name == "" {
		return store.User{}, invalid("name required")
	}
	user, err := u.store.CreateUser(ctx, name)
	return user, classify(err, "user")
}

func (u *Users) Update(ctx context.Context, id int64, name string) (store.User, error) {
	if name == "" {
		return store.User{}, invalid("name required")
	}
	user, err := u.store.UpdateUser(ctx, id, name)
	return user, classify(err, "user")
}

func (u *Users) Delete(ctx context.Context, id int64) error {
	return classify(u.store.DeleteUser(ctx, id), "user")
}
