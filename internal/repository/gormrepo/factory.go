// Package gormrepo implements the repository interfaces on GORM.
package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"giftmarket-bot/internal/repository"
)

type Registry struct {
	db        *gorm.DB
	users     *usersRepo
	deposits  *depositsRepo
	giftCards *giftCardsRepo
	orders    *ordersRepo
}

func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{
		db:        db,
		users:     &usersRepo{db: db},
		deposits:  &depositsRepo{db: db},
		giftCards: &giftCardsRepo{db: db},
		orders:    &ordersRepo{db: db},
	}
}

func (r *Registry) Users() repository.Users         { return r.users }
func (r *Registry) Deposits() repository.Deposits   { return r.deposits }
func (r *Registry) GiftCards() repository.GiftCards { return r.giftCards }
func (r *Registry) Orders() repository.Orders       { return r.orders }

// Atomic runs fn against a registry bound to one transaction. GORM rolls the
// transaction back when fn returns an error.
func (r *Registry) Atomic(ctx context.Context, fn func(repository.Registry) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRegistry(tx))
	})
}
