package gormrepo

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"giftmarket-bot/internal/models"
)

type ordersRepo struct {
	db *gorm.DB
}

func (r *ordersRepo) Create(ctx context.Context, order *models.Order) error {
	err := r.db.WithContext(ctx).Create(order).Error
	return pkgerrors.Wrapf(err, "create order for user %d", order.UserID)
}

func (r *ordersRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, pkgerrors.Wrapf(err, "list orders for user %d", userID)
}
