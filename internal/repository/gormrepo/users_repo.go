package gormrepo

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"giftmarket-bot/internal/models"
)

type usersRepo struct {
	db *gorm.DB
}

func (r *usersRepo) Ensure(ctx context.Context, userID int64) error {
	var user models.User
	err := r.db.WithContext(ctx).FirstOrCreate(&user, models.User{UserID: userID}).Error
	return pkgerrors.Wrapf(err, "ensure user %d", userID)
}

func (r *usersRepo) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	return pkgerrors.Wrapf(err, "create user %d", user.UserID)
}

func (r *usersRepo) Get(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrapf(models.ErrNotFound, "user %d", userID)
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "get user %d", userID)
	}
	return &user, nil
}

func (r *usersRepo) Exists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, pkgerrors.Wrapf(err, "check user %d", userID)
}

func (r *usersRepo) Credit(ctx context.Context, userID int64, amount decimal.Decimal) error {
	if err := r.Ensure(ctx, userID); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount))
	return pkgerrors.Wrapf(res.Error, "credit user %d", userID)
}

func (r *usersRepo) DebitIfEnough(ctx context.Context, userID int64, amount decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return false, pkgerrors.Wrapf(res.Error, "debit user %d", userID)
	}
	return res.RowsAffected == 1, nil
}
