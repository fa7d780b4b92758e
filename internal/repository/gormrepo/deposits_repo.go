package gormrepo

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"giftmarket-bot/internal/models"
)

type depositsRepo struct {
	db *gorm.DB
}

func (r *depositsRepo) Create(ctx context.Context, dep *models.Deposit) error {
	err := r.db.WithContext(ctx).Create(dep).Error
	return pkgerrors.Wrapf(err, "create deposit for user %d", dep.UserID)
}

func (r *depositsRepo) Get(ctx context.Context, id uint) (*models.Deposit, error) {
	var dep models.Deposit
	err := r.db.WithContext(ctx).First(&dep, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrapf(models.ErrNotFound, "deposit %d", id)
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "get deposit %d", id)
	}
	return &dep, nil
}

func (r *depositsRepo) SetEvidence(ctx context.Context, id uint, txid string, amount decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Deposit{}).
		Where("id = ? AND status = ?", id, models.DepositPending).
		Updates(map[string]interface{}{"tx_id": txid, "amount": amount})
	if res.Error != nil {
		return false, pkgerrors.Wrapf(res.Error, "set evidence on deposit %d", id)
	}
	return res.RowsAffected == 1, nil
}

func (r *depositsRepo) SetStatus(ctx context.Context, id uint, from, to models.DepositStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Deposit{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, pkgerrors.Wrapf(res.Error, "set deposit %d status %s", id, to)
	}
	return res.RowsAffected == 1, nil
}

func (r *depositsRepo) ListByStatus(ctx context.Context, status models.DepositStatus, limit int) ([]models.Deposit, error) {
	var deps []models.Deposit
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).
		Find(&deps).Error
	return deps, pkgerrors.Wrapf(err, "list %s deposits", status)
}

func (r *depositsRepo) ListRecent(ctx context.Context, limit int) ([]models.Deposit, error) {
	var deps []models.Deposit
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&deps).Error
	return deps, pkgerrors.Wrap(err, "list recent deposits")
}
