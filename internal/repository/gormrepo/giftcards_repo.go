package gormrepo

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"giftmarket-bot/internal/models"
)

type giftCardsRepo struct {
	db *gorm.DB
}

func (r *giftCardsRepo) Create(ctx context.Context, card *models.GiftCard) error {
	err := r.db.WithContext(ctx).Create(card).Error
	return pkgerrors.Wrapf(err, "create %s card", card.Brand)
}

func (r *giftCardsRepo) Get(ctx context.Context, id uint) (*models.GiftCard, error) {
	var card models.GiftCard
	err := r.db.WithContext(ctx).First(&card, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrapf(models.ErrNotFound, "card %d", id)
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "get card %d", id)
	}
	return &card, nil
}

func (r *giftCardsRepo) ListAvailable(ctx context.Context) ([]models.GiftCard, error) {
	var cards []models.GiftCard
	err := r.db.WithContext(ctx).
		Where("status = ?", models.CardAvailable).
		Order("created_at DESC").
		Find(&cards).Error
	return cards, pkgerrors.Wrap(err, "list available cards")
}

func (r *giftCardsRepo) ListByBrand(ctx context.Context, brand string) ([]models.GiftCard, error) {
	var cards []models.GiftCard
	err := r.db.WithContext(ctx).
		Where("status = ? AND brand = ?", models.CardAvailable, brand).
		Order("created_at DESC").
		Find(&cards).Error
	return cards, pkgerrors.Wrapf(err, "list %s cards", brand)
}

func (r *giftCardsRepo) ListByBIN(ctx context.Context, bin string) ([]models.GiftCard, error) {
	var cards []models.GiftCard
	err := r.db.WithContext(ctx).
		Where("status = ? AND bin = ?", models.CardAvailable, bin).
		Order("created_at DESC").
		Find(&cards).Error
	return cards, pkgerrors.Wrapf(err, "list cards by bin %s", bin)
}

func (r *giftCardsRepo) ListRecent(ctx context.Context, limit int) ([]models.GiftCard, error) {
	var cards []models.GiftCard
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&cards).Error
	return cards, pkgerrors.Wrap(err, "list recent cards")
}

func (r *giftCardsRepo) DistinctBrands(ctx context.Context) ([]string, error) {
	var brands []string
	err := r.db.WithContext(ctx).Model(&models.GiftCard{}).
		Where("status = ?", models.CardAvailable).
		Distinct().
		Order("brand").
		Pluck("brand", &brands).Error
	return brands, pkgerrors.Wrap(err, "list brands")
}

func (r *giftCardsRepo) MarkSold(ctx context.Context, id uint, buyerID *int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.GiftCard{}).
		Where("id = ? AND status = ?", id, models.CardAvailable).
		Updates(map[string]interface{}{"status": models.CardSold, "buyer_id": buyerID})
	if res.Error != nil {
		return false, pkgerrors.Wrapf(res.Error, "mark card %d sold", id)
	}
	return res.RowsAffected == 1, nil
}

func (r *giftCardsRepo) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Delete(&models.GiftCard{}, id).Error
	return pkgerrors.Wrapf(err, "delete card %d", id)
}
