package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"giftmarket-bot/internal/auth"
	"giftmarket-bot/internal/metrics"
	"giftmarket-bot/internal/models"
	"giftmarket-bot/internal/money"
	"giftmarket-bot/internal/notify"
	"giftmarket-bot/internal/repository"
)

type InventoryService struct {
	repos    repository.Registry
	guard    *auth.Guard
	notifier notify.Notifier
}

func NewInventoryService(repos repository.Registry, guard *auth.Guard, notifier notify.Notifier) *InventoryService {
	return &InventoryService{repos: repos, guard: guard, notifier: notifier}
}

// Upload adds a card to stock and broadcasts a redacted notice (never the
// code) to the announcement channel.
func (s *InventoryService) Upload(ctx context.Context, actor int64, brand, value, price, code string) (*models.GiftCard, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	brand = strings.TrimSpace(brand)
	code = strings.TrimSpace(code)
	if brand == "" || code == "" {
		return nil, models.ErrInvalidFormat
	}
	val, err := money.ParsePositive(value)
	if err != nil {
		return nil, models.ErrInvalidFormat
	}
	prc, err := money.ParsePositive(price)
	if err != nil {
		return nil, models.ErrInvalidFormat
	}

	card := &models.GiftCard{
		Brand:  brand,
		Value:  val,
		Price:  prc,
		Code:   code,
		BIN:    models.DeriveBIN(code),
		Status: models.CardAvailable,
	}
	if err := s.repos.GiftCards().Create(ctx, card); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"card_id": card.ID,
		"brand":   card.Brand,
		"price":   card.Price.String(),
	}).Info("Card uploaded")

	bin := "N/A"
	if card.BIN != nil {
		bin = *card.BIN
	}
	s.notifier.Announce(fmt.Sprintf(
		"🛒 <b>New Card Added!</b>\n\n🏷 Brand: %s\n💳 Value: %s\n💵 Price: %s\n🔎 BIN: %s\n🆔 ID: %d",
		card.Brand, money.FormatUSD(card.Value), money.FormatUSD(card.Price), bin, card.ID))
	return card, nil
}

// Purchase debits the buyer, marks the card sold and appends the order audit
// record as one transaction: a failure at any step leaves all three untouched.
// The returned card carries the code for private delivery to the buyer.
func (s *InventoryService) Purchase(ctx context.Context, cardID uint, buyerID int64) (*models.GiftCard, error) {
	if err := s.repos.Users().Ensure(ctx, buyerID); err != nil {
		return nil, err
	}

	var card *models.GiftCard
	err := s.repos.Atomic(ctx, func(tx repository.Registry) error {
		var err error
		card, err = tx.GiftCards().Get(ctx, cardID)
		if err != nil {
			return err
		}
		if card.Status != models.CardAvailable {
			return models.ErrNotAvailable
		}
		ok, err := tx.Users().DebitIfEnough(ctx, buyerID, card.Price)
		if err != nil {
			return err
		}
		if !ok {
			return models.ErrInsufficientBalance
		}
		sold, err := tx.GiftCards().MarkSold(ctx, cardID, &buyerID)
		if err != nil {
			return err
		}
		if !sold {
			return models.ErrNotAvailable
		}
		return tx.Orders().Create(ctx, &models.Order{
			UserID: buyerID,
			Item:   fmt.Sprintf("%s %s", card.Brand, card.Value.String()),
			Price:  card.Price,
		})
	})
	if err != nil {
		return nil, err
	}

	card.Status = models.CardSold
	card.BuyerID = &buyerID
	metrics.CardsSold.Inc()
	logrus.WithFields(logrus.Fields{
		"card_id":  card.ID,
		"buyer_id": buyerID,
		"price":    card.Price.String(),
	}).Info("Card sold")
	s.notifier.NotifyAdmin(fmt.Sprintf(
		"🛒 Card ID %d sold to user %d for %s",
		card.ID, buyerID, money.FormatUSD(card.Price)))
	return card, nil
}

// Delete removes a card from stock. Sold cards are part of a buyer's history
// and cannot be deleted.
func (s *InventoryService) Delete(ctx context.Context, actor int64, cardID uint) error {
	if err := s.guard.Require(actor); err != nil {
		return err
	}
	card, err := s.repos.GiftCards().Get(ctx, cardID)
	if err != nil {
		return err
	}
	if card.Status != models.CardAvailable {
		return models.ErrNotAvailable
	}
	if err := s.repos.GiftCards().Delete(ctx, cardID); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"card_id": cardID, "admin": actor}).Info("Card deleted")
	return nil
}

// MarkSold is the admin override; it records no buyer and moves no money.
func (s *InventoryService) MarkSold(ctx context.Context, actor int64, cardID uint) error {
	if err := s.guard.Require(actor); err != nil {
		return err
	}
	ok, err := s.repos.GiftCards().MarkSold(ctx, cardID, nil)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := s.repos.GiftCards().Get(ctx, cardID); err != nil {
			return err
		}
		return models.ErrNotAvailable
	}
	logrus.WithFields(logrus.Fields{"card_id": cardID, "admin": actor}).Info("Card marked sold")
	return nil
}

// View returns a card including its code, for the admin stock panel.
func (s *InventoryService) View(ctx context.Context, actor int64, cardID uint) (*models.GiftCard, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	return s.repos.GiftCards().Get(ctx, cardID)
}

// Stock lists the latest cards regardless of status for the admin panel.
func (s *InventoryService) Stock(ctx context.Context, actor int64, limit int) ([]models.GiftCard, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	return s.repos.GiftCards().ListRecent(ctx, limit)
}

// OrderHistory lists a user's own purchases, newest-first.
func (s *InventoryService) OrderHistory(ctx context.Context, userID int64, limit int) ([]models.Order, error) {
	return s.repos.Orders().ListByUser(ctx, userID, limit)
}
