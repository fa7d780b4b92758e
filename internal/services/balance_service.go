package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"giftmarket-bot/internal/auth"
	"giftmarket-bot/internal/models"
	"giftmarket-bot/internal/money"
	"giftmarket-bot/internal/notify"
	"giftmarket-bot/internal/repository"
)

// ReferralBonus is credited to an inviter at most once per distinct new user.
var ReferralBonus = decimal.NewFromInt(2)

type BalanceService struct {
	repos    repository.Registry
	guard    *auth.Guard
	notifier notify.Notifier
}

func NewBalanceService(repos repository.Registry, guard *auth.Guard, notifier notify.Notifier) *BalanceService {
	return &BalanceService{repos: repos, guard: guard, notifier: notifier}
}

// Ensure idempotently creates a zero-balance row for the user.
func (s *BalanceService) Ensure(ctx context.Context, userID int64) error {
	return s.repos.Users().Ensure(ctx, userID)
}

// Credit adds amount to the user's balance, creating the row if absent.
func (s *BalanceService) Credit(ctx context.Context, userID int64, amount decimal.Decimal) error {
	return s.repos.Users().Credit(ctx, userID, amount)
}

// GetBalance returns zero for unknown users.
func (s *BalanceService) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	user, err := s.repos.Users().Get(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return user.Balance, nil
}

// ApplyReferral creates newUser on first contact, recording who invited them.
// When the inviter is a distinct user the bonus is credited inside the same
// transaction that creates the new user, so it is granted at most once even
// if the start flow re-runs. Reports whether the bonus was credited.
func (s *BalanceService) ApplyReferral(ctx context.Context, newUser int64, inviter *int64) (bool, error) {
	exists, err := s.repos.Users().Exists(ctx, newUser)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	var referredBy *int64
	if inviter != nil && *inviter != newUser {
		referredBy = inviter
	}

	err = s.repos.Atomic(ctx, func(tx repository.Registry) error {
		if referredBy != nil {
			if err := tx.Users().Credit(ctx, *referredBy, ReferralBonus); err != nil {
				return err
			}
		}
		return tx.Users().Create(ctx, &models.User{UserID: newUser, ReferredBy: referredBy})
	})
	if err != nil {
		return false, err
	}

	if referredBy == nil {
		return false, nil
	}
	logrus.WithFields(logrus.Fields{
		"user_id":    newUser,
		"inviter_id": *referredBy,
	}).Info("Referral bonus credited")
	s.notifier.NotifyUser(*referredBy, fmt.Sprintf(
		"🎉 You earned %s for referring <b>%d</b>!",
		money.FormatUSD(ReferralBonus), newUser))
	return true, nil
}

// Lookup is the admin balance inspection behind the Users panel.
func (s *BalanceService) Lookup(ctx context.Context, actor, userID int64) (*models.User, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	return s.repos.Users().Get(ctx, userID)
}

// Adjust is the admin balance correction behind the ± buttons. Debits are
// refused rather than driving the balance negative.
func (s *BalanceService) Adjust(ctx context.Context, actor, userID int64, amount decimal.Decimal) error {
	if err := s.guard.Require(actor); err != nil {
		return err
	}
	if amount.IsNegative() {
		ok, err := s.repos.Users().DebitIfEnough(ctx, userID, amount.Neg())
		if err != nil {
			return err
		}
		if !ok {
			return models.ErrInsufficientBalance
		}
	} else {
		if err := s.repos.Users().Credit(ctx, userID, amount); err != nil {
			return err
		}
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"amount":  amount.String(),
		"admin":   actor,
	}).Info("Balance adjusted")
	return nil
}
