package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"giftmarket-bot/internal/auth"
	"giftmarket-bot/internal/metrics"
	"giftmarket-bot/internal/models"
	"giftmarket-bot/internal/money"
	"giftmarket-bot/internal/notify"
	"giftmarket-bot/internal/repository"
)

// pendingListLimit caps the admin panel's pending queue view.
const pendingListLimit = 50

type DepositService struct {
	repos    repository.Registry
	guard    *auth.Guard
	notifier notify.Notifier
}

func NewDepositService(repos repository.Registry, guard *auth.Guard, notifier notify.Notifier) *DepositService {
	return &DepositService{repos: repos, guard: guard, notifier: notifier}
}

// Open creates a pending deposit for the chosen coin, with zero amount and no
// transaction reference until the user submits evidence.
func (s *DepositService) Open(ctx context.Context, userID int64, coin string) (*models.Deposit, error) {
	if err := s.repos.Users().Ensure(ctx, userID); err != nil {
		return nil, err
	}
	dep := &models.Deposit{
		UserID: userID,
		Coin:   coin,
		Amount: decimal.Zero,
		Status: models.DepositPending,
	}
	if err := s.repos.Deposits().Create(ctx, dep); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"deposit_id": dep.ID,
		"user_id":    userID,
		"coin":       coin,
	}).Info("Deposit opened")
	return dep, nil
}

// SubmitEvidence records the claimed txid and amount. The amount must parse
// as a positive decimal (ErrInvalidAmount lets the caller re-prompt without
// abandoning the flow) and the deposit must still be pending: evidence on a
// decided deposit fails with ErrAlreadyHandled instead of rewriting history.
func (s *DepositService) SubmitEvidence(ctx context.Context, depositID uint, txid, amountStr string) (*models.Deposit, error) {
	amount, err := money.ParsePositive(amountStr)
	if err != nil {
		return nil, err
	}
	ok, err := s.repos.Deposits().SetEvidence(ctx, depositID, txid, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Row missing or already decided.
		if _, err := s.repos.Deposits().Get(ctx, depositID); err != nil {
			return nil, err
		}
		return nil, models.ErrAlreadyHandled
	}
	return s.repos.Deposits().Get(ctx, depositID)
}

// Approve flips a pending deposit to approved and credits the owner by the
// recorded amount, both inside one transaction. A second call observes the
// terminal status and fails with ErrAlreadyHandled without a second credit.
func (s *DepositService) Approve(ctx context.Context, depositID uint, actor int64) (*models.Deposit, error) {
	dep, err := s.decide(ctx, depositID, actor, models.DepositApproved)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyUser(dep.UserID, fmt.Sprintf(
		"✅ Your deposit of %s %s has been approved! 🎉",
		money.Format(dep.Amount), dep.Coin))
	return dep, nil
}

// Reject flips a pending deposit to rejected. No balance change.
func (s *DepositService) Reject(ctx context.Context, depositID uint, actor int64) (*models.Deposit, error) {
	dep, err := s.decide(ctx, depositID, actor, models.DepositRejected)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyUser(dep.UserID, fmt.Sprintf(
		"❌ Your deposit of %s %s was rejected. Please contact support.",
		money.Format(dep.Amount), dep.Coin))
	return dep, nil
}

func (s *DepositService) decide(ctx context.Context, depositID uint, actor int64, status models.DepositStatus) (*models.Deposit, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	var dep *models.Deposit
	err := s.repos.Atomic(ctx, func(tx repository.Registry) error {
		var err error
		dep, err = tx.Deposits().Get(ctx, depositID)
		if err != nil {
			return err
		}
		ok, err := tx.Deposits().SetStatus(ctx, depositID, models.DepositPending, status)
		if err != nil {
			return err
		}
		if !ok {
			return models.ErrAlreadyHandled
		}
		if status == models.DepositApproved {
			return tx.Users().Credit(ctx, dep.UserID, dep.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dep.Status = status
	metrics.DepositDecisions.WithLabelValues(string(status)).Inc()
	logrus.WithFields(logrus.Fields{
		"deposit_id": dep.ID,
		"user_id":    dep.UserID,
		"amount":     dep.Amount.String(),
		"status":     status,
	}).Info("Deposit decided")
	return dep, nil
}

// ListPending backs the admin panel's decision queue, newest-first.
func (s *DepositService) ListPending(ctx context.Context, actor int64) ([]models.Deposit, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	return s.repos.Deposits().ListByStatus(ctx, models.DepositPending, pendingListLimit)
}

// ListRecent backs /list_deposits, newest-first across all statuses.
func (s *DepositService) ListRecent(ctx context.Context, actor int64, limit int) ([]models.Deposit, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	return s.repos.Deposits().ListRecent(ctx, limit)
}
