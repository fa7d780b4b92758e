// Package repository defines the store-access interfaces the workflows are
// built against. The GORM implementation lives in gormrepo; tests use
// in-memory fakes.
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"giftmarket-bot/internal/models"
)

type Users interface {
	// Ensure idempotently creates a zero-balance row for userID.
	Ensure(ctx context.Context, userID int64) error
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, userID int64) (*models.User, error)
	Exists(ctx context.Context, userID int64) (bool, error)
	// Credit adds amount to the balance, creating the row if absent.
	// Negative amounts debit without a floor check.
	Credit(ctx context.Context, userID int64, amount decimal.Decimal) error
	// DebitIfEnough subtracts amount only when the balance covers it and
	// reports whether the debit happened.
	DebitIfEnough(ctx context.Context, userID int64, amount decimal.Decimal) (bool, error)
}

type Deposits interface {
	Create(ctx context.Context, dep *models.Deposit) error
	Get(ctx context.Context, id uint) (*models.Deposit, error)
	// SetEvidence records txid and amount while the deposit is still
	// pending and reports whether the row was updated.
	SetEvidence(ctx context.Context, id uint, txid string, amount decimal.Decimal) (bool, error)
	// SetStatus transitions from -> to and reports whether the row was in
	// the expected source status.
	SetStatus(ctx context.Context, id uint, from, to models.DepositStatus) (bool, error)
	ListByStatus(ctx context.Context, status models.DepositStatus, limit int) ([]models.Deposit, error)
	ListRecent(ctx context.Context, limit int) ([]models.Deposit, error)
}

type GiftCards interface {
	Create(ctx context.Context, card *models.GiftCard) error
	Get(ctx context.Context, id uint) (*models.GiftCard, error)
	ListAvailable(ctx context.Context) ([]models.GiftCard, error)
	ListByBrand(ctx context.Context, brand string) ([]models.GiftCard, error)
	ListByBIN(ctx context.Context, bin string) ([]models.GiftCard, error)
	ListRecent(ctx context.Context, limit int) ([]models.GiftCard, error)
	DistinctBrands(ctx context.Context) ([]string, error)
	// MarkSold flips an available card to sold, recording the buyer when
	// given, and reports whether the card was still available.
	MarkSold(ctx context.Context, id uint, buyerID *int64) (bool, error)
	Delete(ctx context.Context, id uint) error
}

type Orders interface {
	Create(ctx context.Context, order *models.Order) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.Order, error)
}

// Registry bundles the repositories behind one handle. Atomic runs fn against
// a registry bound to a single store transaction: every call made through the
// registry passed to fn commits or rolls back as one unit.
type Registry interface {
	Users() Users
	Deposits() Deposits
	GiftCards() GiftCards
	Orders() Orders
	Atomic(ctx context.Context, fn func(Registry) error) error
}
