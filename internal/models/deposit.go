package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DepositStatus string

const (
	// DepositPending is the initial status, waiting for an admin decision.
	DepositPending DepositStatus = "pending"
	// DepositApproved is terminal; the recorded amount has been credited.
	DepositApproved DepositStatus = "approved"
	// DepositRejected is terminal; no balance change.
	DepositRejected DepositStatus = "rejected"
)

type Deposit struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    int64           `gorm:"not null;index"`
	Coin      string          `gorm:"size:16;not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	TxID      string          `gorm:"size:255"`
	Status    DepositStatus   `gorm:"size:16;default:'pending';index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
