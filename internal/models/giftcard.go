package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CardStatus string

const (
	// CardAvailable means the card is listed and purchasable.
	CardAvailable CardStatus = "available"
	// CardSold is set exactly once, by a purchase or an admin override.
	CardSold CardStatus = "sold"
)

// BINLength is how many leading characters of a code form its public prefix.
const BINLength = 6

type GiftCard struct {
	ID        uint            `gorm:"primaryKey"`
	Brand     string          `gorm:"size:255;not null"`
	Value     decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Price     decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Code      string          `gorm:"size:255;not null"`
	BIN       *string         `gorm:"size:6;index"`
	Status    CardStatus      `gorm:"size:16;default:'available';index"`
	BuyerID   *int64          `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeriveBIN returns the first BINLength characters of code, or nil when the
// code is too short to carry a prefix.
func DeriveBIN(code string) *string {
	if len(code) < BINLength {
		return nil
	}
	bin := code[:BINLength]
	return &bin
}
