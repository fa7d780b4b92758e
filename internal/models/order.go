package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is an immutable audit record written at the moment of sale.
type Order struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    int64           `gorm:"not null;index"`
	Item      string          `gorm:"size:255;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	CreatedAt time.Time
}
