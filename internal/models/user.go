package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	UserID     int64           `gorm:"primaryKey"`
	Balance    decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	ReferredBy *int64          `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
