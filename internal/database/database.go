package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"giftmarket-bot/internal/config"
	"giftmarket-bot/internal/models"
)

// Connect opens the store: PostgreSQL when DATABASE_URL is set, the local
// SQLite file otherwise.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.DatabaseURL != "" {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DBPath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logrus.WithField("dialect", dialector.Name()).Info("Connected to database")

	if err := db.AutoMigrate(&models.User{}, &models.Deposit{}, &models.GiftCard{}, &models.Order{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}
