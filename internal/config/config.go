package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	BotToken       string
	AdminID        int64
	PostChannel    int64
	UpdatesChannel string
	SupportChat    string

	Coins         []string
	CoinAddresses map[string]string

	DBPath      string
	DatabaseURL string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	MetricsAddr string
	Environment string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	coins := []string{"BTC", "LTC", "SOL"}
	addresses := make(map[string]string, len(coins))
	for _, coin := range coins {
		addresses[coin] = getEnv(coin+"_ADDRESS", "")
	}

	return &Config{
		BotToken:       getEnv("BOT_TOKEN", ""),
		AdminID:        getEnvInt64("ADMIN_ID", 0),
		PostChannel:    getEnvInt64("POST_CHANNEL", 0),
		UpdatesChannel: getEnv("UPDATES_CHANNEL", ""),
		SupportChat:    getEnv("SUPPORT_CHAT", ""),
		Coins:          coins,
		CoinAddresses:  addresses,
		DBPath:         getEnv("DB_PATH", "shop.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisHost:      getEnv("REDIS_HOST", ""),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		MetricsAddr:    getEnv("METRICS_ADDR", ":9090"),
		Environment:    getEnv("APP_ENV", "development"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt64 returns fallback when the variable is unset or not an integer.
func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
