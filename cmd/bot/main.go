package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mymmrac/telego"
	"github.com/sirupsen/logrus"

	"giftmarket-bot/internal/auth"
	"giftmarket-bot/internal/bot"
	"giftmarket-bot/internal/config"
	"giftmarket-bot/internal/database"
	"giftmarket-bot/internal/metrics"
	"giftmarket-bot/internal/notify"
	"giftmarket-bot/internal/ops"
	"giftmarket-bot/internal/repository/gormrepo"
	"giftmarket-bot/internal/services"
	"giftmarket-bot/internal/session"
	"giftmarket-bot/internal/worker"
)

const (
	notifyWorkers    = 4
	notifyQueueSize  = 256
	sessionTTL       = 15 * time.Minute
	reminderInterval = time.Hour
)

func main() {
	cfg := config.LoadConfig()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.BotToken == "" {
		logrus.Fatal("BOT_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		logrus.Fatalf("Could not connect to database: %v", err)
	}
	repos := gormrepo.NewRegistry(db)

	var sessions session.Store = session.NewMemoryStore()
	if cfg.RedisHost != "" {
		rdb, err := database.ConnectRedis(cfg)
		if err != nil {
			logrus.Fatalf("Could not connect to Redis: %v", err)
		}
		sessions = session.NewRedisStore(rdb, sessionTTL)
	}

	tg, err := telego.NewBot(cfg.BotToken)
	if err != nil {
		logrus.Fatalf("Could not create bot: %v", err)
	}

	notifier := notify.NewService(bot.NewSender(tg), cfg.AdminID, cfg.PostChannel, notifyWorkers, notifyQueueSize)
	defer notifier.Stop()

	guard := auth.NewGuard(cfg.AdminID)
	balances := services.NewBalanceService(repos, guard, notifier)
	deposits := services.NewDepositService(repos, guard, notifier)
	inventory := services.NewInventoryService(repos, guard, notifier)
	catalog := services.NewCatalogService(repos)

	metrics.Init()
	opsSrv := ops.NewServer(cfg.MetricsAddr, db)
	opsSrv.Start()
	defer opsSrv.Shutdown()

	reminder := worker.NewReminder(repos.Deposits(), notifier, reminderInterval)
	go reminder.Start(ctx)

	logrus.Info("Service started successfully")

	app := bot.New(tg, cfg, sessions, guard, balances, deposits, inventory, catalog)
	if err := app.Start(ctx); err != nil {
		logrus.Fatalf("Bot stopped: %v", err)
	}
}
