package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/sirupsen/logrus"

	"giftmarket-bot/internal/auth"
	"giftmarket-bot/internal/config"
	"giftmarket-bot/internal/metrics"
	"giftmarket-bot/internal/services"
	"giftmarket-bot/internal/session"
)

// Bot routes Telegram updates to the marketplace services. Handlers stay
// thin: parse the update, call a service, render the reply.
type Bot struct {
	tg        *telego.Bot
	cfg       *config.Config
	sessions  session.Store
	guard     *auth.Guard
	balances  *services.BalanceService
	deposits  *services.DepositService
	inventory *services.InventoryService
	catalog   *services.CatalogService

	username string
}

func New(tg *telego.Bot, cfg *config.Config, sessions session.Store, guard *auth.Guard,
	balances *services.BalanceService, deposits *services.DepositService,
	inventory *services.InventoryService, catalog *services.CatalogService) *Bot {
	return &Bot{
		tg:        tg,
		cfg:       cfg,
		sessions:  sessions,
		guard:     guard,
		balances:  balances,
		deposits:  deposits,
		inventory: inventory,
		catalog:   catalog,
	}
}

// Sender adapts the Telegram client to the notify queue.
type Sender struct {
	tg *telego.Bot
}

func NewSender(tg *telego.Bot) *Sender {
	return &Sender{tg: tg}
}

func (s *Sender) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := s.tg.SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML))
	return err
}

// Start consumes long-polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updates, err := b.tg.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("start long polling: %w", err)
	}

	handler, err := th.NewBotHandler(b.tg, updates)
	if err != nil {
		return fmt.Errorf("create update handler: %w", err)
	}

	if me, err := b.tg.GetMe(ctx); err == nil {
		b.username = me.Username
	} else {
		logrus.WithError(err).Warn("Could not resolve bot username")
	}

	// Commands.
	handler.Handle(b.on("command", b.handleStart), th.CommandEqual("start"))
	handler.Handle(b.on("command", b.handleRef), th.CommandEqual("ref"))
	handler.Handle(b.on("command", b.handleBINCommand), th.CommandEqual("bin"))
	handler.Handle(b.on("command", b.handleUploadCommand), th.CommandEqual("upload"))
	handler.Handle(b.on("command", b.handleListDeposits), th.CommandEqual("list_deposits"))

	// Storefront callbacks.
	handler.Handle(b.on("callback", b.cbMainMenu), th.CallbackDataEqual("back_to_menu"))
	handler.Handle(b.on("callback", b.cbDepositMenu), th.CallbackDataEqual("menu_deposit"))
	handler.Handle(b.on("callback", b.cbDepositCoin), th.CallbackDataPrefix("deposit|"))
	handler.Handle(b.on("callback", b.cbDepositPaid), th.CallbackDataPrefix("paid|"))
	handler.Handle(b.on("callback", b.cbDepositCancel), th.CallbackDataEqual("deposit_cancel"))
	handler.Handle(b.on("callback", b.cbListing), th.CallbackDataEqual("listing"))
	handler.Handle(b.on("callback", b.cbListing), th.CallbackDataEqual("refresh_all"))
	handler.Handle(b.on("callback", b.cbFilterMenu), th.CallbackDataEqual("filter_menu"))
	handler.Handle(b.on("callback", b.cbBrandListing), th.CallbackDataPrefix("brand|"))
	handler.Handle(b.on("callback", b.cbBrandListing), th.CallbackDataPrefix("refresh_brand|"))
	handler.Handle(b.on("callback", b.cbBINMenu), th.CallbackDataEqual("bin_menu"))
	handler.Handle(b.on("callback", b.cbRefreshBIN), th.CallbackDataPrefix("refresh_bin|"))
	handler.Handle(b.on("callback", b.cbBuy), th.CallbackDataPrefix("buy|"))
	handler.Handle(b.on("callback", b.cbReferral), th.CallbackDataEqual("referral"))
	handler.Handle(b.on("callback", b.cbProfile), th.CallbackDataEqual("profile"))
	handler.Handle(b.on("callback", b.cbMyOrders), th.CallbackDataEqual("my_orders"))
	handler.Handle(b.on("callback", b.cbMissingLink), th.CallbackDataEqual("no_updates"))
	handler.Handle(b.on("callback", b.cbMissingLink), th.CallbackDataEqual("no_support"))

	// Admin callbacks.
	handler.Handle(b.on("callback", b.cbAdminPanel), th.CallbackDataEqual("admin_panel"))
	handler.Handle(b.on("callback", b.cbAdminDeposits), th.CallbackDataEqual("admin_deposits"))
	handler.Handle(b.on("callback", b.cbDecideDeposit), th.CallbackDataPrefix("approve_deposit|"))
	handler.Handle(b.on("callback", b.cbDecideDeposit), th.CallbackDataPrefix("reject_deposit|"))
	handler.Handle(b.on("callback", b.cbAdminUpload), th.CallbackDataEqual("admin_upload"))
	handler.Handle(b.on("callback", b.cbAdminStock), th.CallbackDataEqual("admin_stock"))
	handler.Handle(b.on("callback", b.cbDeleteCard), th.CallbackDataPrefix("delete_card|"))
	handler.Handle(b.on("callback", b.cbMarkSold), th.CallbackDataPrefix("mark_sold|"))
	handler.Handle(b.on("callback", b.cbViewCard), th.CallbackDataPrefix("view_card|"))
	handler.Handle(b.on("callback", b.cbAdminUsers), th.CallbackDataEqual("admin_users"))
	handler.Handle(b.on("callback", b.cbAdjustBalance), th.CallbackDataPrefix("addbal|"))

	// Free text resumes whatever flow the user is in. Registered last so
	// commands and callbacks win.
	handler.Handle(b.on("text", b.handleFreeText), th.AnyMessageWithText())

	logrus.WithField("username", b.username).Info("Bot started")
	handler.Start()
	return nil
}

type handlerFunc = func(ctx *th.Context, update telego.Update) error

// on wraps a handler with update accounting and fault logging.
func (b *Bot) on(kind string, fn handlerFunc) handlerFunc {
	return func(ctx *th.Context, update telego.Update) error {
		metrics.UpdatesTotal.WithLabelValues(kind).Inc()
		if err := fn(ctx, update); err != nil {
			metrics.HandlerFaults.Inc()
			logrus.WithError(err).WithField("kind", kind).Error("Handler failed")
		}
		return nil
	}
}

func (b *Bot) send(ctx *th.Context, chatID int64, text string) {
	_, err := ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML))
	if err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Warn("Send failed")
	}
}

func (b *Bot) sendKB(ctx *th.Context, chatID int64, text string, kb *telego.InlineKeyboardMarkup) {
	_, err := ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(chatID), text).
		WithParseMode(telego.ModeHTML).
		WithReplyMarkup(kb))
	if err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Warn("Send failed")
	}
}

func (b *Bot) ack(ctx *th.Context, queryID string) {
	_ = ctx.Bot().AnswerCallbackQuery(ctx.Context(), tu.CallbackQuery(queryID))
}

func (b *Bot) toast(ctx *th.Context, queryID, text string) {
	_ = ctx.Bot().AnswerCallbackQuery(ctx.Context(), &telego.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
	})
}

func (b *Bot) alert(ctx *th.Context, queryID, text string) {
	_ = ctx.Bot().AnswerCallbackQuery(ctx.Context(), &telego.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
		ShowAlert:       true,
	})
}
