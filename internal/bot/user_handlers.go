package bot

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"giftmarket-bot/internal/models"
	"giftmarket-bot/internal/money"
	"giftmarket-bot/internal/session"
)

// handleStart registers the user, credits the inviter when the deep link
// names one, and shows the main menu.
func (b *Bot) handleStart(ctx *th.Context, update telego.Update) error {
	message := update.Message
	userID := message.From.ID

	var inviter *int64
	if fields := strings.Fields(message.Text); len(fields) > 1 {
		if id, err := strconv.ParseInt(fields[1], 10, 64); err == nil && id > 0 {
			inviter = &id
		}
	}

	if _, err := b.balances.ApplyReferral(ctx.Context(), userID, inviter); err != nil {
		return fmt.Errorf("register user %d: %w", userID, err)
	}

	b.sendKB(ctx, message.Chat.ID, welcomeText(message.From.FirstName), b.mainMenu(b.guard.IsAdmin(userID)))
	return nil
}

func (b *Bot) cbMainMenu(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	uid := cb.From.ID
	b.sendKB(ctx, uid, welcomeText(cb.From.FirstName), b.mainMenu(b.guard.IsAdmin(uid)))
	b.ack(ctx, cb.ID)
	return nil
}

func (b *Bot) handleRef(ctx *th.Context, update telego.Update) error {
	message := update.Message
	b.send(ctx, message.Chat.ID, fmt.Sprintf(
		"👥 Invite friends and earn $2 each!\n\nYour link:\n%s",
		b.referralLink(message.From.ID)))
	return nil
}

func (b *Bot) cbReferral(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	uid := cb.From.ID
	b.sendKB(ctx, uid, fmt.Sprintf(
		"🎉 <b>Referral Program</b>\n\n"+
			"Invite friends with your link:\n%s\n\n"+
			"Earn $2.00 when they join!",
		b.referralLink(uid)), backMenu())
	b.ack(ctx, cb.ID)
	return nil
}

func (b *Bot) referralLink(userID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", b.username, userID)
}

func (b *Bot) cbProfile(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	uid := cb.From.ID
	balance, err := b.balances.GetBalance(ctx.Context(), uid)
	if err != nil {
		b.ack(ctx, cb.ID)
		return fmt.Errorf("load balance for %d: %w", uid, err)
	}
	b.sendKB(ctx, uid, fmt.Sprintf("👤 <b>Your Profile</b>\n\n💵 Balance: %s", money.FormatUSD(balance)), backMenu())
	b.ack(ctx, cb.ID)
	return nil
}

func (b *Bot) cbMyOrders(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	uid := cb.From.ID
	orders, err := b.inventory.OrderHistory(ctx.Context(), uid, 10)
	if err != nil {
		b.ack(ctx, cb.ID)
		return fmt.Errorf("load orders for %d: %w", uid, err)
	}
	if len(orders) == 0 {
		b.send(ctx, uid, "📭 You have no past orders.")
		b.ack(ctx, cb.ID)
		return nil
	}

	lines := []string{"📦 <b>Your Last 10 Orders</b>\n"}
	for _, order := range orders {
		lines = append(lines, fmt.Sprintf("#%d | %s | Price: %s | %s",
			order.ID, order.Item, money.FormatUSD(order.Price), order.CreatedAt.Format("2006-01-02 15:04")))
	}
	b.sendKB(ctx, uid, strings.Join(lines, "\n"), backMenu())
	b.ack(ctx, cb.ID)
	return nil
}

// cbMissingLink answers the placeholder buttons shown when the stock channel
// or support chat is not configured.
func (b *Bot) cbMissingLink(ctx *th.Context, update telego.Update) error {
	b.alert(ctx, update.CallbackQuery.ID, "This link wasn't configured by admin.")
	return nil
}

func (b *Bot) cbDepositMenu(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	b.sendKB(ctx, cb.From.ID, "💰 Choose a coin to deposit:", coinMenu(b.cfg.Coins))
	b.ack(ctx, cb.ID)
	return nil
}

func (b *Bot) cbDepositCoin(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	uid := cb.From.ID
	coin := strings.TrimPrefix(cb.Data, "deposit|")

	dep, err := b.deposits.Open(ctx.Context(), uid, coin)
	if err != nil {
		b.ack(ctx, cb.ID)
		return fmt.Errorf("open %s deposit for %d: %w", coin, uid, err)
	}

	addr := b.cfg.CoinAddresses[coin]
	if addr == "" {
		addr = "Address not configured"
	}
	b.sendKB(ctx, uid, fmt.Sprintf(
		"Send %s to:\n<code>%s</code>\n\nAfter sending, press <b>I Paid</b> and then send TXID & amount in chat.",
		coin, addr), depositActionsKB(dep.ID, coin))
	b.ack(ctx, cb.ID)
	return nil
}

// cbDepositPaid arms the evidence continuation: the user's next text message
// is read as "TXID AMOUNT" for this deposit.
func (b *Bot) cbDepositPaid(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	uid := cb.From.ID

	depositID, coin, ok := parsePaid(cb.Data)
	if !ok {
		b.send(ctx, uid, "⚠️ Invalid request.")
		b.ack(ctx, cb.ID)
		return nil
	}

	err := b.sessions.Put(ctx.Context(), uid, session.Continuation{
		Kind:      session.KindDepositEvidence,
		DepositID: depositID,
		Coin:      coin,
	})
	if err != nil {
		b.ack(ctx, cb.ID)
		return fmt.Errorf("arm evidence prompt for %d: %w", uid, err)
	}

	b.send(ctx, uid, fmt.Sprintf("✅ Please send your TXID & amount for %s deposit (format: TXID AMOUNT):", coin))
	b.ack(ctx, cb.ID)
	return nil
}

func (b *Bot) cbDepositCancel(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	uid := cb.From.ID
	err := b.sessions.Clear(ctx.Context(), uid)
	b.send(ctx, uid, "❌ Deposit cancelled.")
	b.ack(ctx, cb.ID)
	if err != nil {
		return fmt.Errorf("clear continuation for %d: %w", uid, err)
	}
	return nil
}

func (b *Bot) cbListing(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	uid := cb.From.ID

	cards, err := b.catalog.ListAvailable(ctx.Context())
	if err != nil {
		b.ack(ctx, cb.ID)
		return fmt.Errorf("list available cards: %w", err)
	}
	if len(cards) == 0 {
		b.send(ctx, uid, "📭 No cards in stock.")
		b.ack(ctx, cb.ID)
		return nil
	}

	lines := []string{"🛒 <b>All Available Cards</b>\n"}
	rows := make([][]telego.InlineKeyboardButton, 0, len(cards)+3)
	for _, card := range cards {
		lines = append(lines, cardLine(card, true))
		rows = append(rows, tu.InlineKeyboardRow(buyButton(card, true)))
	}
	rows = append(rows,
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("📂 Filter by Brand").WithCallbackData("filter_menu"),
			tu.InlineKeyboardButton("🔎 Search by BIN").WithCallbackData("bin_menu"),
		),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("🔄 Refresh").WithCallbackData("refresh_all")),
		tu.InlineKeyboardRow(backButton()),
	)

	b.sendKB(ctx, uid, strings.Join(lines, "\n"), tu.InlineKeyboard(rows...))
	b.ack(ctx, cb.ID)
	return nil
}

func (b *Bot) cbFilterMenu(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	uid := cb.From.ID

	brands, err := b.catalog.DistinctBrands(ctx.Context())
	if err != nil {
		b.ack(ctx, cb.ID)
		return fmt.Errorf("list brands: %w", err)
	}
	if len(brands) == 0 {
		b.send(ctx, uid, "📭 No brands in stock.")
		b.ack(ctx, cb.ID)
		return nil
	}

	rows := make([][]telego.InlineKeyboardButton, 0, len(brands)+2)
	for _, brand := range brands {
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(brand).WithCallbackData("brand|"+brand)))
	}
	rows = append(rows,
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("🔄 Refresh all").WithCallbackData("refresh_all")),
		tu.InlineKeyboardRow(backButton()),
	)

	b.sendKB(ctx, uid, "📂 Choose a brand:", tu.InlineKeyboard(rows...))
	b.ack(ctx, cb.ID)
	return nil
}

// cbBrandListing serves both "brand|X" and "refresh_brand|X".
func (b *Bot) cbBrandListing(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	uid := cb.From.ID
	_, brand, _ := strings.Cut(cb.Data, "|")

	cards, err := b.catalog.ListByBrand(ctx.Context(), brand)
	if err != nil {
		b.ack(ctx, cb.ID)
		return fmt.Errorf("list %s cards: %w", brand, err)
	}
	if len(cards) == 0 {
		b.send(ctx, uid, fmt.Sprintf("📭 No %s cards in stock.", brand))
		b.ack(ctx, cb.ID)
		return nil
	}

	lines := []string{fmt.Sprintf("🛒 <b>Available %s Cards</b>\n", brand)}
	rows := make([][]telego.InlineKeyboardButton, 0, len(cards)+2)
	for _, card := range cards {
		lines = append(lines, cardLine(card, false))
		rows = append(rows, tu.InlineKeyboardRow(buyButton(card, false)))
	}
	rows = append(rows,
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("🔄 Refresh").WithCallbackData("refresh_brand|"+brand)),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("⬅ Back to All").WithCallbackData("listing")),
	)

	b.sendKB(ctx, uid, strings.Join(lines, "\n"), tu.InlineKeyboard(rows...))
	b.ack(ctx, cb.ID)
	return nil
}

// cbBINMenu arms the BIN continuation so the next text message is read as a
// search query.
func (b *Bot) cbBINMenu(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	uid := cb.From.ID
	if err := b.sessions.Put(ctx.Context(), uid, session.Continuation{Kind: session.KindBINQuery}); err != nil {
		b.ack(ctx, cb.ID)
		return fmt.Errorf("arm bin prompt for %d: %w", uid, err)
	}
	b.send(ctx, uid, "🔎 Enter the 6-digit BIN to search:")
	b.ack(ctx, cb.ID)
	return nil
}

func (b *Bot) handleBINCommand(ctx *th.Context, update telego.Update) error {
	message := update.Message
	fields := strings.Fields(message.Text)
	if len(fields) < 2 {
		b.send(ctx, message.Chat.ID, "⚠️ Usage: /bin &lt;6-digit BIN&gt;")
		return nil
	}
	return b.replyBINResults(ctx, message.Chat.ID, fields[1],
		fmt.Sprintf("🔎 Cards matching BIN %s:", fields[1]))
}

func (b *Bot) cbRefreshBIN(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	_, bin, _ := strings.Cut(cb.Data, "|")
	err := b.replyBINResults(ctx, cb.From.ID, bin, fmt.Sprintf("🔎 Refreshed BIN %s Results:", bin))
	b.ack(ctx, cb.ID)
	return err
}

// replyBINResults validates and runs a BIN search, rendering the matches with
// buy buttons, or the invalid/empty message.
func (b *Bot) replyBINResults(ctx *th.Context, chatID int64, query, header string) error {
	query = strings.TrimSpace(query)

	cards, err := b.catalog.SearchByBIN(ctx.Context(), query)
	if errors.Is(err, models.ErrInvalidQuery) {
		b.send(ctx, chatID, "⚠️ Please enter a valid 6-digit BIN.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("search bin %q: %w", query, err)
	}
	if len(cards) == 0 {
		b.send(ctx, chatID, fmt.Sprintf("📭 No cards found for BIN <b>%s</b>.", query))
		return nil
	}

	lines := []string{header + "\n"}
	rows := make([][]telego.InlineKeyboardButton, 0, len(cards)+1)
	for _, card := range cards {
		lines = append(lines, cardLine(card, true))
		rows = append(rows, tu.InlineKeyboardRow(buyButton(card, true)))
	}
	rows = append(rows, tu.InlineKeyboardRow(
		tu.InlineKeyboardButton("🔄 Refresh").WithCallbackData("refresh_bin|"+query)))

	b.sendKB(ctx, chatID, strings.Join(lines, "\n"), tu.InlineKeyboard(rows...))
	return nil
}

// cbBuy runs the purchase and delivers the code privately on success.
func (b *Bot) cbBuy(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	uid := cb.From.ID

	cardID, ok := parseID(cb.Data)
	if !ok {
		b.send(ctx, uid, "⚠️ Bad card ID.")
		b.ack(ctx, cb.ID)
		return nil
	}

	card, err := b.inventory.Purchase(ctx.Context(), cardID, uid)
	switch {
	case errors.Is(err, models.ErrNotFound):
		b.send(ctx, uid, "❌ Card not found.")
	case errors.Is(err, models.ErrNotAvailable):
		b.send(ctx, uid, "❌ This card is no longer available.")
	case errors.Is(err, models.ErrInsufficientBalance):
		b.send(ctx, uid, "❌ Insufficient balance. Please deposit more.")
	case err != nil:
		b.ack(ctx, cb.ID)
		return fmt.Errorf("purchase card %d for %d: %w", cardID, uid, err)
	default:
		b.send(ctx, uid, fmt.Sprintf(
			"✅ Purchase successful!\n\n🏷 Brand: %s\n💳 Value: %s\n💵 Price: %s\n\n🔑 Your Code:\n<code>%s</code>",
			card.Brand, money.FormatUSD(card.Value), money.FormatUSD(card.Price), html.EscapeString(card.Code)))
	}
	b.ack(ctx, cb.ID)
	return nil
}
