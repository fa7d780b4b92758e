package bot

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"giftmarket-bot/internal/models"
	"giftmarket-bot/internal/money"
	"giftmarket-bot/internal/session"
)

// stockListLimit caps the manage-stock view, newest cards first.
const stockListLimit = 40

// recentDepositsLimit caps /list_deposits output.
const recentDepositsLimit = 50

// requireAdmin answers unauthorized callers with an alert and reports whether
// the handler may proceed.
func (b *Bot) requireAdmin(ctx *th.Context, cb *telego.CallbackQuery) bool {
	if b.guard.IsAdmin(cb.From.ID) {
		return true
	}
	b.alert(ctx, cb.ID, "You are not authorized.")
	return false
}

func (b *Bot) cbAdminPanel(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	if !b.requireAdmin(ctx, cb) {
		return nil
	}
	b.sendKB(ctx, cb.From.ID, "👮 Admin Panel:", adminPanelKB())
	b.ack(ctx, cb.ID)
	return nil
}

func (b *Bot) cbAdminDeposits(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	if !b.requireAdmin(ctx, cb) {
		return nil
	}

	pending, err := b.deposits.ListPending(ctx.Context(), cb.From.ID)
	if err != nil {
		b.ack(ctx, cb.ID)
		return fmt.Errorf("list pending deposits: %w", err)
	}
	if len(pending) == 0 {
		b.send(ctx, cb.From.ID, "No pending deposits.")
		b.ack(ctx, cb.ID)
		return nil
	}

	for _, dep := range pending {
		text := fmt.Sprintf("#%d | user:%d | %s %s\nTXID: %s\nCreated: %s",
			dep.ID, dep.UserID, dep.Coin, money.Format(dep.Amount),
			html.EscapeString(dep.TxID), dep.CreatedAt.Format("2006-01-02 15:04"))
		b.sendKB(ctx, cb.From.ID, text, decisionKB(dep.ID))
	}
	b.ack(ctx, cb.ID)
	return nil
}

// cbDecideDeposit serves both "approve_deposit|N" and "reject_deposit|N".
func (b *Bot) cbDecideDeposit(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	if !b.requireAdmin(ctx, cb) {
		return nil
	}

	depositID, ok := parseID(cb.Data)
	if !ok {
		b.send(ctx, cb.From.ID, "⚠️ Bad deposit id.")
		b.ack(ctx, cb.ID)
		return nil
	}

	approve := strings.HasPrefix(cb.Data, "approve_deposit|")
	var err error
	if approve {
		_, err = b.deposits.Approve(ctx.Context(), depositID, cb.From.ID)
	} else {
		_, err = b.deposits.Reject(ctx.Context(), depositID, cb.From.ID)
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		b.send(ctx, cb.From.ID, "⚠️ Deposit not found.")
	case errors.Is(err, models.ErrAlreadyHandled):
		b.send(ctx, cb.From.ID, "⚠️ Deposit already handled.")
	case err != nil:
		b.ack(ctx, cb.ID)
		return fmt.Errorf("decide deposit %d: %w", depositID, err)
	case approve:
		b.send(ctx, cb.From.ID, fmt.Sprintf("👍 Deposit #%d approved.", depositID))
	default:
		b.send(ctx, cb.From.ID, fmt.Sprintf("⚠️ Deposit #%d rejected.", depositID))
	}
	b.ack(ctx, cb.ID)
	return nil
}

// cbAdminUpload arms the guided upload continuation.
func (b *Bot) cbAdminUpload(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	if !b.requireAdmin(ctx, cb) {
		return nil
	}
	if err := b.sessions.Put(ctx.Context(), cb.From.ID, session.Continuation{Kind: session.KindUploadLine}); err != nil {
		b.ack(ctx, cb.ID)
		return fmt.Errorf("arm upload prompt: %w", err)
	}
	b.send(ctx, cb.From.ID, "✍️ Enter card details on one line:\nFormat: Brand,Value,Price,Code")
	b.ack(ctx, cb.ID)
	return nil
}

func (b *Bot) handleUploadCommand(ctx *th.Context, update telego.Update) error {
	message := update.Message
	uid := message.From.ID
	if !b.guard.IsAdmin(uid) {
		return nil
	}

	brand, value, price, code, ok := parseUploadCommand(message.Text)
	if !ok {
		b.send(ctx, uid, "⚠️ Usage: /upload &lt;brand&gt; &lt;value&gt; &lt;price&gt; &lt;code&gt;")
		return nil
	}

	card, err := b.inventory.Upload(ctx.Context(), uid, brand, value, price, code)
	if errors.Is(err, models.ErrInvalidFormat) {
		b.send(ctx, uid, "⚠️ Usage: /upload &lt;brand&gt; &lt;value&gt; &lt;price&gt; &lt;code&gt;")
		return nil
	}
	if err != nil {
		return fmt.Errorf("upload card: %w", err)
	}
	b.send(ctx, uid, fmt.Sprintf("✅ Uploaded card ID %d", card.ID))
	return nil
}

func (b *Bot) cbAdminStock(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	if !b.requireAdmin(ctx, cb) {
		return nil
	}

	cards, err := b.inventory.Stock(ctx.Context(), cb.From.ID, stockListLimit)
	if err != nil {
		b.ack(ctx, cb.ID)
		return fmt.Errorf("list stock: %w", err)
	}
	if len(cards) == 0 {
		b.send(ctx, cb.From.ID, "No cards in stock.")
		b.ack(ctx, cb.ID)
		return nil
	}

	for _, card := range cards {
		bin := "N/A"
		if card.BIN != nil {
			bin = *card.BIN
		}
		text := fmt.Sprintf("ID:%d | %s | %s | %s | BIN:%s | %s",
			card.ID, card.Brand, money.FormatUSD(card.Value), money.FormatUSD(card.Price), bin, card.Status)
		b.sendKB(ctx, cb.From.ID, text, stockActionsKB(card.ID))
	}
	b.ack(ctx, cb.ID)
	return nil
}

func (b *Bot) cbDeleteCard(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	if !b.requireAdmin(ctx, cb) {
		return nil
	}
	cardID, ok := parseID(cb.Data)
	if !ok {
		b.send(ctx, cb.From.ID, "⚠️ Bad card ID.")
		b.ack(ctx, cb.ID)
		return nil
	}

	err := b.inventory.Delete(ctx.Context(), cb.From.ID, cardID)
	switch {
	case errors.Is(err, models.ErrNotFound):
		b.send(ctx, cb.From.ID, "Card not found.")
		b.ack(ctx, cb.ID)
	case errors.Is(err, models.ErrNotAvailable):
		b.send(ctx, cb.From.ID, fmt.Sprintf("⚠️ Card %d was already sold and cannot be deleted.", cardID))
		b.ack(ctx, cb.ID)
	case err != nil:
		b.ack(ctx, cb.ID)
		return fmt.Errorf("delete card %d: %w", cardID, err)
	default:
		b.toast(ctx, cb.ID, fmt.Sprintf("Deleted card %d", cardID))
		b.send(ctx, cb.From.ID, fmt.Sprintf("🗑 Card %d deleted.", cardID))
	}
	return nil
}

func (b *Bot) cbMarkSold(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	if !b.requireAdmin(ctx, cb) {
		return nil
	}
	cardID, ok := parseID(cb.Data)
	if !ok {
		b.send(ctx, cb.From.ID, "⚠️ Bad card ID.")
		b.ack(ctx, cb.ID)
		return nil
	}

	err := b.inventory.MarkSold(ctx.Context(), cb.From.ID, cardID)
	switch {
	case errors.Is(err, models.ErrNotFound):
		b.send(ctx, cb.From.ID, "Card not found.")
		b.ack(ctx, cb.ID)
	case errors.Is(err, models.ErrNotAvailable):
		b.send(ctx, cb.From.ID, fmt.Sprintf("⚠️ Card %d is already sold.", cardID))
		b.ack(ctx, cb.ID)
	case err != nil:
		b.ack(ctx, cb.ID)
		return fmt.Errorf("mark card %d sold: %w", cardID, err)
	default:
		b.toast(ctx, cb.ID, fmt.Sprintf("Marked %d sold", cardID))
		b.send(ctx, cb.From.ID, fmt.Sprintf("✅ Card %d marked sold.", cardID))
	}
	return nil
}

// cbViewCard shows the full card, code included. Admin eyes only.
func (b *Bot) cbViewCard(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	if !b.requireAdmin(ctx, cb) {
		return nil
	}
	cardID, ok := parseID(cb.Data)
	if !ok {
		b.send(ctx, cb.From.ID, "⚠️ Bad card ID.")
		b.ack(ctx, cb.ID)
		return nil
	}

	card, err := b.inventory.View(ctx.Context(), cb.From.ID, cardID)
	if errors.Is(err, models.ErrNotFound) {
		b.send(ctx, cb.From.ID, "Card not found.")
		b.ack(ctx, cb.ID)
		return nil
	}
	if err != nil {
		b.ack(ctx, cb.ID)
		return fmt.Errorf("view card %d: %w", cardID, err)
	}

	bin := "N/A"
	if card.BIN != nil {
		bin = *card.BIN
	}
	b.send(ctx, cb.From.ID, fmt.Sprintf(
		"ID:%d\nBrand:%s\nValue:%s\nPrice:%s\nBIN:%s\nStatus:%s\nCode:<code>%s</code>\nCreated:%s",
		card.ID, card.Brand, money.Format(card.Value), money.Format(card.Price),
		bin, card.Status, html.EscapeString(card.Code), card.CreatedAt.Format("2006-01-02 15:04")))
	b.ack(ctx, cb.ID)
	return nil
}

// cbAdminUsers arms the user lookup continuation.
func (b *Bot) cbAdminUsers(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	if !b.requireAdmin(ctx, cb) {
		return nil
	}
	if err := b.sessions.Put(ctx.Context(), cb.From.ID, session.Continuation{Kind: session.KindUserLookup}); err != nil {
		b.ack(ctx, cb.ID)
		return fmt.Errorf("arm user lookup prompt: %w", err)
	}
	b.send(ctx, cb.From.ID, "Enter user ID to check:")
	b.ack(ctx, cb.ID)
	return nil
}

// cbAdjustBalance serves the ± buttons under a user lookup result.
func (b *Bot) cbAdjustBalance(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	if !b.requireAdmin(ctx, cb) {
		return nil
	}

	userID, amountStr, ok := parseAdjust(cb.Data)
	if !ok {
		b.toast(ctx, cb.ID, "Bad data")
		return nil
	}
	amount, err := money.Parse(amountStr)
	if err != nil {
		b.toast(ctx, cb.ID, "Bad data")
		return nil
	}

	err = b.balances.Adjust(ctx.Context(), cb.From.ID, userID, amount)
	switch {
	case errors.Is(err, models.ErrInsufficientBalance):
		b.alert(ctx, cb.ID, "⚠️ Balance too low for that adjustment.")
		return nil
	case err != nil:
		b.ack(ctx, cb.ID)
		return fmt.Errorf("adjust balance of %d: %w", userID, err)
	}

	b.toast(ctx, cb.ID, fmt.Sprintf("Adjusted %d by %s", userID, money.FormatUSDSigned(amount)))
	b.send(ctx, cb.From.ID, fmt.Sprintf("✅ Updated balance for %d by %s", userID, money.FormatUSDSigned(amount)))
	return nil
}

func (b *Bot) handleListDeposits(ctx *th.Context, update telego.Update) error {
	message := update.Message
	uid := message.From.ID
	if !b.guard.IsAdmin(uid) {
		return nil
	}

	deposits, err := b.deposits.ListRecent(ctx.Context(), uid, recentDepositsLimit)
	if err != nil {
		return fmt.Errorf("list recent deposits: %w", err)
	}
	if len(deposits) == 0 {
		b.send(ctx, uid, "No deposits found.")
		return nil
	}

	lines := []string{"Recent deposits:\n"}
	for _, dep := range deposits {
		lines = append(lines, fmt.Sprintf("#%d | user:%d | %s %s | %s | %s",
			dep.ID, dep.UserID, dep.Coin, money.Format(dep.Amount),
			dep.Status, dep.CreatedAt.Format("2006-01-02 15:04")))
	}
	b.send(ctx, uid, strings.Join(lines, "\n"))
	return nil
}
