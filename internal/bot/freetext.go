package bot

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	"github.com/sirupsen/logrus"

	"giftmarket-bot/internal/models"
	"giftmarket-bot/internal/money"
	"giftmarket-bot/internal/session"
)

// handleFreeText resumes whichever flow prompted the user last. The
// continuation is popped before dispatch, so a flow that wants another reply
// must re-arm it explicitly. Text with no pending continuation is ignored.
func (b *Bot) handleFreeText(ctx *th.Context, update telego.Update) error {
	message := update.Message
	uid := message.From.ID

	cont, ok, err := b.sessions.Pop(ctx.Context(), uid)
	if err != nil {
		return fmt.Errorf("load continuation for %d: %w", uid, err)
	}
	if !ok {
		return nil
	}

	switch cont.Kind {
	case session.KindDepositEvidence:
		return b.resumeDepositEvidence(ctx, message, cont)
	case session.KindUploadLine:
		return b.resumeUpload(ctx, message)
	case session.KindUserLookup:
		return b.resumeUserLookup(ctx, message)
	case session.KindBINQuery:
		query := strings.TrimSpace(message.Text)
		return b.replyBINResults(ctx, message.Chat.ID, query,
			fmt.Sprintf("🔎 Cards matching BIN %s:", query))
	default:
		logrus.WithFields(logrus.Fields{"user_id": uid, "kind": cont.Kind}).Warn("Unknown continuation")
		return nil
	}
}

// resumeDepositEvidence reads "TXID AMOUNT", stores it on the pending deposit
// and prompts the admin to decide. Malformed replies re-arm the continuation
// so the user can correct the message.
func (b *Bot) resumeDepositEvidence(ctx *th.Context, message *telego.Message, cont session.Continuation) error {
	uid := message.From.ID

	txid, amount, ok := parseEvidence(message.Text)
	if !ok {
		if err := b.sessions.Put(ctx.Context(), uid, cont); err != nil {
			return fmt.Errorf("re-arm evidence prompt for %d: %w", uid, err)
		}
		b.send(ctx, uid, "⚠️ Please send in format: `TXID AMOUNT` (e.g. TX123abc 0.5). Try again.")
		return nil
	}

	dep, err := b.deposits.SubmitEvidence(ctx.Context(), cont.DepositID, txid, amount)
	switch {
	case errors.Is(err, models.ErrInvalidAmount):
		if err := b.sessions.Put(ctx.Context(), uid, cont); err != nil {
			return fmt.Errorf("re-arm evidence prompt for %d: %w", uid, err)
		}
		b.send(ctx, uid, "⚠️ Invalid amount. Please send numeric amount. Try again.")
		return nil
	case errors.Is(err, models.ErrNotFound):
		b.send(ctx, uid, "⚠️ Deposit not found.")
		return nil
	case errors.Is(err, models.ErrAlreadyHandled):
		b.send(ctx, uid, "⚠️ Deposit already handled.")
		return nil
	case err != nil:
		return fmt.Errorf("submit evidence for deposit %d: %w", cont.DepositID, err)
	}

	// The decision prompt goes straight to the admin chat so the
	// approve/reject buttons are attached; the notify queue only carries
	// plain text.
	if b.cfg.AdminID != 0 {
		b.sendKB(ctx, b.cfg.AdminID, depositRequestText(dep), decisionKB(dep.ID))
	}
	b.send(ctx, uid, "✅ Deposit submitted. Staff will review and approve or reject it shortly.")
	return nil
}

func depositRequestText(dep *models.Deposit) string {
	return fmt.Sprintf(
		"💵 <b>Deposit Request</b>\n\n"+
			"👤 User: <a href='tg://user?id=%d'>User</a>\n"+
			"🆔 ID: <code>%d</code>\n"+
			"Coin: <b>%s</b>\n"+
			"Amount: <b>%s</b>\n"+
			"TXID: <code>%s</code>\n\nChoose an action:",
		dep.UserID, dep.UserID, dep.Coin, money.Format(dep.Amount), html.EscapeString(dep.TxID))
}

// resumeUpload reads the guided "Brand,Value,Price,Code" line.
func (b *Bot) resumeUpload(ctx *th.Context, message *telego.Message) error {
	uid := message.From.ID
	if !b.guard.IsAdmin(uid) {
		return nil
	}

	brand, value, price, code, ok := parseUploadLine(message.Text)
	if !ok {
		b.send(ctx, uid, "⚠️ Bad format. Use: Brand,Value,Price,Code")
		return nil
	}

	card, err := b.inventory.Upload(ctx.Context(), uid, brand, value, price, code)
	if errors.Is(err, models.ErrInvalidFormat) {
		b.send(ctx, uid, "⚠️ Bad format. Use: Brand,Value,Price,Code")
		return nil
	}
	if err != nil {
		return fmt.Errorf("upload card: %w", err)
	}
	b.send(ctx, uid, fmt.Sprintf("✅ Uploaded card ID %d", card.ID))
	return nil
}

// resumeUserLookup reads a user id and shows the balance with ± buttons.
func (b *Bot) resumeUserLookup(ctx *th.Context, message *telego.Message) error {
	adminID := message.From.ID
	if !b.guard.IsAdmin(adminID) {
		return nil
	}

	userID, err := strconv.ParseInt(strings.TrimSpace(message.Text), 10, 64)
	if err != nil {
		b.send(ctx, adminID, "Invalid user id.")
		return nil
	}

	user, err := b.balances.Lookup(ctx.Context(), adminID, userID)
	if errors.Is(err, models.ErrNotFound) {
		b.send(ctx, adminID, "User not found.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup user %d: %w", userID, err)
	}

	b.sendKB(ctx, adminID, fmt.Sprintf("User %d balance: %s", userID, money.FormatUSD(user.Balance)),
		adjustBalanceKB(userID))
	return nil
}
