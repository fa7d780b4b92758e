package bot

import (
	"fmt"
	"html"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"giftmarket-bot/internal/models"
	"giftmarket-bot/internal/money"
)

func welcomeText(firstName string) string {
	return fmt.Sprintf(
		"⚡ Welcome %s to <b>YVL WORLD</b>! ⚡\n\n"+
			"One Stop Shop For All Prepaids\n\n"+
			"🌟 Earn $2 for each friend you refer!\n"+
			"Use /ref to get your referral link",
		html.EscapeString(firstName))
}

// mainMenu lays out the storefront: deposit and listing rows, the
// referral/channel/support row, profile and orders, plus the admin row for
// the store owner. Channel and support buttons link out when configured and
// degrade to an alert otherwise.
func (b *Bot) mainMenu(isAdmin bool) *telego.InlineKeyboardMarkup {
	rows := [][]telego.InlineKeyboardButton{
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("💰 Deposit").WithCallbackData("menu_deposit")),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("🛒 Listing").WithCallbackData("listing")),
	}

	third := []telego.InlineKeyboardButton{
		tu.InlineKeyboardButton("🎉 Referral Program").WithCallbackData("referral"),
	}
	if b.cfg.UpdatesChannel != "" {
		third = append(third, tu.InlineKeyboardButton("📢 Stock Updates").WithURL(b.cfg.UpdatesChannel))
	} else {
		third = append(third, tu.InlineKeyboardButton("📢 Stock Updates").WithCallbackData("no_updates"))
	}
	if b.cfg.SupportChat != "" {
		third = append(third, tu.InlineKeyboardButton("🆘 Support").WithURL(b.cfg.SupportChat))
	} else {
		third = append(third, tu.InlineKeyboardButton("🆘 Support").WithCallbackData("no_support"))
	}
	rows = append(rows, third)

	rows = append(rows, tu.InlineKeyboardRow(
		tu.InlineKeyboardButton("👤 Profile").WithCallbackData("profile"),
		tu.InlineKeyboardButton("📦 My Orders").WithCallbackData("my_orders"),
	))

	if isAdmin {
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("👮 Admin Panel").WithCallbackData("admin_panel"),
		))
	}
	return tu.InlineKeyboard(rows...)
}

func backButton() telego.InlineKeyboardButton {
	return tu.InlineKeyboardButton("🔙 Back").WithCallbackData("back_to_menu")
}

func backMenu() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(tu.InlineKeyboardRow(backButton()))
}

func coinMenu(coins []string) *telego.InlineKeyboardMarkup {
	rows := make([][]telego.InlineKeyboardButton, 0, len(coins)+1)
	for _, coin := range coins {
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(coin).WithCallbackData("deposit|"+coin)))
	}
	rows = append(rows, tu.InlineKeyboardRow(backButton()))
	return tu.InlineKeyboard(rows...)
}

func depositActionsKB(depositID uint, coin string) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(tu.InlineKeyboardRow(
		tu.InlineKeyboardButton("✅ I Paid").WithCallbackData(fmt.Sprintf("paid|%d|%s", depositID, coin)),
		tu.InlineKeyboardButton("✖ Cancel").WithCallbackData("deposit_cancel"),
	))
}

// decisionKB carries the approve/reject pair shown under every pending
// deposit the admin sees.
func decisionKB(depositID uint) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(tu.InlineKeyboardRow(
		tu.InlineKeyboardButton("✅ Approve").WithCallbackData(fmt.Sprintf("approve_deposit|%d", depositID)),
		tu.InlineKeyboardButton("❌ Reject").WithCallbackData(fmt.Sprintf("reject_deposit|%d", depositID)),
	))
}

func adminPanelKB() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("📥 View Deposits").WithCallbackData("admin_deposits"),
			tu.InlineKeyboardButton("➕ Upload Card").WithCallbackData("admin_upload"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("🗂 Manage Stock").WithCallbackData("admin_stock"),
			tu.InlineKeyboardButton("👥 Users").WithCallbackData("admin_users"),
		),
	)
}

func stockActionsKB(cardID uint) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(tu.InlineKeyboardRow(
		tu.InlineKeyboardButton("❌ Delete").WithCallbackData(fmt.Sprintf("delete_card|%d", cardID)),
		tu.InlineKeyboardButton("Mark Sold").WithCallbackData(fmt.Sprintf("mark_sold|%d", cardID)),
		tu.InlineKeyboardButton("View").WithCallbackData(fmt.Sprintf("view_card|%d", cardID)),
	))
}

func adjustBalanceKB(userID int64) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(tu.InlineKeyboardRow(
		tu.InlineKeyboardButton("➕ Add $10").WithCallbackData(fmt.Sprintf("addbal|%d|10", userID)),
		tu.InlineKeyboardButton("➖ Remove $10").WithCallbackData(fmt.Sprintf("addbal|%d|-10", userID)),
	))
}

// cardLine renders one listing row. Brand-filtered views drop the brand from
// each line since the header already names it.
func cardLine(card models.GiftCard, withBrand bool) string {
	bin := "N/A"
	if card.BIN != nil {
		bin = *card.BIN
	}
	if withBrand {
		return fmt.Sprintf("ID: %d | %s | Value: %s | Price: %s | BIN: %s",
			card.ID, card.Brand, money.FormatUSD(card.Value), money.FormatUSD(card.Price), bin)
	}
	return fmt.Sprintf("ID: %d | Value: %s | Price: %s | BIN: %s",
		card.ID, money.FormatUSD(card.Value), money.FormatUSD(card.Price), bin)
}

func buyButton(card models.GiftCard, withBrand bool) telego.InlineKeyboardButton {
	label := fmt.Sprintf("Buy %s for %s", money.FormatUSD(card.Value), money.FormatUSD(card.Price))
	if withBrand {
		label = fmt.Sprintf("Buy %s %s for %s", card.Brand, money.FormatUSD(card.Value), money.FormatUSD(card.Price))
	}
	return tu.InlineKeyboardButton(label).WithCallbackData(fmt.Sprintf("buy|%d", card.ID))
}
