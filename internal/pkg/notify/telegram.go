// Package notify sends a short run summary to a Telegram chat when a bot
// token is configured. A failed send never fails the run.
package notify

import (
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/worldcup26/hospitality/internal/pkg/models"
	"github.com/worldcup26/hospitality/internal/pkg/pipeline"
)

// TelegramNotifier posts run summaries to a single chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates the notifier, verifying the token against the
// Bot API. Returns nil when the bot cannot be reached; callers treat a nil
// notifier as disabled.
func NewTelegramNotifier(token string, chatID int64) *TelegramNotifier {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("Failed to create telegram bot", "error", err)
		return nil
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		slog.Error("Failed to get bot info", "error", err)
		return nil
	}

	slog.Info("Telegram notifier initialized", "chat_id", chatID)
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

// SendRunSummary posts one message describing the finished run.
func (n *TelegramNotifier) SendRunSummary(set *pipeline.ResultSet) {
	if n == nil {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hospitality pricing run %s\n", set.ScrapedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "Records: %d (base %s", len(set.Records), set.Rates.Base)
	if set.Rates.Fallback {
		b.WriteString(", fallback rates")
	}
	b.WriteString(")\n")

	for _, st := range set.Stats {
		fmt.Fprintf(&b, "%s: %d matches, %d priced", st.Portal, st.MatchesListed, st.MatchesPriced)
		if st.OfferFetchFailures > 0 {
			fmt.Fprintf(&b, ", %d offer fetches failed", st.OfferFetchFailures)
		}
		b.WriteByte('\n')
	}

	if cheapest, ok := cheapestRecord(set); ok {
		fmt.Fprintf(&b, "Cheapest: match %d %s vs %s — %s %d (%s, %s)",
			cheapest.MatchNumber, cheapest.HostTeam, cheapest.OpposingTeam,
			set.Rates.Base, cheapest.BasePrice, cheapest.LoungeTitle, cheapest.Portal)
	}

	msg := tgbotapi.NewMessage(n.chatID, b.String())
	if _, err := n.bot.Send(msg); err != nil {
		slog.Warn("Failed to send telegram summary", "error", err)
	}
}

func cheapestRecord(set *pipeline.ResultSet) (models.Record, bool) {
	var best models.Record
	found := false
	for _, r := range set.Records {
		if !found || r.BasePrice < best.BasePrice {
			best = r
			found = true
		}
	}
	return best, found
}
