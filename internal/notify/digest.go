// Package notify pushes daily waste digests to dining staff over Telegram.
package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dining-waste-tracker/internal/report"
)

// Digest sends report summaries to a staff chat.
type Digest struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewDigest initializes the Telegram client for the staff chat.
func NewDigest(botToken string, chatID int64) (*Digest, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	return &Digest{api: api, chatID: chatID}, nil
}

// SendDaily formats and sends the daily report plus insight cards.
func (d *Digest) SendDaily(rep report.DailyReport, insights []report.Insight) error {
	msg := tgbotapi.NewMessage(d.chatID, FormatDaily(rep, insights))
	if _, err := d.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}
	return nil
}

// FormatDaily renders the digest as plain text.
func FormatDaily(rep report.DailyReport, insights []report.Insight) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Dining waste digest for %s (%s)\n", rep.Date, rep.SchoolID)
	if rep.TotalScans == 0 {
		b.WriteString("No scans recorded.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Scans: %d | Avg waste: %.1f%%\n", rep.TotalScans, rep.AvgWastePct)
	fmt.Fprintf(&b, "Wasted: %.1f lbs ($%.2f, %.1f kg CO2, %.1f gal water)\n",
		rep.Totals.WeightLbs, rep.Totals.CostUSD, rep.Totals.CO2Kg, rep.Totals.WaterGallons)

	if len(rep.ByFood) > 0 {
		b.WriteString("\nTop wasted foods:\n")
		for i, f := range rep.ByFood {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "%d. %s - %.1f%% avg waste across %d servings\n",
				i+1, f.Food, f.AvgWastePct, f.Appearances)
		}
	}

	if len(insights) > 0 {
		b.WriteString("\nInsights:\n")
		for _, card := range insights {
			fmt.Fprintf(&b, "[%s] %s: %s\n", card.Type, card.Title, card.Description)
		}
	}

	return b.String()
}
