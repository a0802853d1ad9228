// Package notifier optionally announces the generated digest headline to
// a Telegram channel.
package notifier

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/frank-whw/infohound/internal/model"
)

type Notifier struct {
	bot       *tgbotapi.BotAPI
	channelID int64
	log       *slog.Logger
}

func New(token string, channelID int64, log *slog.Logger) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &Notifier{
		bot:       bot,
		channelID: channelID,
		log:       log,
	}, nil
}

// Post sends the digest headline to the configured channel.
func (n *Notifier) Post(digest model.DailyDigest) error {
	// Bold title with score, why-it-matters, then the link.
	const msgFormat = "*%s*\n\n%s\n\n%s"

	article := digest.Headline

	msg := tgbotapi.NewMessage(n.channelID, fmt.Sprintf(
		msgFormat,
		EscapeForMarkdown(fmt.Sprintf("%s (%.1f/10)", article.Title, article.OverallScore)),
		EscapeForMarkdown(article.Summary.WhyItMatters),
		EscapeForMarkdown(article.URL),
	))
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	n.log.Info("posted headline to telegram", "title", article.Title)
	return nil
}
