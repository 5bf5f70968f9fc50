package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/pkg/logger"
)

// Notifier delivers rendered reports to a Telegram chat
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// Telegram caps messages at 4096 characters
const maxMessageLength = 4000

// NewNotifier creates new Telegram notifier
func NewNotifier(botToken string, chatID int64) (*Notifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	bot.Debug = false

	logger.Info("telegram notifier initialized",
		zap.String("bot_username", bot.Self.UserName),
	)

	return &Notifier{
		api:    bot,
		chatID: chatID,
	}, nil
}

// SendReport sends the rendered report body, chunked to fit message limits
func (n *Notifier) SendReport(body string) error {
	for _, chunk := range splitMessage(body, maxMessageLength) {
		msg := tgbotapi.NewMessage(n.chatID, chunk)
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.DisableWebPagePreview = true

		if _, err := n.api.Send(msg); err != nil {
			return fmt.Errorf("failed to send report chunk: %w", err)
		}
	}

	return nil
}

// splitMessage splits text on line boundaries into chunks of at most limit runes
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	current := ""

	for _, line := range strings.Split(text, "\n") {
		if len(current)+len(line)+1 > limit && current != "" {
			chunks = append(chunks, current)
			current = ""
		}
		if current != "" {
			current += "\n"
		}
		current += line
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}
