package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/velvetrock/gitscout/internal/config"
	"github.com/velvetrock/gitscout/internal/logging"
)

// TelegramBot is the subset of the bot API the notifier needs, extracted
// so tests can substitute a fake.
type TelegramBot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier delivers notifications to a Telegram chat. Delivery runs
// in its own goroutine; a failed send is logged and dropped.
type TelegramNotifier struct {
	bot    TelegramBot
	chatID int64
}

// NewTelegramNotifier creates a notifier from configuration.
func NewTelegramNotifier(cfg config.TelegramConfig) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}

	logging.Info("telegram notifier ready",
		"chat_id", cfg.ChatID,
		"token", logging.MaskSensitive(cfg.BotToken))

	return &TelegramNotifier{bot: bot, chatID: cfg.ChatID}, nil
}

// NewTelegramNotifierWithBot wires an existing bot, for tests.
func NewTelegramNotifierWithBot(bot TelegramBot, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

func (t *TelegramNotifier) Notify(title string, description ...string) {
	text := title
	if len(description) > 0 && description[0] != "" {
		text = title + "\n" + description[0]
	}

	go func() {
		if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
			logging.Warn("failed to deliver telegram notification", "error", err)
		}
	}()
}
