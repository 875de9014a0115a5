package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Krepchik11/geohod/internal/domain"
)

// BotNotifier delivers notifications to the launch user's chat through the
// bot API, the headless counterpart of the host popup.
type BotNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *slog.Logger
}

// NewBotNotifier connects to the bot API. chatID is the launch user's id.
func NewBotNotifier(botToken string, chatID int64, logger *slog.Logger) (*BotNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("connect bot api: %w", err)
	}
	bot.Debug = false
	return &BotNotifier{bot: bot, chatID: chatID, logger: logger}, nil
}

func (n *BotNotifier) Show(ctx context.Context, note domain.Notification) error {
	msg := tgbotapi.NewMessage(n.chatID, note.Title+"\n"+note.Message)
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error("notification send failed", "type", note.Type, "error", err)
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

// LogNotifier writes notifications to the log, the fallback when no bot
// token or chat is available.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Show(ctx context.Context, note domain.Notification) error {
	n.Logger.Info("notification", "type", note.Type, "title", note.Title, "message", note.Message)
	return nil
}

// NoopHaptic satisfies domain.Haptic where no haptic-capable host exists.
type NoopHaptic struct{}

func (NoopHaptic) NotificationOccurred(string) {}
