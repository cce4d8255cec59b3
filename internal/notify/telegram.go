// Package notify — telegram.go оборачивает Telegram Bot API
// как канал доставки уведомлений.
package notify

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
)

// TelegramClient отправляет сообщения через Telegram Bot API.
type TelegramClient struct {
	bot *telego.Bot
}

// NewTelegramClient создаёт клиент Telegram.
func NewTelegramClient(token string) (*TelegramClient, error) {
	bot, err := telego.NewBot(token, telego.WithDiscardLogger())
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram-бота: %w", err)
	}
	return &TelegramClient{bot: bot}, nil
}

// SendMessage отправляет текстовое сообщение в чат.
func (c *TelegramClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("ошибка отправки сообщения в Telegram: %w", err)
	}
	return nil
}
