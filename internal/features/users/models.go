// Package users управляет профилями пользователей.
// models.go описывает структуру данных профиля.
//
// Аутентификацию делает внешний identity-провайдер: профиль
// создаётся автоматически при первом запросе с валидным токеном
// (привязка по subject).
package users

import (
	"context"
	"time"
)

// User представляет профиль пользователя в базе данных.
type User struct {
	ID             int64     `db:"id"`               // Автоинкрементный ID записи
	Subject        string    `db:"subject"`          // Subject из токена identity-провайдера (уникальный)
	Email          string    `db:"email"`            // Email из claims
	DisplayName    string    `db:"display_name"`     // Отображаемое имя
	Timezone       string    `db:"timezone"`         // Часовой пояс пользователя (IANA)
	NotifyChannel  string    `db:"notify_channel"`   // Канал напоминаний: email / telegram / none
	TelegramChatID *int64    `db:"telegram_chat_id"` // Chat ID для Telegram-напоминаний (может быть nil)
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Допустимые каналы напоминаний
const (
	NotifyEmail    = "email"
	NotifyTelegram = "telegram"
	NotifyNone     = "none"
)

// UpdateProfile содержит изменяемые поля профиля.
// nil-поле означает «не менять».
type UpdateProfile struct {
	DisplayName    *string
	Timezone       *string
	NotifyChannel  *string
	TelegramChatID *int64
}

// Ключ контекста для текущего пользователя.
type ctxKey struct{}

// WithUser кладёт профиль текущего пользователя в контекст запроса.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext достаёт профиль текущего пользователя из контекста.
func FromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*User)
	return u, ok
}
