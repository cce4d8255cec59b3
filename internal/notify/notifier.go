// Package notify доставляет уведомления пользователям по выбранному
// ими каналу: почта, Telegram или ничего.
package notify

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/habit-api/internal/common"
	"serotonyl.ru/habit-api/internal/events"
	"serotonyl.ru/habit-api/internal/features/users"
)

// Mailer отправляет письма. Реализуется клиентом из internal/mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) (string, error)
}

// TelegramSender отправляет сообщения в Telegram.
type TelegramSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// UserDirectory отдаёт профиль пользователя для выбора канала.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*users.User, error)
}

// Notifier выбирает канал по профилю пользователя и доставляет
// уведомление. Выключенный канал (nil-клиент) — не ошибка:
// уведомление просто пропускается с записью в лог.
type Notifier struct {
	users    UserDirectory
	mailer   Mailer
	telegram TelegramSender
}

// NewNotifier создаёт нотификатор. mailer и telegram могут быть nil,
// если соответствующий канал выключен конфигурацией.
func NewNotifier(userDirectory UserDirectory, mailer Mailer, telegram TelegramSender) *Notifier {
	return &Notifier{users: userDirectory, mailer: mailer, telegram: telegram}
}

// OnAwardGranted — подписчик AwardGranted: поздравление с наградой.
func (n *Notifier) OnAwardGranted(ctx context.Context, e events.AwardGranted) error {
	subject := "Новая награда!"
	text := fmt.Sprintf("Поздравляем! Вы получили награду «%s».", e.BadgeName)
	html := fmt.Sprintf("<p>Поздравляем! Вы получили награду <b>«%s»</b>.</p>", e.BadgeName)
	return n.deliver(ctx, e.UserID, subject, text, html)
}

// StreakReminder напоминает пользователю о серии под угрозой.
func (n *Notifier) StreakReminder(ctx context.Context, userID int64, current int) error {
	subject := "Серия под угрозой!"
	text := fmt.Sprintf(
		"Ваша серия — %d %s. Выполните задачу сегодня, чтобы не потерять её!",
		current, common.PluralizeDays(current),
	)
	html := fmt.Sprintf(
		"<p>Ваша серия — <b>%d %s</b>. Выполните задачу сегодня, чтобы не потерять её!</p>",
		current, common.PluralizeDays(current),
	)
	return n.deliver(ctx, userID, subject, text, html)
}

// deliver выбирает канал по профилю и отправляет уведомление.
func (n *Notifier) deliver(ctx context.Context, userID int64, subject, text, html string) error {
	u, err := n.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ошибка получения профиля для уведомления: %w", err)
	}

	logger := log.WithFields(log.Fields{"user_id": userID, "channel": u.NotifyChannel})

	switch u.NotifyChannel {
	case users.NotifyEmail:
		if n.mailer == nil {
			logger.Debug("Почтовый канал выключен, уведомление пропущено")
			return nil
		}
		id, err := n.mailer.Send(ctx, u.Email, subject, html)
		if err != nil {
			return fmt.Errorf("ошибка отправки письма: %w", err)
		}
		logger.WithField("mail_id", id).Info("Уведомление отправлено по почте")
		return nil

	case users.NotifyTelegram:
		if n.telegram == nil {
			logger.Debug("Telegram-канал выключен, уведомление пропущено")
			return nil
		}
		if u.TelegramChatID == nil {
			logger.Warn("Выбран Telegram, но chat_id не привязан")
			return nil
		}
		if err := n.telegram.SendMessage(ctx, *u.TelegramChatID, text); err != nil {
			return err
		}
		logger.Info("Уведомление отправлено в Telegram")
		return nil

	default:
		logger.Debug("Уведомления отключены пользователем")
		return nil
	}
}
