package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/habit-api/internal/events"
	"serotonyl.ru/habit-api/internal/features/users"
)

type fakeDirectory struct {
	user *users.User
}

func (f *fakeDirectory) GetByID(ctx context.Context, id int64) (*users.User, error) {
	return f.user, nil
}

type fakeMailer struct {
	sent []string // темы отправленных писем
	to   []string
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html string) (string, error) {
	f.sent = append(f.sent, subject)
	f.to = append(f.to, to)
	return "mail-id-1", nil
}

type fakeTelegram struct {
	messages []string
	chatIDs  []int64
}

func (f *fakeTelegram) SendMessage(ctx context.Context, chatID int64, text string) error {
	f.messages = append(f.messages, text)
	f.chatIDs = append(f.chatIDs, chatID)
	return nil
}

func TestOnAwardGranted_EmailChannel(t *testing.T) {
	mailer := &fakeMailer{}
	dir := &fakeDirectory{user: &users.User{ID: 1, Email: "u@example.com", NotifyChannel: users.NotifyEmail}}
	n := NewNotifier(dir, mailer, nil)

	err := n.OnAwardGranted(context.Background(), events.AwardGranted{UserID: 1, BadgeName: "Первая неделя"})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Новая награда!", mailer.sent[0])
	assert.Equal(t, "u@example.com", mailer.to[0])
}

func TestOnAwardGranted_TelegramChannel(t *testing.T) {
	tg := &fakeTelegram{}
	chatID := int64(777)
	dir := &fakeDirectory{user: &users.User{ID: 1, NotifyChannel: users.NotifyTelegram, TelegramChatID: &chatID}}
	n := NewNotifier(dir, nil, tg)

	err := n.OnAwardGranted(context.Background(), events.AwardGranted{UserID: 1, BadgeName: "Центурион"})
	require.NoError(t, err)
	require.Len(t, tg.messages, 1)
	assert.Equal(t, int64(777), tg.chatIDs[0])
	assert.Contains(t, tg.messages[0], "Центурион")
}

func TestDeliver_ChannelDisabledByUser(t *testing.T) {
	mailer := &fakeMailer{}
	dir := &fakeDirectory{user: &users.User{ID: 1, NotifyChannel: users.NotifyNone}}
	n := NewNotifier(dir, mailer, nil)

	err := n.OnAwardGranted(context.Background(), events.AwardGranted{UserID: 1, BadgeName: "Бейдж"})
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestDeliver_MailerNotConfigured(t *testing.T) {
	dir := &fakeDirectory{user: &users.User{ID: 1, NotifyChannel: users.NotifyEmail}}
	n := NewNotifier(dir, nil, nil)

	// Выключенный канал — не ошибка
	err := n.OnAwardGranted(context.Background(), events.AwardGranted{UserID: 1, BadgeName: "Бейдж"})
	assert.NoError(t, err)
}

func TestDeliver_TelegramWithoutChatID(t *testing.T) {
	tg := &fakeTelegram{}
	dir := &fakeDirectory{user: &users.User{ID: 1, NotifyChannel: users.NotifyTelegram}}
	n := NewNotifier(dir, nil, tg)

	err := n.OnAwardGranted(context.Background(), events.AwardGranted{UserID: 1, BadgeName: "Бейдж"})
	require.NoError(t, err)
	assert.Empty(t, tg.messages)
}

func TestStreakReminder_Pluralization(t *testing.T) {
	tg := &fakeTelegram{}
	chatID := int64(5)
	dir := &fakeDirectory{user: &users.User{ID: 1, NotifyChannel: users.NotifyTelegram, TelegramChatID: &chatID}}
	n := NewNotifier(dir, nil, tg)

	require.NoError(t, n.StreakReminder(context.Background(), 1, 21))
	require.Len(t, tg.messages, 1)
	assert.Contains(t, tg.messages[0], "21 день")
}
