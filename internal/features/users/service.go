// Package users — service.go содержит бизнес-логику профилей.
// Сервис автоматически заводит профиль при первом валидном токене
// и отдаёт профили другим модулям (напоминания, награды).
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/habit-api/internal/common"
	"serotonyl.ru/habit-api/internal/identity"
)

// Service управляет профилями пользователей.
type Service struct {
	store Store
}

// NewService создаёт новый сервис пользователей.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// EnsureByPrincipal возвращает профиль для принципала из токена.
// Если профиля ещё нет — создаёт с данными из claims.
func (s *Service) EnsureByPrincipal(ctx context.Context, p *identity.Principal) (*User, error) {
	u, err := s.store.GetBySubject(ctx, p.Subject)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, common.ErrUserNotFound) {
		return nil, err
	}

	// Первый запрос этого пользователя — заводим профиль
	displayName := p.Email
	if displayName == "" {
		displayName = p.Subject
	}
	created, err := s.store.Create(ctx, &User{
		Subject:       p.Subject,
		Email:         p.Email,
		DisplayName:   displayName,
		Timezone:      "Europe/Moscow",
		NotifyChannel: NotifyEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка регистрации пользователя: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id": created.ID,
		"subject": created.Subject,
	}).Info("Новый пользователь зарегистрирован")

	return created, nil
}

// GetByID возвращает профиль по внутреннему ID.
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.store.GetByID(ctx, id)
}

// UpdateProfile изменяет профиль пользователя.
func (s *Service) UpdateProfile(ctx context.Context, id int64, upd UpdateProfile) (*User, error) {
	if upd.NotifyChannel != nil {
		switch *upd.NotifyChannel {
		case NotifyEmail, NotifyTelegram, NotifyNone:
		default:
			return nil, fmt.Errorf("%w: %q", common.ErrInvalidNotifyChannel, *upd.NotifyChannel)
		}
	}
	if upd.Timezone != nil {
		// Проверяем, что пояс существует, до записи в БД
		if _, err := time.LoadLocation(*upd.Timezone); err != nil {
			return nil, fmt.Errorf("%w: %q", common.ErrInvalidTimezone, *upd.Timezone)
		}
	}
	return s.store.Update(ctx, id, upd)
}
