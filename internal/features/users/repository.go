// Package users — repository.go выполняет операции с таблицей users.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/habit-api/internal/common"
)

// Store — контракт хранилища профилей. Сервис зависит от интерфейса,
// чтобы в тестах подставлять фейковое хранилище.
type Store interface {
	GetBySubject(ctx context.Context, subject string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, u *User) (*User, error)
	Update(ctx context.Context, id int64, upd UpdateProfile) (*User, error)
}

// Repository предоставляет методы для работы с таблицей users.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий пользователей.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, subject, email, display_name, timezone, notify_channel, telegram_chat_id, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Subject, &u.Email, &u.DisplayName, &u.Timezone,
		&u.NotifyChannel, &u.TelegramChatID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
	}
	return &u, nil
}

// GetBySubject возвращает пользователя по subject из токена.
func (r *Repository) GetBySubject(ctx context.Context, subject string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE subject = $1`
	return scanUser(r.db.QueryRow(ctx, query, subject))
}

// GetByID возвращает пользователя по внутреннему ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// Create создаёт профиль нового пользователя.
// Конфликт по subject означает гонку двух первых запросов —
// тогда просто читаем уже созданную запись.
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	query := `
		INSERT INTO users (subject, email, display_name, timezone, notify_channel)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (subject) DO NOTHING
		RETURNING ` + userColumns
	created, err := scanUser(r.db.QueryRow(ctx, query,
		u.Subject, u.Email, u.DisplayName, u.Timezone, u.NotifyChannel))
	if errors.Is(err, common.ErrUserNotFound) {
		// Запись уже есть — параллельный запрос успел раньше
		return r.GetBySubject(ctx, u.Subject)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return created, nil
}

// Update изменяет профиль. nil-поля не трогаются (COALESCE).
func (r *Repository) Update(ctx context.Context, id int64, upd UpdateProfile) (*User, error) {
	query := `
		UPDATE users
		SET display_name     = COALESCE($2, display_name),
		    timezone         = COALESCE($3, timezone),
		    notify_channel   = COALESCE($4, notify_channel),
		    telegram_chat_id = COALESCE($5, telegram_chat_id),
		    updated_at       = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query,
		id, upd.DisplayName, upd.Timezone, upd.NotifyChannel, upd.TelegramChatID))
	if err != nil {
		return nil, err
	}
	return u, nil
}
