// Package awards — repository.go выполняет операции с таблицами
// badges и user_awards.
package awards

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/habit-api/internal/common"
)

// Store — контракт хранилища наград.
type Store interface {
	ListBadges(ctx context.Context) ([]*Badge, error)
	ListUserAwards(ctx context.Context, userID int64) ([]*UserAward, error)
	ActivateAward(ctx context.Context, userID, badgeID int64) (bool, error)
	DeactivateAward(ctx context.Context, userID, badgeID int64) error
}

// Repository предоставляет методы для работы с наградами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий наград.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListBadges возвращает справочник бейджей по возрастанию порога.
func (r *Repository) ListBadges(ctx context.Context) ([]*Badge, error) {
	query := `
		SELECT id, code, name, description, required_points
		FROM badges
		ORDER BY required_points
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения справочника бейджей: %w", err)
	}
	defer rows.Close()

	var badges []*Badge
	for rows.Next() {
		var b Badge
		if err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.Description, &b.RequiredPoints); err != nil {
			return nil, fmt.Errorf("ошибка сканирования бейджа: %w", err)
		}
		badges = append(badges, &b)
	}
	return badges, nil
}

// ListUserAwards возвращает все награды пользователя, включая отозванные.
func (r *Repository) ListUserAwards(ctx context.Context, userID int64) ([]*UserAward, error) {
	query := `
		SELECT user_id, badge_id, active, earned_at
		FROM user_awards
		WHERE user_id = $1
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения наград: %w", err)
	}
	defer rows.Close()

	var list []*UserAward
	for rows.Next() {
		var a UserAward
		if err := rows.Scan(&a.UserID, &a.BadgeID, &a.Active, &a.EarnedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования награды: %w", err)
		}
		list = append(list, &a)
	}
	return list, nil
}

// ActivateAward выдаёт награду, если она ещё не активна.
// Возвращает true, только когда награда выдана ИМЕННО этим вызовом:
// условный upsert с RETURNING не возвращает строку, если награда
// уже была активна. Повторная оценка очков ничего не перевыдаёт.
func (r *Repository) ActivateAward(ctx context.Context, userID, badgeID int64) (bool, error) {
	query := `
		INSERT INTO user_awards (user_id, badge_id, active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (user_id, badge_id)
		DO UPDATE SET active = TRUE, earned_at = NOW()
		WHERE NOT user_awards.active
		RETURNING user_id
	`
	var id int64
	err := r.db.QueryRow(ctx, query, userID, badgeID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("ошибка выдачи награды: %w", err)
	}
	return true, nil
}

// DeactivateAward отзывает активную награду.
// Бейджа нет в справочнике → ErrBadgeNotFound,
// активной награды у пользователя нет → ErrAwardNotFound.
func (r *Repository) DeactivateAward(ctx context.Context, userID, badgeID int64) error {
	query := `
		UPDATE user_awards
		SET active = FALSE
		WHERE user_id = $1 AND badge_id = $2 AND active
	`
	tag, err := r.db.Exec(ctx, query, userID, badgeID)
	if err != nil {
		return fmt.Errorf("ошибка отзыва награды: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM badges WHERE id = $1)`, badgeID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("ошибка проверки бейджа: %w", err)
	}
	if !exists {
		return common.ErrBadgeNotFound
	}
	return common.ErrAwardNotFound
}
