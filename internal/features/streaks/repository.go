// Package streaks — repository.go выполняет операции с таблицей habit_streaks.
package streaks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store — контракт хранилища серий.
type Store interface {
	GetByUserID(ctx context.Context, userID int64) (*HabitStreak, error)
	Save(ctx context.Context, streak *HabitStreak) error
	CompletedDayKeys(ctx context.Context, userID int64) ([]time.Time, error)
	BreakIdle(ctx context.Context, before time.Time) (int64, error)
	ListAtRisk(ctx context.Context, minStreak int, yesterday time.Time) ([]int64, error)
}

// Repository предоставляет методы для работы с сериями.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий серий.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetByUserID возвращает серию пользователя.
// Строки нет — возвращается нулевая серия, это не ошибка.
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*HabitStreak, error) {
	query := `
		SELECT user_id, current_streak, best_streak, last_active_day, updated_at
		FROM habit_streaks
		WHERE user_id = $1
	`
	var s HabitStreak
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.CurrentStreak, &s.BestStreak, &s.LastActiveDay, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &HabitStreak{UserID: userID}, nil
		}
		return nil, fmt.Errorf("ошибка получения серии: %w", err)
	}
	return &s, nil
}

// Save создаёт или перезаписывает серию пользователя целиком.
// Последняя запись побеждает.
func (r *Repository) Save(ctx context.Context, streak *HabitStreak) error {
	query := `
		INSERT INTO habit_streaks (user_id, current_streak, best_streak, last_active_day)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET
			current_streak  = EXCLUDED.current_streak,
			best_streak     = EXCLUDED.best_streak,
			last_active_day = EXCLUDED.last_active_day,
			updated_at      = NOW()
	`
	_, err := r.db.Exec(ctx, query, streak.UserID, streak.CurrentStreak, streak.BestStreak, streak.LastActiveDay)
	if err != nil {
		return fmt.Errorf("ошибка сохранения серии: %w", err)
	}
	return nil
}

// CompletedDayKeys возвращает выполненные дни-ключи пользователя
// по возрастанию, без дублей. Основа для полного пересчёта серии.
func (r *Repository) CompletedDayKeys(ctx context.Context, userID int64) ([]time.Time, error) {
	query := `
		SELECT DISTINCT day_key
		FROM planned_days
		WHERE user_id = $1 AND completed = TRUE
		ORDER BY day_key
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения выполненных дней: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("ошибка сканирования дня-ключа: %w", err)
		}
		days = append(days, day)
	}
	return days, nil
}

// BreakIdle обнуляет текущие серии, чей последний активный день
// раньше указанной даты. Возвращает число сорванных серий.
// Рекорд best_streak при этом сохраняется.
func (r *Repository) BreakIdle(ctx context.Context, before time.Time) (int64, error) {
	query := `
		UPDATE habit_streaks
		SET current_streak = 0, updated_at = NOW()
		WHERE current_streak > 0 AND last_active_day < $1
	`
	tag, err := r.db.Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("ошибка обнуления серий: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListAtRisk возвращает пользователей, чья серия достигла порога,
// но сегодня ещё ни один день не выполнен (последняя активность — вчера).
// Именно им отправляются напоминания.
func (r *Repository) ListAtRisk(ctx context.Context, minStreak int, yesterday time.Time) ([]int64, error) {
	query := `
		SELECT user_id
		FROM habit_streaks
		WHERE current_streak >= $1 AND last_active_day = $2
	`
	rows, err := r.db.Query(ctx, query, minStreak, yesterday)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска серий под угрозой: %w", err)
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка сканирования user_id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, nil
}
