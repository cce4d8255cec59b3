// Package planner — repository.go выполняет операции с таблицей planned_days.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/habit-api/internal/common"
)

// Store — контракт хранилища запланированных дней.
type Store interface {
	Create(ctx context.Context, userID, taskID int64, dayKey time.Time) (*PlannedDay, error)
	GetByID(ctx context.Context, userID, plannedID int64) (*PlannedDay, error)
	ListRange(ctx context.Context, userID int64, from, to time.Time) ([]*PlannedDay, error)
	SetCompletion(ctx context.Context, userID, plannedID int64, completed bool) (*PlannedDay, error)
	Delete(ctx context.Context, userID, plannedID int64) error
}

// Repository предоставляет методы для работы с таблицей planned_days.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий планировщика.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const plannedColumns = `
	p.id, p.user_id, p.task_id, p.day_key, p.completed, p.completed_at,
	p.created_at, p.updated_at, t.title, t.color, t.points`

func scanPlanned(row pgx.Row) (*PlannedDay, error) {
	var p PlannedDay
	err := row.Scan(
		&p.ID, &p.UserID, &p.TaskID, &p.DayKey, &p.Completed, &p.CompletedAt,
		&p.CreatedAt, &p.UpdatedAt, &p.TaskTitle, &p.TaskColor, &p.TaskPoints,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrPlannedDayNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования запланированного дня: %w", err)
	}
	// День-ключ из БД приводим к полуночи UTC
	p.DayKey = common.DayKey(p.DayKey)
	return &p, nil
}

// Create планирует задачу на день.
// Повторное планирование той же задачи на тот же день → ErrDayAlreadyPlanned.
func (r *Repository) Create(ctx context.Context, userID, taskID int64, dayKey time.Time) (*PlannedDay, error) {
	query := `
		WITH inserted AS (
			INSERT INTO planned_days (user_id, task_id, day_key)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, task_id, day_key) DO NOTHING
			RETURNING *
		)
		SELECT ` + plannedColumns + `
		FROM inserted p
		JOIN tasks t ON t.id = p.task_id
	`
	created, err := scanPlanned(r.db.QueryRow(ctx, query, userID, taskID, dayKey))
	if errors.Is(err, common.ErrPlannedDayNotFound) {
		return nil, common.ErrDayAlreadyPlanned
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка планирования дня: %w", err)
	}
	return created, nil
}

// GetByID возвращает запланированный день пользователя.
func (r *Repository) GetByID(ctx context.Context, userID, plannedID int64) (*PlannedDay, error) {
	query := `
		SELECT ` + plannedColumns + `
		FROM planned_days p
		JOIN tasks t ON t.id = p.task_id
		WHERE p.id = $1 AND p.user_id = $2
	`
	return scanPlanned(r.db.QueryRow(ctx, query, plannedID, userID))
}

// ListRange возвращает запланированные дни в диапазоне [from, to].
func (r *Repository) ListRange(ctx context.Context, userID int64, from, to time.Time) ([]*PlannedDay, error) {
	query := `
		SELECT ` + plannedColumns + `
		FROM planned_days p
		JOIN tasks t ON t.id = p.task_id
		WHERE p.user_id = $1 AND p.day_key BETWEEN $2 AND $3
		ORDER BY p.day_key, p.id
	`
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения планировщика: %w", err)
	}
	defer rows.Close()

	var days []*PlannedDay
	for rows.Next() {
		p, err := scanPlanned(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, p)
	}
	return days, nil
}

// SetCompletion выставляет статус выполнения.
// Возвращает обновлённую запись с данными задачи — они нужны
// публикующему для события (награда задачи).
func (r *Repository) SetCompletion(ctx context.Context, userID, plannedID int64, completed bool) (*PlannedDay, error) {
	query := `
		WITH updated AS (
			UPDATE planned_days
			SET completed    = $3,
			    completed_at = CASE WHEN $3 THEN NOW() ELSE NULL END,
			    updated_at   = NOW()
			WHERE id = $1 AND user_id = $2
			RETURNING *
		)
		SELECT ` + plannedColumns + `
		FROM updated p
		JOIN tasks t ON t.id = p.task_id
	`
	return scanPlanned(r.db.QueryRow(ctx, query, plannedID, userID, completed))
}

// Delete убирает задачу из плана.
func (r *Repository) Delete(ctx context.Context, userID, plannedID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM planned_days WHERE id = $1 AND user_id = $2`, plannedID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления запланированного дня: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrPlannedDayNotFound
	}
	return nil
}
