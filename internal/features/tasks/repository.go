// Package tasks — repository.go выполняет операции с таблицей tasks.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/habit-api/internal/common"
)

// Store — контракт хранилища задач.
type Store interface {
	Create(ctx context.Context, t *Task) (*Task, error)
	GetByID(ctx context.Context, userID, taskID int64) (*Task, error)
	List(ctx context.Context, userID int64, includeArchived bool) ([]*Task, error)
	Update(ctx context.Context, userID, taskID int64, upd UpdateTask) (*Task, error)
	Delete(ctx context.Context, userID, taskID int64) error
}

// Repository предоставляет методы для работы с таблицей tasks.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий задач.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const taskColumns = `id, user_id, title, notes, color, points, archived, created_at, updated_at`

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Notes, &t.Color,
		&t.Points, &t.Archived, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrTaskNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования задачи: %w", err)
	}
	return &t, nil
}

// Create создаёт задачу.
func (r *Repository) Create(ctx context.Context, t *Task) (*Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, notes, color, points)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + taskColumns
	created, err := scanTask(r.db.QueryRow(ctx, query, t.UserID, t.Title, t.Notes, t.Color, t.Points))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания задачи: %w", err)
	}
	return created, nil
}

// GetByID возвращает задачу пользователя.
// Несуществующая задача → ErrTaskNotFound, чужая → ErrForeignTask.
func (r *Repository) GetByID(ctx context.Context, userID, taskID int64) (*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	t, err := scanTask(r.db.QueryRow(ctx, query, taskID))
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, common.ErrForeignTask
	}
	return t, nil
}

// List возвращает задачи пользователя.
func (r *Repository) List(ctx context.Context, userID int64, includeArchived bool) ([]*Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND (archived = FALSE OR $2)
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, userID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения задач: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Update изменяет задачу. nil-поля не трогаются (COALESCE).
func (r *Repository) Update(ctx context.Context, userID, taskID int64, upd UpdateTask) (*Task, error) {
	query := `
		UPDATE tasks
		SET title      = COALESCE($3, title),
		    notes      = COALESCE($4, notes),
		    color      = COALESCE($5, color),
		    points     = COALESCE($6, points),
		    archived   = COALESCE($7, archived),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query,
		taskID, userID, upd.Title, upd.Notes, upd.Color, upd.Points, upd.Archived))
}

// Delete удаляет задачу вместе с её запланированными днями (FK CASCADE).
func (r *Repository) Delete(ctx context.Context, userID, taskID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrTaskNotFound
	}
	return nil
}
