// Package widgets — repository.go выполняет операции с таблицей widgets.
package widgets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/habit-api/internal/common"
)

// Store — контракт хранилища виджетов.
type Store interface {
	Create(ctx context.Context, w *Widget) (*Widget, error)
	GetByID(ctx context.Context, userID, widgetID int64) (*Widget, error)
	ListByUser(ctx context.Context, userID int64) ([]*Widget, error)
	Update(ctx context.Context, userID, widgetID int64, upd *UpdateWidget) (*Widget, error)
	Delete(ctx context.Context, userID, widgetID int64) error
}

// Repository предоставляет методы для работы с виджетами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий виджетов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const widgetColumns = `id, user_id, kind, position, settings, created_at, updated_at`

func scanWidget(row pgx.Row) (*Widget, error) {
	var w Widget
	err := row.Scan(&w.ID, &w.UserID, &w.Kind, &w.Position, &w.Settings, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrWidgetNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования виджета: %w", err)
	}
	return &w, nil
}

// Create создаёт виджет. Позиция — следом за последним виджетом
// пользователя.
func (r *Repository) Create(ctx context.Context, w *Widget) (*Widget, error) {
	query := `
		INSERT INTO widgets (user_id, kind, position, settings)
		VALUES (
			$1, $2,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM widgets WHERE user_id = $1),
			$3
		)
		RETURNING ` + widgetColumns
	settings := w.Settings
	if settings == nil {
		settings = json.RawMessage(`{}`)
	}
	return scanWidget(r.db.QueryRow(ctx, query, w.UserID, w.Kind, settings))
}

// GetByID возвращает виджет пользователя.
func (r *Repository) GetByID(ctx context.Context, userID, widgetID int64) (*Widget, error) {
	query := `SELECT ` + widgetColumns + ` FROM widgets WHERE id = $1 AND user_id = $2`
	return scanWidget(r.db.QueryRow(ctx, query, widgetID, userID))
}

// ListByUser возвращает виджеты пользователя в порядке дашборда.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*Widget, error) {
	query := `SELECT ` + widgetColumns + ` FROM widgets WHERE user_id = $1 ORDER BY position, id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения виджетов: %w", err)
	}
	defer rows.Close()

	var list []*Widget
	for rows.Next() {
		w, err := scanWidget(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, w)
	}
	return list, nil
}

// Update частично обновляет виджет: nil-поля не трогаются.
func (r *Repository) Update(ctx context.Context, userID, widgetID int64, upd *UpdateWidget) (*Widget, error) {
	query := `
		UPDATE widgets
		SET kind       = COALESCE($3, kind),
		    position   = COALESCE($4, position),
		    settings   = COALESCE($5, settings),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + widgetColumns
	return scanWidget(r.db.QueryRow(ctx, query, widgetID, userID, upd.Kind, upd.Position, upd.Settings))
}

// Delete удаляет виджет пользователя.
func (r *Repository) Delete(ctx context.Context, userID, widgetID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM widgets WHERE id = $1 AND user_id = $2`, widgetID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления виджета: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrWidgetNotFound
	}
	return nil
}
