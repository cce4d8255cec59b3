// Package points — repository.go выполняет операции с таблицами
// point_ledger и point_tiers.
package points

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/habit-api/internal/common"
)

// Store — контракт хранилища очков.
type Store interface {
	Upsert(ctx context.Context, userID, relevantID int64, definitionType string, points int64) error
	SumByUser(ctx context.Context, userID int64) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]*LedgerRecord, error)
	TierByPoints(ctx context.Context, points int64) (*Tier, error)
}

// Repository предоставляет методы для работы с реестром и уровнями.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий очков.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Upsert создаёт запись реестра или перезаписывает очки существующей.
// Ключ — (user_id, relevant_id, definition_type).
func (r *Repository) Upsert(ctx context.Context, userID, relevantID int64, definitionType string, points int64) error {
	query := `
		INSERT INTO point_ledger (user_id, relevant_id, definition_type, points)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, relevant_id, definition_type)
		DO UPDATE SET points = EXCLUDED.points, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, userID, relevantID, definitionType, points)
	if err != nil {
		return fmt.Errorf("ошибка записи в реестр очков: %w", err)
	}
	return nil
}

// SumByUser возвращает сумму очков пользователя по всему реестру.
// Нет записей — ноль.
func (r *Repository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COALESCE(SUM(points), 0) FROM point_ledger WHERE user_id = $1`
	var total int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта очков: %w", err)
	}
	return total, nil
}

// ListByUser возвращает записи реестра пользователя (свежие сверху).
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*LedgerRecord, error) {
	query := `
		SELECT id, user_id, relevant_id, definition_type, points, created_at, updated_at
		FROM point_ledger
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения реестра: %w", err)
	}
	defer rows.Close()

	var records []*LedgerRecord
	for rows.Next() {
		var rec LedgerRecord
		err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.RelevantID, &rec.DefinitionType,
			&rec.Points, &rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи реестра: %w", err)
		}
		records = append(records, &rec)
	}
	return records, nil
}

// TierByPoints возвращает уровень, в чей диапазон попадает сумма.
// Отсутствие уровня — дыра в справочнике → ErrTierNotFound.
func (r *Repository) TierByPoints(ctx context.Context, points int64) (*Tier, error) {
	query := `
		SELECT level, min_points, max_points, badge
		FROM point_tiers
		WHERE $1 BETWEEN min_points AND max_points
	`
	var t Tier
	err := r.db.QueryRow(ctx, query, points).Scan(&t.Level, &t.MinPoints, &t.MaxPoints, &t.Badge)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrTierNotFound
		}
		return nil, fmt.Errorf("ошибка поиска уровня: %w", err)
	}
	return &t, nil
}
