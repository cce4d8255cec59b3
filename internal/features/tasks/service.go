// Package tasks — service.go содержит бизнес-логику задач.
package tasks

import (
	"context"
	"strings"

	"serotonyl.ru/habit-api/internal/common"
)

// Service управляет задачами пользователя.
type Service struct {
	store Store
	// Награда по умолчанию, если при создании задачи очки не указаны
	defaultPoints int64
}

// NewService создаёт новый сервис задач.
func NewService(store Store, defaultPoints int64) *Service {
	return &Service{store: store, defaultPoints: defaultPoints}
}

// Create создаёт задачу после валидации.
func (s *Service) Create(ctx context.Context, userID int64, title, notes, color string, points *int64) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, common.ErrEmptyTitle
	}

	p := s.defaultPoints
	if points != nil {
		if *points < 0 {
			return nil, common.ErrInvalidPoints
		}
		p = *points
	}

	return s.store.Create(ctx, &Task{
		UserID: userID,
		Title:  title,
		Notes:  notes,
		Color:  color,
		Points: p,
	})
}

// GetByID возвращает задачу пользователя.
func (s *Service) GetByID(ctx context.Context, userID, taskID int64) (*Task, error) {
	return s.store.GetByID(ctx, userID, taskID)
}

// List возвращает задачи пользователя.
func (s *Service) List(ctx context.Context, userID int64, includeArchived bool) ([]*Task, error) {
	return s.store.List(ctx, userID, includeArchived)
}

// Update изменяет задачу после валидации.
func (s *Service) Update(ctx context.Context, userID, taskID int64, upd UpdateTask) (*Task, error) {
	if upd.Title != nil {
		trimmed := strings.TrimSpace(*upd.Title)
		if trimmed == "" {
			return nil, common.ErrEmptyTitle
		}
		upd.Title = &trimmed
	}
	if upd.Points != nil && *upd.Points < 0 {
		return nil, common.ErrInvalidPoints
	}
	return s.store.Update(ctx, userID, taskID, upd)
}

// Delete удаляет задачу.
func (s *Service) Delete(ctx context.Context, userID, taskID int64) error {
	return s.store.Delete(ctx, userID, taskID)
}
