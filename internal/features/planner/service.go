// Package planner — service.go содержит бизнес-логику планировщика.
// Здесь рождается событие DayCompletionChanged: сервис меняет статус
// выполнения, публикует событие и сразу отвечает клиенту — пересчёт
// очков/серий/наград идёт асинхронно.
package planner

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/habit-api/internal/common"
	"serotonyl.ru/habit-api/internal/events"
	"serotonyl.ru/habit-api/internal/features/tasks"
)

// Service управляет запланированными днями.
type Service struct {
	store Store
	tasks *tasks.Service     // Проверка владения задачей при планировании
	bus   *events.Dispatcher // Шина для DayCompletionChanged
}

// NewService создаёт новый сервис планировщика.
func NewService(store Store, taskService *tasks.Service, bus *events.Dispatcher) *Service {
	return &Service{store: store, tasks: taskService, bus: bus}
}

// Plan планирует задачу на день.
//
// Алгоритм:
//  1. Проверяем, что задача существует и принадлежит пользователю
//  2. Архивную задачу планировать нельзя
//  3. Создаём запись (уникальность по user+task+day)
func (s *Service) Plan(ctx context.Context, userID, taskID int64, dayKey time.Time) (*PlannedDay, error) {
	task, err := s.tasks.GetByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Archived {
		return nil, common.ErrTaskNotFound
	}

	return s.store.Create(ctx, userID, taskID, common.DayKey(dayKey))
}

// ListRange возвращает план в диапазоне дней.
func (s *Service) ListRange(ctx context.Context, userID int64, from, to time.Time) ([]*PlannedDay, error) {
	return s.store.ListRange(ctx, userID, common.DayKey(from), common.DayKey(to))
}

// SetCompletion переключает статус выполнения дня и публикует событие.
// Повторная установка того же статуса события НЕ порождает —
// иначе каждый двойной клик запускал бы лишний пересчёт.
func (s *Service) SetCompletion(ctx context.Context, userID, plannedID int64, completed bool) (*PlannedDay, error) {
	current, err := s.store.GetByID(ctx, userID, plannedID)
	if err != nil {
		return nil, err
	}
	if current.Completed == completed {
		return current, nil
	}

	updated, err := s.store.SetCompletion(ctx, userID, plannedID, completed)
	if err != nil {
		return nil, err
	}

	// Fire-and-forget: ответ клиенту не ждёт подписчиков
	s.bus.Publish(ctx, events.DayCompletionChanged{
		UserID:    updated.UserID,
		PlannedID: updated.ID,
		DayKey:    updated.DayKey,
		Completed: updated.Completed,
		Points:    updated.TaskPoints,
	})

	log.WithFields(log.Fields{
		"user_id":    updated.UserID,
		"planned_id": updated.ID,
		"day":        common.FormatDayKey(updated.DayKey),
		"completed":  updated.Completed,
	}).Debug("Статус дня изменён, событие опубликовано")

	return updated, nil
}

// Delete убирает задачу из плана.
// Если день был выполнен — публикуем «снятие», чтобы очки и серия
// пересчитались без удалённой записи.
func (s *Service) Delete(ctx context.Context, userID, plannedID int64) error {
	current, err := s.store.GetByID(ctx, userID, plannedID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, userID, plannedID); err != nil {
		return err
	}

	if current.Completed {
		s.bus.Publish(ctx, events.DayCompletionChanged{
			UserID:    current.UserID,
			PlannedID: current.ID,
			DayKey:    current.DayKey,
			Completed: false,
			Points:    current.TaskPoints,
		})
	}
	return nil
}
