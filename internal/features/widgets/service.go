// Package widgets — service.go содержит бизнес-логику виджетов.
package widgets

import (
	"context"
	"encoding/json"

	"serotonyl.ru/habit-api/internal/common"
)

// Service управляет виджетами дашборда.
type Service struct {
	store Store
}

// NewService создаёт новый сервис виджетов.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create создаёт виджет с проверкой типа и валидности настроек.
func (s *Service) Create(ctx context.Context, userID int64, kind string, settings json.RawMessage) (*Widget, error) {
	if !ValidKind(kind) {
		return nil, common.ErrInvalidWidgetKind
	}
	if len(settings) > 0 && !json.Valid(settings) {
		return nil, common.ErrInvalidWidgetSettings
	}
	return s.store.Create(ctx, &Widget{UserID: userID, Kind: kind, Settings: settings})
}

// List возвращает виджеты пользователя в порядке дашборда.
func (s *Service) List(ctx context.Context, userID int64) ([]*Widget, error) {
	return s.store.ListByUser(ctx, userID)
}

// Update частично обновляет виджет.
func (s *Service) Update(ctx context.Context, userID, widgetID int64, upd *UpdateWidget) (*Widget, error) {
	if upd.Kind != nil && !ValidKind(*upd.Kind) {
		return nil, common.ErrInvalidWidgetKind
	}
	if len(upd.Settings) > 0 && !json.Valid(upd.Settings) {
		return nil, common.ErrInvalidWidgetSettings
	}
	return s.store.Update(ctx, userID, widgetID, upd)
}

// Delete удаляет виджет пользователя.
func (s *Service) Delete(ctx context.Context, userID, widgetID int64) error {
	return s.store.Delete(ctx, userID, widgetID)
}
