// Package awards — service.go содержит оценщик наград.
// Сервис подписан на PointsRecomputed: сверяет сумму очков со
// справочником бейджей и выдаёт недостающие награды.
package awards

import (
	"context"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/habit-api/internal/events"
)

// Service управляет наградами пользователей.
type Service struct {
	store Store
	bus   *events.Dispatcher
}

// NewService создаёт новый сервис наград.
func NewService(store Store, bus *events.Dispatcher) *Service {
	return &Service{store: store, bus: bus}
}

// OnPointsRecomputed — подписчик PointsRecomputed.
func (s *Service) OnPointsRecomputed(ctx context.Context, e events.PointsRecomputed) error {
	_, err := s.Evaluate(ctx, e.UserID, e.Total)
	return err
}

// Evaluate выдаёт пользователю все бейджи, чей порог покрыт суммой
// очков. Возвращает ТОЛЬКО выданные этим вызовом: уже активные
// награды пропускаются на уровне хранилища, так что повторная
// оценка с той же суммой ничего не выдаёт и ничего не публикует.
//
// Награды при падении суммы не отзываются — отзыв есть только
// как действие администратора.
func (s *Service) Evaluate(ctx context.Context, userID, total int64) ([]*Badge, error) {
	badges, err := s.store.ListBadges(ctx)
	if err != nil {
		return nil, err
	}

	var granted []*Badge
	for _, badge := range badges {
		if badge.RequiredPoints > total {
			continue
		}
		newly, err := s.store.ActivateAward(ctx, userID, badge.ID)
		if err != nil {
			return granted, err
		}
		if !newly {
			continue
		}

		granted = append(granted, badge)
		log.WithFields(log.Fields{
			"user_id": userID,
			"badge":   badge.Code,
			"total":   total,
		}).Info("Выдана награда")

		s.bus.Publish(ctx, events.AwardGranted{
			UserID:    userID,
			BadgeID:   badge.ID,
			BadgeCode: badge.Code,
			BadgeName: badge.Name,
		})
	}
	return granted, nil
}

// List возвращает справочник бейджей со статусом награды пользователя.
func (s *Service) List(ctx context.Context, userID int64) ([]*UserBadge, error) {
	badges, err := s.store.ListBadges(ctx)
	if err != nil {
		return nil, err
	}
	userAwards, err := s.store.ListUserAwards(ctx, userID)
	if err != nil {
		return nil, err
	}

	active := make(map[int64]*UserAward, len(userAwards))
	for _, a := range userAwards {
		if a.Active {
			active[a.BadgeID] = a
		}
	}

	out := make([]*UserBadge, 0, len(badges))
	for _, b := range badges {
		ub := &UserBadge{Badge: *b}
		if a, ok := active[b.ID]; ok {
			ub.Earned = true
			earnedAt := a.EarnedAt
			ub.EarnedAt = &earnedAt
		}
		out = append(out, ub)
	}
	return out, nil
}

// Revoke отзывает награду пользователя. Доступно только администратору.
func (s *Service) Revoke(ctx context.Context, userID, badgeID int64) error {
	if err := s.store.DeactivateAward(ctx, userID, badgeID); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"user_id":  userID,
		"badge_id": badgeID,
	}).Warn("Награда отозвана администратором")
	return nil
}
