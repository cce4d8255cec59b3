// Package points — service.go содержит бизнес-логику очков.
// Сервис подписан на DayCompletionChanged: переписывает запись
// реестра, пересчитывает сумму и публикует PointsRecomputed.
package points

import (
	"context"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/habit-api/internal/events"
)

// Service управляет реестром очков и уровнями.
type Service struct {
	store Store
	bus   *events.Dispatcher
}

// NewService создаёт новый сервис очков.
func NewService(store Store, bus *events.Dispatcher) *Service {
	return &Service{store: store, bus: bus}
}

// OnDayCompletionChanged — подписчик DayCompletionChanged.
//
// Алгоритм:
//  1. Выполненный день → в реестр пишется награда задачи,
//     снятый → ноль (запись не удаляется, см. models.go)
//  2. Сумма пересчитывается заново по реестру
//  3. Публикуется PointsRecomputed для оценщика наград
func (s *Service) OnDayCompletionChanged(ctx context.Context, e events.DayCompletionChanged) error {
	pts := int64(0)
	if e.Completed {
		pts = e.Points
	}

	if err := s.store.Upsert(ctx, e.UserID, e.PlannedID, DefDayComplete, pts); err != nil {
		return err
	}

	total, err := s.store.SumByUser(ctx, e.UserID)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"user_id": e.UserID,
		"points":  pts,
		"total":   total,
	}).Debug("Реестр очков обновлён")

	s.bus.Publish(ctx, events.PointsRecomputed{UserID: e.UserID, Total: total})
	return nil
}

// AwardMilestoneBonus пишет в реестр бонус за рубеж серии.
// Ключ (user, номер рубежа, STREAK_MILESTONE) делает начисление
// идемпотентным: сломал серию и дошёл до рубежа снова — бонус
// не удваивается, а перезаписывается тем же значением.
func (s *Service) AwardMilestoneBonus(ctx context.Context, userID int64, milestone int, bonus int64) error {
	if err := s.store.Upsert(ctx, userID, int64(milestone), DefStreakMilestone, bonus); err != nil {
		return err
	}

	total, err := s.store.SumByUser(ctx, userID)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"user_id":   userID,
		"milestone": milestone,
		"bonus":     bonus,
	}).Info("Начислен бонус за рубеж серии")

	s.bus.Publish(ctx, events.PointsRecomputed{UserID: userID, Total: total})
	return nil
}

// TotalByUser возвращает сумму очков пользователя.
func (s *Service) TotalByUser(ctx context.Context, userID int64) (int64, error) {
	return s.store.SumByUser(ctx, userID)
}

// Summary возвращает сумму и уровень пользователя.
// ErrTierNotFound здесь означает дыру в справочнике уровней —
// репортим как ошибку конфигурации, а не просим клиента повторить.
func (s *Service) Summary(ctx context.Context, userID int64) (*Summary, error) {
	total, err := s.store.SumByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tier, err := s.store.TierByPoints(ctx, total)
	if err != nil {
		return nil, err
	}

	return &Summary{Total: total, Tier: tier}, nil
}

// Ledger возвращает записи реестра пользователя.
func (s *Service) Ledger(ctx context.Context, userID int64) ([]*LedgerRecord, error) {
	return s.store.ListByUser(ctx, userID)
}
