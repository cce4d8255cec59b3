// Package streaks — service.go содержит бизнес-логику серий.
// Сервис подписан на DayCompletionChanged: выполненный день двигает
// серию вперёд, снятый — запускает полный пересчёт по истории.
package streaks

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/habit-api/internal/common"
	"serotonyl.ru/habit-api/internal/events"
	"serotonyl.ru/habit-api/internal/features/points"
)

// Service управляет сериями пользователей.
type Service struct {
	store          Store
	points         *points.Service
	milestoneDays  int
	milestoneBonus int64
}

// NewService создаёт новый сервис серий.
func NewService(store Store, pointsService *points.Service, milestoneDays int, milestoneBonus int64) *Service {
	return &Service{
		store:          store,
		points:         pointsService,
		milestoneDays:  milestoneDays,
		milestoneBonus: milestoneBonus,
	}
}

// OnDayCompletionChanged — подписчик DayCompletionChanged.
//
// Алгоритм:
//  1. День выполнен и идёт по порядку → быстрый переход Advance
//  2. День выполнен задним числом (раньше последнего активного) →
//     быстрый переход не работает, пересчитываем серию по истории
//  3. День снят → только полный пересчёт: разрыв мог случиться
//     в середине серии
func (s *Service) OnDayCompletionChanged(ctx context.Context, e events.DayCompletionChanged) error {
	if !e.Completed {
		_, err := s.Rebuild(ctx, e.UserID)
		return err
	}

	streak, err := s.store.GetByUserID(ctx, e.UserID)
	if err != nil {
		return err
	}

	day := common.DayKey(e.DayKey)
	if streak.LastActiveDay != nil && day.Before(common.DayKey(*streak.LastActiveDay)) {
		_, err := s.Rebuild(ctx, e.UserID)
		return err
	}

	prev := State{Current: streak.CurrentStreak, Best: streak.BestStreak, LastActiveDay: streak.LastActiveDay}
	next := Advance(prev, day)
	if next == prev {
		return nil
	}

	streak.CurrentStreak = next.Current
	streak.BestStreak = next.Best
	streak.LastActiveDay = next.LastActiveDay
	if err := s.store.Save(ctx, streak); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"user_id": e.UserID,
		"current": next.Current,
		"best":    next.Best,
	}).Debug("Серия обновлена")

	if milestone, ok := MilestoneReached(prev.Current, next.Current, s.milestoneDays); ok {
		if err := s.points.AwardMilestoneBonus(ctx, e.UserID, milestone, s.milestoneBonus); err != nil {
			return err
		}
	}
	return nil
}

// Rebuild пересчитывает серию пользователя с нуля по истории
// выполненных дней. Идемпотентна: два запуска подряд дают одно
// и то же состояние. Бонусы за уже пройденные рубежи при пересчёте
// не отзываются — реестр очков хранит последнее начисление.
func (s *Service) Rebuild(ctx context.Context, userID int64) (*HabitStreak, error) {
	days, err := s.store.CompletedDayKeys(ctx, userID)
	if err != nil {
		return nil, err
	}

	state := Replay(days)
	streak := &HabitStreak{
		UserID:        userID,
		CurrentStreak: state.Current,
		BestStreak:    state.Best,
		LastActiveDay: state.LastActiveDay,
	}
	if err := s.store.Save(ctx, streak); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"days":    len(days),
		"current": state.Current,
		"best":    state.Best,
	}).Info("Серия пересчитана по истории")

	return streak, nil
}

// Get возвращает серию пользователя (нулевую, если истории нет).
func (s *Service) Get(ctx context.Context, userID int64) (*HabitStreak, error) {
	return s.store.GetByUserID(ctx, userID)
}

// BreakIdleStreaks обнуляет серии, простоявшие без выполнений
// дольше одного дня. Запускается планировщиком после полуночи:
// вчерашняя активность серию ещё держит, позавчерашняя — уже нет.
func (s *Service) BreakIdleStreaks(ctx context.Context, today time.Time) (int64, error) {
	yesterday := common.DayKey(today.AddDate(0, 0, -1))
	count, err := s.store.BreakIdle(ctx, yesterday)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.WithField("count", count).Info("Сорваны простаивающие серии")
	}
	return count, nil
}

// AtRiskUsers возвращает пользователей, рискующих сегодня потерять
// серию длиной не меньше minStreak.
func (s *Service) AtRiskUsers(ctx context.Context, today time.Time, minStreak int) ([]int64, error) {
	yesterday := common.DayKey(today.AddDate(0, 0, -1))
	return s.store.ListAtRisk(ctx, minStreak, yesterday)
}
