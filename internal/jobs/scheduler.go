// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ночной срыв простаивающих
// серий и ежечасные напоминания о сериях под угрозой.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/habit-api/internal/common"
	"serotonyl.ru/habit-api/internal/features/streaks"
	"serotonyl.ru/habit-api/internal/notify"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron          *cron.Cron
	streakService *streaks.Service
	notifier      *notify.Notifier
	loc           *time.Location
	minStreak     int

	mu         sync.Mutex
	remindedOn map[int64]time.Time // user_id → день последнего напоминания
}

// NewScheduler создаёт планировщик задач в часовом поясе приложения.
func NewScheduler(streakService *streaks.Service, notifier *notify.Notifier, timezone string, minStreak int) *Scheduler {
	return &Scheduler{
		cron:          cron.New(cron.WithLocation(common.LoadLocation(timezone))),
		streakService: streakService,
		notifier:      notifier,
		loc:           common.LoadLocation(timezone),
		minStreak:     minStreak,
		remindedOn:    make(map[int64]time.Time),
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Срыв простаивающих серий в 00:05: пять минут запаса, чтобы
	// выполнения «под полночь» успели дойти до базы
	s.cron.AddFunc("5 0 * * *", func() {
		log.Info("[CRON] Срыв простаивающих серий")
		if _, err := s.streakService.BreakIdleStreaks(ctx, common.Today(s.loc)); err != nil {
			log.WithError(err).Error("[CRON] Ошибка срыва серий")
		}
	})

	// Напоминания каждый час
	s.cron.AddFunc("0 * * * *", func() {
		log.Debug("[CRON] Проверка напоминаний")
		if err := s.sendReminders(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка напоминаний")
		}
	})

	s.cron.Start()
	log.WithField("timezone", s.loc.String()).Info("Планировщик задач запущен")
}

// Stop останавливает планировщик и дожидается активных задач.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info("Планировщик задач остановлен")
}

// sendReminders напоминает пользователям с серией под угрозой.
// Каждому — не чаще раза в день, сколько бы раз задача ни сработала.
func (s *Scheduler) sendReminders(ctx context.Context) error {
	today := common.Today(s.loc)

	userIDs, err := s.streakService.AtRiskUsers(ctx, today, s.minStreak)
	if err != nil {
		return err
	}

	for _, userID := range userIDs {
		if s.alreadyReminded(userID, today) {
			continue
		}

		streak, err := s.streakService.Get(ctx, userID)
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Error("[CRON] Ошибка получения серии")
			continue
		}

		if err := s.notifier.StreakReminder(ctx, userID, streak.CurrentStreak); err != nil {
			log.WithError(err).WithField("user_id", userID).Error("[CRON] Ошибка отправки напоминания")
			continue
		}
		s.markReminded(userID, today)
	}
	return nil
}

func (s *Scheduler) alreadyReminded(userID int64, today time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.remindedOn[userID]
	return ok && last.Equal(today)
}

func (s *Scheduler) markReminded(userID int64, today time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remindedOn[userID] = today
}
