// Package events — шина событий внутри процесса.
// events.go описывает закрытый набор вариантов событий.
//
// Варианты — обычные структуры с неэкспортируемым маркером isEvent():
// добавить событие извне пакета нельзя, подписчик получает
// компилируемый тип вместо map[string]any.
package events

import "time"

// Event — одно событие шины. Реализации перечислены ниже,
// других не бывает.
type Event interface {
	// Name — имя топика, по которому подбираются подписчики.
	Name() string
	isEvent()
}

// DayCompletionChanged публикуется, когда у запланированного дня
// переключили статус выполнения. Это ЕДИНСТВЕННАЯ точка входа
// в пересчёт очков/серий/наград.
type DayCompletionChanged struct {
	UserID    int64     // Владелец дня
	PlannedID int64     // ID записи planned_days (relevantId в реестре очков)
	DayKey    time.Time // День, по которому меняется статус
	Completed bool      // Новый статус
	Points    int64     // Награда задачи за выполнение этого дня
}

func (DayCompletionChanged) Name() string { return "planner.day_completion_changed" }
func (DayCompletionChanged) isEvent()     {}

// PointsRecomputed публикуется после пересчёта суммы очков пользователя.
// На него подписан оценщик наград.
type PointsRecomputed struct {
	UserID int64
	Total  int64 // Актуальная сумма по реестру
}

func (PointsRecomputed) Name() string { return "points.recomputed" }
func (PointsRecomputed) isEvent()     {}

// AwardGranted публикуется, когда пользователь ВПЕРВЫЕ получил бейдж.
// Повторная активация уже активной награды события не порождает.
type AwardGranted struct {
	UserID    int64
	BadgeID   int64
	BadgeCode string
	BadgeName string
}

func (AwardGranted) Name() string { return "awards.granted" }
func (AwardGranted) isEvent()     {}
