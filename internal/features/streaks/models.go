// Package streaks отслеживает серии выполненных дней пользователя.
// models.go описывает состояние серии.
package streaks

import "time"

// HabitStreak — серия пользователя: текущая, лучшая и последний
// активный день. Одна строка на пользователя, владеет ею только
// этот пакет.
type HabitStreak struct {
	UserID        int64      `db:"user_id"`
	CurrentStreak int        `db:"current_streak"`  // Длина текущей серии (0 — серии нет)
	BestStreak    int        `db:"best_streak"`     // Рекорд за всё время
	LastActiveDay *time.Time `db:"last_active_day"` // Последний выполненный день-ключ, nil — истории нет
	UpdatedAt     time.Time  `db:"updated_at"`
}
