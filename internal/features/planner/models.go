// Package planner управляет запланированными днями: задача × дата.
// models.go описывает структуру данных запланированного дня.
//
// Переключение статуса выполнения — единственная точка, из которой
// запускается пересчёт очков, серий и наград (через шину событий).
package planner

import "time"

// PlannedDay представляет одну задачу, запланированную на один день.
// Уникальность по (user_id, task_id, day_key).
type PlannedDay struct {
	ID          int64      `db:"id"`           // Автоинкрементный ID записи
	UserID      int64      `db:"user_id"`      // Владелец
	TaskID      int64      `db:"task_id"`      // Запланированная задача
	DayKey      time.Time  `db:"day_key"`      // День (полночь UTC)
	Completed   bool       `db:"completed"`    // Статус выполнения
	CompletedAt *time.Time `db:"completed_at"` // Когда отметили выполнение
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`

	// Поля задачи для выдачи списков одним запросом (JOIN tasks)
	TaskTitle  string `db:"task_title"`
	TaskColor  string `db:"task_color"`
	TaskPoints int64  `db:"task_points"`
}
