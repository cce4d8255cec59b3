// Package tasks управляет задачами-привычками пользователя.
// models.go описывает структуру данных задачи.
package tasks

import "time"

// Task представляет задачу (привычку), которую пользователь
// планирует на конкретные дни в планировщике.
type Task struct {
	ID        int64     `db:"id"`       // Автоинкрементный ID записи
	UserID    int64     `db:"user_id"`  // Владелец задачи
	Title     string    `db:"title"`    // Заголовок
	Notes     string    `db:"notes"`    // Заметки (может быть пусто)
	Color     string    `db:"color"`    // Цвет карточки в интерфейсе
	Points    int64     `db:"points"`   // Награда в очках за выполненный день
	Archived  bool      `db:"archived"` // Архивная задача не планируется
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// UpdateTask содержит изменяемые поля задачи.
// nil-поле означает «не менять».
type UpdateTask struct {
	Title    *string
	Notes    *string
	Color    *string
	Points   *int64
	Archived *bool
}
