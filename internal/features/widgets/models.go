// Package widgets управляет виджетами дашборда пользователя.
// models.go описывает виджет и допустимые типы.
package widgets

import (
	"encoding/json"
	"time"
)

// Widget — элемент дашборда: тип, позиция и произвольные настройки.
// Настройки хранятся как JSONB и сервером не интерпретируются —
// их формат принадлежит клиенту.
type Widget struct {
	ID        int64           `db:"id"`
	UserID    int64           `db:"user_id"`
	Kind      string          `db:"kind"`
	Position  int             `db:"position"` // Порядок на дашборде, меньше — выше
	Settings  json.RawMessage `db:"settings"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// Допустимые типы виджетов
const (
	KindStreak   = "streak"   // Текущая серия
	KindPoints   = "points"   // Очки и уровень
	KindCalendar = "calendar" // Календарь выполнений
	KindToday    = "today"    // Задачи на сегодня
	KindAwards   = "awards"   // Полученные бейджи
)

// ValidKind проверяет, что тип виджета известен серверу.
func ValidKind(kind string) bool {
	switch kind {
	case KindStreak, KindPoints, KindCalendar, KindToday, KindAwards:
		return true
	}
	return false
}

// UpdateWidget — частичное обновление виджета, nil — «не менять».
type UpdateWidget struct {
	Kind     *string
	Position *int
	Settings json.RawMessage
}
