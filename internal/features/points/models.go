// Package points управляет реестром очков и уровнями.
// models.go описывает записи реестра и уровни.
//
// Реестр — не накопительный счётчик, а журнал «последнее вычисленное
// значение на событие»: одна запись на (user_id, relevant_id,
// definition_type), повторный upsert ПЕРЕЗАПИСЫВАЕТ очки. Сумма
// пользователя всегда считается заново по всем его записям —
// кэша нет сознательно.
package points

import "time"

// LedgerRecord — одна запись реестра очков.
// Записи никогда не удаляются: «снятые» очки — это upsert нуля.
type LedgerRecord struct {
	ID             int64     `db:"id"`
	UserID         int64     `db:"user_id"`         // Чьи очки
	RelevantID     int64     `db:"relevant_id"`     // ID сущности-источника (запланированный день, номер рубежа)
	DefinitionType string    `db:"definition_type"` // Тип начисления
	Points         int64     `db:"points"`          // Последнее вычисленное значение (НЕ аккумулятор)
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Типы начислений в реестре
const (
	// DefDayComplete — очки за выполненный запланированный день,
	// relevant_id = ID записи planned_days
	DefDayComplete = "DAY_COMPLETE"
	// DefStreakMilestone — бонус за рубеж серии,
	// relevant_id = номер рубежа (7, 14, 21, ...)
	DefStreakMilestone = "STREAK_MILESTONE"
)

// Tier — уровень пользователя: диапазон очков и бейдж.
// Справочник заполняется миграцией; диапазоны смежные и не
// пересекаются, верхний уровень открыт сверху.
type Tier struct {
	Level     int    `db:"level"`      // Номер уровня (1, 2, ...)
	MinPoints int64  `db:"min_points"` // Нижняя граница (включительно)
	MaxPoints int64  `db:"max_points"` // Верхняя граница (включительно)
	Badge     string `db:"badge"`      // Название бейджа уровня
}

// Summary — сводка очков пользователя для API.
type Summary struct {
	Total int64 // Сумма по реестру
	Tier  *Tier // Уровень для этой суммы
}
