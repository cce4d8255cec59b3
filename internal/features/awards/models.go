// Package awards управляет бейджами и наградами пользователей.
// models.go описывает справочник бейджей и выданные награды.
package awards

import "time"

// Badge — бейдж из справочника: выдаётся при достижении порога очков.
// Справочник заполняется миграцией.
type Badge struct {
	ID             int64  `db:"id"`
	Code           string `db:"code"`            // Машинный код ("first_week", "centurion")
	Name           string `db:"name"`            // Название для пользователя
	Description    string `db:"description"`     // Чем заслужен
	RequiredPoints int64  `db:"required_points"` // Порог суммы очков
}

// UserAward — выданная награда. Отозванная награда не удаляется,
// а деактивируется: при следующей оценке она не считается «новой»
// только если всё ещё активна.
type UserAward struct {
	UserID   int64     `db:"user_id"`
	BadgeID  int64     `db:"badge_id"`
	Active   bool      `db:"active"`
	EarnedAt time.Time `db:"earned_at"`
}

// UserBadge — бейдж вместе со статусом награды для выдачи в API.
type UserBadge struct {
	Badge
	Earned   bool       // Награда активна у пользователя
	EarnedAt *time.Time // Когда выдана (nil — не выдана)
}
