// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: работа с днями-ключами, русская плюрализация, время.
package common

import (
	"math"
	"time"
)

// DayKeyFormat — формат дня-ключа в API и БД: "2006-01-02".
const DayKeyFormat = "2006-01-02"

// DayKey обрезает время до даты (полночь UTC).
// Все дни-ключи храним в UTC, чтобы сравнение «следующий день»
// не зависело от часового пояса сервера.
func DayKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDayKey разбирает строку "2006-01-02" в день-ключ.
// Некорректная строка → ErrInvalidDayKey.
func ParseDayKey(s string) (time.Time, error) {
	t, err := time.Parse(DayKeyFormat, s)
	if err != nil {
		return time.Time{}, ErrInvalidDayKey
	}
	return DayKey(t), nil
}

// FormatDayKey форматирует день-ключ в строку "2006-01-02".
func FormatDayKey(t time.Time) string {
	return t.Format(DayKeyFormat)
}

// NextDay возвращает следующий календарный день.
// Используется AddDate, а не Add(24h) — так корректно переживаются
// переводы часов и високосные секунды.
func NextDay(t time.Time) time.Time {
	return DayKey(t.AddDate(0, 0, 1))
}

// SameDay проверяет, что два момента приходятся на один день-ключ.
func SameDay(a, b time.Time) bool {
	return DayKey(a).Equal(DayKey(b))
}

// IsNextDay проверяет, что day — ровно следующий календарный день после prev.
func IsNextDay(prev, day time.Time) bool {
	return NextDay(prev).Equal(DayKey(day))
}

// Today возвращает сегодняшний день-ключ в указанном часовом поясе.
// Пояс влияет только на то, КАКАЯ дата считается сегодняшней,
// сам ключ всё равно полночь UTC.
func Today(loc *time.Location) time.Time {
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// PluralizeDays возвращает правильную форму слова «день» для числа n.
//
// Правила:
//   - 1, 21, 31 → "день"
//   - 2-4, 22-24 → "дня"
//   - 5-20, 25-30 → "дней"
func PluralizeDays(n int) string {
	absN := int(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "день"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "дня"
	}
	return "дней"
}

// PluralizePoints возвращает правильную форму слова «очко» для числа n.
func PluralizePoints(n int64) string {
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "очко"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "очка"
	}
	return "очков"
}

// LoadLocation загружает часовой пояс из конфига.
// Если не удалось — используем UTC+3 вручную.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}
