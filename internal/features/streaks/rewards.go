// Package streaks — rewards.go определяет рубежи серии.
package streaks

// MilestoneReached проверяет, достигнут ли рубеж при росте серии
// с prev до curr. Рубеж — каждое кратное every (7, 14, 21, ...).
// Возвращает номер рубежа; повторное пересечение того же рубежа
// после срыва серии вернёт тот же номер — идемпотентность начисления
// обеспечивает реестр очков.
func MilestoneReached(prev, curr, every int) (int, bool) {
	if every <= 0 || curr <= prev {
		return 0, false
	}
	if curr%every == 0 {
		return curr, true
	}
	return 0, false
}
