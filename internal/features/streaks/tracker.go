// Package streaks — tracker.go содержит чистую машину состояний серии.
// Никакого I/O: функции принимают состояние и день-ключ, возвращают
// новое состояние. Вся работа с БД — в service.go и repository.go.
package streaks

import (
	"time"

	"serotonyl.ru/habit-api/internal/common"
)

// State — состояние машины серии. Нулевое значение — «серии нет».
type State struct {
	Current       int
	Best          int
	LastActiveDay *time.Time
}

// Advance применяет к состоянию выполненный день-ключ.
//
// Переходы:
//  1. Тот же день, что и последний активный → без изменений
//  2. Ровно следующий календарный день → серия растёт на 1
//  3. Любой разрыв (или первой записи нет) → серия начинается заново с 1
//
// Рекорд обновляется всегда: best = max(best, current).
func Advance(s State, day time.Time) State {
	day = common.DayKey(day)

	switch {
	case s.LastActiveDay != nil && common.SameDay(*s.LastActiveDay, day):
		return s
	case s.LastActiveDay != nil && common.IsNextDay(*s.LastActiveDay, day):
		s.Current++
	default:
		s.Current = 1
	}

	if s.Current > s.Best {
		s.Best = s.Current
	}
	s.LastActiveDay = &day
	return s
}

// Replay восстанавливает состояние серии с нуля по списку выполненных
// дней-ключей. Дни ДОЛЖНЫ быть отсортированы по возрастанию — это
// единственная операция, требующая упорядоченного воспроизведения.
// Идемпотентна: два прогона по одной истории дают одно состояние.
func Replay(days []time.Time) State {
	var s State
	for _, day := range days {
		s = Advance(s, day)
	}
	return s
}

// Broken проверяет, что серия прервана: последний активный день
// раньше вчерашнего относительно today. Сегодняшний день ещё можно
// успеть выполнить, поэтому вчерашняя активность серию не рвёт.
func Broken(s State, today time.Time) bool {
	if s.Current == 0 || s.LastActiveDay == nil {
		return false
	}
	yesterday := common.DayKey(today.AddDate(0, 0, -1))
	return s.LastActiveDay.Before(yesterday)
}
