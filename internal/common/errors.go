// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях сервера.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отдавать клиенту корректный HTTP-статус.
package common

import "errors"

// Ошибки валидации (4xx, повтор запроса не поможет)
var (
	// ErrEmptyTitle — у задачи пустой заголовок
	ErrEmptyTitle = errors.New("заголовок задачи не может быть пустым")
	// ErrInvalidDayKey — день передан не в формате 2006-01-02
	ErrInvalidDayKey = errors.New("некорректная дата, ожидается формат ГГГГ-ММ-ДД")
	// ErrInvalidPoints — отрицательная награда за задачу
	ErrInvalidPoints = errors.New("награда за задачу не может быть отрицательной")
	// ErrForeignTask — задача принадлежит другому пользователю
	ErrForeignTask = errors.New("задача принадлежит другому пользователю")
	// ErrInvalidWidgetKind — неизвестный тип виджета
	ErrInvalidWidgetKind = errors.New("неизвестный тип виджета")
	// ErrInvalidWidgetSettings — настройки виджета не являются валидным JSON
	ErrInvalidWidgetSettings = errors.New("настройки виджета должны быть валидным JSON")
	// ErrDayAlreadyPlanned — задача уже запланирована на этот день
	ErrDayAlreadyPlanned = errors.New("задача уже запланирована на этот день")
	// ErrInvalidNotifyChannel — неизвестный канал напоминаний
	ErrInvalidNotifyChannel = errors.New("неизвестный канал напоминаний")
	// ErrInvalidTimezone — неизвестный часовой пояс
	ErrInvalidTimezone = errors.New("неизвестный часовой пояс")
)

// Ошибки «не найдено»
var (
	// ErrUserNotFound — пользователь не найден в базе
	ErrUserNotFound = errors.New("пользователь не найден")
	// ErrTaskNotFound — задача не найдена
	ErrTaskNotFound = errors.New("задача не найдена")
	// ErrPlannedDayNotFound — запланированный день не найден
	ErrPlannedDayNotFound = errors.New("запланированный день не найден")
	// ErrWidgetNotFound — виджет не найден
	ErrWidgetNotFound = errors.New("виджет не найден")
	// ErrBadgeNotFound — бейдж не найден в справочнике
	ErrBadgeNotFound = errors.New("бейдж не найден")
	// ErrAwardNotFound — у пользователя нет такой награды
	ErrAwardNotFound = errors.New("награда не найдена")
	// ErrTierNotFound — ни один уровень не покрывает сумму очков.
	// Это ошибка КОНФИГУРАЦИИ (дыра в диапазонах point_tiers), а не повод для ретрая.
	ErrTierNotFound = errors.New("уровень для суммы очков не найден: проверьте таблицу point_tiers")
)

// Ошибки авторизации и админки
var (
	// ErrUnauthorized — запрос без валидного bearer-токена
	ErrUnauthorized = errors.New("требуется авторизация")
	// ErrNotAdmin — нет активной админ-сессии
	ErrNotAdmin = errors.New("у вас нет прав администратора")
	// ErrWrongPassword — неверный пароль администратора
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
	// ErrSessionExpired — админ-сессия истекла
	ErrSessionExpired = errors.New("сессия истекла, авторизуйтесь заново")
)

// IsValidation сообщает, относится ли ошибка к валидации запроса.
func IsValidation(err error) bool {
	for _, e := range []error{
		ErrEmptyTitle, ErrInvalidDayKey, ErrInvalidPoints,
		ErrForeignTask, ErrInvalidWidgetKind, ErrInvalidWidgetSettings, ErrDayAlreadyPlanned,
		ErrInvalidNotifyChannel, ErrInvalidTimezone,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// IsNotFound сообщает, относится ли ошибка к отсутствующей сущности.
func IsNotFound(err error) bool {
	for _, e := range []error{
		ErrUserNotFound, ErrTaskNotFound, ErrPlannedDayNotFound,
		ErrWidgetNotFound, ErrBadgeNotFound, ErrAwardNotFound, ErrTierNotFound,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
