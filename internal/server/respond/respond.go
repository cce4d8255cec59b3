// Package respond формирует единый конверт ответа API:
// {"success": bool, "httpCode": int, "message": string, ...payload}.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/habit-api/internal/common"
	"serotonyl.ru/habit-api/internal/identity"
)

// JSON пишет ответ с конвертом. Поля payload добавляются
// на верхний уровень конверта.
func JSON(w http.ResponseWriter, status int, payload map[string]any) {
	body := map[string]any{
		"success":  status < 400,
		"httpCode": status,
	}
	for k, v := range payload {
		body[k] = v
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Ошибка сериализации ответа")
	}
}

// OK — успешный ответ 200 с полезной нагрузкой.
func OK(w http.ResponseWriter, payload map[string]any) {
	JSON(w, http.StatusOK, payload)
}

// Created — успешный ответ 201 с полезной нагрузкой.
func Created(w http.ResponseWriter, payload map[string]any) {
	JSON(w, http.StatusCreated, payload)
}

// Fail — ответ об ошибке с фиксированным сообщением.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]any{"message": message})
}

// FromError сводит ошибку к HTTP-статусу по таксономии:
// валидация → 400, «не найдено» → 404, авторизация → 401/403,
// всё остальное — ошибка зависимости, наружу уходит 500
// с общим сообщением (детали только в логах).
func FromError(w http.ResponseWriter, err error) {
	switch {
	case common.IsValidation(err):
		Fail(w, http.StatusBadRequest, err.Error())
	case common.IsNotFound(err):
		if errors.Is(err, common.ErrTierNotFound) {
			// Дыра в диапазонах уровней — проблема конфигурации, не клиента
			log.WithError(err).Error("Ошибка конфигурации уровней")
		}
		Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, identity.ErrInvalidToken), errors.Is(err, common.ErrUnauthorized):
		Fail(w, http.StatusUnauthorized, common.ErrUnauthorized.Error())
	case errors.Is(err, common.ErrNotAdmin), errors.Is(err, common.ErrSessionExpired):
		Fail(w, http.StatusForbidden, err.Error())
	case errors.Is(err, common.ErrWrongPassword):
		Fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, common.ErrTooManyAttempts):
		Fail(w, http.StatusTooManyRequests, err.Error())
	default:
		log.WithError(err).Error("Ошибка зависимости")
		Fail(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
	}
}

// DecodeJSON разбирает тело запроса в структуру запроса.
// Лишние поля — ошибка: опечатка в имени поля не должна
// молча превращаться в значение по умолчанию.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
