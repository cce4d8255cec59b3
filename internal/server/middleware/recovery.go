// Package middleware — recovery.go перехватывает паники обработчиков.
package middleware

import (
	"net/http"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/habit-api/internal/server/respond"
)

// Recover перехватывает панику обработчика: пишет стек в лог
// и отдаёт клиенту 500 вместо разрыва соединения.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithFields(log.Fields{
					"panic": rec,
					"path":  r.URL.Path,
					"stack": string(debug.Stack()),
				}).Error("ПАНИКА в обработчике запроса")
				respond.Fail(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
