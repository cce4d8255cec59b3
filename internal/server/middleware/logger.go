// Package middleware — logger.go логирует входящие HTTP-запросы.
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/habit-api/internal/identity"
)

// LogRequests логирует каждый запрос: метод, путь, статус,
// длительность и субъект токена (если есть).
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		fields := log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start).String(),
		}
		if p, ok := identity.FromContext(r.Context()); ok {
			fields["subject"] = p.Subject
		}
		log.WithFields(fields).Debug("HTTP-запрос")
	})
}
