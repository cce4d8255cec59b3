// Package middleware содержит промежуточные обработчики HTTP:
// аутентификация, логирование, восстановление после паники
// и rate-limiting.
package middleware

import (
	"net/http"
	"strings"

	"serotonyl.ru/habit-api/internal/identity"
	"serotonyl.ru/habit-api/internal/server/respond"
)

// Authenticate проверяет bearer-токен и кладёт принципала в контекст.
// Запрос без валидного токена дальше не проходит.
func Authenticate(verifier identity.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respond.FromError(w, identity.ErrInvalidToken)
				return
			}

			principal, err := verifier.Verify(r.Context(), token)
			if err != nil {
				respond.FromError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithPrincipal(r.Context(), principal)))
		})
	}
}

// bearerToken извлекает токен из заголовка Authorization.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
