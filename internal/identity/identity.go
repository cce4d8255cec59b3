// Package identity описывает контракт внешнего identity-провайдера.
// Сервер НЕ выпускает токены — только проверяет и достаёт из них
// принципала (subject, email, роли).
package identity

import (
	"context"
	"errors"
	"slices"
)

// ErrInvalidToken — токен отсутствует, просрочен или подпись не сошлась.
var ErrInvalidToken = errors.New("недействительный токен")

// Principal — расшифрованный владелец bearer-токена.
type Principal struct {
	Subject string   // Уникальный идентификатор у провайдера
	Email   string   // Email из claims (может быть пустым)
	Roles   []string // Кастомный claim roles
}

// HasRole проверяет наличие роли у принципала.
func (p *Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// Verifier проверяет bearer-токен и возвращает принципала.
// Реализация по умолчанию — JWTVerifier (jwt.go).
type Verifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// Ключ контекста для принципала. Свой тип, чтобы не пересекаться
// с чужими ключами.
type ctxKey struct{}

// WithPrincipal кладёт принципала в контекст запроса.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext достаёт принципала из контекста.
// Второе значение false — запрос не прошёл авторизацию.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(*Principal)
	return p, ok
}
