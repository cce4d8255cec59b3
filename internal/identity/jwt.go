// Package identity — jwt.go проверяет подпись и срок действия JWT.
// Провайдер подписывает токены HS256 общим секретом из конфига.
package identity

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// claims — ожидаемая структура полезной нагрузки токена.
type claims struct {
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier проверяет токены, подписанные HS256.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier создаёт верификатор с общим секретом провайдера.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify разбирает токен и возвращает принципала.
// Любая проблема с токеном сводится к ErrInvalidToken —
// детали подписи клиенту не сообщаем.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (*Principal, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		// Принимаем ТОЛЬКО HMAC: RS/ES-токены нам никто не выдаёт
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: пустой subject", ErrInvalidToken)
	}

	return &Principal{
		Subject: c.Subject,
		Email:   c.Email,
		Roles:   c.Roles,
	}, nil
}
