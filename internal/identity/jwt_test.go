package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789"

func signToken(t *testing.T, secret string, c claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerify_ValidToken(t *testing.T) {
	v := NewJWTVerifier(testSecret)

	raw := signToken(t, testSecret, claims{
		Email: "user@example.com",
		Roles: []string{"user", "admin"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ext-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	p, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "ext-42", p.Subject)
	assert.Equal(t, "user@example.com", p.Email)
	assert.True(t, p.HasRole("admin"))
	assert.False(t, p.HasRole("superuser"))
}

func TestVerify_WrongSecret(t *testing.T) {
	v := NewJWTVerifier(testSecret)

	raw := signToken(t, "another-secret-9876543210", claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ext-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := v.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_ExpiredToken(t *testing.T) {
	v := NewJWTVerifier(testSecret)

	raw := signToken(t, testSecret, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ext-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := v.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_EmptySubject(t *testing.T) {
	v := NewJWTVerifier(testSecret)

	raw := signToken(t, testSecret, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := v.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	_, err := v.Verify(context.Background(), "не.токен.вовсе")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
