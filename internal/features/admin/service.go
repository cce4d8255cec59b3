// Package admin — service.go содержит логику аутентификации
// и управления админ-сессиями.
package admin

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"serotonyl.ru/habit-api/internal/common"
)

const (
	maxFailedAttempts = 3
	attemptWindow     = 1 * time.Hour
	sessionLifetime   = 24 * time.Hour
)

// Service управляет админ-доступом.
type Service struct {
	store        Store
	passwordHash string
}

// NewService создаёт сервис админ-доступа.
// passwordHash — хеш Argon2id из конфигурации.
func NewService(store Store, passwordHash string) *Service {
	return &Service{store: store, passwordHash: passwordHash}
}

// Login проверяет пароль администратора и выдаёт токен сессии.
// Защита от brute-force: 3 неудачные попытки = блокировка на 1 час.
func (s *Service) Login(ctx context.Context, userID int64, password string) (string, error) {
	failures, err := s.store.CountRecentFailures(ctx, userID, attemptWindow)
	if err != nil {
		return "", err
	}
	if failures >= maxFailedAttempts {
		return "", common.ErrTooManyAttempts
	}

	match := verifyArgon2id(password, s.passwordHash)

	if err := s.store.LogAttempt(ctx, userID, match); err != nil {
		log.WithError(err).Error("Не удалось записать попытку входа")
	}

	if !match {
		log.WithField("user_id", userID).Warn("Неудачная попытка входа в админку")
		return "", common.ErrWrongPassword
	}

	token := generateSecureToken()
	session := &Session{
		UserID:       userID,
		SessionToken: token,
		ExpiresAt:    time.Now().Add(sessionLifetime),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", err
	}

	log.WithField("user_id", userID).Info("Администратор вошёл в систему")
	return token, nil
}

// ValidateToken проверяет токен админ-сессии и продлевает активность.
// Токен пустой или сессии нет → ErrNotAdmin.
func (s *Service) ValidateToken(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, common.ErrNotAdmin
	}
	session, err := s.store.GetSessionByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateActivity(ctx, token); err != nil {
		log.WithError(err).Error("Не удалось обновить активность сессии")
	}
	return session, nil
}

// Logout деактивирует все сессии пользователя.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.store.DeactivateSessions(ctx, userID)
}

// --- Криптографические утилиты ---

// verifyArgon2id проверяет пароль по хешу Argon2id.
// Формат хеша: $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func verifyArgon2id(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	_, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism)
	if err != nil {
		log.WithError(err).Error("Ошибка парсинга параметров Argon2id")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования соли")
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования хеша")
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Сравнение в постоянном времени (защита от timing attack)
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1
}

// generateSecureToken генерирует криптографически безопасный токен сессии.
func generateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return base64.URLEncoding.EncodeToString(b)
}
