// Package config загружает конфигурацию сервера из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- HTTP ---
	HTTPHost string `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8080"`
	// Таймауты сервера. Держим небольшими — длинных запросов у нас нет.
	HTTPReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	HTTPWriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`
	HTTPShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`

	// --- Identity ---
	// Секрет для проверки подписи bearer-токенов (HS256).
	// Токены выпускает внешний identity-провайдер, мы их только проверяем.
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"habituser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"habit_api"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Admin ---
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`

	// --- Streak ---
	StreakReminderThreshold int `envconfig:"STREAK_REMINDER_THRESHOLD" default:"7"`
	// Каждые N дней серии начисляется бонус в реестр очков
	StreakMilestoneDays  int   `envconfig:"STREAK_MILESTONE_DAYS" default:"7"`
	StreakMilestoneBonus int64 `envconfig:"STREAK_MILESTONE_BONUS" default:"50"`

	// --- Points ---
	// Награда за выполненный день, если у задачи не задано своё значение
	PointsPerDay int64 `envconfig:"POINTS_PER_DAY" default:"10"`

	// --- Mail (Resend-совместимый API) ---
	MailBaseURL string `envconfig:"MAIL_BASE_URL" default:"https://api.resend.com"`
	MailAPIKey  string `envconfig:"MAIL_API_KEY"`
	MailFrom    string `envconfig:"MAIL_FROM" default:"habit@serotonyl.ru"`

	// --- Telegram (необязательный канал напоминаний) ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"60"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Feature Flags ---
	FeatureMailEnabled     bool `envconfig:"FEATURE_MAIL_ENABLED" default:"true"`
	FeatureTelegramEnabled bool `envconfig:"FEATURE_TELEGRAM_ENABLED" default:"false"`
	FeatureWidgetsEnabled  bool `envconfig:"FEATURE_WIDGETS_ENABLED" default:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Addr возвращает адрес, на котором слушает HTTP-сервер.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("некорректный HTTP_PORT: %d", c.HTTPPort)
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET слишком короткий (минимум 16 символов)")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.StreakMilestoneDays <= 0 {
		return fmt.Errorf("STREAK_MILESTONE_DAYS должен быть > 0")
	}
	if c.StreakMilestoneBonus < 0 {
		return fmt.Errorf("STREAK_MILESTONE_BONUS не может быть отрицательным")
	}
	if c.PointsPerDay < 0 {
		return fmt.Errorf("POINTS_PER_DAY не может быть отрицательным")
	}
	if c.FeatureTelegramEnabled && c.TelegramBotToken == "" {
		return fmt.Errorf("FEATURE_TELEGRAM_ENABLED требует TELEGRAM_BOT_TOKEN")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
