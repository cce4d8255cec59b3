// Package app собирает приложение: подключение к базе, миграции,
// шину событий, сервисы, HTTP-сервер и планировщик.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/habit-api/internal/config"
	"serotonyl.ru/habit-api/internal/db/postgres"
	"serotonyl.ru/habit-api/internal/events"
	"serotonyl.ru/habit-api/internal/features/admin"
	"serotonyl.ru/habit-api/internal/features/awards"
	"serotonyl.ru/habit-api/internal/features/planner"
	"serotonyl.ru/habit-api/internal/features/points"
	"serotonyl.ru/habit-api/internal/features/streaks"
	"serotonyl.ru/habit-api/internal/features/tasks"
	"serotonyl.ru/habit-api/internal/features/users"
	"serotonyl.ru/habit-api/internal/features/widgets"
	"serotonyl.ru/habit-api/internal/identity"
	"serotonyl.ru/habit-api/internal/jobs"
	"serotonyl.ru/habit-api/internal/mail"
	"serotonyl.ru/habit-api/internal/notify"
	"serotonyl.ru/habit-api/internal/server"
)

// App — собранное приложение.
type App struct {
	cfg       *config.Config
	pool      *pgxpool.Pool
	bus       *events.Dispatcher
	server    *server.Server
	scheduler *jobs.Scheduler
}

// New собирает приложение: база и миграции, репозитории, сервисы,
// подписки на события, сервер и планировщик.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	bus := events.NewDispatcher()

	// Репозитории и сервисы
	userService := users.NewService(users.NewRepository(pool))
	taskService := tasks.NewService(tasks.NewRepository(pool), cfg.PointsPerDay)
	plannerService := planner.NewService(planner.NewRepository(pool), taskService, bus)
	pointsService := points.NewService(points.NewRepository(pool), bus)
	streakService := streaks.NewService(
		streaks.NewRepository(pool), pointsService,
		cfg.StreakMilestoneDays, cfg.StreakMilestoneBonus,
	)
	awardService := awards.NewService(awards.NewRepository(pool), bus)
	widgetService := widgets.NewService(widgets.NewRepository(pool))
	adminService := admin.NewService(admin.NewRepository(pool), cfg.AdminPasswordHash)

	// Каналы уведомлений
	var mailer notify.Mailer
	if cfg.FeatureMailEnabled && cfg.MailAPIKey != "" {
		mailer = mail.NewClient(cfg.MailBaseURL, cfg.MailAPIKey, cfg.MailFrom)
	}
	var telegram notify.TelegramSender
	if cfg.FeatureTelegramEnabled {
		tg, err := notify.NewTelegramClient(cfg.TelegramBotToken)
		if err != nil {
			pool.Close()
			return nil, err
		}
		telegram = tg
	}
	notifier := notify.NewNotifier(userService, mailer, telegram)

	// Конвейер начислений: выполнение дня → очки → награды → поздравление
	events.Subscribe(bus, "points", pointsService.OnDayCompletionChanged)
	events.Subscribe(bus, "streaks", streakService.OnDayCompletionChanged)
	events.Subscribe(bus, "awards", awardService.OnPointsRecomputed)
	events.Subscribe(bus, "notify", notifier.OnAwardGranted)

	verifier := identity.NewJWTVerifier(cfg.JWTSecret)

	srv := server.New(cfg, verifier, userService, server.Handlers{
		Users:   users.NewHandler(userService),
		Tasks:   tasks.NewHandler(taskService),
		Planner: planner.NewHandler(plannerService),
		Points:  points.NewHandler(pointsService),
		Streaks: streaks.NewHandler(streakService),
		Awards:  awards.NewHandler(awardService),
		Widgets: widgets.NewHandler(widgetService),
		Admin:   admin.NewHandler(adminService),
	})

	scheduler := jobs.NewScheduler(streakService, notifier, cfg.AppTimezone, cfg.StreakReminderThreshold)

	return &App{
		cfg:       cfg,
		pool:      pool,
		bus:       bus,
		server:    srv,
		scheduler: scheduler,
	}, nil
}

// Run запускает планировщик и HTTP-сервер. Блокируется до остановки сервера.
func (a *App) Run(ctx context.Context) error {
	a.scheduler.Start(ctx)
	return a.server.Run()
}

// Shutdown мягко останавливает приложение: сервер, планировщик,
// дожидается подписчиков шины и закрывает пул.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	a.scheduler.Stop()
	a.bus.Wait()
	a.pool.Close()
	log.Info("Приложение остановлено")
	return err
}

// runMigrations применяет миграции схемы по порядку версий.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	return postgres.Migrate(ctx, pool, []postgres.Migration{
		{Version: 1, SQL: migration001Users},
		{Version: 2, SQL: migration002Tasks},
		{Version: 3, SQL: migration003Planner},
		{Version: 4, SQL: migration004Points},
		{Version: 5, SQL: migration005Awards},
		{Version: 6, SQL: migration006Streaks},
		{Version: 7, SQL: migration007Widgets},
		{Version: 8, SQL: migration008Admin},
	})
}

// --- SQL миграций ---

var migration001Users = `
CREATE TABLE IF NOT EXISTS users (
	id               BIGSERIAL PRIMARY KEY,
	subject          TEXT NOT NULL UNIQUE,
	email            TEXT NOT NULL DEFAULT '',
	display_name     TEXT NOT NULL DEFAULT '',
	timezone         TEXT NOT NULL DEFAULT 'Europe/Moscow',
	notify_channel   TEXT NOT NULL DEFAULT 'email',
	telegram_chat_id BIGINT,
	created_at       TIMESTAMP NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMP NOT NULL DEFAULT NOW()
);
`

var migration002Tasks = `
CREATE TABLE IF NOT EXISTS tasks (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title      TEXT NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	color      TEXT NOT NULL DEFAULT '',
	points     BIGINT NOT NULL DEFAULT 0,
	archived   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);
`

var migration003Planner = `
CREATE TABLE IF NOT EXISTS planned_days (
	id           BIGSERIAL PRIMARY KEY,
	user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	task_id      BIGINT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	day_key      DATE NOT NULL,
	completed    BOOLEAN NOT NULL DEFAULT FALSE,
	completed_at TIMESTAMP,
	created_at   TIMESTAMP NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMP NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, task_id, day_key)
);
CREATE INDEX IF NOT EXISTS idx_planned_user_day ON planned_days(user_id, day_key);
`

var migration004Points = `
CREATE TABLE IF NOT EXISTS point_ledger (
	id              BIGSERIAL PRIMARY KEY,
	user_id         BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	relevant_id     BIGINT NOT NULL,
	definition_type TEXT NOT NULL,
	points          BIGINT NOT NULL DEFAULT 0,
	created_at      TIMESTAMP NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMP NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, relevant_id, definition_type)
);
CREATE INDEX IF NOT EXISTS idx_ledger_user ON point_ledger(user_id);

CREATE TABLE IF NOT EXISTS point_tiers (
	level      INTEGER PRIMARY KEY,
	min_points BIGINT NOT NULL,
	max_points BIGINT NOT NULL,
	badge      TEXT NOT NULL
);

-- Диапазоны смежные, без дыр; верхний уровень открыт сверху
INSERT INTO point_tiers (level, min_points, max_points, badge) VALUES
	(1, 0,    99,           'Новичок'),
	(2, 100,  299,          'Любитель'),
	(3, 300,  699,          'Практик'),
	(4, 700,  1499,         'Мастер'),
	(5, 1500, 9223372036854775807, 'Легенда')
ON CONFLICT (level) DO NOTHING;
`

var migration005Awards = `
CREATE TABLE IF NOT EXISTS badges (
	id              BIGSERIAL PRIMARY KEY,
	code            TEXT NOT NULL UNIQUE,
	name            TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	required_points BIGINT NOT NULL
);

INSERT INTO badges (code, name, description, required_points) VALUES
	('first_steps', 'Первые шаги',   'Заработайте первые 10 очков',  10),
	('first_week',  'Первая неделя', 'Наберите 70 очков',            70),
	('centurion',   'Центурион',     'Наберите 100 очков',           100),
	('marathoner',  'Марафонец',     'Наберите 500 очков',           500),
	('immortal',    'Бессмертный',   'Наберите 1500 очков',          1500)
ON CONFLICT (code) DO NOTHING;

CREATE TABLE IF NOT EXISTS user_awards (
	user_id   BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	badge_id  BIGINT NOT NULL REFERENCES badges(id) ON DELETE CASCADE,
	active    BOOLEAN NOT NULL DEFAULT TRUE,
	earned_at TIMESTAMP NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, badge_id)
);
`

var migration006Streaks = `
CREATE TABLE IF NOT EXISTS habit_streaks (
	user_id         BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
	current_streak  INTEGER NOT NULL DEFAULT 0,
	best_streak     INTEGER NOT NULL DEFAULT 0,
	last_active_day DATE,
	updated_at      TIMESTAMP NOT NULL DEFAULT NOW()
);
`

var migration007Widgets = `
CREATE TABLE IF NOT EXISTS widgets (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	kind       TEXT NOT NULL,
	position   INTEGER NOT NULL DEFAULT 0,
	settings   JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMP NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_widgets_user ON widgets(user_id);
`

var migration008Admin = `
CREATE TABLE IF NOT EXISTS admin_sessions (
	id               BIGSERIAL PRIMARY KEY,
	user_id          BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	session_token    TEXT NOT NULL UNIQUE,
	authenticated_at TIMESTAMP NOT NULL DEFAULT NOW(),
	expires_at       TIMESTAMP NOT NULL,
	last_activity    TIMESTAMP NOT NULL DEFAULT NOW(),
	is_active        BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS admin_login_attempts (
	id           BIGSERIAL PRIMARY KEY,
	user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	attempt_time TIMESTAMP NOT NULL DEFAULT NOW(),
	success      BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_attempts_user_time ON admin_login_attempts(user_id, attempt_time);
`
