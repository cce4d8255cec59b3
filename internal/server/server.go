// Package server собирает HTTP-сервер: роутер, цепочку
// промежуточных обработчиков и маршруты всех фич.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/habit-api/internal/config"
	"serotonyl.ru/habit-api/internal/features/admin"
	"serotonyl.ru/habit-api/internal/features/awards"
	"serotonyl.ru/habit-api/internal/features/planner"
	"serotonyl.ru/habit-api/internal/features/points"
	"serotonyl.ru/habit-api/internal/features/streaks"
	"serotonyl.ru/habit-api/internal/features/tasks"
	"serotonyl.ru/habit-api/internal/features/users"
	"serotonyl.ru/habit-api/internal/features/widgets"
	"serotonyl.ru/habit-api/internal/identity"
	"serotonyl.ru/habit-api/internal/server/middleware"
	"serotonyl.ru/habit-api/internal/server/respond"
)

// Handlers — обработчики всех фич для сборки роутера.
type Handlers struct {
	Users   *users.Handler
	Tasks   *tasks.Handler
	Planner *planner.Handler
	Points  *points.Handler
	Streaks *streaks.Handler
	Awards  *awards.Handler
	Widgets *widgets.Handler
	Admin   *admin.Handler
}

// Server — HTTP-сервер приложения.
type Server struct {
	httpServer *http.Server
	limiter    *middleware.RateLimiter
}

// New собирает сервер: /healthz открыт, всё под /api требует
// bearer-токен, профиль пользователя резолвится автоматически,
// админ-маршруты дополнительно защищены токеном сессии.
func New(cfg *config.Config, verifier identity.Verifier, userService *users.Service, h Handlers) *Server {
	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	r := chi.NewRouter()
	r.Use(middleware.Recover)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond.OK(w, map[string]any{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(verifier))
		r.Use(middleware.LogRequests)
		r.Use(users.ResolveUser(userService))
		r.Use(limiter.Middleware)

		h.Users.Register(r)
		h.Tasks.Register(r)
		h.Planner.Register(r)
		h.Points.Register(r)
		h.Streaks.Register(r)
		h.Awards.Register(r)
		if cfg.FeatureWidgetsEnabled {
			h.Widgets.Register(r)
		}

		// Вход и выход живут вне защищённого админ-роутера
		h.Admin.Register(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.Admin.RequireSession)
			h.Awards.RegisterAdmin(r)
			h.Streaks.RegisterAdmin(r)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      r,
			ReadTimeout:  cfg.HTTPReadTimeout,
			WriteTimeout: cfg.HTTPWriteTimeout,
		},
		limiter: limiter,
	}
}

// Run запускает сервер и блокируется до остановки.
func (s *Server) Run() error {
	log.WithField("addr", s.httpServer.Addr).Info("HTTP-сервер запущен")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown мягко останавливает сервер: ждёт активные запросы
// в пределах контекста и гасит лимитер.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Close()
	return s.httpServer.Shutdown(ctx)
}
