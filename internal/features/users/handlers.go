// Package users — handlers.go обрабатывает запросы профиля.
// GET /api/users/me и PATCH /api/users/me.
package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/habit-api/internal/identity"
	"serotonyl.ru/habit-api/internal/server/respond"
)

// Handler обрабатывает запросы профиля.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый обработчик профиля.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register вешает маршруты профиля на роутер.
func (h *Handler) Register(r chi.Router) {
	r.Get("/users/me", h.handleMe)
	r.Patch("/users/me", h.handleUpdate)
}

// ResolveUser — промежуточный обработчик: по принципалу из токена
// находит (или заводит) профиль и кладёт его в контекст.
// Все маршруты /api/* работают уже с внутренним профилем.
func ResolveUser(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := identity.FromContext(r.Context())
			if !ok {
				respond.Fail(w, http.StatusUnauthorized, "требуется авторизация")
				return
			}

			u, err := service.EnsureByPrincipal(r.Context(), p)
			if err != nil {
				log.WithError(err).WithField("subject", p.Subject).Error("Ошибка загрузки профиля")
				respond.FromError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// userPayload собирает JSON-представление профиля.
func userPayload(u *User) map[string]any {
	return map[string]any{
		"user": map[string]any{
			"id":               u.ID,
			"email":            u.Email,
			"display_name":     u.DisplayName,
			"timezone":         u.Timezone,
			"notify_channel":   u.NotifyChannel,
			"telegram_chat_id": u.TelegramChatID,
			"created_at":       u.CreatedAt,
		},
	}
}

// handleMe возвращает профиль текущего пользователя.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	u, _ := FromContext(r.Context())
	respond.OK(w, userPayload(u))
}

// updateRequest — тело PATCH /api/users/me.
// nil-поле означает «не менять».
type updateRequest struct {
	DisplayName    *string `json:"display_name"`
	Timezone       *string `json:"timezone"`
	NotifyChannel  *string `json:"notify_channel"`
	TelegramChatID *int64  `json:"telegram_chat_id"`
}

// handleUpdate изменяет профиль текущего пользователя.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	u, _ := FromContext(r.Context())

	var req updateRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), u.ID, UpdateProfile{
		DisplayName:    req.DisplayName,
		Timezone:       req.Timezone,
		NotifyChannel:  req.NotifyChannel,
		TelegramChatID: req.TelegramChatID,
	})
	if err != nil {
		respond.FromError(w, err)
		return
	}

	respond.OK(w, userPayload(updated))
}
