// Package admin — handlers.go обрабатывает вход в админку
// и защищает административные маршруты.
package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"serotonyl.ru/habit-api/internal/features/users"
	"serotonyl.ru/habit-api/internal/server/respond"
)

// adminTokenHeader — заголовок с токеном админ-сессии.
const adminTokenHeader = "X-Admin-Token"

// Handler обрабатывает запросы админ-доступа.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый обработчик админ-доступа.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register вешает маршруты входа и выхода. Они живут ВНЕ защищённого
// админ-роутера: токена у клиента на этом этапе ещё нет.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/login", h.handleLogin)
	r.Post("/admin/logout", h.handleLogout)
}

// RequireSession — middleware защищённых админ-маршрутов:
// проверяет токен из X-Admin-Token.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.service.ValidateToken(r.Context(), r.Header.Get(adminTokenHeader)); err != nil {
			respond.FromError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loginRequest struct {
	Password string `json:"password"`
}

// handleLogin — POST /api/admin/login: обмен пароля на токен сессии.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())

	var req loginRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	token, err := h.service.Login(r.Context(), u.ID, req.Password)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, map[string]any{"token": token})
}

// handleLogout — POST /api/admin/logout: деактивация сессий.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())

	if err := h.service.Logout(r.Context(), u.ID); err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, map[string]any{"message": "сессии завершены"})
}
