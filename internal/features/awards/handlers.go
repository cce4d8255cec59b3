// Package awards — handlers.go обрабатывает запросы наград.
package awards

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"serotonyl.ru/habit-api/internal/features/users"
	"serotonyl.ru/habit-api/internal/server/respond"
)

// Handler обрабатывает запросы наград.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый обработчик наград.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register вешает пользовательские маршруты наград на роутер.
func (h *Handler) Register(r chi.Router) {
	r.Get("/awards", h.handleList)
}

// RegisterAdmin вешает административные маршруты наград.
// Роутер уже защищён проверкой админской сессии.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/awards/revoke", h.handleRevoke)
}

// handleList — GET /api/awards: справочник бейджей со статусом награды.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())

	badges, err := h.service.List(r.Context(), u.ID)
	if err != nil {
		respond.FromError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(badges))
	for _, b := range badges {
		items = append(items, map[string]any{
			"id":              b.ID,
			"code":            b.Code,
			"name":            b.Name,
			"description":     b.Description,
			"required_points": b.RequiredPoints,
			"earned":          b.Earned,
			"earned_at":       b.EarnedAt,
		})
	}
	respond.OK(w, map[string]any{"badges": items})
}

type revokeRequest struct {
	UserID  int64 `json:"user_id"`
	BadgeID int64 `json:"badge_id"`
}

// handleRevoke — POST /api/admin/awards/revoke: отзыв награды.
func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	var req revokeRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	if err := h.service.Revoke(r.Context(), req.UserID, req.BadgeID); err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, map[string]any{"message": "награда отозвана"})
}
