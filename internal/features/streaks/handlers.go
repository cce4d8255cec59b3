// Package streaks — handlers.go обрабатывает запросы серий.
package streaks

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"serotonyl.ru/habit-api/internal/common"
	"serotonyl.ru/habit-api/internal/features/users"
	"serotonyl.ru/habit-api/internal/server/respond"
)

// Handler обрабатывает запросы серий.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый обработчик серий.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register вешает маршруты серий на роутер.
func (h *Handler) Register(r chi.Router) {
	r.Get("/streak", h.handleGet)
	r.Post("/streak/rebuild", h.handleRebuild)
}

// RegisterAdmin вешает административные маршруты серий.
// Роутер уже защищён проверкой админской сессии.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/streaks/{userID}/rebuild", h.handleAdminRebuild)
}

// handleGet — GET /api/streak: текущая и лучшая серии.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())

	streak, err := h.service.Get(r.Context(), u.ID)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, streakPayload(streak))
}

// handleRebuild — POST /api/streak/rebuild: полный пересчёт серии
// по истории выполненных дней.
func (h *Handler) handleRebuild(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())

	streak, err := h.service.Rebuild(r.Context(), u.ID)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, streakPayload(streak))
}

// handleAdminRebuild — POST /api/admin/streaks/{userID}/rebuild:
// пересчёт серии любого пользователя (backfill после миграций).
func (h *Handler) handleAdminRebuild(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		respond.FromError(w, common.ErrUserNotFound)
		return
	}

	streak, err := h.service.Rebuild(r.Context(), userID)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, streakPayload(streak))
}

func streakPayload(s *HabitStreak) map[string]any {
	var lastActive any
	if s.LastActiveDay != nil {
		lastActive = common.FormatDayKey(*s.LastActiveDay)
	}
	return map[string]any{
		"current_streak":  s.CurrentStreak,
		"best_streak":     s.BestStreak,
		"last_active_day": lastActive,
	}
}
