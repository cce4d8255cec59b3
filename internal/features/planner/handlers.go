// Package planner — handlers.go обрабатывает запросы планировщика.
package planner

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"serotonyl.ru/habit-api/internal/common"
	"serotonyl.ru/habit-api/internal/features/users"
	"serotonyl.ru/habit-api/internal/server/respond"
)

// Handler обрабатывает запросы планировщика.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый обработчик планировщика.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register вешает маршруты планировщика на роутер.
func (h *Handler) Register(r chi.Router) {
	r.Get("/planner", h.handleList)
	r.Post("/planner", h.handlePlan)
	r.Patch("/planner/{plannedID}/completion", h.handleCompletion)
	r.Delete("/planner/{plannedID}", h.handleDelete)
}

// plannedPayload собирает JSON-представление запланированного дня.
func plannedPayload(p *PlannedDay) map[string]any {
	return map[string]any{
		"id":           p.ID,
		"task_id":      p.TaskID,
		"task_title":   p.TaskTitle,
		"task_color":   p.TaskColor,
		"task_points":  p.TaskPoints,
		"day":          common.FormatDayKey(p.DayKey),
		"completed":    p.Completed,
		"completed_at": p.CompletedAt,
	}
}

func plannedIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "plannedID"), 10, 64)
	return id, err == nil && id > 0
}

// handleList — GET /api/planner?from=2024-01-01&to=2024-01-31.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())

	from, err := common.ParseDayKey(r.URL.Query().Get("from"))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	to, err := common.ParseDayKey(r.URL.Query().Get("to"))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	if to.Before(from) {
		respond.Fail(w, http.StatusBadRequest, "параметр to раньше from")
		return
	}

	days, err := h.service.ListRange(r.Context(), u.ID, from, to)
	if err != nil {
		respond.FromError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(days))
	for _, p := range days {
		items = append(items, plannedPayload(p))
	}
	respond.OK(w, map[string]any{"days": items})
}

// planRequest — тело POST /api/planner.
type planRequest struct {
	TaskID int64  `json:"task_id"`
	Day    string `json:"day"`
}

func (h *Handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())

	var req planRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	dayKey, err := common.ParseDayKey(req.Day)
	if err != nil {
		respond.FromError(w, err)
		return
	}

	p, err := h.service.Plan(r.Context(), u.ID, req.TaskID, dayKey)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.Created(w, map[string]any{"planned_day": plannedPayload(p)})
}

// completionRequest — тело PATCH /api/planner/{plannedID}/completion.
type completionRequest struct {
	Completed bool `json:"completed"`
}

func (h *Handler) handleCompletion(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())
	plannedID, ok := plannedIDParam(r)
	if !ok {
		respond.Fail(w, http.StatusBadRequest, "некорректный ID запланированного дня")
		return
	}

	var req completionRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	p, err := h.service.SetCompletion(r.Context(), u.ID, plannedID, req.Completed)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, map[string]any{"planned_day": plannedPayload(p)})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())
	plannedID, ok := plannedIDParam(r)
	if !ok {
		respond.Fail(w, http.StatusBadRequest, "некорректный ID запланированного дня")
		return
	}

	if err := h.service.Delete(r.Context(), u.ID, plannedID); err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, map[string]any{"message": "день убран из плана"})
}
