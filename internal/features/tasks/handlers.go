// Package tasks — handlers.go обрабатывает CRUD-запросы задач.
package tasks

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"serotonyl.ru/habit-api/internal/features/users"
	"serotonyl.ru/habit-api/internal/server/respond"
)

// Handler обрабатывает запросы задач.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый обработчик задач.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register вешает маршруты задач на роутер.
func (h *Handler) Register(r chi.Router) {
	r.Get("/tasks", h.handleList)
	r.Post("/tasks", h.handleCreate)
	r.Get("/tasks/{taskID}", h.handleGet)
	r.Patch("/tasks/{taskID}", h.handleUpdate)
	r.Delete("/tasks/{taskID}", h.handleDelete)
}

// taskPayload собирает JSON-представление задачи.
func taskPayload(t *Task) map[string]any {
	return map[string]any{
		"id":         t.ID,
		"title":      t.Title,
		"notes":      t.Notes,
		"color":      t.Color,
		"points":     t.Points,
		"archived":   t.Archived,
		"created_at": t.CreatedAt,
	}
}

func taskIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())
	includeArchived := r.URL.Query().Get("archived") == "true"

	tasks, err := h.service.List(r.Context(), u.ID, includeArchived)
	if err != nil {
		respond.FromError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskPayload(t))
	}
	respond.OK(w, map[string]any{"tasks": items})
}

// createRequest — тело POST /api/tasks.
type createRequest struct {
	Title  string `json:"title"`
	Notes  string `json:"notes"`
	Color  string `json:"color"`
	Points *int64 `json:"points"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())

	var req createRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	t, err := h.service.Create(r.Context(), u.ID, req.Title, req.Notes, req.Color, req.Points)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.Created(w, map[string]any{"task": taskPayload(t)})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())
	taskID, ok := taskIDParam(r)
	if !ok {
		respond.Fail(w, http.StatusBadRequest, "некорректный ID задачи")
		return
	}

	t, err := h.service.GetByID(r.Context(), u.ID, taskID)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, map[string]any{"task": taskPayload(t)})
}

// taskUpdateRequest — тело PATCH /api/tasks/{taskID}.
type taskUpdateRequest struct {
	Title    *string `json:"title"`
	Notes    *string `json:"notes"`
	Color    *string `json:"color"`
	Points   *int64  `json:"points"`
	Archived *bool   `json:"archived"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())
	taskID, ok := taskIDParam(r)
	if !ok {
		respond.Fail(w, http.StatusBadRequest, "некорректный ID задачи")
		return
	}

	var req taskUpdateRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	t, err := h.service.Update(r.Context(), u.ID, taskID, UpdateTask{
		Title:    req.Title,
		Notes:    req.Notes,
		Color:    req.Color,
		Points:   req.Points,
		Archived: req.Archived,
	})
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, map[string]any{"task": taskPayload(t)})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())
	taskID, ok := taskIDParam(r)
	if !ok {
		respond.Fail(w, http.StatusBadRequest, "некорректный ID задачи")
		return
	}

	if err := h.service.Delete(r.Context(), u.ID, taskID); err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, map[string]any{"message": "задача удалена"})
}
