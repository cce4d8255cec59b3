// Package widgets — handlers.go обрабатывает запросы виджетов.
package widgets

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"serotonyl.ru/habit-api/internal/common"
	"serotonyl.ru/habit-api/internal/features/users"
	"serotonyl.ru/habit-api/internal/server/respond"
)

// Handler обрабатывает запросы виджетов.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый обработчик виджетов.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register вешает маршруты виджетов на роутер.
func (h *Handler) Register(r chi.Router) {
	r.Route("/widgets", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Route("/{widgetID}", func(r chi.Router) {
			r.Patch("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
		})
	})
}

func widgetIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "widgetID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrWidgetNotFound
	}
	return id, nil
}

func widgetPayload(w *Widget) map[string]any {
	return map[string]any{
		"id":       w.ID,
		"kind":     w.Kind,
		"position": w.Position,
		"settings": w.Settings,
	}
}

// handleList — GET /api/widgets: виджеты в порядке дашборда.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())

	list, err := h.service.List(r.Context(), u.ID)
	if err != nil {
		respond.FromError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(list))
	for _, widget := range list {
		items = append(items, widgetPayload(widget))
	}
	respond.OK(w, map[string]any{"widgets": items})
}

type createRequest struct {
	Kind     string          `json:"kind"`
	Settings json.RawMessage `json:"settings"`
}

// handleCreate — POST /api/widgets.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())

	var req createRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	widget, err := h.service.Create(r.Context(), u.ID, req.Kind, req.Settings)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.Created(w, widgetPayload(widget))
}

type updateRequest struct {
	Kind     *string         `json:"kind"`
	Position *int            `json:"position"`
	Settings json.RawMessage `json:"settings"`
}

// handleUpdate — PATCH /api/widgets/{widgetID}.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())

	id, err := widgetIDParam(r)
	if err != nil {
		respond.FromError(w, err)
		return
	}

	var req updateRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	widget, err := h.service.Update(r.Context(), u.ID, id, &UpdateWidget{
		Kind:     req.Kind,
		Position: req.Position,
		Settings: req.Settings,
	})
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, widgetPayload(widget))
}

// handleDelete — DELETE /api/widgets/{widgetID}.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())

	id, err := widgetIDParam(r)
	if err != nil {
		respond.FromError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), u.ID, id); err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, map[string]any{"message": "виджет удалён"})
}
