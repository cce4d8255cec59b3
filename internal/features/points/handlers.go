// Package points — handlers.go обрабатывает запросы очков и уровня.
package points

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"serotonyl.ru/habit-api/internal/features/users"
	"serotonyl.ru/habit-api/internal/server/respond"
)

// Handler обрабатывает запросы очков.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый обработчик очков.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register вешает маршруты очков на роутер.
func (h *Handler) Register(r chi.Router) {
	r.Get("/points", h.handleSummary)
	r.Get("/points/ledger", h.handleLedger)
}

// handleSummary — GET /api/points: сумма и текущий уровень.
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())

	summary, err := h.service.Summary(r.Context(), u.ID)
	if err != nil {
		respond.FromError(w, err)
		return
	}

	respond.OK(w, map[string]any{
		"total": summary.Total,
		"tier": map[string]any{
			"level":      summary.Tier.Level,
			"badge":      summary.Tier.Badge,
			"min_points": summary.Tier.MinPoints,
			"max_points": summary.Tier.MaxPoints,
		},
	})
}

// handleLedger — GET /api/points/ledger: записи реестра.
func (h *Handler) handleLedger(w http.ResponseWriter, r *http.Request) {
	u, _ := users.FromContext(r.Context())

	records, err := h.service.Ledger(r.Context(), u.ID)
	if err != nil {
		respond.FromError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		items = append(items, map[string]any{
			"relevant_id":     rec.RelevantID,
			"definition_type": rec.DefinitionType,
			"points":          rec.Points,
			"updated_at":      rec.UpdatedAt,
		})
	}
	respond.OK(w, map[string]any{"ledger": items})
}
