package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/chaodefabrica/apontamento/internal/handler/dto"
	"github.com/chaodefabrica/apontamento/internal/service"
	"github.com/chaodefabrica/apontamento/internal/status"
)

// statusTimeout bounds one aggregation call. The client polls; a stuck call
// must not pile up behind the next poll.
const statusTimeout = 15 * time.Second

// handleActiveStatus serves the aggregated dashboard.
// @Summary Aggregated production status
// @Description Replays the action log into per-card lifecycle states, durations and performance ratings, merged with ghost cards and kanban lists.
// @Tags status
// @Produce json
// @Param list query string false "Filter by kanban list name (case-insensitive), or 'all'"
// @Param list_category query string false "Filter by list category, or 'all'"
// @Param status query string false "Comma-separated state tokens: awaiting,setup,producing,paused,ghost, or 'all'"
// @Param timing query bool false "Include per-stage timing diagnostics"
// @Success 200 {object} dto.StatusActiveResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /status/active [get]
func (h *Handler) handleActiveStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), statusTimeout)
	defer cancel()

	query := r.URL.Query()
	cards, timings, err := h.statusService.ActiveCards(ctx, service.StatusQuery{
		List:         query.Get("list"),
		ListCategory: query.Get("list_category"),
		Status:       query.Get("status"),
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	resp := dto.StatusActiveResponse{
		StatusAtivos: cards,
		Count:        len(cards),
	}
	if resp.StatusAtivos == nil {
		resp.StatusAtivos = []status.CardView{}
	}
	if query.Get("timing") == "true" || query.Get("timing") == "1" {
		resp.Timings = timings
	}

	respondJSON(w, http.StatusOK, resp)
}
