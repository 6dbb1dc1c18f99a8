package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/chaodefabrica/apontamento/internal/domain"
	"github.com/chaodefabrica/apontamento/internal/handler/dto"
)

// handleListKanbanLists serves the active list definitions.
// @Summary Kanban list definitions
// @Tags kanban
// @Produce json
// @Success 200 {object} dto.KanbanListsResponse
// @Router /kanban/lists [get]
func (h *Handler) handleListKanbanLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.statusService.ListKanbanLists(r.Context())
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToKanbanListsResponse(lists))
}

// handleListGhostCards serves the active forecast cards.
// @Summary Active ghost cards
// @Tags kanban
// @Produce json
// @Success 200 {object} dto.GhostCardsResponse
// @Router /ghost-cards [get]
func (h *Handler) handleListGhostCards(w http.ResponseWriter, r *http.Request) {
	ghosts, err := h.statusService.ListGhostCards(r.Context())
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToGhostCardsResponse(ghosts, h.location))
}

// handleCreateGhostCard creates a forecast card.
// @Summary Create a ghost card
// @Description Forecasts a work order into a kanban list without touching the action log.
// @Tags kanban
// @Accept json
// @Produce json
// @Param request body dto.CreateGhostCardRequest true "Ghost card creation request"
// @Success 201 {object} dto.GhostCardResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /ghost-cards [post]
func (h *Handler) handleCreateGhostCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateGhostCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.WorkOrderID <= 0 {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "work_order_id is required")
		return
	}
	if strings.TrimSpace(req.ListName) == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "list_name is required")
		return
	}
	if req.QueuePosition < 0 {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "queue_position must not be negative")
		return
	}

	ghost := &domain.GhostCard{
		WorkOrderID:   req.WorkOrderID,
		ListName:      strings.TrimSpace(req.ListName),
		TaskID:        req.TaskID,
		QueuePosition: req.QueuePosition,
		Notes:         req.Notes,
	}
	if err := h.statusService.CreateGhostCard(ctx, ghost); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToGhostCardResponse(ghost, h.location))
}

// handleDeleteGhostCard deactivates a forecast card.
// @Summary Remove a ghost card
// @Tags kanban
// @Produce json
// @Param id path int true "Ghost card ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Router /ghost-cards/{id} [delete]
func (h *Handler) handleDeleteGhostCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := extractID(w, r)
	if !ok {
		return
	}

	if err := h.statusService.RemoveGhostCard(ctx, id); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
