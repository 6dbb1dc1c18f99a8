package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/chaodefabrica/apontamento/internal/domain"
	"github.com/chaodefabrica/apontamento/internal/handler/dto"
	"github.com/chaodefabrica/apontamento/internal/service"
)

// handleRegisterAction appends one operator action.
// @Summary Register an operator action
// @Description Validates and appends one button press (setup_start, setup_end, production_start, pause, stop, production_end) to the action log, closing the phases the kind implies.
// @Tags actions
// @Accept json
// @Produce json
// @Param request body dto.RegisterActionRequest true "Action registration request"
// @Success 201 {object} dto.RegisterActionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /actions [post]
func (h *Handler) handleRegisterAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.RegisterActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.WorkOrderID <= 0 || req.ItemID <= 0 || req.TaskID <= 0 {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "work_order_id, item_id and task_id are required")
		return
	}
	if strings.TrimSpace(req.OperatorCode) == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "operator_code is required")
		return
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "quantity must not be negative")
		return
	}

	result, err := h.actionService.RegisterAction(ctx, service.RegisterActionInput{
		WorkOrderID:  req.WorkOrderID,
		ItemID:       req.ItemID,
		TaskID:       req.TaskID,
		OperatorCode: strings.TrimSpace(req.OperatorCode),
		Kind:         domain.ActionKind(req.Kind),
		Quantity:     req.Quantity,
		PauseReason:  req.PauseReason,
		Notes:        req.Notes,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.RegisterActionResponse{
		Action:  dto.ToActionResponse(result.Action, h.location),
		State:   string(result.State),
		Message: actionMessage(result.Action.Kind),
	})
}

// actionMessage is the confirmation line shown on the terminal display.
func actionMessage(kind domain.ActionKind) string {
	switch kind {
	case domain.ActionSetupStart:
		return "Setup started"
	case domain.ActionSetupEnd:
		return "Setup finished"
	case domain.ActionProductionStart:
		return "Production started"
	case domain.ActionPause:
		return "Production paused"
	case domain.ActionStop:
		return "Work stopped"
	case domain.ActionProductionEnd:
		return "Production finished"
	default:
		return "Action registered"
	}
}

// handleListWorkOrderActions serves a work order's full action log.
// @Summary Action log of a work order
// @Description Returns every logged action of the work order, newest first.
// @Tags actions
// @Produce json
// @Param id path int true "Work order ID"
// @Success 200 {object} dto.ActionsListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /work-orders/{id}/actions [get]
func (h *Handler) handleListWorkOrderActions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workOrderID, ok := extractID(w, r)
	if !ok {
		return
	}

	actions, err := h.actionService.ListWorkOrderActions(ctx, workOrderID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToActionsListResponse(workOrderID, actions, h.location))
}

// handleListWorkOrderItems lists the items attached to a work order.
// @Summary Items of a work order
// @Tags lookups
// @Produce json
// @Param id path int true "Work order ID"
// @Success 200 {object} dto.ItemsListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /work-orders/{id}/items [get]
func (h *Handler) handleListWorkOrderItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workOrderID, ok := extractID(w, r)
	if !ok {
		return
	}

	items, err := h.actionService.ListWorkOrderItems(ctx, workOrderID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToItemsListResponse(workOrderID, items))
}

// handleListItemTasks lists the task types configured for an item.
// @Summary Task types of an item
// @Description Returns the task types linked to the item, with setup and per-piece time estimates.
// @Tags lookups
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} dto.TasksListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /items/{id}/tasks [get]
func (h *Handler) handleListItemTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, ok := extractID(w, r)
	if !ok {
		return
	}

	tasks, err := h.actionService.ListItemTasks(ctx, itemID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTasksListResponse(itemID, tasks))
}

// handleValidateOperator resolves a terminal code to an operator.
// @Summary Validate an operator code
// @Tags lookups
// @Accept json
// @Produce json
// @Param request body dto.ValidateOperatorRequest true "Operator code"
// @Success 200 {object} dto.OperatorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /operators/validate [post]
func (h *Handler) handleValidateOperator(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.ValidateOperatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "code is required")
		return
	}

	operator, err := h.actionService.ValidateOperator(ctx, strings.TrimSpace(req.Code))
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.OperatorResponse{ID: operator.ID, Name: operator.Name})
}
