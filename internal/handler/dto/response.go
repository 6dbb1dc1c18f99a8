package dto

import (
	"time"

	"github.com/chaodefabrica/apontamento/internal/domain"
	"github.com/chaodefabrica/apontamento/internal/repository"
	"github.com/chaodefabrica/apontamento/internal/service"
	"github.com/chaodefabrica/apontamento/internal/status"
)

// StatusActiveResponse represents the response for GET /status/active.
// The card array keeps its historical key on the wire.
type StatusActiveResponse struct {
	StatusAtivos []status.CardView `json:"status_ativos"`
	Count        int               `json:"count"`
	Timings      *service.Timings  `json:"timings,omitempty"`
}

// ActionResponse represents one action log entry.
type ActionResponse struct {
	ID             int64      `json:"id"`
	WorkOrderID    int64      `json:"work_order_id"`
	ItemID         int64      `json:"item_id"`
	TaskID         int64      `json:"task_id"`
	OperatorID     int64      `json:"operator_id"`
	Kind           string     `json:"kind"`
	StartedAt      time.Time  `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	ElapsedSeconds *int64     `json:"elapsed_seconds,omitempty"`
	Quantity       *int64     `json:"quantity,omitempty"`
	PauseReason    *string    `json:"pause_reason,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	KanbanList     string     `json:"kanban_list,omitempty"`
}

// RegisterActionResponse represents the response for POST /actions.
type RegisterActionResponse struct {
	Action  ActionResponse `json:"action"`
	State   string         `json:"state"`
	Message string         `json:"message"`
}

// ActionsListResponse represents the response for GET /work-orders/{id}/actions.
type ActionsListResponse struct {
	WorkOrderID int64            `json:"work_order_id"`
	Actions     []ActionResponse `json:"actions"`
	Total       int              `json:"total"`
}

// OperatorResponse represents a validated operator.
type OperatorResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ItemResponse represents an item in a work order's item list.
type ItemResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// ItemsListResponse represents the response for GET /work-orders/{id}/items.
type ItemsListResponse struct {
	WorkOrderID int64          `json:"work_order_id"`
	Items       []ItemResponse `json:"items"`
}

// TaskOptionResponse represents one task type choice for an item, with the
// configured time estimates.
type TaskOptionResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category,omitempty"`
	SetupSeconds *int64 `json:"setup_seconds,omitempty"`
	PieceSeconds *int64 `json:"piece_seconds,omitempty"`
}

// TasksListResponse represents the response for GET /items/{id}/tasks.
type TasksListResponse struct {
	ItemID int64                `json:"item_id"`
	Tasks  []TaskOptionResponse `json:"tasks"`
}

// KanbanListResponse represents one kanban list definition.
type KanbanListResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category,omitempty"`
	Color        string `json:"color,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

// KanbanListsResponse represents the response for GET /kanban/lists.
type KanbanListsResponse struct {
	Lists []KanbanListResponse `json:"lists"`
}

// GhostCardResponse represents one ghost card.
type GhostCardResponse struct {
	ID            int64     `json:"id"`
	WorkOrderID   int64     `json:"work_order_id"`
	ListName      string    `json:"list_name"`
	TaskID        *int64    `json:"task_id,omitempty"`
	QueuePosition int       `json:"queue_position"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// GhostCardsResponse represents the response for GET /ghost-cards.
type GhostCardsResponse struct {
	GhostCards []GhostCardResponse `json:"ghost_cards"`
}

// ToActionResponse converts a domain.Action, rendering timestamps in the
// display timezone.
func ToActionResponse(a *domain.Action, loc *time.Location) ActionResponse {
	resp := ActionResponse{
		ID:             a.ID,
		WorkOrderID:    a.WorkOrderID,
		ItemID:         a.ItemID,
		TaskID:         a.TaskID,
		OperatorID:     a.OperatorID,
		Kind:           string(a.Kind),
		StartedAt:      a.StartedAt.In(loc),
		ElapsedSeconds: a.ElapsedSeconds,
		Quantity:       a.Quantity,
		PauseReason:    a.PauseReason,
		Notes:          a.Notes,
		KanbanList:     a.KanbanList,
	}
	if a.EndedAt != nil {
		ended := a.EndedAt.In(loc)
		resp.EndedAt = &ended
	}
	return resp
}

// ToActionsListResponse converts a work order's action log.
func ToActionsListResponse(workOrderID int64, actions []domain.Action, loc *time.Location) ActionsListResponse {
	resp := ActionsListResponse{
		WorkOrderID: workOrderID,
		Actions:     make([]ActionResponse, 0, len(actions)),
		Total:       len(actions),
	}
	for i := range actions {
		resp.Actions = append(resp.Actions, ToActionResponse(&actions[i], loc))
	}
	return resp
}

// ToItemsListResponse converts a work order's item list.
func ToItemsListResponse(workOrderID int64, items []domain.Item) ItemsListResponse {
	resp := ItemsListResponse{WorkOrderID: workOrderID, Items: make([]ItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, ItemResponse{ID: item.ID, Name: item.Name, Code: item.Code})
	}
	return resp
}

// ToTasksListResponse converts an item's task type choices.
func ToTasksListResponse(itemID int64, tasks []repository.TaskWithEstimate) TasksListResponse {
	resp := TasksListResponse{ItemID: itemID, Tasks: make([]TaskOptionResponse, 0, len(tasks))}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, TaskOptionResponse{
			ID:           t.ID,
			Name:         t.Name,
			Category:     t.Category,
			SetupSeconds: t.SetupSeconds,
			PieceSeconds: t.PieceSeconds,
		})
	}
	return resp
}

// ToKanbanListsResponse converts the active list definitions.
func ToKanbanListsResponse(lists []domain.KanbanList) KanbanListsResponse {
	resp := KanbanListsResponse{Lists: make([]KanbanListResponse, 0, len(lists))}
	for _, l := range lists {
		resp.Lists = append(resp.Lists, KanbanListResponse{
			ID:           l.ID,
			Name:         l.Name,
			Category:     l.Category,
			Color:        l.Color,
			DisplayOrder: l.DisplayOrder,
		})
	}
	return resp
}

// ToGhostCardResponse converts a ghost card.
func ToGhostCardResponse(g *domain.GhostCard, loc *time.Location) GhostCardResponse {
	return GhostCardResponse{
		ID:            g.ID,
		WorkOrderID:   g.WorkOrderID,
		ListName:      g.ListName,
		TaskID:        g.TaskID,
		QueuePosition: g.QueuePosition,
		Notes:         g.Notes,
		CreatedAt:     g.CreatedAt.In(loc),
	}
}

// ToGhostCardsResponse converts the active ghost cards.
func ToGhostCardsResponse(ghosts []domain.GhostCard, loc *time.Location) GhostCardsResponse {
	resp := GhostCardsResponse{GhostCards: make([]GhostCardResponse, 0, len(ghosts))}
	for i := range ghosts {
		resp.GhostCards = append(resp.GhostCards, ToGhostCardResponse(&ghosts[i], loc))
	}
	return resp
}
