package status

import "time"

// View structs are the immutable JSON shapes served to the dashboard.
// Optional fields are pointers: a missing catalog reference or measurement
// is omitted from the payload, never rendered as a zero value.

// ListView labels a card with its kanban lane.
type ListView struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Color    string `json:"color,omitempty"`
}

// OperatorView identifies the operator currently holding a phase.
type OperatorView struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Code *string `json:"code,omitempty"`
}

// ItemView identifies a manufactured part on a card.
type ItemView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// TaskView identifies a task type on a card.
type TaskView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// AnalyticsView carries elapsed durations and performance ratings for one
// triple. Field names on the wire match the dashboard contract; the
// per-piece average keeps its historical key.
type AnalyticsView struct {
	SetupElapsedSeconds      *int64   `json:"setup_elapsed_s,omitempty"`
	ProductionElapsedSeconds *int64   `json:"production_elapsed_s,omitempty"`
	PauseElapsedSeconds      *int64   `json:"pause_elapsed_s,omitempty"`
	SecondsPerPiece          *float64 `json:"media_seg_por_peca,omitempty"`
	SetupRating              *Rating  `json:"setup_rating,omitempty"`
	CycleRating              *Rating  `json:"cycle_rating,omitempty"`
}

// ActiveTaskView is one concurrently active (item, task) triple on a card.
type ActiveTaskView struct {
	ItemID       int64          `json:"item_id"`
	ItemName     string         `json:"item_name,omitempty"`
	ItemCode     string         `json:"item_code,omitempty"`
	TaskID       int64          `json:"task_id"`
	TaskName     string         `json:"task_name,omitempty"`
	State        string         `json:"state"`
	StartedAt    *time.Time     `json:"started_at,omitempty"`
	Operator     *OperatorView  `json:"operator,omitempty"`
	LastQuantity int64          `json:"last_quantity"`
	PauseReason  *string        `json:"pause_reason,omitempty"`
	Analytics    *AnalyticsView `json:"analytics,omitempty"`
}

// GhostCardView is forecast metadata attached to a card; it is never a
// separate dashboard entry of its own.
type GhostCardView struct {
	ID            int64   `json:"id"`
	ListName      string  `json:"list_name"`
	ListCategory  string  `json:"list_category,omitempty"`
	TaskID        *int64  `json:"task_id,omitempty"`
	TaskName      string  `json:"task_name,omitempty"`
	QueuePosition int     `json:"queue_position"`
	Notes         *string `json:"notes,omitempty"`
}

// PhaseCounts summarizes a card's active triples by phase.
type PhaseCounts struct {
	Setup     int `json:"setup"`
	Producing int `json:"producing"`
	Paused    int `json:"paused"`
}

// CardView is one dashboard card: a work order with its reconstructed state,
// analytics, kanban labeling and ghost-card metadata.
type CardView struct {
	WorkOrderID     int64            `json:"work_order_id"`
	WorkOrderNumber string           `json:"work_order_number,omitempty"`
	Clients         []string         `json:"clients,omitempty"`
	TotalQuantity   int64            `json:"total_quantity,omitempty"`
	State           string           `json:"state"`
	List            *ListView        `json:"list,omitempty"`
	Operator        *OperatorView    `json:"operator,omitempty"`
	Item            *ItemView        `json:"item,omitempty"`
	Task            *TaskView        `json:"task,omitempty"`
	PhaseStartedAt  *time.Time       `json:"phase_started_at,omitempty"`
	PauseReason     *string          `json:"pause_reason,omitempty"`
	Quantity        *int64           `json:"quantity,omitempty"`
	LastQuantity    int64            `json:"last_quantity"`
	Analytics       *AnalyticsView   `json:"analytics,omitempty"`
	ActiveByTask    []ActiveTaskView `json:"active_by_task"`
	ActiveCount     int              `json:"active_count"`
	MultipleActive  bool             `json:"multiple_active"`
	PhaseCounts     PhaseCounts      `json:"phase_counts"`
	GhostCards      []GhostCardView  `json:"ghost_cards,omitempty"`
}

// HasGhosts reports whether any ghost card is attached.
func (c *CardView) HasGhosts() bool {
	return len(c.GhostCards) > 0
}
