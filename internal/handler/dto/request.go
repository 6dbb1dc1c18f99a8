package dto

// RegisterActionRequest represents the request body for POST /actions.
// One operator button press from a shop-floor terminal.
type RegisterActionRequest struct {
	WorkOrderID  int64   `json:"work_order_id"`
	ItemID       int64   `json:"item_id"`
	TaskID       int64   `json:"task_id"`
	OperatorCode string  `json:"operator_code"`
	Kind         string  `json:"kind"`
	Quantity     *int64  `json:"quantity,omitempty"`
	PauseReason  *string `json:"pause_reason,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// ValidateOperatorRequest represents the request body for POST /operators/validate.
type ValidateOperatorRequest struct {
	Code string `json:"code"`
}

// CreateGhostCardRequest represents the request body for POST /ghost-cards.
type CreateGhostCardRequest struct {
	WorkOrderID   int64   `json:"work_order_id"`
	ListName      string  `json:"list_name"`
	TaskID        *int64  `json:"task_id,omitempty"`
	QueuePosition int     `json:"queue_position"`
	Notes         *string `json:"notes,omitempty"`
}
