package domain

import "time"

// ActionKind represents the kind of operator action recorded in the log.
type ActionKind string

const (
	ActionSetupStart      ActionKind = "setup_start"
	ActionSetupEnd        ActionKind = "setup_end"
	ActionProductionStart ActionKind = "production_start"
	ActionPause           ActionKind = "pause"
	ActionStop            ActionKind = "stop"
	ActionProductionEnd   ActionKind = "production_end"
)

// IsOpening returns true for kinds that open a timed phase.
// Only opening actions may have a NULL ended_at.
func (k ActionKind) IsOpening() bool {
	return k == ActionSetupStart || k == ActionProductionStart || k == ActionPause
}

// IsValid checks if the kind is one of the allowed values.
func (k ActionKind) IsValid() bool {
	switch k {
	case ActionSetupStart, ActionSetupEnd, ActionProductionStart,
		ActionPause, ActionStop, ActionProductionEnd:
		return true
	default:
		return false
	}
}

// TripleKey identifies the unit of independent state tracking:
// one (work order, item, task) combination.
type TripleKey struct {
	WorkOrderID int64
	ItemID      int64
	TaskID      int64
}

// Action is one append-only log entry for an operator button press.
// Rows are never mutated except for stamping EndedAt/ElapsedSeconds
// when a later action closes the phase this row opened.
type Action struct {
	ID             int64
	WorkOrderID    int64
	ItemID         int64
	TaskID         int64
	OperatorID     int64
	Kind           ActionKind
	StartedAt      time.Time
	EndedAt        *time.Time
	ElapsedSeconds *int64 // sealed at close time; authoritative once set
	Quantity       *int64
	PauseReason    *string
	Notes          *string
	KanbanList     string // raw work-order status at write time
}

// Triple returns the key of the triple this action belongs to.
func (a *Action) Triple() TripleKey {
	return TripleKey{WorkOrderID: a.WorkOrderID, ItemID: a.ItemID, TaskID: a.TaskID}
}

// IsOpen returns true while the phase opened by this action is still running.
func (a *Action) IsOpen() bool {
	return a.Kind.IsOpening() && a.EndedAt == nil
}

// IsRecordedBy checks if the action was recorded by the given operator.
func (a *Action) IsRecordedBy(operatorID int64) bool {
	return a.OperatorID == operatorID
}
