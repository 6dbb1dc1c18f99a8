package domain

import "time"

// LifecycleState represents the reconstructed state of a work order
// (or of one of its triples) on the shop floor.
type LifecycleState string

const (
	StateAwaiting  LifecycleState = "Awaiting"
	StateSetup     LifecycleState = "Setup in progress"
	StateProducing LifecycleState = "Producing"
	StatePaused    LifecycleState = "Paused"
	StateDone      LifecycleState = "Done"
)

// IsActive returns true for states that keep a card on the live dashboard.
func (s LifecycleState) IsActive() bool {
	return s != StateDone
}

// Token returns the lowercase filter token for the state, as accepted by
// the status query parameter of the aggregation endpoint.
func (s LifecycleState) Token() string {
	switch s {
	case StateAwaiting:
		return "awaiting"
	case StateSetup:
		return "setup"
	case StateProducing:
		return "producing"
	case StatePaused:
		return "paused"
	case StateDone:
		return "done"
	default:
		return ""
	}
}

// ParseStateToken maps a filter token back to a lifecycle state.
// The "ghost" token is handled separately by the card filter.
func ParseStateToken(token string) (LifecycleState, bool) {
	switch token {
	case "awaiting":
		return StateAwaiting, true
	case "setup":
		return StateSetup, true
	case "producing":
		return StateProducing, true
	case "paused":
		return StatePaused, true
	case "done":
		return StateDone, true
	default:
		return "", false
	}
}

// WorkOrder is a shop-floor production order routed through kanban lists.
// Owned by the surrounding order-entry application; consumed read-only here.
type WorkOrder struct {
	ID        int64
	Number    string
	Status    string // raw kanban routing status, inconsistent casing upstream
	CreatedAt time.Time
}

// WorkOrderSummary carries the order-entry rollup shown on a card:
// aggregated client names and the total ordered quantity.
type WorkOrderSummary struct {
	WorkOrder
	Clients       []string
	TotalQuantity int64
}

// StatusSnapshot is the derived per-work-order state cache, overwritten on
// every write. The action log stays the source of truth; the snapshot can
// always be rebuilt from it.
type StatusSnapshot struct {
	WorkOrderID    int64
	State          LifecycleState
	OperatorID     *int64
	ItemID         *int64
	TaskID         *int64
	Quantity       *int64
	PhaseStartedAt *time.Time
	PauseReason    *string
	UpdatedAt      time.Time
}
