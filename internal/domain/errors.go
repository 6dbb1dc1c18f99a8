package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Lookup errors
	ErrWorkOrderNotFound = errors.New("work order not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrOperatorNotFound  = errors.New("operator not found")
	ErrGhostCardNotFound = errors.New("ghost card not found")
	ErrNoTasksForItem    = errors.New("no task types configured for item")

	// Write-path guard errors
	ErrInvalidOperatorCode = errors.New("invalid operator code")
	ErrOperatorInactive    = errors.New("operator is inactive")
	ErrInvalidActionKind   = errors.New("invalid action kind")
	ErrTaskNotLinked       = errors.New("task type is not linked to item")
	ErrPhaseAlreadyOpen    = errors.New("phase already open for this item/task")
	ErrNoOpenPhase         = errors.New("no open phase for this item/task")
	ErrSetupNotFinished    = errors.New("setup must finish before production starts")
	ErrNotPhaseOwner       = errors.New("only the operator who opened the phase may close it")
	ErrQuantityRegression  = errors.New("quantity lower than last reported")
	ErrQuantityRequired    = errors.New("final quantity is required")

	// Filter errors
	ErrInvalidStatusToken = errors.New("invalid status filter token")
)
