package service

import (
	"github.com/chaodefabrica/apontamento/internal/domain"
	"github.com/chaodefabrica/apontamento/internal/status"
)

// Validator enforces the write-path guards on the action log. All checks run
// against row-locked open phases inside the caller's transaction, so a guard
// that passes cannot be invalidated by a concurrent press.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// CheckOperator verifies the operator resolved from the terminal code may
// record actions.
func (v *Validator) CheckOperator(op *domain.Operator) error {
	if !op.IsActive {
		return domain.ErrOperatorInactive
	}
	return nil
}

// CanStartSetup allows setup_start only on an idle triple.
func (v *Validator) CanStartSetup(phases status.OpenPhases) error {
	if phases.Setup != nil || phases.Production != nil || phases.Pause != nil {
		return domain.ErrPhaseAlreadyOpen
	}
	return nil
}

// CanEndSetup requires an open setup owned by the pressing operator.
func (v *Validator) CanEndSetup(phases status.OpenPhases, operatorID int64) error {
	if phases.Setup == nil {
		return domain.ErrNoOpenPhase
	}
	return v.checkOwner(phases.Setup, operatorID)
}

// CanStartProduction allows production_start when no setup is mid-flight and
// no production run is already open. An open pause is fine: starting
// production is how a pause is resumed.
func (v *Validator) CanStartProduction(phases status.OpenPhases) error {
	if phases.Setup != nil {
		return domain.ErrSetupNotFinished
	}
	if phases.Production != nil {
		return domain.ErrPhaseAlreadyOpen
	}
	return nil
}

// CanPause requires an open production run owned by the pressing operator,
// and no pause already open.
func (v *Validator) CanPause(phases status.OpenPhases, operatorID int64) error {
	if phases.Pause != nil {
		return domain.ErrPhaseAlreadyOpen
	}
	if phases.Production == nil {
		return domain.ErrNoOpenPhase
	}
	return v.checkOwner(phases.Production, operatorID)
}

// CanStop requires at least one open phase, owned by the pressing operator.
func (v *Validator) CanStop(phases status.OpenPhases, operatorID int64) error {
	open := phases.Latest()
	if open == nil {
		return domain.ErrNoOpenPhase
	}
	return v.checkOwner(open, operatorID)
}

// CanEndProduction requires an open production run or pause owned by the
// pressing operator, plus a reported final quantity.
func (v *Validator) CanEndProduction(phases status.OpenPhases, operatorID int64, quantity *int64) error {
	if quantity == nil {
		return domain.ErrQuantityRequired
	}
	open := phases.Production
	if open == nil {
		open = phases.Pause
	}
	if open == nil {
		return domain.ErrNoOpenPhase
	}
	return v.checkOwner(open, operatorID)
}

// CheckQuantity enforces that reported quantities never go backwards
// within a triple.
func (v *Validator) CheckQuantity(quantity *int64, lastReported int64) error {
	if quantity != nil && *quantity < lastReported {
		return domain.ErrQuantityRegression
	}
	return nil
}

func (v *Validator) checkOwner(open *domain.Action, operatorID int64) error {
	if !open.IsRecordedBy(operatorID) {
		return domain.ErrNotPhaseOwner
	}
	return nil
}
