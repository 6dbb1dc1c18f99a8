package status

import (
	"time"

	"github.com/chaodefabrica/apontamento/internal/domain"
)

// Durations holds the aggregated elapsed seconds of one triple, split by
// phase. A nil field means "unknown" (the phase never ran), never zero.
type Durations struct {
	SetupSeconds      *int64
	ProductionSeconds *int64
	PauseSeconds      *int64
}

// Aggregate computes the elapsed durations for one triple's action sequence
// against a single now timestamp. Sealed elapsed values stored at close time
// are authoritative and never recomputed, so a closed phase does not drift.
func Aggregate(actions []domain.Action, now time.Time) Durations {
	var d Durations

	if setup := latestOfKind(actions, domain.ActionSetupStart); setup != nil {
		d.SetupSeconds = ptr(closedOrRunning(setup, now))
	}

	prod := latestOfKind(actions, domain.ActionProductionStart)
	if prod == nil {
		return d
	}

	pause := latestOfKindAfter(actions, domain.ActionPause, prod.StartedAt)
	switch {
	case pause != nil && pause.EndedAt == nil && prod.EndedAt == nil:
		// Both left open (direct edits): the pause splits the interval.
		d.ProductionSeconds = ptr(clampSeconds(pause.StartedAt.Sub(prod.StartedAt)))
		d.PauseSeconds = ptr(clampSeconds(now.Sub(pause.StartedAt)))
	case pause != nil:
		d.ProductionSeconds = ptr(closedOrRunning(prod, now))
		d.PauseSeconds = ptr(closedOrRunning(pause, now))
	default:
		d.ProductionSeconds = ptr(closedOrRunning(prod, now))
	}

	return d
}

// SecondsPerPiece derives the per-piece cycle time from aggregated durations
// and the last reported quantity. Returns nil unless both the quantity and
// the total elapsed time are positive: a missing measurement is not a zero.
func SecondsPerPiece(d Durations, quantity int64) *float64 {
	if quantity <= 0 {
		return nil
	}
	var total int64
	if d.ProductionSeconds != nil {
		total += *d.ProductionSeconds
	}
	if d.PauseSeconds != nil {
		total += *d.PauseSeconds
	}
	if total <= 0 {
		return nil
	}
	v := float64(total) / float64(quantity)
	return &v
}

// closedOrRunning resolves one phase action to elapsed seconds: the sealed
// value when present, the recorded interval when closed, now−start when open.
func closedOrRunning(a *domain.Action, now time.Time) int64 {
	if a.ElapsedSeconds != nil {
		return max(*a.ElapsedSeconds, 0)
	}
	if a.EndedAt != nil {
		return clampSeconds(a.EndedAt.Sub(a.StartedAt))
	}
	return clampSeconds(now.Sub(a.StartedAt))
}

func latestOfKind(actions []domain.Action, kind domain.ActionKind) *domain.Action {
	var latest *domain.Action
	for i := range actions {
		a := &actions[i]
		if a.Kind != kind {
			continue
		}
		if latest == nil || !a.StartedAt.Before(latest.StartedAt) {
			latest = a
		}
	}
	return latest
}

func latestOfKindAfter(actions []domain.Action, kind domain.ActionKind, after time.Time) *domain.Action {
	var latest *domain.Action
	for i := range actions {
		a := &actions[i]
		if a.Kind != kind || a.StartedAt.Before(after) {
			continue
		}
		if latest == nil || !a.StartedAt.Before(latest.StartedAt) {
			latest = a
		}
	}
	return latest
}

func clampSeconds(d time.Duration) int64 {
	s := int64(d.Seconds())
	if s < 0 {
		return 0
	}
	return s
}

func ptr[T any](v T) *T {
	return &v
}
