// Package status implements the read-side aggregation engine: it replays the
// append-only action log into lifecycle states, elapsed durations and
// performance ratings, and merges the result with ghost cards and kanban-list
// reference data into dashboard cards.
//
// Everything in this package is a pure function of its inputs plus the "now"
// timestamp captured once per aggregation call; nothing here touches the
// database.
package status

import (
	"log/slog"
	"sort"

	"github.com/chaodefabrica/apontamento/internal/domain"
)

// OpenPhases holds the latest open action per opening kind for one triple.
// The write path guarantees at most one open action per kind; when that
// invariant is violated (direct DB edits) the most recently started one wins.
type OpenPhases struct {
	Setup      *domain.Action
	Production *domain.Action
	Pause      *domain.Action
}

// Latest returns the most recently started open action, or nil.
func (p OpenPhases) Latest() *domain.Action {
	latest := p.Setup
	for _, a := range []*domain.Action{p.Production, p.Pause} {
		if a == nil {
			continue
		}
		if latest == nil || a.StartedAt.After(latest.StartedAt) {
			latest = a
		}
	}
	return latest
}

// GroupByTriple splits a work order's actions into per-triple sequences,
// each ordered by start time ascending.
func GroupByTriple(actions []domain.Action) map[domain.TripleKey][]domain.Action {
	grouped := make(map[domain.TripleKey][]domain.Action)
	for _, a := range actions {
		key := a.Triple()
		grouped[key] = append(grouped[key], a)
	}
	for _, seq := range grouped {
		sort.SliceStable(seq, func(i, j int) bool {
			return seq[i].StartedAt.Before(seq[j].StartedAt)
		})
	}
	return grouped
}

// Reconstruct determines the open phases of one triple from its action
// sequence. Duplicate open actions of the same kind are resolved latest-wins
// and logged as a warning, never surfaced to the caller.
func Reconstruct(actions []domain.Action) OpenPhases {
	var phases OpenPhases
	for i := range actions {
		a := &actions[i]
		if !a.IsOpen() {
			continue
		}
		var slot **domain.Action
		switch a.Kind {
		case domain.ActionSetupStart:
			slot = &phases.Setup
		case domain.ActionProductionStart:
			slot = &phases.Production
		case domain.ActionPause:
			slot = &phases.Pause
		default:
			continue
		}
		if *slot != nil {
			slog.Warn("multiple open actions for one triple, keeping latest",
				"work_order_id", a.WorkOrderID,
				"item_id", a.ItemID,
				"task_id", a.TaskID,
				"kind", a.Kind,
			)
			if a.StartedAt.Before((*slot).StartedAt) {
				continue
			}
		}
		*slot = a
	}
	return phases
}

// TripleState reduces a triple's action sequence to its lifecycle state.
// The most recently started open action defines the state; with no open
// action the triple is Awaiting, or Done when the last action ended
// production.
func TripleState(actions []domain.Action) domain.LifecycleState {
	phases := Reconstruct(actions)
	if open := phases.Latest(); open != nil {
		switch open.Kind {
		case domain.ActionSetupStart:
			return domain.StateSetup
		case domain.ActionPause:
			return domain.StatePaused
		default:
			return domain.StateProducing
		}
	}
	if len(actions) > 0 && actions[len(actions)-1].Kind == domain.ActionProductionEnd {
		return domain.StateDone
	}
	return domain.StateAwaiting
}

// LastQuantity returns the most recent reported quantity for a triple's
// action sequence, or 0 when no action carries one. Quantities are
// monotonically non-decreasing per triple (write-side invariant).
func LastQuantity(actions []domain.Action) int64 {
	for i := len(actions) - 1; i >= 0; i-- {
		if q := actions[i].Quantity; q != nil {
			return *q
		}
	}
	return 0
}
