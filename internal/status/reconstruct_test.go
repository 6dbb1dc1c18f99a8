package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaodefabrica/apontamento/internal/domain"
)

var base = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

// act builds one log entry offset seconds after base. Closed entries get
// their end stamped closedAfter seconds after their start.
func act(kind domain.ActionKind, offset int64, opts ...func(*domain.Action)) domain.Action {
	a := domain.Action{
		WorkOrderID: 1,
		ItemID:      10,
		TaskID:      20,
		OperatorID:  100,
		Kind:        kind,
		StartedAt:   base.Add(time.Duration(offset) * time.Second),
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

func closedAfter(seconds int64) func(*domain.Action) {
	return func(a *domain.Action) {
		ended := a.StartedAt.Add(time.Duration(seconds) * time.Second)
		a.EndedAt = &ended
		a.ElapsedSeconds = &seconds
	}
}

func withQuantity(q int64) func(*domain.Action) {
	return func(a *domain.Action) {
		a.Quantity = &q
	}
}

func withOperator(id int64) func(*domain.Action) {
	return func(a *domain.Action) {
		a.OperatorID = id
	}
}

func TestTripleState(t *testing.T) {
	tests := []struct {
		name    string
		actions []domain.Action
		want    domain.LifecycleState
	}{
		{
			name:    "no actions is awaiting",
			actions: nil,
			want:    domain.StateAwaiting,
		},
		{
			name: "open setup is setup in progress",
			actions: []domain.Action{
				act(domain.ActionSetupStart, 0),
			},
			want: domain.StateSetup,
		},
		{
			name: "closed setup with nothing after is awaiting",
			actions: []domain.Action{
				act(domain.ActionSetupStart, 0, closedAfter(300)),
				act(domain.ActionSetupEnd, 300, closedAfter(0)),
			},
			want: domain.StateAwaiting,
		},
		{
			name: "open production is producing",
			actions: []domain.Action{
				act(domain.ActionSetupStart, 0, closedAfter(300)),
				act(domain.ActionSetupEnd, 300, closedAfter(0)),
				act(domain.ActionProductionStart, 400),
			},
			want: domain.StateProducing,
		},
		{
			name: "open pause after production is paused",
			actions: []domain.Action{
				act(domain.ActionProductionStart, 0, closedAfter(500)),
				act(domain.ActionPause, 500),
			},
			want: domain.StatePaused,
		},
		{
			name: "production end closes the triple",
			actions: []domain.Action{
				act(domain.ActionProductionStart, 0, closedAfter(900)),
				act(domain.ActionProductionEnd, 900, closedAfter(0), withQuantity(50)),
			},
			want: domain.StateDone,
		},
		{
			name: "stop returns the triple to awaiting",
			actions: []domain.Action{
				act(domain.ActionProductionStart, 0, closedAfter(200)),
				act(domain.ActionStop, 200, closedAfter(0)),
			},
			want: domain.StateAwaiting,
		},
		{
			name: "pause resumed by production start is producing",
			actions: []domain.Action{
				act(domain.ActionProductionStart, 0, closedAfter(500)),
				act(domain.ActionPause, 500, closedAfter(100)),
				act(domain.ActionProductionStart, 600),
			},
			want: domain.StateProducing,
		},
		{
			name: "most recent open action wins when several are open",
			actions: []domain.Action{
				act(domain.ActionProductionStart, 0),
				act(domain.ActionPause, 500),
			},
			want: domain.StatePaused,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TripleState(tt.actions))
		})
	}
}

func TestReconstructDuplicateOpenKeepsLatest(t *testing.T) {
	// Two open production rows can only come from direct log edits.
	actions := []domain.Action{
		act(domain.ActionProductionStart, 0),
		act(domain.ActionProductionStart, 100),
	}

	phases := Reconstruct(actions)
	require.NotNil(t, phases.Production)
	assert.Equal(t, base.Add(100*time.Second), phases.Production.StartedAt)
}

func TestGroupByTriple(t *testing.T) {
	other := act(domain.ActionSetupStart, 50)
	other.ItemID = 11

	grouped := GroupByTriple([]domain.Action{
		act(domain.ActionProductionStart, 100),
		other,
		act(domain.ActionSetupStart, 0, closedAfter(60)),
	})

	require.Len(t, grouped, 2)
	seq := grouped[domain.TripleKey{WorkOrderID: 1, ItemID: 10, TaskID: 20}]
	require.Len(t, seq, 2)
	// Ordered by start time ascending regardless of input order.
	assert.Equal(t, domain.ActionSetupStart, seq[0].Kind)
	assert.Equal(t, domain.ActionProductionStart, seq[1].Kind)
}

func TestLastQuantity(t *testing.T) {
	actions := []domain.Action{
		act(domain.ActionProductionStart, 0, closedAfter(100)),
		act(domain.ActionPause, 100, closedAfter(50), withQuantity(10)),
		act(domain.ActionProductionStart, 150, closedAfter(100)),
		act(domain.ActionProductionEnd, 250, closedAfter(0), withQuantity(25)),
	}
	assert.Equal(t, int64(25), LastQuantity(actions))
	assert.Equal(t, int64(0), LastQuantity(nil))
}
