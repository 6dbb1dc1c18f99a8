package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaodefabrica/apontamento/internal/domain"
)

func TestAggregate(t *testing.T) {
	now := base.Add(1200 * time.Second)

	tests := []struct {
		name       string
		actions    []domain.Action
		setup      *int64
		production *int64
		pause      *int64
	}{
		{
			name:    "no actions yields nothing",
			actions: nil,
		},
		{
			name: "open setup runs against now",
			actions: []domain.Action{
				act(domain.ActionSetupStart, 0),
			},
			setup: estimate(1200),
		},
		{
			name: "sealed setup value is authoritative",
			actions: []domain.Action{
				act(domain.ActionSetupStart, 0, closedAfter(300)),
				act(domain.ActionSetupEnd, 300, closedAfter(0)),
			},
			setup: estimate(300),
		},
		{
			name: "open production runs against now",
			actions: []domain.Action{
				act(domain.ActionProductionStart, 200),
			},
			production: estimate(1000),
		},
		{
			name: "closed production and open pause",
			actions: []domain.Action{
				act(domain.ActionProductionStart, 0, closedAfter(1000)),
				act(domain.ActionPause, 1000),
			},
			production: estimate(1000),
			pause:      estimate(200),
		},
		{
			name: "production and pause both open split at pause start",
			actions: []domain.Action{
				act(domain.ActionProductionStart, 0),
				act(domain.ActionPause, 1000),
			},
			production: estimate(1000),
			pause:      estimate(200),
		},
		{
			name: "full cycle with setup",
			actions: []domain.Action{
				act(domain.ActionSetupStart, 0, closedAfter(300)),
				act(domain.ActionSetupEnd, 300, closedAfter(0)),
				act(domain.ActionProductionStart, 400, closedAfter(600)),
				act(domain.ActionProductionEnd, 1000, closedAfter(0), withQuantity(40)),
			},
			setup:      estimate(300),
			production: estimate(600),
		},
		{
			name: "resumed production counts the latest run",
			actions: []domain.Action{
				act(domain.ActionProductionStart, 0, closedAfter(500)),
				act(domain.ActionPause, 500, closedAfter(100)),
				act(domain.ActionProductionStart, 600),
			},
			production: estimate(600),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Aggregate(tt.actions, now)
			assertSeconds(t, tt.setup, d.SetupSeconds, "setup")
			assertSeconds(t, tt.production, d.ProductionSeconds, "production")
			assertSeconds(t, tt.pause, d.PauseSeconds, "pause")
		})
	}
}

func assertSeconds(t *testing.T, want, got *int64, phase string) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got, "%s should be unknown", phase)
		return
	}
	require.NotNil(t, got, "%s should be measured", phase)
	assert.Equal(t, *want, *got, "%s seconds", phase)
}

func TestAggregateIsIdempotent(t *testing.T) {
	now := base.Add(1200 * time.Second)
	actions := []domain.Action{
		act(domain.ActionSetupStart, 0, closedAfter(300)),
		act(domain.ActionSetupEnd, 300, closedAfter(0)),
		act(domain.ActionProductionStart, 400),
	}

	first := Aggregate(actions, now)
	second := Aggregate(actions, now)
	assert.Equal(t, first, second)
}

func TestAggregateSealedValueDoesNotDrift(t *testing.T) {
	// The stored elapsed disagrees with the recorded timestamps on purpose;
	// the sealed value must win.
	sealed := int64(42)
	a := act(domain.ActionProductionStart, 0, closedAfter(1000))
	a.ElapsedSeconds = &sealed

	d := Aggregate([]domain.Action{a}, base.Add(5000*time.Second))
	require.NotNil(t, d.ProductionSeconds)
	assert.Equal(t, sealed, *d.ProductionSeconds)
}

func TestSecondsPerPiece(t *testing.T) {
	d := Durations{ProductionSeconds: estimate(1000), PauseSeconds: estimate(200)}

	got := SecondsPerPiece(d, 40)
	require.NotNil(t, got)
	assert.InDelta(t, 30.0, *got, 0.001)

	assert.Nil(t, SecondsPerPiece(d, 0), "zero quantity yields no cycle time")
	assert.Nil(t, SecondsPerPiece(Durations{}, 40), "no elapsed time yields no cycle time")
}
