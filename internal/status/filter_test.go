package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaodefabrica/apontamento/internal/domain"
)

func TestParseFilter(t *testing.T) {
	t.Run("empty parameters match everything", func(t *testing.T) {
		f, err := ParseFilter("", "", "")
		require.NoError(t, err)
		assert.Equal(t, Filter{}, f)
	})

	t.Run("all disables each filter", func(t *testing.T) {
		f, err := ParseFilter("all", "ALL", "all")
		require.NoError(t, err)
		assert.Equal(t, Filter{}, f)
	})

	t.Run("tokens are folded and split", func(t *testing.T) {
		f, err := ParseFilter(" Mazak ", "Torno CNC", "Setup, producing ,ghost")
		require.NoError(t, err)
		assert.Equal(t, "mazak", f.List)
		assert.Equal(t, "torno cnc", f.ListCategory)
		assert.True(t, f.Ghost)
		assert.True(t, f.States[domain.StateSetup])
		assert.True(t, f.States[domain.StateProducing])
		assert.False(t, f.States[domain.StatePaused])
	})

	t.Run("unknown token is rejected", func(t *testing.T) {
		_, err := ParseFilter("", "", "producing,bogus")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidStatusToken)
	})
}

func TestFilterMatches(t *testing.T) {
	producing := CardView{
		WorkOrderID: 1,
		State:       string(domain.StateProducing),
		List:        &ListView{Name: "Mazak", Category: "Torno CNC"},
	}
	awaitingWithGhost := CardView{
		WorkOrderID: 2,
		State:       string(domain.StateAwaiting),
		List:        &ListView{Name: "Entrada", Category: "Outros"},
		GhostCards:  []GhostCardView{{ListName: "Serra", ListCategory: "Serra"}},
	}
	unlisted := CardView{
		WorkOrderID: 3,
		State:       string(domain.StatePaused),
	}
	cards := []CardView{producing, awaitingWithGhost, unlisted}

	t.Run("state tokens select matching cards", func(t *testing.T) {
		f, err := ParseFilter("", "", "producing,paused")
		require.NoError(t, err)
		got := f.Apply(cards)
		require.Len(t, got, 2)
		assert.Equal(t, int64(1), got[0].WorkOrderID)
		assert.Equal(t, int64(3), got[1].WorkOrderID)
	})

	t.Run("ghost token matches any card carrying ghosts", func(t *testing.T) {
		f, err := ParseFilter("", "", "ghost")
		require.NoError(t, err)
		got := f.Apply(cards)
		require.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].WorkOrderID)
	})

	t.Run("ghost token combines with state tokens", func(t *testing.T) {
		f, err := ParseFilter("", "", "producing,ghost")
		require.NoError(t, err)
		got := f.Apply(cards)
		require.Len(t, got, 2)
	})

	t.Run("list filter falls back to ghost lanes", func(t *testing.T) {
		f, err := ParseFilter("Serra", "", "")
		require.NoError(t, err)
		got := f.Apply(cards)
		require.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].WorkOrderID)
	})

	t.Run("category filter matches the card's own lane", func(t *testing.T) {
		f, err := ParseFilter("", "torno cnc", "")
		require.NoError(t, err)
		got := f.Apply(cards)
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].WorkOrderID)
	})

	t.Run("list and state filters compose", func(t *testing.T) {
		f, err := ParseFilter("mazak", "", "paused")
		require.NoError(t, err)
		assert.Empty(t, f.Apply(cards))
	})
}
