package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaodefabrica/apontamento/internal/domain"
)

func testLists() []domain.KanbanList {
	return []domain.KanbanList{
		{ID: 1, Name: "Serra", Category: "Serra", Color: "#dc3545", DisplayOrder: 2, IsActive: true},
		{ID: 2, Name: "Mazak", Category: "Torno CNC", Color: "#007bff", DisplayOrder: 4, IsActive: true},
		{ID: 3, Name: "Expedição", Category: "Outros", Color: "#198754", DisplayOrder: 20, IsActive: true},
	}
}

func summary(id int64, number, rawStatus string) *domain.WorkOrderSummary {
	return &domain.WorkOrderSummary{
		WorkOrder:     domain.WorkOrder{ID: id, Number: number, Status: rawStatus, CreatedAt: base},
		Clients:       []string{"Acme"},
		TotalQuantity: 100,
	}
}

func testInput(now time.Time) Input {
	return Input{
		Now:        now,
		Lists:      testLists(),
		WorkOrders: map[int64]*domain.WorkOrderSummary{},
		Actions:    map[int64][]domain.Action{},
		Items:      map[int64]domain.Item{10: {ID: 10, Name: "Flange", Code: "FL-10"}},
		Tasks:      map[int64]domain.Task{20: {ID: 20, Name: "Torneamento", Category: "Torno CNC"}},
		Operators:  map[int64]domain.Operator{100: {ID: 100, Name: "João", IsActive: true}},
		Estimates:  map[EstimateKey]domain.ItemTask{},
	}
}

func findCard(t *testing.T, cards []CardView, workOrderID int64) *CardView {
	t.Helper()
	for i := range cards {
		if cards[i].WorkOrderID == workOrderID {
			return &cards[i]
		}
	}
	t.Fatalf("no card for work order %d", workOrderID)
	return nil
}

func TestBuildCardsFromSnapshot(t *testing.T) {
	now := base.Add(1200 * time.Second)
	in := testInput(now)

	in.WorkOrders[1] = summary(1, "OS-100", "Mazak")
	itemID, taskID, operatorID := int64(10), int64(20), int64(100)
	started := base
	in.Snapshots = []domain.StatusSnapshot{{
		WorkOrderID:    1,
		State:          domain.StateProducing,
		OperatorID:     &operatorID,
		ItemID:         &itemID,
		TaskID:         &taskID,
		PhaseStartedAt: &started,
	}}
	in.Actions[1] = []domain.Action{act(domain.ActionProductionStart, 0, withQuantity(40))}
	in.Estimates[EstimateKey{ItemID: 10, TaskID: 20}] = domain.ItemTask{
		ItemID: 10, TaskID: 20, SetupSeconds: estimate(500), PieceSeconds: estimate(30),
	}

	cards := BuildCards(in)
	require.Len(t, cards, 1)

	card := cards[0]
	assert.Equal(t, int64(1), card.WorkOrderID)
	assert.Equal(t, "OS-100", card.WorkOrderNumber)
	assert.Equal(t, string(domain.StateProducing), card.State)
	require.NotNil(t, card.List)
	assert.Equal(t, "Mazak", card.List.Name)
	require.NotNil(t, card.Operator)
	assert.Equal(t, "João", card.Operator.Name)
	require.NotNil(t, card.Item)
	assert.Equal(t, "Flange", card.Item.Name)

	assert.Equal(t, 1, card.ActiveCount)
	assert.False(t, card.MultipleActive)
	assert.Equal(t, 1, card.PhaseCounts.Producing)
	assert.Equal(t, int64(40), card.LastQuantity)

	require.NotNil(t, card.Analytics)
	require.NotNil(t, card.Analytics.ProductionElapsedSeconds)
	assert.Equal(t, int64(1200), *card.Analytics.ProductionElapsedSeconds)
	require.NotNil(t, card.Analytics.SecondsPerPiece)
	assert.InDelta(t, 30.0, *card.Analytics.SecondsPerPiece, 0.001)
	require.NotNil(t, card.Analytics.CycleRating)
	assert.Equal(t, RatingOnTarget, *card.Analytics.CycleRating)
}

func TestBuildCardsListMatchIsCaseInsensitive(t *testing.T) {
	in := testInput(base)
	// Raw status differs from the list definition in case and whitespace.
	in.WorkOrders[2] = summary(2, "OS-200", "  MAZAK ")

	cards := BuildCards(in)
	require.Len(t, cards, 1)
	assert.Equal(t, string(domain.StateAwaiting), cards[0].State)
	require.NotNil(t, cards[0].List)
	assert.Equal(t, "Mazak", cards[0].List.Name)
	assert.Empty(t, cards[0].ActiveByTask)
}

func TestBuildCardsIgnoresUnlistedWorkOrders(t *testing.T) {
	in := testInput(base)
	in.WorkOrders[3] = summary(3, "OS-300", "Faturado")

	assert.Empty(t, BuildCards(in))
}

func TestBuildCardsGhostOnly(t *testing.T) {
	in := testInput(base)
	in.WorkOrders[4] = summary(4, "OS-400", "Faturado")
	taskID := int64(20)
	in.Ghosts = []domain.GhostCard{{
		ID: 7, WorkOrderID: 4, ListName: "Serra", TaskID: &taskID, QueuePosition: 1, IsActive: true,
	}}

	cards := BuildCards(in)
	require.Len(t, cards, 1)

	card := cards[0]
	assert.Equal(t, int64(4), card.WorkOrderID)
	assert.Equal(t, string(domain.StateAwaiting), card.State)
	require.NotNil(t, card.List, "the ghost's target list labels the card")
	assert.Equal(t, "Serra", card.List.Name)
	require.Len(t, card.GhostCards, 1)
	assert.Equal(t, "Torneamento", card.GhostCards[0].TaskName)
}

func TestBuildCardsNeverDuplicatesAWorkOrder(t *testing.T) {
	now := base.Add(600 * time.Second)
	in := testInput(now)

	// Same work order reachable from all three sources.
	in.WorkOrders[5] = summary(5, "OS-500", "Mazak")
	itemID, taskID, operatorID := int64(10), int64(20), int64(100)
	in.Snapshots = []domain.StatusSnapshot{{
		WorkOrderID: 5, State: domain.StateSetup,
		OperatorID: &operatorID, ItemID: &itemID, TaskID: &taskID,
	}}
	in.Actions[5] = []domain.Action{act(domain.ActionSetupStart, 0)}
	in.Ghosts = []domain.GhostCard{{ID: 8, WorkOrderID: 5, ListName: "Serra", QueuePosition: 2, IsActive: true}}

	cards := BuildCards(in)
	require.Len(t, cards, 1)
	assert.Equal(t, string(domain.StateSetup), cards[0].State)
	// Ghost metadata still rides on the snapshot-backed card.
	require.Len(t, cards[0].GhostCards, 1)
	assert.Equal(t, "Serra", cards[0].GhostCards[0].ListName)
}

func TestBuildCardsDanglingCatalogReferences(t *testing.T) {
	in := testInput(base)
	in.WorkOrders[6] = summary(6, "OS-600", "Mazak")
	deletedItem, taskID, deletedOperator := int64(99), int64(20), int64(77)
	in.Snapshots = []domain.StatusSnapshot{{
		WorkOrderID: 6, State: domain.StateProducing,
		OperatorID: &deletedOperator, ItemID: &deletedItem, TaskID: &taskID,
	}}

	cards := BuildCards(in)
	require.Len(t, cards, 1)
	// Deleted catalog rows degrade to omitted fields, never zero values.
	assert.Nil(t, cards[0].Item)
	assert.Nil(t, cards[0].Operator)
	require.NotNil(t, cards[0].Task)
	assert.Equal(t, string(domain.StateProducing), cards[0].State)
}

func TestBuildCardsDoneSnapshotsStayOff(t *testing.T) {
	in := testInput(base)
	in.WorkOrders[7] = summary(7, "OS-700", "Faturado")
	in.Snapshots = []domain.StatusSnapshot{{WorkOrderID: 7, State: domain.StateDone}}

	assert.Empty(t, BuildCards(in))
}

func TestBuildCardsSortedByListOrder(t *testing.T) {
	in := testInput(base)
	in.WorkOrders[1] = summary(1, "OS-100", "Expedição")
	in.WorkOrders[2] = summary(2, "OS-200", "Serra")
	in.WorkOrders[3] = summary(3, "OS-050", "Serra")

	cards := BuildCards(in)
	require.Len(t, cards, 3)
	assert.Equal(t, "OS-050", cards[0].WorkOrderNumber)
	assert.Equal(t, "OS-200", cards[1].WorkOrderNumber)
	assert.Equal(t, "OS-100", cards[2].WorkOrderNumber)
}

func TestBuildCardsConcurrentTriples(t *testing.T) {
	now := base.Add(1000 * time.Second)
	in := testInput(now)
	in.Items[11] = domain.Item{ID: 11, Name: "Eixo", Code: "EX-11"}

	in.WorkOrders[8] = summary(8, "OS-800", "Mazak")
	itemID, taskID, operatorID := int64(10), int64(20), int64(100)
	in.Snapshots = []domain.StatusSnapshot{{
		WorkOrderID: 8, State: domain.StateProducing,
		OperatorID: &operatorID, ItemID: &itemID, TaskID: &taskID,
	}}

	second := act(domain.ActionSetupStart, 200)
	second.WorkOrderID = 8
	second.ItemID = 11
	first := act(domain.ActionProductionStart, 0)
	first.WorkOrderID = 8
	in.Actions[8] = []domain.Action{first, second}

	cards := BuildCards(in)
	require.Len(t, cards, 1)

	card := cards[0]
	assert.Equal(t, 2, card.ActiveCount)
	assert.True(t, card.MultipleActive)
	assert.Equal(t, 1, card.PhaseCounts.Producing)
	assert.Equal(t, 1, card.PhaseCounts.Setup)
	require.Len(t, card.ActiveByTask, 2)
}
