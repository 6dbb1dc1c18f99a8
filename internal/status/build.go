package status

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/chaodefabrica/apontamento/internal/domain"
)

// EstimateKey addresses the time estimates of one (item, task) pair.
type EstimateKey struct {
	ItemID int64
	TaskID int64
}

// Input is everything the card builder needs, fetched up front in batched
// queries by the caller. Now is captured once so every triple is evaluated
// against the same instant; Location is the display timezone applied at this
// serialization boundary (UTC when nil).
type Input struct {
	Now       time.Time
	Location  *time.Location
	Lists     []domain.KanbanList
	Snapshots []domain.StatusSnapshot
	// WorkOrders holds the order-entry rollup of every work order that may
	// produce a card (snapshot-backed, list-matched or ghost-forecasted).
	WorkOrders map[int64]*domain.WorkOrderSummary
	// Actions holds the full action log per work order, start time ascending.
	Actions   map[int64][]domain.Action
	Ghosts    []domain.GhostCard
	Items     map[int64]domain.Item
	Tasks     map[int64]domain.Task
	Operators map[int64]domain.Operator
	Estimates map[EstimateKey]domain.ItemTask
}

// BuildCards merges the three card sources into the final dashboard list:
// live snapshots, work orders physically sitting in a kanban list with no
// recorded actions, and ghost-card forecasts. A work order is never rendered
// twice. A failure while enriching one card skips that card with a logged
// error instead of aborting the aggregation.
func BuildCards(in Input) []CardView {
	b := builder{in: in, byName: make(map[string]domain.KanbanList, len(in.Lists))}
	for _, l := range in.Lists {
		if l.IsActive {
			b.byName[domain.NormalizeListName(l.Name)] = l
		}
	}

	ghostsByWO := make(map[int64][]domain.GhostCard)
	for _, g := range in.Ghosts {
		if g.IsActive {
			ghostsByWO[g.WorkOrderID] = append(ghostsByWO[g.WorkOrderID], g)
		}
	}

	seen := make(map[int64]bool)
	var cards []CardView

	emit := func(woID int64, build func() (*CardView, error)) {
		if seen[woID] {
			return
		}
		card, err := build()
		if err != nil {
			slog.Error("skipping card", "work_order_id", woID, "error", err)
			return
		}
		seen[woID] = true
		card.GhostCards = b.ghostViews(ghostsByWO[woID])
		cards = append(cards, *card)
	}

	// Source a: work orders with a live derived snapshot.
	for i := range in.Snapshots {
		snap := &in.Snapshots[i]
		if !snap.State.IsActive() {
			continue
		}
		emit(snap.WorkOrderID, func() (*CardView, error) { return b.fromSnapshot(snap) })
	}

	// Source b: work orders whose raw status names a shop-floor list but that
	// have no snapshot yet. They still must render as Awaiting cards.
	for _, woID := range sortedKeys(in.WorkOrders) {
		wo := in.WorkOrders[woID]
		if _, ok := b.byName[domain.NormalizeListName(wo.Status)]; !ok {
			continue
		}
		emit(woID, func() (*CardView, error) { return b.awaiting(wo) })
	}

	// Source c: ghost forecasts for work orders not rendered by (a) or (b).
	for _, woID := range sortedKeys(ghostsByWO) {
		ghosts := ghostsByWO[woID]
		emit(woID, func() (*CardView, error) { return b.fromGhost(woID, ghosts[0]) })
	}

	sort.SliceStable(cards, func(i, j int) bool {
		oi, oj := b.listOrder(cards[i].List), b.listOrder(cards[j].List)
		if oi != oj {
			return oi < oj
		}
		return cards[i].WorkOrderNumber < cards[j].WorkOrderNumber
	})

	return cards
}

type builder struct {
	in     Input
	byName map[string]domain.KanbanList
}

// fromSnapshot builds a live card from the derived snapshot plus the
// reconstructed per-triple activity.
func (b *builder) fromSnapshot(snap *domain.StatusSnapshot) (*CardView, error) {
	wo := b.in.WorkOrders[snap.WorkOrderID]
	if wo == nil {
		return nil, fmt.Errorf("work order %d referenced by snapshot no longer exists", snap.WorkOrderID)
	}

	card := b.base(wo)
	card.State = string(snap.State)
	card.PhaseStartedAt = b.localTime(snap.PhaseStartedAt)
	card.PauseReason = snap.PauseReason
	card.Quantity = snap.Quantity
	card.Operator = b.operatorView(snap.OperatorID)
	card.Item = b.itemView(snap.ItemID)
	card.Task = b.taskView(snap.TaskID)

	b.attachActivity(card, snap)
	return card, nil
}

// awaiting builds the zero-action card for a work order physically present
// on a shop-floor list.
func (b *builder) awaiting(wo *domain.WorkOrderSummary) (*CardView, error) {
	card := b.base(wo)
	card.State = string(domain.StateAwaiting)
	b.attachActivity(card, nil)
	return card, nil
}

// fromGhost builds a card for a work order that exists only as a forecast.
// The ghost's target list labels the card.
func (b *builder) fromGhost(woID int64, ghost domain.GhostCard) (*CardView, error) {
	wo := b.in.WorkOrders[woID]
	if wo == nil {
		return nil, fmt.Errorf("work order %d referenced by ghost card %d no longer exists", woID, ghost.ID)
	}
	card := b.base(wo)
	card.State = string(domain.StateAwaiting)
	if card.List == nil {
		card.List = b.listView(ghost.ListName)
	}
	b.attachActivity(card, nil)
	return card, nil
}

// base fills the order-entry fields shared by every card source.
func (b *builder) base(wo *domain.WorkOrderSummary) *CardView {
	return &CardView{
		WorkOrderID:     wo.ID,
		WorkOrderNumber: wo.Number,
		Clients:         wo.Clients,
		TotalQuantity:   wo.TotalQuantity,
		List:            b.listView(wo.Status),
		ActiveByTask:    []ActiveTaskView{},
	}
}

// attachActivity reconstructs every open triple of the card's work order and
// fills active_by_task, the phase summary and the primary analytics block.
func (b *builder) attachActivity(card *CardView, snap *domain.StatusSnapshot) {
	grouped := GroupByTriple(b.in.Actions[card.WorkOrderID])

	for _, key := range sortedTriples(grouped) {
		seq := grouped[key]
		phases := Reconstruct(seq)
		open := phases.Latest()
		if open == nil {
			continue
		}

		view := ActiveTaskView{
			ItemID:       key.ItemID,
			TaskID:       key.TaskID,
			State:        string(TripleState(seq)),
			StartedAt:    b.localTime(&open.StartedAt),
			Operator:     b.operatorView(&open.OperatorID),
			LastQuantity: LastQuantity(seq),
			Analytics:    b.analytics(key, seq, LastQuantity(seq)),
		}
		if item := b.itemView(&key.ItemID); item != nil {
			view.ItemName = item.Name
			view.ItemCode = item.Code
		}
		if task := b.taskView(&key.TaskID); task != nil {
			view.TaskName = task.Name
		}
		if phases.Pause != nil && phases.Pause == open {
			view.PauseReason = open.PauseReason
		}

		card.ActiveByTask = append(card.ActiveByTask, view)
		switch view.State {
		case string(domain.StateSetup):
			card.PhaseCounts.Setup++
		case string(domain.StatePaused):
			card.PhaseCounts.Paused++
		case string(domain.StateProducing):
			card.PhaseCounts.Producing++
		}
	}

	card.ActiveCount = len(card.ActiveByTask)
	card.MultipleActive = card.ActiveCount > 1
	card.LastQuantity = b.cardLastQuantity(card, snap, grouped)

	// Primary analytics follow the snapshot's current item/task triple.
	if snap != nil && snap.ItemID != nil && snap.TaskID != nil {
		key := domain.TripleKey{WorkOrderID: card.WorkOrderID, ItemID: *snap.ItemID, TaskID: *snap.TaskID}
		if seq, ok := grouped[key]; ok {
			card.Analytics = b.analytics(key, seq, card.LastQuantity)
		}
	}
}

// cardLastQuantity prefers the current triple's log over the snapshot cache.
func (b *builder) cardLastQuantity(card *CardView, snap *domain.StatusSnapshot, grouped map[domain.TripleKey][]domain.Action) int64 {
	if snap != nil && snap.ItemID != nil && snap.TaskID != nil {
		key := domain.TripleKey{WorkOrderID: card.WorkOrderID, ItemID: *snap.ItemID, TaskID: *snap.TaskID}
		if seq, ok := grouped[key]; ok {
			if q := LastQuantity(seq); q > 0 {
				return q
			}
		}
	}
	if snap != nil && snap.Quantity != nil {
		return *snap.Quantity
	}
	return 0
}

// analytics aggregates durations and classifies them against the pair's
// estimates. Returns nil when the triple has no measurable phase at all.
func (b *builder) analytics(key domain.TripleKey, seq []domain.Action, quantity int64) *AnalyticsView {
	d := Aggregate(seq, b.in.Now)
	if d.SetupSeconds == nil && d.ProductionSeconds == nil && d.PauseSeconds == nil {
		return nil
	}

	view := &AnalyticsView{
		SetupElapsedSeconds:      d.SetupSeconds,
		ProductionElapsedSeconds: d.ProductionSeconds,
		PauseElapsedSeconds:      d.PauseSeconds,
		SecondsPerPiece:          SecondsPerPiece(d, quantity),
	}

	est, ok := b.in.Estimates[EstimateKey{ItemID: key.ItemID, TaskID: key.TaskID}]
	if !ok {
		return view
	}
	if d.SetupSeconds != nil {
		view.SetupRating = Classify(float64(*d.SetupSeconds), est.SetupSeconds)
	}
	if view.SecondsPerPiece != nil {
		view.CycleRating = Classify(*view.SecondsPerPiece, est.PieceSeconds)
	}
	return view
}

func (b *builder) ghostViews(ghosts []domain.GhostCard) []GhostCardView {
	if len(ghosts) == 0 {
		return nil
	}
	sort.SliceStable(ghosts, func(i, j int) bool {
		return ghosts[i].QueuePosition < ghosts[j].QueuePosition
	})
	views := make([]GhostCardView, 0, len(ghosts))
	for _, g := range ghosts {
		view := GhostCardView{
			ID:            g.ID,
			ListName:      g.ListName,
			TaskID:        g.TaskID,
			QueuePosition: g.QueuePosition,
			Notes:         g.Notes,
		}
		if l, ok := b.byName[domain.NormalizeListName(g.ListName)]; ok {
			view.ListName = l.Name
			view.ListCategory = l.Category
		}
		if task := b.taskView(g.TaskID); task != nil {
			view.TaskName = task.Name
		}
		views = append(views, view)
	}
	return views
}

// listView resolves a raw status string against the active list definitions.
// No match means the work order sits outside the tracked shop floor: nil.
func (b *builder) listView(rawStatus string) *ListView {
	l, ok := b.byName[domain.NormalizeListName(rawStatus)]
	if !ok {
		return nil
	}
	return &ListView{Name: l.Name, Category: l.Category, Color: l.Color}
}

func (b *builder) listOrder(view *ListView) int {
	if view != nil {
		if l, ok := b.byName[domain.NormalizeListName(view.Name)]; ok {
			return l.DisplayOrder
		}
	}
	return int(^uint(0) >> 1) // unknown lists sort last
}

// operatorView, itemView and taskView tolerate dangling references: a
// deleted catalog row yields nil and the field is omitted from the payload.
func (b *builder) operatorView(id *int64) *OperatorView {
	if id == nil {
		return nil
	}
	op, ok := b.in.Operators[*id]
	if !ok {
		return nil
	}
	return &OperatorView{ID: op.ID, Name: op.Name, Code: op.Code}
}

func (b *builder) itemView(id *int64) *ItemView {
	if id == nil {
		return nil
	}
	item, ok := b.in.Items[*id]
	if !ok {
		return nil
	}
	return &ItemView{ID: item.ID, Name: item.Name, Code: item.Code}
}

func (b *builder) taskView(id *int64) *TaskView {
	if id == nil {
		return nil
	}
	task, ok := b.in.Tasks[*id]
	if !ok {
		return nil
	}
	return &TaskView{ID: task.ID, Name: task.Name, Category: task.Category}
}

func (b *builder) localTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	loc := b.in.Location
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return &local
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedTriples(m map[domain.TripleKey][]domain.Action) []domain.TripleKey {
	keys := make([]domain.TripleKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ItemID != keys[j].ItemID {
			return keys[i].ItemID < keys[j].ItemID
		}
		return keys[i].TaskID < keys[j].TaskID
	})
	return keys
}
