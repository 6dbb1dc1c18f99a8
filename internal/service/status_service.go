package service

import (
	"context"
	"time"

	"github.com/chaodefabrica/apontamento/internal/domain"
	"github.com/chaodefabrica/apontamento/internal/repository"
	"github.com/chaodefabrica/apontamento/internal/status"
)

// StatusService serves the read side: the aggregated dashboard, kanban list
// definitions and ghost-card management.
type StatusService struct {
	kanbanRepo    *repository.KanbanRepository
	snapshotRepo  *repository.SnapshotRepository
	workOrderRepo *repository.WorkOrderRepository
	actionRepo    *repository.ActionRepository
	catalogRepo   *repository.CatalogRepository
	location      *time.Location
}

// NewStatusService creates a new StatusService. location is the display
// timezone applied to timestamps at the serialization boundary.
func NewStatusService(
	kanbanRepo *repository.KanbanRepository,
	snapshotRepo *repository.SnapshotRepository,
	workOrderRepo *repository.WorkOrderRepository,
	actionRepo *repository.ActionRepository,
	catalogRepo *repository.CatalogRepository,
	location *time.Location,
) *StatusService {
	return &StatusService{
		kanbanRepo:    kanbanRepo,
		snapshotRepo:  snapshotRepo,
		workOrderRepo: workOrderRepo,
		actionRepo:    actionRepo,
		catalogRepo:   catalogRepo,
		location:      location,
	}
}

// StatusQuery holds the raw filter parameters of one dashboard request.
type StatusQuery struct {
	List         string
	ListCategory string
	Status       string // comma-separated state tokens, or "all"
}

// Timings reports where an aggregation call spent its time, in whole
// milliseconds per stage.
type Timings struct {
	TotalMs      int64 `json:"total_ms"`
	ListsMs      int64 `json:"lists_ms"`
	SnapshotsMs  int64 `json:"snapshots_ms"`
	WorkOrdersMs int64 `json:"work_orders_ms"`
	ActionsMs    int64 `json:"actions_ms"`
	BuildMs      int64 `json:"build_ms"`
}

// ActiveCards runs the full aggregation: batched fetches, log replay, ghost
// merge, filtering. Every duration in the result is evaluated against the
// single now captured at entry. Any store failure fails the whole call;
// partial dashboards are worse than no dashboard.
func (s *StatusService) ActiveCards(ctx context.Context, q StatusQuery) ([]status.CardView, *Timings, error) {
	filter, err := status.ParseFilter(q.List, q.ListCategory, q.Status)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	mark := start
	now := start.UTC()
	var timings Timings

	lists, err := s.kanbanRepo.ListActiveLists(ctx)
	if err != nil {
		return nil, nil, err
	}
	timings.ListsMs = sinceMs(&mark)

	snapshots, err := s.snapshotRepo.ListActive(ctx)
	if err != nil {
		return nil, nil, err
	}
	timings.SnapshotsMs = sinceMs(&mark)

	ghosts, err := s.kanbanRepo.ListActiveGhosts(ctx)
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, 0, len(lists))
	for _, l := range lists {
		names = append(names, domain.NormalizeListName(l.Name))
	}
	listedIDs, err := s.workOrderRepo.ListIDsByRawStatus(ctx, names)
	if err != nil {
		return nil, nil, err
	}

	workOrderIDs := unionWorkOrderIDs(snapshots, listedIDs, ghosts)
	workOrders, err := s.workOrderRepo.ListSummaries(ctx, workOrderIDs)
	if err != nil {
		return nil, nil, err
	}
	timings.WorkOrdersMs = sinceMs(&mark)

	actions, err := s.actionRepo.ListForWorkOrders(ctx, workOrderIDs)
	if err != nil {
		return nil, nil, err
	}
	timings.ActionsMs = sinceMs(&mark)

	in := status.Input{
		Now:        now,
		Location:   s.location,
		Lists:      lists,
		Snapshots:  snapshots,
		WorkOrders: workOrders,
		Actions:    actions,
		Ghosts:     ghosts,
	}
	if err := s.loadCatalog(ctx, &in); err != nil {
		return nil, nil, err
	}

	cards := filter.Apply(status.BuildCards(in))
	timings.BuildMs = sinceMs(&mark)
	timings.TotalMs = time.Since(start).Milliseconds()

	return cards, &timings, nil
}

// loadCatalog batch-fetches the items, tasks, operators and estimates the
// fetched snapshots, actions and ghosts reference.
func (s *StatusService) loadCatalog(ctx context.Context, in *status.Input) error {
	itemIDs := make(map[int64]bool)
	taskIDs := make(map[int64]bool)
	operatorIDs := make(map[int64]bool)

	for _, snap := range in.Snapshots {
		collect(itemIDs, snap.ItemID)
		collect(taskIDs, snap.TaskID)
		collect(operatorIDs, snap.OperatorID)
	}
	for _, seq := range in.Actions {
		for _, a := range seq {
			itemIDs[a.ItemID] = true
			taskIDs[a.TaskID] = true
			operatorIDs[a.OperatorID] = true
		}
	}
	for _, g := range in.Ghosts {
		collect(taskIDs, g.TaskID)
	}

	var err error
	if in.Items, err = s.catalogRepo.ListItemsByIDs(ctx, keysOf(itemIDs)); err != nil {
		return err
	}
	if in.Tasks, err = s.catalogRepo.ListTasksByIDs(ctx, keysOf(taskIDs)); err != nil {
		return err
	}
	if in.Operators, err = s.catalogRepo.ListOperatorsByIDs(ctx, keysOf(operatorIDs)); err != nil {
		return err
	}

	links, err := s.catalogRepo.ListEstimatesForItems(ctx, keysOf(itemIDs))
	if err != nil {
		return err
	}
	in.Estimates = make(map[status.EstimateKey]domain.ItemTask, len(links))
	for _, link := range links {
		in.Estimates[status.EstimateKey{ItemID: link.ItemID, TaskID: link.TaskID}] = link
	}
	return nil
}

// ListKanbanLists retrieves the active list definitions in display order.
func (s *StatusService) ListKanbanLists(ctx context.Context) ([]domain.KanbanList, error) {
	return s.kanbanRepo.ListActiveLists(ctx)
}

// ListGhostCards retrieves every active ghost card.
func (s *StatusService) ListGhostCards(ctx context.Context) ([]domain.GhostCard, error) {
	return s.kanbanRepo.ListActiveGhosts(ctx)
}

// CreateGhostCard validates and inserts a forecast card. The work order must
// exist; the ghost itself never touches the action log.
func (s *StatusService) CreateGhostCard(ctx context.Context, ghost *domain.GhostCard) error {
	if _, err := s.workOrderRepo.GetByID(ctx, ghost.WorkOrderID); err != nil {
		return err
	}
	if ghost.TaskID != nil {
		if _, err := s.catalogRepo.GetTask(ctx, *ghost.TaskID); err != nil {
			return err
		}
	}
	return s.kanbanRepo.CreateGhost(ctx, ghost)
}

// RemoveGhostCard deactivates a forecast card.
func (s *StatusService) RemoveGhostCard(ctx context.Context, id int64) error {
	return s.kanbanRepo.DeactivateGhost(ctx, id)
}

// sinceMs returns the elapsed milliseconds since *mark and advances the mark,
// so successive stages report disjoint intervals.
func sinceMs(mark *time.Time) int64 {
	now := time.Now()
	ms := now.Sub(*mark).Milliseconds()
	*mark = now
	return ms
}

func unionWorkOrderIDs(snapshots []domain.StatusSnapshot, listed []int64, ghosts []domain.GhostCard) []int64 {
	seen := make(map[int64]bool, len(snapshots)+len(listed)+len(ghosts))
	var ids []int64
	add := func(id int64) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, snap := range snapshots {
		add(snap.WorkOrderID)
	}
	for _, id := range listed {
		add(id)
	}
	for _, g := range ghosts {
		if g.IsActive {
			add(g.WorkOrderID)
		}
	}
	return ids
}

func collect(set map[int64]bool, id *int64) {
	if id != nil {
		set[*id] = true
	}
}

func keysOf(set map[int64]bool) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
