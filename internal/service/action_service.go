package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chaodefabrica/apontamento/internal/domain"
	"github.com/chaodefabrica/apontamento/internal/repository"
	"github.com/chaodefabrica/apontamento/internal/status"
)

// ActionService coordinates the write path: operator button presses appended
// to the action log, phase closures and the derived snapshot cache.
type ActionService struct {
	pool          *pgxpool.Pool
	actionRepo    *repository.ActionRepository
	snapshotRepo  *repository.SnapshotRepository
	workOrderRepo *repository.WorkOrderRepository
	catalogRepo   *repository.CatalogRepository
	validator     *Validator
}

// NewActionService creates a new ActionService.
func NewActionService(
	pool *pgxpool.Pool,
	actionRepo *repository.ActionRepository,
	snapshotRepo *repository.SnapshotRepository,
	workOrderRepo *repository.WorkOrderRepository,
	catalogRepo *repository.CatalogRepository,
) *ActionService {
	return &ActionService{
		pool:          pool,
		actionRepo:    actionRepo,
		snapshotRepo:  snapshotRepo,
		workOrderRepo: workOrderRepo,
		catalogRepo:   catalogRepo,
		validator:     NewValidator(),
	}
}

// RegisterActionInput is one operator button press from a terminal.
type RegisterActionInput struct {
	WorkOrderID  int64
	ItemID       int64
	TaskID       int64
	OperatorCode string
	Kind         domain.ActionKind
	Quantity     *int64
	PauseReason  *string
	Notes        *string
}

// RegisterActionResult is the appended action plus the work order's
// resulting lifecycle state.
type RegisterActionResult struct {
	Action *domain.Action
	State  domain.LifecycleState
}

// RegisterAction validates and appends one operator action, closing whatever
// phases the kind implies and overwriting the work order's snapshot. The
// open-phase reads, closures, the new row and the snapshot all commit in one
// transaction.
func (s *ActionService) RegisterAction(ctx context.Context, in RegisterActionInput) (*RegisterActionResult, error) {
	if !in.Kind.IsValid() {
		return nil, domain.ErrInvalidActionKind
	}

	operator, err := s.catalogRepo.GetOperatorByCode(ctx, in.OperatorCode)
	if err != nil {
		return nil, err
	}
	if err := s.validator.CheckOperator(operator); err != nil {
		return nil, err
	}

	workOrder, err := s.workOrderRepo.GetByID(ctx, in.WorkOrderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.catalogRepo.GetItem(ctx, in.ItemID); err != nil {
		return nil, err
	}
	if _, err := s.catalogRepo.GetTask(ctx, in.TaskID); err != nil {
		return nil, err
	}
	if _, err := s.catalogRepo.GetItemTask(ctx, in.ItemID, in.TaskID); err != nil {
		return nil, err
	}

	key := domain.TripleKey{WorkOrderID: in.WorkOrderID, ItemID: in.ItemID, TaskID: in.TaskID}
	lastQuantity, err := s.actionRepo.LastQuantity(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := s.validator.CheckQuantity(in.Quantity, lastQuantity); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err.Error() != "tx is closed" {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	phases, err := s.openPhases(ctx, tx, key)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	action := &domain.Action{
		WorkOrderID: in.WorkOrderID,
		ItemID:      in.ItemID,
		TaskID:      in.TaskID,
		OperatorID:  operator.ID,
		Kind:        in.Kind,
		StartedAt:   now,
		Quantity:    in.Quantity,
		PauseReason: in.PauseReason,
		Notes:       in.Notes,
		KanbanList:  workOrder.Status,
	}

	state, err := s.applyKind(ctx, tx, action, phases, now)
	if err != nil {
		return nil, err
	}

	if err := s.actionRepo.Create(ctx, tx, action); err != nil {
		return nil, err
	}

	snapshot := s.snapshotFor(action, state, now, lastQuantity)
	if err := s.snapshotRepo.Upsert(ctx, tx, snapshot); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("action registered",
		"action_id", action.ID,
		"work_order_id", action.WorkOrderID,
		"item_id", action.ItemID,
		"task_id", action.TaskID,
		"operator_id", action.OperatorID,
		"kind", action.Kind,
		"state", state,
	)

	return &RegisterActionResult{Action: action, State: state}, nil
}

// openPhases fetches the triple's open actions under FOR UPDATE locks so
// concurrent presses on the same triple serialize.
func (s *ActionService) openPhases(ctx context.Context, tx pgx.Tx, key domain.TripleKey) (status.OpenPhases, error) {
	var phases status.OpenPhases
	var err error
	if phases.Setup, err = s.actionRepo.LatestOpen(ctx, tx, key, domain.ActionSetupStart); err != nil {
		return phases, err
	}
	if phases.Production, err = s.actionRepo.LatestOpen(ctx, tx, key, domain.ActionProductionStart); err != nil {
		return phases, err
	}
	if phases.Pause, err = s.actionRepo.LatestOpen(ctx, tx, key, domain.ActionPause); err != nil {
		return phases, err
	}
	return phases, nil
}

// applyKind runs the kind-specific guards and closures, mutating the new
// action row where the kind records a closed interval. Returns the work
// order's resulting lifecycle state.
func (s *ActionService) applyKind(
	ctx context.Context,
	tx pgx.Tx,
	action *domain.Action,
	phases status.OpenPhases,
	now time.Time,
) (domain.LifecycleState, error) {
	operatorID := action.OperatorID

	switch action.Kind {
	case domain.ActionSetupStart:
		if err := s.validator.CanStartSetup(phases); err != nil {
			return "", err
		}
		return domain.StateSetup, nil

	case domain.ActionSetupEnd:
		if err := s.validator.CanEndSetup(phases, operatorID); err != nil {
			return "", err
		}
		elapsed, err := s.closePhase(ctx, tx, phases.Setup, now)
		if err != nil {
			return "", err
		}
		action.EndedAt = &now
		action.ElapsedSeconds = &elapsed
		return domain.StateAwaiting, nil

	case domain.ActionProductionStart:
		if err := s.validator.CanStartProduction(phases); err != nil {
			return "", err
		}
		if phases.Pause != nil {
			if _, err := s.closePhase(ctx, tx, phases.Pause, now); err != nil {
				return "", err
			}
		}
		return domain.StateProducing, nil

	case domain.ActionPause:
		if err := s.validator.CanPause(phases, operatorID); err != nil {
			return "", err
		}
		if _, err := s.closePhase(ctx, tx, phases.Production, now); err != nil {
			return "", err
		}
		return domain.StatePaused, nil

	case domain.ActionStop:
		if err := s.validator.CanStop(phases, operatorID); err != nil {
			return "", err
		}
		elapsed, err := s.closeAll(ctx, tx, phases, now)
		if err != nil {
			return "", err
		}
		action.EndedAt = &now
		action.ElapsedSeconds = &elapsed
		return domain.StateAwaiting, nil

	case domain.ActionProductionEnd:
		if err := s.validator.CanEndProduction(phases, operatorID, action.Quantity); err != nil {
			return "", err
		}
		elapsed, err := s.closeAll(ctx, tx, phases, now)
		if err != nil {
			return "", err
		}
		action.EndedAt = &now
		action.ElapsedSeconds = &elapsed
		return domain.StateDone, nil

	default:
		return "", domain.ErrInvalidActionKind
	}
}

// closePhase seals one open phase: end timestamp plus elapsed seconds,
// computed once here and never recomputed afterwards.
func (s *ActionService) closePhase(ctx context.Context, tx pgx.Tx, open *domain.Action, now time.Time) (int64, error) {
	elapsed := int64(now.Sub(open.StartedAt).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	if err := s.actionRepo.Close(ctx, tx, open.ID, now, elapsed); err != nil {
		return 0, err
	}
	return elapsed, nil
}

// closeAll seals every open phase of the triple. The returned elapsed is the
// production run's when one was open, the latest phase's otherwise, so stop
// and production_end rows still record a measure.
func (s *ActionService) closeAll(ctx context.Context, tx pgx.Tx, phases status.OpenPhases, now time.Time) (int64, error) {
	var result int64
	latest := phases.Latest()
	for _, open := range []*domain.Action{phases.Setup, phases.Production, phases.Pause} {
		if open == nil {
			continue
		}
		elapsed, err := s.closePhase(ctx, tx, open, now)
		if err != nil {
			return 0, err
		}
		if open == phases.Production || (phases.Production == nil && open == latest) {
			result = elapsed
		}
	}
	return result, nil
}

// snapshotFor derives the work order's new snapshot from the action just
// appended.
func (s *ActionService) snapshotFor(
	action *domain.Action,
	state domain.LifecycleState,
	now time.Time,
	lastQuantity int64,
) *domain.StatusSnapshot {
	snap := &domain.StatusSnapshot{
		WorkOrderID: action.WorkOrderID,
		State:       state,
		OperatorID:  &action.OperatorID,
		ItemID:      &action.ItemID,
		TaskID:      &action.TaskID,
		Quantity:    action.Quantity,
	}
	if snap.Quantity == nil && lastQuantity > 0 {
		snap.Quantity = &lastQuantity
	}
	if action.Kind.IsOpening() {
		started := now
		snap.PhaseStartedAt = &started
	}
	if action.Kind == domain.ActionPause {
		snap.PauseReason = action.PauseReason
	}
	return snap
}

// ListWorkOrderActions retrieves the full action log of one work order,
// newest first.
func (s *ActionService) ListWorkOrderActions(ctx context.Context, workOrderID int64) ([]domain.Action, error) {
	if _, err := s.workOrderRepo.GetByID(ctx, workOrderID); err != nil {
		return nil, err
	}
	return s.actionRepo.ListByWorkOrder(ctx, workOrderID)
}

// ListWorkOrderItems retrieves the items attached to a work order for the
// terminal dropdowns.
func (s *ActionService) ListWorkOrderItems(ctx context.Context, workOrderID int64) ([]domain.Item, error) {
	if _, err := s.workOrderRepo.GetByID(ctx, workOrderID); err != nil {
		return nil, err
	}
	return s.workOrderRepo.ListItems(ctx, workOrderID)
}

// ListItemTasks retrieves the task types configured for an item, with their
// time estimates.
func (s *ActionService) ListItemTasks(ctx context.Context, itemID int64) ([]repository.TaskWithEstimate, error) {
	if _, err := s.catalogRepo.GetItem(ctx, itemID); err != nil {
		return nil, err
	}
	tasks, err := s.catalogRepo.ListTasksForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, domain.ErrNoTasksForItem
	}
	return tasks, nil
}

// ValidateOperator resolves a terminal code to an active operator.
func (s *ActionService) ValidateOperator(ctx context.Context, code string) (*domain.Operator, error) {
	operator, err := s.catalogRepo.GetOperatorByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.validator.CheckOperator(operator); err != nil {
		return nil, err
	}
	return operator, nil
}

// RebuildSnapshots recomputes every work order's snapshot from the action
// log. Run after manual log corrections; the log is authoritative, the
// snapshot cache merely derived. Returns the number of snapshots rebuilt.
func (s *ActionService) RebuildSnapshots(ctx context.Context) (int, error) {
	ids, err := s.actionRepo.ListWorkOrderIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list work orders with actions: %w", err)
	}
	if len(ids) == 0 {
		slog.Info("no action log entries, nothing to rebuild")
		return 0, nil
	}

	logs, err := s.actionRepo.ListForWorkOrders(ctx, ids)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	count := 0
	var errs []error
	for _, id := range ids {
		if err := s.rebuildOne(ctx, id, logs[id], now); err != nil {
			slog.Error("failed to rebuild snapshot",
				"work_order_id", id,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("work order %d: %w", id, err))
			continue
		}
		count++
	}

	slog.Info("rebuilt snapshots",
		"total", len(ids),
		"successful", count,
		"failed", len(errs),
	)

	if len(errs) > 0 {
		return count, fmt.Errorf("rebuilt %d/%d snapshots: %v", count, len(ids), errs)
	}
	return count, nil
}

// rebuildOne replays one work order's log into a fresh snapshot. The
// snapshot tracks the most recently touched triple.
func (s *ActionService) rebuildOne(ctx context.Context, workOrderID int64, actions []domain.Action, now time.Time) error {
	if len(actions) == 0 {
		return nil
	}

	last := actions[len(actions)-1]
	key := last.Triple()
	seq := status.GroupByTriple(actions)[key]
	phases := status.Reconstruct(seq)

	snap := &domain.StatusSnapshot{
		WorkOrderID: workOrderID,
		State:       status.TripleState(seq),
		OperatorID:  &last.OperatorID,
		ItemID:      &last.ItemID,
		TaskID:      &last.TaskID,
	}
	if q := status.LastQuantity(seq); q > 0 {
		snap.Quantity = &q
	}
	if open := phases.Latest(); open != nil {
		started := open.StartedAt
		snap.PhaseStartedAt = &started
		if open == phases.Pause {
			snap.PauseReason = open.PauseReason
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err.Error() != "tx is closed" {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	if err := s.snapshotRepo.Upsert(ctx, tx, snap); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
