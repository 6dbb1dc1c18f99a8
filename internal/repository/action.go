package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chaodefabrica/apontamento/internal/domain"
)

// actionColumns is the shared list of columns for action queries.
var actionColumns = []string{
	"id", "work_order_id", "item_id", "task_id", "operator_id", "kind",
	"started_at", "ended_at", "elapsed_seconds", "quantity", "pause_reason",
	"notes", "kanban_list",
}

// ActionRepository handles database operations for the production action log.
type ActionRepository struct {
	pool *pgxpool.Pool
}

// NewActionRepository creates a new ActionRepository.
func NewActionRepository(pool *pgxpool.Pool) *ActionRepository {
	return &ActionRepository{pool: pool}
}

// scanAction scans a single row into an Action struct.
func scanAction(row pgx.Row) (*domain.Action, error) {
	var a domain.Action
	err := row.Scan(
		&a.ID,
		&a.WorkOrderID,
		&a.ItemID,
		&a.TaskID,
		&a.OperatorID,
		&a.Kind,
		&a.StartedAt,
		&a.EndedAt,
		&a.ElapsedSeconds,
		&a.Quantity,
		&a.PauseReason,
		&a.Notes,
		&a.KanbanList,
	)
	if err != nil {
		return nil, fmt.Errorf("scan action: %w", err)
	}
	return &a, nil
}

func scanActions(rows pgx.Rows) ([]domain.Action, error) {
	defer rows.Close()

	var actions []domain.Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return actions, nil
}

// Create appends a new action to the log within a transaction.
func (r *ActionRepository) Create(ctx context.Context, tx pgx.Tx, action *domain.Action) error {
	query, args, err := psql.
		Insert("production_actions").
		Columns(
			"work_order_id", "item_id", "task_id", "operator_id", "kind",
			"started_at", "ended_at", "elapsed_seconds", "quantity",
			"pause_reason", "notes", "kanban_list",
		).
		Values(
			action.WorkOrderID,
			action.ItemID,
			action.TaskID,
			action.OperatorID,
			action.Kind,
			action.StartedAt,
			action.EndedAt,
			action.ElapsedSeconds,
			action.Quantity,
			action.PauseReason,
			action.Notes,
			action.KanbanList,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for action: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&action.ID); err != nil {
		return fmt.Errorf("create action: %w", err)
	}
	return nil
}

// LatestOpen returns the most recent open action of the given kind for one
// triple, locked FOR UPDATE so concurrent closures serialize. Returns
// (nil, nil) when the triple has no open action of that kind.
func (r *ActionRepository) LatestOpen(
	ctx context.Context,
	tx pgx.Tx,
	key domain.TripleKey,
	kind domain.ActionKind,
) (*domain.Action, error) {
	query, args, err := psql.
		Select(actionColumns...).
		From("production_actions").
		Where(sq.Eq{
			"work_order_id": key.WorkOrderID,
			"item_id":       key.ItemID,
			"task_id":       key.TaskID,
			"kind":          kind,
			"ended_at":      nil,
		}).
		OrderBy("started_at DESC").
		Limit(1).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build LatestOpen query: %w", err)
	}

	action, err := scanAction(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return action, nil
}

// Close stamps the end timestamp and sealed elapsed seconds on an open
// action. Closure is the only mutation the log ever sees.
func (r *ActionRepository) Close(
	ctx context.Context,
	tx pgx.Tx,
	actionID int64,
	endedAt time.Time,
	elapsedSeconds int64,
) error {
	query, args, err := psql.
		Update("production_actions").
		Set("ended_at", endedAt).
		Set("elapsed_seconds", elapsedSeconds).
		Where(sq.Eq{"id": actionID, "ended_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Close query for action %d: %w", actionID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("close action %d: %w", actionID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoOpenPhase
	}
	return nil
}

// LastQuantity returns the most recently reported quantity for a triple,
// or 0 when none was ever reported.
func (r *ActionRepository) LastQuantity(ctx context.Context, key domain.TripleKey) (int64, error) {
	query, args, err := psql.
		Select("quantity").
		From("production_actions").
		Where(sq.Eq{
			"work_order_id": key.WorkOrderID,
			"item_id":       key.ItemID,
			"task_id":       key.TaskID,
		}).
		Where(sq.NotEq{"quantity": nil}).
		OrderBy("started_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build LastQuantity query: %w", err)
	}

	var quantity int64
	err = r.pool.QueryRow(ctx, query, args...).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("query last quantity: %w", err)
	}
	return quantity, nil
}

// ListWorkOrderIDs returns the distinct work orders that have at least one
// logged action. Used by the snapshot rebuild.
func (r *ActionRepository) ListWorkOrderIDs(ctx context.Context) ([]int64, error) {
	query, args, err := psql.
		Select("DISTINCT work_order_id").
		From("production_actions").
		OrderBy("work_order_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListWorkOrderIDs query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query work order ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan work order id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return ids, nil
}

// ListByWorkOrder retrieves the full action log of one work order,
// newest first, for the log endpoint.
func (r *ActionRepository) ListByWorkOrder(ctx context.Context, workOrderID int64) ([]domain.Action, error) {
	query, args, err := psql.
		Select(actionColumns...).
		From("production_actions").
		Where(sq.Eq{"work_order_id": workOrderID}).
		OrderBy("started_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByWorkOrder query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	return scanActions(rows)
}

// ListForWorkOrders batch-fetches the action logs of many work orders in a
// single query, start time ascending, grouped by work order. One round trip
// regardless of how many work orders are active keeps the aggregation's
// latency bounded.
func (r *ActionRepository) ListForWorkOrders(ctx context.Context, workOrderIDs []int64) (map[int64][]domain.Action, error) {
	grouped := make(map[int64][]domain.Action)
	if len(workOrderIDs) == 0 {
		return grouped, nil
	}

	query, args, err := psql.
		Select(actionColumns...).
		From("production_actions").
		Where(sq.Eq{"work_order_id": workOrderIDs}).
		OrderBy("started_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListForWorkOrders query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}

	actions, err := scanActions(rows)
	if err != nil {
		return nil, err
	}
	for _, a := range actions {
		grouped[a.WorkOrderID] = append(grouped[a.WorkOrderID], a)
	}
	return grouped, nil
}
