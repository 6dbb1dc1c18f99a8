package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chaodefabrica/apontamento/internal/domain"
)

var snapshotColumns = []string{
	"work_order_id", "state", "operator_id", "item_id", "task_id",
	"quantity", "phase_started_at", "pause_reason", "updated_at",
}

// SnapshotRepository handles the derived per-work-order status cache.
// The action log stays authoritative; rows here are overwritten on every
// write and can be rebuilt from the log at any time.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

func scanSnapshot(row pgx.Row) (*domain.StatusSnapshot, error) {
	var s domain.StatusSnapshot
	err := row.Scan(
		&s.WorkOrderID,
		&s.State,
		&s.OperatorID,
		&s.ItemID,
		&s.TaskID,
		&s.Quantity,
		&s.PhaseStartedAt,
		&s.PauseReason,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	return &s, nil
}

// GetByWorkOrder retrieves the snapshot of one work order, or (nil, nil)
// when the work order was never touched by an operator.
func (r *SnapshotRepository) GetByWorkOrder(ctx context.Context, workOrderID int64) (*domain.StatusSnapshot, error) {
	query, args, err := psql.
		Select(snapshotColumns...).
		From("work_order_status").
		Where(sq.Eq{"work_order_id": workOrderID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByWorkOrder query: %w", err)
	}

	snap, err := scanSnapshot(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return snap, nil
}

// Upsert overwrites the snapshot of one work order within a transaction.
func (r *SnapshotRepository) Upsert(ctx context.Context, tx pgx.Tx, snap *domain.StatusSnapshot) error {
	query, args, err := psql.
		Insert("work_order_status").
		Columns(
			"work_order_id", "state", "operator_id", "item_id", "task_id",
			"quantity", "phase_started_at", "pause_reason",
		).
		Values(
			snap.WorkOrderID,
			snap.State,
			snap.OperatorID,
			snap.ItemID,
			snap.TaskID,
			snap.Quantity,
			snap.PhaseStartedAt,
			snap.PauseReason,
		).
		Suffix(`ON CONFLICT (work_order_id) DO UPDATE SET
			state = EXCLUDED.state,
			operator_id = EXCLUDED.operator_id,
			item_id = EXCLUDED.item_id,
			task_id = EXCLUDED.task_id,
			quantity = EXCLUDED.quantity,
			phase_started_at = EXCLUDED.phase_started_at,
			pause_reason = EXCLUDED.pause_reason,
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Upsert query for snapshot: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// ListActive retrieves every snapshot still on the live dashboard
// (anything not Done).
func (r *SnapshotRepository) ListActive(ctx context.Context) ([]domain.StatusSnapshot, error) {
	query, args, err := psql.
		Select(snapshotColumns...).
		From("work_order_status").
		Where(sq.NotEq{"state": domain.StateDone}).
		OrderBy("phase_started_at DESC NULLS LAST").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListActive query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query active snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.StatusSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return snapshots, nil
}
