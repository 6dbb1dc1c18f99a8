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

// WorkOrderRepository reads the order-entry side of the database: work
// orders, their customer orders and clients. All read-only; work-order
// lifecycle belongs to the surrounding application.
type WorkOrderRepository struct {
	pool *pgxpool.Pool
}

// NewWorkOrderRepository creates a new WorkOrderRepository.
func NewWorkOrderRepository(pool *pgxpool.Pool) *WorkOrderRepository {
	return &WorkOrderRepository{pool: pool}
}

// GetByID retrieves a work order by ID.
func (r *WorkOrderRepository) GetByID(ctx context.Context, id int64) (*domain.WorkOrder, error) {
	query, args, err := psql.
		Select("id", "number", "status", "created_at").
		From("work_orders").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for work order: %w", err)
	}

	var wo domain.WorkOrder
	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&wo.ID, &wo.Number, &wo.Status, &wo.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("scan work order: %w", err)
	}
	return &wo, nil
}

// ListIDsByRawStatus finds work orders whose raw status string matches one of
// the given normalized list names. Matching folds case and whitespace because
// upstream data entry is inconsistent about both.
func (r *WorkOrderRepository) ListIDsByRawStatus(ctx context.Context, normalizedNames []string) ([]int64, error) {
	if len(normalizedNames) == 0 {
		return nil, nil
	}

	query, args, err := psql.
		Select("id").
		From("work_orders").
		Where(sq.Eq{"LOWER(BTRIM(status))": normalizedNames}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListIDsByRawStatus query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query work orders by status: %w", err)
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

// ListSummaries batch-fetches the card rollup (number, raw status, aggregated
// client names, total ordered quantity) for a set of work orders in a single
// query.
func (r *WorkOrderRepository) ListSummaries(ctx context.Context, ids []int64) (map[int64]*domain.WorkOrderSummary, error) {
	summaries := make(map[int64]*domain.WorkOrderSummary)
	if len(ids) == 0 {
		return summaries, nil
	}

	query := `
		SELECT
			wo.id,
			wo.number,
			wo.status,
			wo.created_at,
			COALESCE(ARRAY_AGG(DISTINCT c.name) FILTER (WHERE c.name IS NOT NULL), '{}') AS clients,
			COALESCE(SUM(co.quantity), 0) AS total_quantity
		FROM work_orders wo
		LEFT JOIN customer_orders co ON co.work_order_id = wo.id
		LEFT JOIN clients c ON c.id = co.client_id
		WHERE wo.id = ANY($1)
		GROUP BY wo.id, wo.number, wo.status, wo.created_at
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("query work order summaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.WorkOrderSummary
		err := rows.Scan(&s.ID, &s.Number, &s.Status, &s.CreatedAt, &s.Clients, &s.TotalQuantity)
		if err != nil {
			return nil, fmt.Errorf("scan work order summary: %w", err)
		}
		summaries[s.ID] = &s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return summaries, nil
}

// ListItems retrieves the distinct items attached to a work order through
// its customer orders.
func (r *WorkOrderRepository) ListItems(ctx context.Context, workOrderID int64) ([]domain.Item, error) {
	query, args, err := psql.
		Select("DISTINCT i.id", "i.name", "i.code").
		From("items i").
		Join("customer_orders co ON co.item_id = i.id").
		Where(sq.Eq{"co.work_order_id": workOrderID}).
		OrderBy("i.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListItems query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query work order items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Code); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return items, nil
}
