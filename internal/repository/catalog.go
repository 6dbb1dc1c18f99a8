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

// CatalogRepository reads the static reference data the aggregation needs:
// items, task types, operators and per-(item,task) time estimates.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// GetItem retrieves an item by ID.
func (r *CatalogRepository) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	query, args, err := psql.
		Select("id", "name", "code").
		From("items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetItem query: %w", err)
	}

	var item domain.Item
	err = r.pool.QueryRow(ctx, query, args...).Scan(&item.ID, &item.Name, &item.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &item, nil
}

// GetTask retrieves a task type by ID.
func (r *CatalogRepository) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	query, args, err := psql.
		Select("id", "name", "category").
		From("tasks").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetTask query: %w", err)
	}

	var task domain.Task
	err = r.pool.QueryRow(ctx, query, args...).Scan(&task.ID, &task.Name, &task.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// GetOperatorByCode finds an active operator by their 4-digit terminal code.
func (r *CatalogRepository) GetOperatorByCode(ctx context.Context, code string) (*domain.Operator, error) {
	query, args, err := psql.
		Select("id", "name", "code", "is_active", "created_at").
		From("operators").
		Where(sq.Eq{"code": code}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetOperatorByCode query: %w", err)
	}

	var op domain.Operator
	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&op.ID, &op.Name, &op.Code, &op.IsActive, &op.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidOperatorCode
		}
		return nil, fmt.Errorf("scan operator: %w", err)
	}
	return &op, nil
}

// GetItemTask retrieves the link row (with estimates) between an item and a
// task type, or ErrTaskNotLinked when the pair is not configured.
func (r *CatalogRepository) GetItemTask(ctx context.Context, itemID, taskID int64) (*domain.ItemTask, error) {
	query, args, err := psql.
		Select("id", "item_id", "task_id", "setup_seconds", "piece_seconds").
		From("item_tasks").
		Where(sq.Eq{"item_id": itemID, "task_id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetItemTask query: %w", err)
	}

	var link domain.ItemTask
	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&link.ID, &link.ItemID, &link.TaskID, &link.SetupSeconds, &link.PieceSeconds)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotLinked
		}
		return nil, fmt.Errorf("scan item task link: %w", err)
	}
	return &link, nil
}

// TaskWithEstimate is a task type joined with its per-item time estimates.
type TaskWithEstimate struct {
	domain.Task
	SetupSeconds *int64
	PieceSeconds *int64
}

// ListTasksForItem retrieves the task types linked to one item, with their
// estimates, for the shop-floor terminal dropdowns.
func (r *CatalogRepository) ListTasksForItem(ctx context.Context, itemID int64) ([]TaskWithEstimate, error) {
	query, args, err := psql.
		Select("t.id", "t.name", "t.category", "it.setup_seconds", "it.piece_seconds").
		From("tasks t").
		Join("item_tasks it ON it.task_id = t.id").
		Where(sq.Eq{"it.item_id": itemID}).
		OrderBy("t.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListTasksForItem query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks for item: %w", err)
	}
	defer rows.Close()

	var tasks []TaskWithEstimate
	for rows.Next() {
		var t TaskWithEstimate
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.SetupSeconds, &t.PieceSeconds); err != nil {
			return nil, fmt.Errorf("scan task with estimate: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// ListItemsByIDs batch-fetches items into a lookup map. Missing IDs are
// simply absent: dangling action references degrade to omitted fields.
func (r *CatalogRepository) ListItemsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Item, error) {
	items := make(map[int64]domain.Item)
	if len(ids) == 0 {
		return items, nil
	}

	query, args, err := psql.
		Select("id", "name", "code").
		From("items").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListItemsByIDs query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Code); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return items, nil
}

// ListTasksByIDs batch-fetches task types into a lookup map.
func (r *CatalogRepository) ListTasksByIDs(ctx context.Context, ids []int64) (map[int64]domain.Task, error) {
	tasks := make(map[int64]domain.Task)
	if len(ids) == 0 {
		return tasks, nil
	}

	query, args, err := psql.
		Select("id", "name", "category").
		From("tasks").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListTasksByIDs query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(&task.ID, &task.Name, &task.Category); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks[task.ID] = task
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// ListOperatorsByIDs batch-fetches operators into a lookup map.
func (r *CatalogRepository) ListOperatorsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Operator, error) {
	operators := make(map[int64]domain.Operator)
	if len(ids) == 0 {
		return operators, nil
	}

	query, args, err := psql.
		Select("id", "name", "code", "is_active", "created_at").
		From("operators").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListOperatorsByIDs query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query operators: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var op domain.Operator
		if err := rows.Scan(&op.ID, &op.Name, &op.Code, &op.IsActive, &op.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan operator: %w", err)
		}
		operators[op.ID] = op
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return operators, nil
}

// ListEstimatesForItems batch-fetches the item/task estimate rows for a set
// of items in one query.
func (r *CatalogRepository) ListEstimatesForItems(ctx context.Context, itemIDs []int64) ([]domain.ItemTask, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	query, args, err := psql.
		Select("id", "item_id", "task_id", "setup_seconds", "piece_seconds").
		From("item_tasks").
		Where(sq.Eq{"item_id": itemIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListEstimatesForItems query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query estimates: %w", err)
	}
	defer rows.Close()

	var links []domain.ItemTask
	for rows.Next() {
		var link domain.ItemTask
		if err := rows.Scan(&link.ID, &link.ItemID, &link.TaskID, &link.SetupSeconds, &link.PieceSeconds); err != nil {
			return nil, fmt.Errorf("scan item task link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return links, nil
}
