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

var ghostColumns = []string{
	"id", "work_order_id", "list_name", "task_id", "queue_position",
	"is_active", "notes", "created_at", "updated_at",
}

// KanbanRepository handles kanban list definitions and ghost cards.
type KanbanRepository struct {
	pool *pgxpool.Pool
}

// NewKanbanRepository creates a new KanbanRepository.
func NewKanbanRepository(pool *pgxpool.Pool) *KanbanRepository {
	return &KanbanRepository{pool: pool}
}

// ListActiveLists retrieves the active list definitions in display order.
func (r *KanbanRepository) ListActiveLists(ctx context.Context) ([]domain.KanbanList, error) {
	query, args, err := psql.
		Select("id", "name", "category", "color", "display_order", "is_active").
		From("kanban_lists").
		Where(sq.Eq{"is_active": true}).
		OrderBy("display_order ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListActiveLists query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query kanban lists: %w", err)
	}
	defer rows.Close()

	var lists []domain.KanbanList
	for rows.Next() {
		var l domain.KanbanList
		if err := rows.Scan(&l.ID, &l.Name, &l.Category, &l.Color, &l.DisplayOrder, &l.IsActive); err != nil {
			return nil, fmt.Errorf("scan kanban list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return lists, nil
}

// SeedLists inserts list definitions, skipping names that already exist.
// Used by the seed-lists command; safe to run repeatedly.
func (r *KanbanRepository) SeedLists(ctx context.Context, lists []domain.KanbanList) (int, error) {
	inserted := 0
	for _, l := range lists {
		query, args, err := psql.
			Insert("kanban_lists").
			Columns("name", "category", "color", "display_order", "is_active").
			Values(l.Name, l.Category, l.Color, l.DisplayOrder, true).
			Suffix("ON CONFLICT (name) DO NOTHING").
			ToSql()
		if err != nil {
			return inserted, fmt.Errorf("build SeedLists query for %q: %w", l.Name, err)
		}
		tag, err := r.pool.Exec(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("seed list %q: %w", l.Name, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func scanGhost(row pgx.Row) (*domain.GhostCard, error) {
	var g domain.GhostCard
	err := row.Scan(
		&g.ID,
		&g.WorkOrderID,
		&g.ListName,
		&g.TaskID,
		&g.QueuePosition,
		&g.IsActive,
		&g.Notes,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan ghost card: %w", err)
	}
	return &g, nil
}

// ListActiveGhosts retrieves every active ghost card, queue position first.
func (r *KanbanRepository) ListActiveGhosts(ctx context.Context) ([]domain.GhostCard, error) {
	query, args, err := psql.
		Select(ghostColumns...).
		From("ghost_cards").
		Where(sq.Eq{"is_active": true}).
		OrderBy("list_name ASC", "queue_position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListActiveGhosts query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ghost cards: %w", err)
	}
	defer rows.Close()

	var ghosts []domain.GhostCard
	for rows.Next() {
		g, err := scanGhost(rows)
		if err != nil {
			return nil, err
		}
		ghosts = append(ghosts, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return ghosts, nil
}

// GetGhost retrieves a ghost card by ID.
func (r *KanbanRepository) GetGhost(ctx context.Context, id int64) (*domain.GhostCard, error) {
	query, args, err := psql.
		Select(ghostColumns...).
		From("ghost_cards").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetGhost query: %w", err)
	}

	ghost, err := scanGhost(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGhostCardNotFound
		}
		return nil, err
	}
	return ghost, nil
}

// CreateGhost inserts a new ghost card.
func (r *KanbanRepository) CreateGhost(ctx context.Context, ghost *domain.GhostCard) error {
	query, args, err := psql.
		Insert("ghost_cards").
		Columns("work_order_id", "list_name", "task_id", "queue_position", "is_active", "notes").
		Values(ghost.WorkOrderID, ghost.ListName, ghost.TaskID, ghost.QueuePosition, true, ghost.Notes).
		Suffix("RETURNING id, is_active, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build CreateGhost query: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&ghost.ID, &ghost.IsActive, &ghost.CreatedAt, &ghost.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create ghost card: %w", err)
	}
	return nil
}

// DeactivateGhost marks a ghost card inactive. Ghost cards are never deleted
// so forecasts stay auditable.
func (r *KanbanRepository) DeactivateGhost(ctx context.Context, id int64) error {
	query, args, err := psql.
		Update("ghost_cards").
		Set("is_active", false).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build DeactivateGhost query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deactivate ghost card: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGhostCardNotFound
	}
	return nil
}
