package domain

import (
	"strings"
	"time"
)

// KanbanList is a named, colored, categorized lane representing a physical
// station or machine group. Static reference data, consumed read-only.
type KanbanList struct {
	ID           int64
	Name         string
	Category     string
	Color        string
	DisplayOrder int
	IsActive     bool
}

// NormalizeListName folds a list name (or a raw work-order status) for
// matching. Upstream data entry is inconsistent about casing and whitespace.
func NormalizeListName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DefaultKanbanLists returns the factory shop-floor layout used to seed a
// fresh installation. Names and categories are the ones painted on the
// physical boards, in Portuguese.
func DefaultKanbanLists() []KanbanList {
	return []KanbanList{
		{Name: "Entrada", Category: "Outros", Color: "#28a745", DisplayOrder: 1},
		{Name: "Serra", Category: "Serra", Color: "#dc3545", DisplayOrder: 2},
		{Name: "Cortado a Distribuir", Category: "Serra", Color: "#fd7e14", DisplayOrder: 3},
		{Name: "Mazak", Category: "Torno CNC", Color: "#007bff", DisplayOrder: 4},
		{Name: "GLM240", Category: "Torno CNC", Color: "#007bff", DisplayOrder: 5},
		{Name: "Glory", Category: "Torno CNC", Color: "#007bff", DisplayOrder: 6},
		{Name: "Doosan", Category: "Torno CNC", Color: "#007bff", DisplayOrder: 7},
		{Name: "Tesla", Category: "Torno CNC", Color: "#007bff", DisplayOrder: 8},
		{Name: "Torno Manual", Category: "Manual", Color: "#6f42c1", DisplayOrder: 9},
		{Name: "Fresa Manual", Category: "Manual", Color: "#6f42c1", DisplayOrder: 10},
		{Name: "Rebarbagem", Category: "Manual", Color: "#6f42c1", DisplayOrder: 11},
		{Name: "Parada Próxima Etapa", Category: "Outros", Color: "#ffc107", DisplayOrder: 12},
		{Name: "D800 / D800 Plus", Category: "Centro de Usinagem", Color: "#20c997", DisplayOrder: 13},
		{Name: "Glory1000", Category: "Centro de Usinagem", Color: "#20c997", DisplayOrder: 14},
		{Name: "Montagem Modelo", Category: "Outros", Color: "#6c757d", DisplayOrder: 15},
		{Name: "Serviço Terceiro", Category: "Terceiros", Color: "#e83e8c", DisplayOrder: 16},
		{Name: "Solda", Category: "Acabamento", Color: "#fd7e14", DisplayOrder: 17},
		{Name: "Têmpera", Category: "Acabamento", Color: "#fd7e14", DisplayOrder: 18},
		{Name: "Retífica", Category: "Acabamento", Color: "#fd7e14", DisplayOrder: 19},
		{Name: "Expedição", Category: "Outros", Color: "#198754", DisplayOrder: 20},
	}
}

// GhostCard is a manually forecasted/queued card not backed by action data.
// Its lifecycle is independent from the action log; it is merged in at read
// time and never derived from actions.
type GhostCard struct {
	ID            int64
	WorkOrderID   int64
	ListName      string
	TaskID        *int64
	QueuePosition int
	IsActive      bool
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
