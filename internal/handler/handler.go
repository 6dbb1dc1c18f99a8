package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	_ "github.com/chaodefabrica/apontamento/docs" // Import generated docs
	"github.com/chaodefabrica/apontamento/internal/handler/dto"
	"github.com/chaodefabrica/apontamento/internal/repository"
	"github.com/chaodefabrica/apontamento/internal/service"
	"github.com/chaodefabrica/apontamento/internal/static"
	"github.com/jackc/pgx/v5/pgxpool"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool          *pgxpool.Pool
	actionService *service.ActionService
	statusService *service.StatusService
	location      *time.Location
}

// New creates a new Handler instance with all dependencies. location is the
// display timezone for timestamps in responses.
func New(pool *pgxpool.Pool, location *time.Location) *Handler {
	// Create repositories
	actionRepo := repository.NewActionRepository(pool)
	snapshotRepo := repository.NewSnapshotRepository(pool)
	workOrderRepo := repository.NewWorkOrderRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	kanbanRepo := repository.NewKanbanRepository(pool)

	// Create services
	actionService := service.NewActionService(pool, actionRepo, snapshotRepo, workOrderRepo, catalogRepo)
	statusService := service.NewStatusService(kanbanRepo, snapshotRepo, workOrderRepo, actionRepo, catalogRepo, location)

	return &Handler{
		pool:          pool,
		actionService: actionService,
		statusService: statusService,
		location:      location,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Landing page for the shop-floor terminals
	mux.HandleFunc("GET /{$}", h.handleIndex)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// Aggregated dashboard
	mux.HandleFunc("GET /api/v1/status/active", h.handleActiveStatus)

	// Action log
	mux.HandleFunc("POST /api/v1/actions", h.handleRegisterAction)
	mux.HandleFunc("GET /api/v1/work-orders/{id}/actions", h.handleListWorkOrderActions)

	// Terminal lookups
	mux.HandleFunc("GET /api/v1/work-orders/{id}/items", h.handleListWorkOrderItems)
	mux.HandleFunc("GET /api/v1/items/{id}/tasks", h.handleListItemTasks)
	mux.HandleFunc("POST /api/v1/operators/validate", h.handleValidateOperator)

	// Kanban lists and ghost cards
	mux.HandleFunc("GET /api/v1/kanban/lists", h.handleListKanbanLists)
	mux.HandleFunc("GET /api/v1/ghost-cards", h.handleListGhostCards)
	mux.HandleFunc("POST /api/v1/ghost-cards", h.handleCreateGhostCard)
	mux.HandleFunc("DELETE /api/v1/ghost-cards/{id}", h.handleDeleteGhostCard)
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleIndex serves the embedded landing page.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(static.IndexHTML))
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// extractID extracts and validates a numeric ID from the path parameter.
// Returns (id, true) if valid, (0, false) if invalid (error already sent to
// the client).
func extractID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id is required")
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a positive integer")
		return 0, false
	}

	return id, true
}
