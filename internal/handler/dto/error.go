package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chaodefabrica/apontamento/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Lookup errors
	case errors.Is(err, domain.ErrWorkOrderNotFound):
		return http.StatusNotFound, "WORK_ORDER_NOT_FOUND", message
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, "ITEM_NOT_FOUND", message
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "TASK_NOT_FOUND", message
	case errors.Is(err, domain.ErrOperatorNotFound):
		return http.StatusNotFound, "OPERATOR_NOT_FOUND", message
	case errors.Is(err, domain.ErrGhostCardNotFound):
		return http.StatusNotFound, "GHOST_CARD_NOT_FOUND", message
	case errors.Is(err, domain.ErrNoTasksForItem):
		return http.StatusNotFound, "NO_TASKS_FOR_ITEM", message

	// Operator errors
	case errors.Is(err, domain.ErrInvalidOperatorCode):
		return http.StatusUnauthorized, "INVALID_OPERATOR_CODE", message
	case errors.Is(err, domain.ErrOperatorInactive):
		return http.StatusUnauthorized, "OPERATOR_INACTIVE", message

	// Phase guard errors
	case errors.Is(err, domain.ErrPhaseAlreadyOpen):
		return http.StatusConflict, "PHASE_ALREADY_OPEN", message
	case errors.Is(err, domain.ErrNoOpenPhase):
		return http.StatusConflict, "NO_OPEN_PHASE", message
	case errors.Is(err, domain.ErrSetupNotFinished):
		return http.StatusConflict, "SETUP_NOT_FINISHED", message
	case errors.Is(err, domain.ErrQuantityRegression):
		return http.StatusConflict, "QUANTITY_REGRESSION", message
	case errors.Is(err, domain.ErrNotPhaseOwner):
		return http.StatusForbidden, "NOT_PHASE_OWNER", message

	// Validation errors
	case errors.Is(err, domain.ErrInvalidActionKind):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrQuantityRequired):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrTaskNotLinked):
		return http.StatusUnprocessableEntity, "TASK_NOT_LINKED", message
	case errors.Is(err, domain.ErrInvalidStatusToken):
		return http.StatusBadRequest, "INVALID_STATUS_FILTER", message

	// Default: internal server error
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
