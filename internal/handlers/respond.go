package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"notetree/internal/contextutil"
	"notetree/internal/errs"
)

var validate = validator.New()

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// decodeJSON reads the request body into dst and validates its struct tags.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &errs.ValidationError{Message: "invalid request body"}
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &errs.ValidationError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("%s failed on the %q rule", fe.Field(), fe.Tag()),
			}
		}
		return &errs.ValidationError{Message: err.Error()}
	}
	return nil
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *errs.ValidationError
	var preconditionErr *errs.PreconditionError
	switch {
	case errors.As(err, &validationErr):
		logger.WarnContext(ctx, "validation error", "error", err)
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, errs.ErrInvalidInput):
		logger.WarnContext(ctx, "invalid input", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, errs.ErrNotFound):
		logger.WarnContext(ctx, "not found", "error", err)
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &preconditionErr):
		logger.WarnContext(ctx, "precondition failed", "error", err)
		writeError(w, http.StatusConflict, preconditionErr.Error())
	case errors.Is(err, errs.ErrPrecondition):
		writeError(w, http.StatusConflict, "Precondition failed")
	case errors.Is(err, errs.ErrProtectedSession):
		writeError(w, http.StatusUnauthorized, "Protected session not available")
	case errors.Is(err, errs.ErrTraversalBudget), errors.Is(err, context.DeadlineExceeded):
		logger.ErrorContext(ctx, "operation could not complete", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Operation could not complete; try again later")
	default:
		logger.ErrorContext(ctx, "service error", "error", err)
		writeError(w, http.StatusInternalServerError, defaultMsg)
	}
}

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, ctx context.Context, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
