package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jwebster45206/wild-trails/internal/services"
	"github.com/jwebster45206/wild-trails/pkg/content"
	"github.com/jwebster45206/wild-trails/pkg/engine"
	"github.com/jwebster45206/wild-trails/pkg/game"
)

// maxBodyBytes caps request bodies; every request here is a few fields.
const maxBodyBytes = 1 << 16

type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse lists per-field validation failures.
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}

// writeDomainError maps a domain error to its HTTP status.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	}
	writeError(w, logger, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidChoiceIndex),
		errors.Is(err, game.ErrInvalidAmount),
		errors.Is(err, services.ErrMalformedRequest):
		return http.StatusBadRequest
	case errors.Is(err, content.ErrInvalidReference),
		errors.Is(err, game.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrStaminaExhausted),
		errors.Is(err, game.ErrSessionEnded),
		errors.Is(err, game.ErrInventoryDisabled):
		return http.StatusConflict
	case errors.Is(err, game.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, services.ErrMissingCredential):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeAndValidate reads a JSON body into req and validates its tags.
// On failure it writes the 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, req any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		logger.Warn("Failed to decode request body", "error", err)
		writeError(w, logger, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := validate.Struct(req); err != nil {
		writeJSON(w, logger, http.StatusBadRequest, ValidationErrorResponse{
			Error:  "Request validation failed",
			Fields: formatValidationError(err),
		})
		return false
	}
	return true
}

func formatValidationError(err error) map[string]string {
	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "min", "gte":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "max", "lte":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "oneof":
			errs[field] = fmt.Sprintf("Must be one of: %s", e.Param())
		default:
			errs[field] = "Invalid value"
		}
	}
	return errs
}
