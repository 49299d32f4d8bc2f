package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
	"github.com/CreativeDragon1/Earn2Die/pkg/logger"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// respondError maps the error taxonomy to HTTP statuses. Internal store
// errors are logged but never leaked to the caller.
func respondError(w http.ResponseWriter, err error) {
	code := errors.Code(err)

	var status int
	switch code {
	case errors.ErrCodeValidation:
		status = http.StatusBadRequest
	case errors.ErrCodeUnauthenticated:
		status = http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		status = http.StatusForbidden
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeConflict, errors.ErrCodeInsufficientFunds:
		status = http.StatusConflict
	case errors.ErrCodePreconditionFailed:
		status = http.StatusPreconditionFailed
	case errors.ErrCodeRateLimitExceeded:
		status = http.StatusTooManyRequests
	default:
		status = http.StatusInternalServerError
	}

	message := "internal server error"
	if appErr, ok := err.(*errors.AppError); ok && status != http.StatusInternalServerError {
		message = appErr.Message
	}
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	}

	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New(errors.ErrCodeValidation, "invalid request body")
	}
	return nil
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		return 0, errors.New(errors.ErrCodeValidation, "invalid id")
	}
	return uint(id), nil
}
