package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/eshop/backoffice/internal/models"
	"github.com/eshop/backoffice/internal/services"
	"github.com/eshop/backoffice/internal/store"
)

const internalErrorMessage = "An Internal Error Occurred"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] Failed to encode response: %v", err)
	}
}

// decodeRequest reads and validates a JSON body, writing a 400 on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request, v *services.ValidationHelper, dst any) bool {
	if err := services.DecodeJSON(w, r, dst); err != nil {
		if errors.Is(err, services.ErrBodyNotSingleObject) {
			services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
			return false
		}
		log.Printf("[HTTP] Invalid request body on %s %s: %v", r.Method, r.URL.Path, err)
		services.SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return false
	}
	if err := v.ValidateStruct(dst); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return false
	}
	return true
}

// respondError maps an engine or store error to its HTTP status.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var ruleErr *services.ValidationError
	var stockErr *services.InsufficientStockError

	switch {
	case errors.As(err, &ruleErr):
		services.SendErrorResponse(w, ruleErr.Error(), http.StatusBadRequest, ruleErr)
	case errors.Is(err, services.ErrInvalidAmount):
		services.SendErrorResponse(w, "Amount must be greater than zero", http.StatusBadRequest, nil)
	case errors.Is(err, store.ErrNotFound):
		services.SendErrorResponse(w, "Record not found", http.StatusNotFound, nil)
	case errors.Is(err, services.ErrInsufficientBalance):
		services.SendErrorResponse(w, "Insufficient balance", http.StatusUnprocessableEntity, nil)
	case errors.Is(err, models.ErrOverflow):
		services.SendErrorResponse(w, "Amount or quantity exceeds the supported range", http.StatusUnprocessableEntity, nil)
	case errors.As(err, &stockErr):
		services.SendErrorResponse(w, stockErr.Error(), http.StatusUnprocessableEntity, stockErr)
	case errors.Is(err, store.ErrConflict):
		services.SendErrorResponse(w, "Record was modified concurrently, retry the request", http.StatusConflict, nil)
	case errors.Is(err, store.ErrDuplicate):
		services.SendErrorResponse(w, "Record already exists", http.StatusConflict, nil)
	case errors.Is(err, services.ErrOrderCancelled):
		services.SendErrorResponse(w, "Order is already cancelled", http.StatusConflict, nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		services.SendErrorResponse(w, "Invalid credentials", http.StatusUnauthorized, nil)
	case errors.Is(err, services.ErrInvalidSession):
		services.SendErrorResponse(w, "Invalid or expired session", http.StatusUnauthorized, nil)
	default:
		log.Printf("[HTTP] %s %s failed: %v", r.Method, r.URL.Path, err)
		services.SendErrorResponse(w, internalErrorMessage, http.StatusInternalServerError, nil)
	}
}
