package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/happyharvest/garden/internal/cooldown"
	"github.com/happyharvest/garden/internal/domain"
	"github.com/happyharvest/garden/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// Helper functions for responding

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Get a buffer from the pool to reduce allocations
	buf := getBuffer()
	defer putBuffer(buf)

	// Encode to the buffer first
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent, so all we can do is log
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs the failure and translates the service error
// into a client-safe response.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	log := logger.FromContext(r.Context())
	status, msg := mapServiceErrorToUserMessage(err)
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err)
	} else {
		log.Warn(opName+" rejected", "error", err, "status", status)
	}
	respondError(w, status, msg)
}

// User-facing error messages for service errors
const (
	// Generic messages
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	// Lookup messages
	ErrMsgUserNotFoundError     = "User not found"
	ErrMsgGardenNotFoundError   = "Garden not found"
	ErrMsgPlotNotFoundError     = "Plot not found"
	ErrMsgTreeNotFoundError     = "Tree not found"
	ErrMsgAnimalNotFoundError   = "Animal not found"
	ErrMsgBuildingNotFoundError = "Building not found"
	ErrMsgTypeNotFoundError     = "Unknown item type"
	ErrMsgRecipeNotFoundError   = "Recipe not found"
	ErrMsgResourceNotFoundError = "Resource not found"

	// Permission messages
	ErrMsgNotPermittedError = "You are not allowed to do that"
	ErrMsgNotMemberError    = "You are not a member of this garden"
	ErrMsgNotOwnerError     = "Only the garden owner can do that"

	// State and input messages
	ErrMsgInvalidStateError  = "That action is not possible right now"
	ErrMsgInvalidInputError  = "Invalid request. Please check your inputs."
	ErrMsgNotEnoughCoinsErr  = "Not enough coins"
	ErrMsgCellOccupiedError  = "That spot is already taken"
	ErrMsgOnCooldownError    = "Action is on cooldown. Try again later"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses.
// Lookup failures become 404s, permission failures 403s, occupancy conflicts
// 409s and cooldowns 429s; everything else the caller did wrong is a 400.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrGardenNotFound):
		return http.StatusNotFound, ErrMsgGardenNotFoundError
	case errors.Is(err, domain.ErrPlotNotFound):
		return http.StatusNotFound, ErrMsgPlotNotFoundError
	case errors.Is(err, domain.ErrTreeNotFound):
		return http.StatusNotFound, ErrMsgTreeNotFoundError
	case errors.Is(err, domain.ErrAnimalNotFound):
		return http.StatusNotFound, ErrMsgAnimalNotFoundError
	case errors.Is(err, domain.ErrBuildingNotFound):
		return http.StatusNotFound, ErrMsgBuildingNotFoundError
	case errors.Is(err, domain.ErrTypeNotFound):
		return http.StatusNotFound, ErrMsgTypeNotFoundError
	case errors.Is(err, domain.ErrRecipeNotFound):
		return http.StatusNotFound, ErrMsgRecipeNotFoundError
	case errors.Is(err, domain.ErrNotMember):
		return http.StatusForbidden, ErrMsgNotMemberError
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden, ErrMsgNotOwnerError
	case errors.Is(err, domain.ErrNotPermitted):
		return http.StatusForbidden, ErrMsgNotPermittedError
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusBadRequest, ErrMsgInvalidStateError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrMsgNotEnoughCoinsErr
	case errors.Is(err, domain.ErrOccupied):
		return http.StatusConflict, ErrMsgCellOccupiedError
	case errors.Is(err, cooldown.ErrOnCooldown{}), errors.Is(err, domain.ErrOnCooldown):
		return http.StatusTooManyRequests, ErrMsgOnCooldownError
	}

	// For wrapped errors with domain errors as the base, try unwrapping
	unwrapped := errors.Unwrap(err)
	if unwrapped != nil && unwrapped != err {
		return mapServiceErrorToUserMessage(unwrapped)
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
