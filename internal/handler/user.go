package handler

import (
	"net/http"

	"github.com/happyharvest/garden/internal/logger"
	"github.com/happyharvest/garden/internal/user"
)

// RegisterUserRequest represents the request to register a user.
type RegisterUserRequest struct {
	TelegramID string `json:"telegram_id" validate:"required,max=64"`
	Username   string `json:"username" validate:"max=64"`
	ReferrerID string `json:"referrer_id" validate:"max=64"`
}

// HandleRegisterUser registers a new user, or returns the existing one for
// the same Telegram identity.
func HandleRegisterUser(userService user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req RegisterUserRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Register user"); err != nil {
			return
		}

		log.Debug("Register user request",
			"telegram_id", req.TelegramID,
			"has_referrer", req.ReferrerID != "")

		u, err := userService.Register(r.Context(), req.TelegramID, req.Username, req.ReferrerID)
		if err != nil {
			respondServiceError(w, r, ErrMsgRegisterUserFailed, err)
			return
		}

		respondJSON(w, http.StatusCreated, DataResponse{Data: u})
	}
}

// HandleGetProfile returns the authenticated user's profile with level info.
func HandleGetProfile(userService user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		profile, err := userService.Get(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetProfileFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: profile})
	}
}
