package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/happyharvest/garden/internal/garden"
	"github.com/happyharvest/garden/internal/logger"
)

// CreateGardenRequest represents the request to create a garden.
type CreateGardenRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

// JoinGardenRequest represents the request to join a garden by invite link.
type JoinGardenRequest struct {
	InviteLink string `json:"invite_link" validate:"required,max=256"`
}

// InviteResponse carries a freshly generated invite link.
type InviteResponse struct {
	InviteLink string `json:"invite_link"`
}

// HandleCreateGarden creates a new garden owned by the caller.
func HandleCreateGarden(gardenService garden.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		var req CreateGardenRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Create garden"); err != nil {
			return
		}

		g, err := gardenService.Create(r.Context(), userID, req.Name)
		if err != nil {
			respondServiceError(w, r, ErrMsgCreateGardenFailed, err)
			return
		}

		logger.FromContext(r.Context()).Info("Garden created", "garden_id", g.ID, "owner_id", userID)
		respondJSON(w, http.StatusCreated, DataResponse{Data: g})
	}
}

// HandleJoinGarden joins the caller to a garden via invite link.
func HandleJoinGarden(gardenService garden.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		var req JoinGardenRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Join garden"); err != nil {
			return
		}

		gardenID, err := gardenService.Join(r.Context(), userID, req.InviteLink)
		if err != nil {
			respondServiceError(w, r, ErrMsgJoinGardenFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{
			Message: MsgGardenJoinedSuccess,
			Data:    map[string]string{"garden_id": gardenID},
		})
	}
}

// HandleGenerateInvite returns an invite link for the caller's garden.
func HandleGenerateInvite(gardenService garden.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		gardenID := chi.URLParam(r, "gardenID")

		link, err := gardenService.GenerateInviteLink(r.Context(), userID, gardenID)
		if err != nil {
			respondServiceError(w, r, ErrMsgInviteFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, InviteResponse{InviteLink: link})
	}
}

// HandleGetGarden returns the full derived snapshot of a garden.
func HandleGetGarden(gardenService garden.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		gardenID := chi.URLParam(r, "gardenID")

		snapshot, err := gardenService.Snapshot(r.Context(), userID, gardenID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetGardenFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: snapshot})
	}
}

// HandleListGardens lists gardens the caller belongs to.
func HandleListGardens(gardenService garden.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		gardens, err := gardenService.ListForUser(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, ErrMsgListGardensFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: gardens})
	}
}
