package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/happyharvest/garden/internal/plot"
)

// PlantRequest represents the request to plant a crop on a plot.
type PlantRequest struct {
	CropID string `json:"crop_id" validate:"required,max=64"`
}

// StealRequest represents a theft attempt against a plot. The protection
// item IDs are the victim-owned items the client claims are active; the
// service validates them against the catalog.
type StealRequest struct {
	ProtectionItemIDs []string `json:"protection_item_ids" validate:"max=8,dive,max=64"`
}

// HandlePlantCrop plants a crop on an empty plot.
func HandlePlantCrop(plotService plot.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		plotID := chi.URLParam(r, "plotID")

		var req PlantRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Plant crop"); err != nil {
			return
		}

		p, err := plotService.Plant(r.Context(), userID, plotID, req.CropID)
		if err != nil {
			respondServiceError(w, r, ErrMsgPlantFailed, err)
			return
		}

		respondJSON(w, http.StatusCreated, DataResponse{Data: p})
	}
}

// HandleWaterPlot waters a growing plot, pulling its harvest time forward.
func HandleWaterPlot(plotService plot.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		plotID := chi.URLParam(r, "plotID")

		p, err := plotService.Water(r.Context(), userID, plotID)
		if err != nil {
			respondServiceError(w, r, ErrMsgWaterFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: p})
	}
}

// HandleHarvestPlot harvests a mature plot and credits the owner.
func HandleHarvestPlot(plotService plot.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		plotID := chi.URLParam(r, "plotID")

		result, err := plotService.Harvest(r.Context(), userID, plotID)
		if err != nil {
			respondServiceError(w, r, ErrMsgHarvestFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: result})
	}
}

// HandleRemoveWeed clears a pest from a plot.
func HandleRemoveWeed(plotService plot.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		plotID := chi.URLParam(r, "plotID")

		if err := plotService.RemoveWeed(r.Context(), userID, plotID); err != nil {
			respondServiceError(w, r, ErrMsgRemoveWeedFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgWeedRemovedSuccess})
	}
}

// HandleStealFromPlot attempts a theft against another garden's plot.
// A failed attempt (immature plot) is still a 200 with success=false.
func HandleStealFromPlot(plotService plot.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		thiefID, ok := ActorID(r, w)
		if !ok {
			return
		}

		plotID := chi.URLParam(r, "plotID")

		var req StealRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Steal from plot"); err != nil {
			return
		}

		result, err := plotService.Steal(r.Context(), thiefID, plotID, req.ProtectionItemIDs)
		if err != nil {
			respondServiceError(w, r, ErrMsgStealFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: result})
	}
}
