package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/happyharvest/garden/internal/tree"
)

// PlantTreeRequest represents the request to plant a tree.
type PlantTreeRequest struct {
	GardenID   string `json:"garden_id" validate:"required,max=64"`
	TreeTypeID string `json:"tree_type_id" validate:"required,max=64"`
	X          int    `json:"x" validate:"gte=0"`
	Y          int    `json:"y" validate:"gte=0"`
}

// SalvageResponse carries the coins returned when removing an entity.
type SalvageResponse struct {
	Salvage int `json:"salvage"`
}

// HandlePlantTree places a new tree on a free cell.
func HandlePlantTree(treeService tree.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		var req PlantTreeRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Plant tree"); err != nil {
			return
		}

		t, err := treeService.Plant(r.Context(), userID, req.GardenID, req.TreeTypeID, req.X, req.Y)
		if err != nil {
			respondServiceError(w, r, ErrMsgPlantTreeFailed, err)
			return
		}

		respondJSON(w, http.StatusCreated, DataResponse{Data: t})
	}
}

// HandleHarvestTree harvests a ready tree. Members harvesting a neighbor's
// tree get a reduced share while the owner is credited a cut.
func HandleHarvestTree(treeService tree.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		treeID := chi.URLParam(r, "treeID")

		result, err := treeService.Harvest(r.Context(), userID, treeID)
		if err != nil {
			respondServiceError(w, r, ErrMsgHarvestTreeFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: result})
	}
}

// HandleRemoveTree removes a tree and refunds part of its cost.
func HandleRemoveTree(treeService tree.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		treeID := chi.URLParam(r, "treeID")

		salvage, err := treeService.Remove(r.Context(), userID, treeID)
		if err != nil {
			respondServiceError(w, r, ErrMsgRemoveTreeFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, SalvageResponse{Salvage: salvage})
	}
}
