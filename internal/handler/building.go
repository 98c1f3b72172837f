package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/happyharvest/garden/internal/building"
)

// BuildRequest represents the request to construct a building.
type BuildRequest struct {
	GardenID       string `json:"garden_id" validate:"required,max=64"`
	BuildingTypeID string `json:"building_type_id" validate:"required,max=64"`
	X              int    `json:"x" validate:"gte=0"`
	Y              int    `json:"y" validate:"gte=0"`
}

// StartProductionRequest selects the recipe a factory should produce.
type StartProductionRequest struct {
	RecipeID string `json:"recipe_id" validate:"required,max=64"`
}

// HandleBuild constructs a building on a free cell.
func HandleBuild(buildingService building.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		var req BuildRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Build"); err != nil {
			return
		}

		b, err := buildingService.Build(r.Context(), userID, req.GardenID, req.BuildingTypeID, req.X, req.Y)
		if err != nil {
			respondServiceError(w, r, ErrMsgBuildFailed, err)
			return
		}

		respondJSON(w, http.StatusCreated, DataResponse{Data: b})
	}
}

// HandleStartProduction starts a factory producing a recipe.
func HandleStartProduction(buildingService building.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		buildingID := chi.URLParam(r, "buildingID")

		var req StartProductionRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Start production"); err != nil {
			return
		}

		b, err := buildingService.StartProduction(r.Context(), userID, buildingID, req.RecipeID)
		if err != nil {
			respondServiceError(w, r, ErrMsgStartProductionFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: b})
	}
}

// HandleCollectProduction collects a finished production run.
func HandleCollectProduction(buildingService building.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		buildingID := chi.URLParam(r, "buildingID")

		result, err := buildingService.Collect(r.Context(), userID, buildingID)
		if err != nil {
			respondServiceError(w, r, ErrMsgCollectFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: result})
	}
}

// HandleDemolish removes a building and refunds part of its cost.
func HandleDemolish(buildingService building.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		buildingID := chi.URLParam(r, "buildingID")

		salvage, err := buildingService.Demolish(r.Context(), userID, buildingID)
		if err != nil {
			respondServiceError(w, r, ErrMsgDemolishFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, SalvageResponse{Salvage: salvage})
	}
}
