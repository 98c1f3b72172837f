package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/happyharvest/garden/internal/animal"
)

// BuyAnimalRequest represents the request to buy an animal.
type BuyAnimalRequest struct {
	GardenID     string `json:"garden_id" validate:"required,max=64"`
	AnimalTypeID string `json:"animal_type_id" validate:"required,max=64"`
	X            int    `json:"x" validate:"gte=0"`
	Y            int    `json:"y" validate:"gte=0"`
}

// MoveAnimalRequest represents the request to move an animal to a new cell.
type MoveAnimalRequest struct {
	X int `json:"x" validate:"gte=0"`
	Y int `json:"y" validate:"gte=0"`
}

// HandleBuyAnimal purchases an animal and places it on a free cell.
func HandleBuyAnimal(animalService animal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		var req BuyAnimalRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Buy animal"); err != nil {
			return
		}

		a, err := animalService.Purchase(r.Context(), userID, req.GardenID, req.AnimalTypeID, req.X, req.Y)
		if err != nil {
			respondServiceError(w, r, ErrMsgBuyAnimalFailed, err)
			return
		}

		respondJSON(w, http.StatusCreated, DataResponse{Data: a})
	}
}

// HandleFeedAnimal feeds an animal, collecting its production if any.
func HandleFeedAnimal(animalService animal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		animalID := chi.URLParam(r, "animalID")

		result, err := animalService.Feed(r.Context(), userID, animalID)
		if err != nil {
			respondServiceError(w, r, ErrMsgFeedAnimalFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: result})
	}
}

// HandleMoveAnimal relocates an animal to another free cell.
func HandleMoveAnimal(animalService animal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		animalID := chi.URLParam(r, "animalID")

		var req MoveAnimalRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Move animal"); err != nil {
			return
		}

		a, err := animalService.Move(r.Context(), userID, animalID, req.X, req.Y)
		if err != nil {
			respondServiceError(w, r, ErrMsgMoveAnimalFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: a})
	}
}

// HandleSellAnimal sells an animal for salvage.
func HandleSellAnimal(animalService animal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ActorID(r, w)
		if !ok {
			return
		}

		animalID := chi.URLParam(r, "animalID")

		salvage, err := animalService.Sell(r.Context(), userID, animalID)
		if err != nil {
			respondServiceError(w, r, ErrMsgSellAnimalFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, SalvageResponse{Salvage: salvage})
	}
}
