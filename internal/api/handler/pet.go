package handler

import (
	"encoding/json"
	"net/http"

	"github.com/keepsakehq/keepsake/internal/api/request"
	"github.com/keepsakehq/keepsake/internal/api/response"
	"github.com/keepsakehq/keepsake/internal/services/pet"
)

// PetHandler handles companion endpoints
type PetHandler struct {
	pets *pet.Service
}

// NewPetHandler creates a new pet handler
func NewPetHandler(pets *pet.Service) *PetHandler {
	return &PetHandler{
		pets: pets,
	}
}

// Get handles GET /api/v1/pet
func (h *PetHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.pets.Get(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PetFromModel(p))
}

// Feed handles POST /api/v1/pet/feed
func (h *PetHandler) Feed(w http.ResponseWriter, r *http.Request) {
	result, err := h.pets.Feed(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ActionResponseFromResult(result))
}

// Play handles POST /api/v1/pet/play
func (h *PetHandler) Play(w http.ResponseWriter, r *http.Request) {
	result, err := h.pets.Play(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ActionResponseFromResult(result))
}

// AddExperience handles POST /api/v1/pet/experience
func (h *PetHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	var req request.AddExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.pets.AddExperience(r.Context(), req.Amount, req.Source)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ActionResponseFromResult(result))
}

// Rename handles PATCH /api/v1/pet/name
func (h *PetHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req request.RenamePetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	p, err := h.pets.Rename(r.Context(), req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PetFromModel(p))
}

// ChangeColor handles PATCH /api/v1/pet/color
func (h *PetHandler) ChangeColor(w http.ResponseWriter, r *http.Request) {
	var req request.ChangeColorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	p, err := h.pets.ChangeColor(r.Context(), req.Color)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PetFromModel(p))
}

// Equip handles PUT /api/v1/pet/equipment
func (h *PetHandler) Equip(w http.ResponseWriter, r *http.Request) {
	var req request.EquipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	p, err := h.pets.Equip(r.Context(), req.Items)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PetFromModel(p))
}
