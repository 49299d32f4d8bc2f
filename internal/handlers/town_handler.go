package handlers

import (
	"fmt"
	"net/http"

	"github.com/CreativeDragon1/Earn2Die/internal/middleware"
	"github.com/CreativeDragon1/Earn2Die/internal/services"
)

type TownHandler struct {
	service *services.TownService
}

func NewTownHandler(service *services.TownService) *TownHandler {
	return &TownHandler{service: service}
}

// List handles GET /api/towns
func (h *TownHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	towns, err := h.service.ListTowns(identity.Role)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, towns)
}

// Get handles GET /api/towns/{id}
func (h *TownHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	town, members, err := h.service.GetTown(identity.Role, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"town":    town,
		"members": members,
	})
}

// Apply handles POST /api/towns/apply
func (h *TownHandler) Apply(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	var input services.ApplyTownInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	town, pendingFounders, err := h.service.Apply(identity.PlayerID, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"town":            town,
		"message":         "Town application submitted. Server admin will review it.",
		"pendingFounders": pendingFounders,
	})
}

// Approve handles PUT /api/towns/{id}/approve
func (h *TownHandler) Approve(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	town, err := h.service.Approve(identity.Role, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Town approved",
		"town":    town,
	})
}

// Reject handles PUT /api/towns/{id}/reject
func (h *TownHandler) Reject(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	town, err := h.service.Reject(identity.Role, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Town application rejected",
		"town":    town,
	})
}

// AddMember handles POST /api/towns/{id}/members
func (h *TownHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var input struct {
		Username string `json:"username"`
	}
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	member, err := h.service.AddMember(identity.Role, id, input.Username)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    fmt.Sprintf("%s permanently added to the town", input.Username),
		"membership": member,
	})
}

// Update handles PUT /api/towns/{id}
func (h *TownHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var input services.UpdateTownInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	town, err := h.service.Update(identity.PlayerID, identity.Role, id, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, town)
}

// Delete handles DELETE /api/towns/{id}
func (h *TownHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.Delete(identity.Role, id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Town removed"})
}
