package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/CreativeDragon1/Earn2Die/internal/middleware"
	"github.com/CreativeDragon1/Earn2Die/internal/services"
)

type WarHandler struct {
	service *services.WarService
}

func NewWarHandler(service *services.WarService) *WarHandler {
	return &WarHandler{service: service}
}

// List handles GET /api/wars
func (h *WarHandler) List(w http.ResponseWriter, r *http.Request) {
	wars, err := h.service.ListWars(r.URL.Query().Get("status"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, wars)
}

// Get handles GET /api/wars/{id}
func (h *WarHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	war, battles, err := h.service.GetWar(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"war":     war,
		"battles": battles,
	})
}

// Declare handles POST /api/wars/declare
func (h *WarHandler) Declare(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	var input services.DeclareWarInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	war, earliestCombat, err := h.service.Declare(identity.PlayerID, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"war": war,
		"message": fmt.Sprintf("War notice sent. Combat may not begin before %s.",
			earliestCombat.Format(time.RFC3339)),
	})
}

// UpdateStatus handles PUT /api/wars/{id}/status
func (h *WarHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var input struct {
		Status  string `json:"status"`
		Outcome string `json:"outcome"`
	}
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	war, err := h.service.UpdateStatus(identity.PlayerID, identity.Role, id, input.Status, input.Outcome)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, war)
}

// AddBattle handles POST /api/wars/{id}/battles
func (h *WarHandler) AddBattle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var input services.AddBattleInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	battle, warCrimes, err := h.service.AddBattle(id, input)
	if err != nil {
		respondError(w, err)
		return
	}

	response := map[string]interface{}{"battle": battle}
	if len(warCrimes) > 0 {
		response["warCrimeWarnings"] = warCrimes
	}
	respondJSON(w, http.StatusCreated, response)
}
