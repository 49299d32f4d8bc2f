package handlers

import (
	"net/http"
	"strconv"

	"github.com/CreativeDragon1/Earn2Die/internal/middleware"
	"github.com/CreativeDragon1/Earn2Die/internal/services"
)

type PlayerHandler struct {
	service *services.PlayerService
}

func NewPlayerHandler(service *services.PlayerService) *PlayerHandler {
	return &PlayerHandler{service: service}
}

// SyncProfile handles POST /api/auth/profile. Called after identity
// sign-in; creates the player record on the first call.
func (h *PlayerHandler) SyncProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	var input services.SyncProfileInput
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &input); err != nil {
			respondError(w, err)
			return
		}
	}

	player, membership, created, err := h.service.SyncProfile(identity.ExternalUID, identity.Username, input)
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, map[string]interface{}{
		"player":         player,
		"townMembership": membership,
	})
}

// Me handles GET /api/auth/me
func (h *PlayerHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	player, membership, err := h.service.GetProfile(identity.PlayerID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"player":         player,
		"townMembership": membership,
	})
}

// List handles GET /api/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	players, err := h.service.SearchPlayers(r.URL.Query().Get("search"), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, players)
}

// Get handles GET /api/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	player, membership, err := h.service.GetProfile(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"player":         player,
		"townMembership": membership,
	})
}

// UpdateRole handles PUT /api/players/{id}/role
func (h *PlayerHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var input struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	player, err := h.service.UpdateRole(identity.Role, id, input.Role)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, player)
}

// Stats handles GET /api/players/stats/overview
func (h *PlayerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetServerStats()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{
		"playerCount":  stats.PlayerCount,
		"townCount":    stats.TownCount,
		"activeWars":   stats.ActiveWars,
		"activeTrades": stats.ActiveTrades,
		"openCases":    stats.OpenCases,
	})
}
