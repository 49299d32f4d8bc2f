package handlers

import (
	"net/http"
	"strconv"

	"github.com/CreativeDragon1/Earn2Die/internal/middleware"
	"github.com/CreativeDragon1/Earn2Die/internal/repositories"
	"github.com/CreativeDragon1/Earn2Die/internal/services"
)

type TradeHandler struct {
	service *services.TradeService
}

func NewTradeHandler(service *services.TradeService) *TradeHandler {
	return &TradeHandler{service: service}
}

// List handles GET /api/trade/listings
func (h *TradeHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.ListingFilter{
		Category: query.Get("category"),
		Search:   query.Get("search"),
	}
	if v := query.Get("minPrice"); v != "" {
		filter.MinPrice, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := query.Get("maxPrice"); v != "" {
		filter.MaxPrice, _ = strconv.ParseInt(v, 10, 64)
	}

	listings, err := h.service.ListListings(filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listings)
}

// Get handles GET /api/trade/listings/{id}
func (h *TradeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	listing, transactions, err := h.service.GetListing(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"listing":      listing,
		"transactions": transactions,
	})
}

// Create handles POST /api/trade/listings
func (h *TradeHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	var input services.CreateListingInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	listing, err := h.service.CreateListing(identity.PlayerID, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, listing)
}

// Buy handles POST /api/trade/listings/{id}/buy
func (h *TradeHandler) Buy(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	transaction, err := h.service.Buy(identity.PlayerID, id, input.Quantity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, transaction)
}

// Cancel handles PUT /api/trade/listings/{id}/cancel
func (h *TradeHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.Cancel(identity.PlayerID, identity.Role, id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Listing cancelled"})
}
