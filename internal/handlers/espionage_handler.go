package handlers

import (
	"net/http"

	"github.com/CreativeDragon1/Earn2Die/internal/middleware"
	"github.com/CreativeDragon1/Earn2Die/internal/services"
)

type EspionageHandler struct {
	service *services.EspionageService
}

func NewEspionageHandler(service *services.EspionageService) *EspionageHandler {
	return &EspionageHandler{service: service}
}

// List handles GET /api/espionage/reports
func (h *EspionageHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	reports, err := h.service.ListReports(identity.PlayerID, identity.Role,
		r.URL.Query().Get("status"), r.URL.Query().Get("missionType"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reports)
}

// Get handles GET /api/espionage/reports/{id}
func (h *EspionageHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	report, err := h.service.GetReport(identity.PlayerID, identity.Role, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// Create handles POST /api/espionage/reports
func (h *EspionageHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	var input services.CreateReportInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	report, err := h.service.CreateReport(identity.PlayerID, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, report)
}

// UpdateStatus handles PUT /api/espionage/reports/{id}/status
func (h *EspionageHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var input struct {
		Status      string `json:"status"`
		IntelGained string `json:"intelGained"`
	}
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	report, err := h.service.UpdateStatus(identity.PlayerID, identity.Role, id, input.Status, input.IntelGained)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
