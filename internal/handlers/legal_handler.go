package handlers

import (
	"net/http"
	"time"

	"github.com/CreativeDragon1/Earn2Die/internal/middleware"
	"github.com/CreativeDragon1/Earn2Die/internal/services"
	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
)

type LegalHandler struct {
	service *services.LegalService
}

func NewLegalHandler(service *services.LegalService) *LegalHandler {
	return &LegalHandler{service: service}
}

// List handles GET /api/legal/cases
func (h *LegalHandler) List(w http.ResponseWriter, r *http.Request) {
	cases, err := h.service.ListCases(r.URL.Query().Get("status"), r.URL.Query().Get("type"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cases)
}

// Get handles GET /api/legal/cases/{id}
func (h *LegalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	legalCase, verdict, comments, err := h.service.GetCase(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"case":     legalCase,
		"verdict":  verdict,
		"comments": comments,
	})
}

// File handles POST /api/legal/cases
func (h *LegalHandler) File(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	var input services.FileCaseInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	legalCase, err := h.service.FileCase(identity.PlayerID, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, legalCase)
}

// AssignJudge handles PUT /api/legal/cases/{id}/assign
func (h *LegalHandler) AssignJudge(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var input struct {
		JudgeID uint `json:"judgeId"`
	}
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	legalCase, err := h.service.AssignJudge(identity.Role, id, input.JudgeID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, legalCase)
}

// UpdateStatus handles PUT /api/legal/cases/{id}/status
func (h *LegalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var input struct {
		Status    string `json:"status"`
		TrialDate string `json:"trialDate"`
	}
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	var trialDate *time.Time
	if input.TrialDate != "" {
		parsed, err := time.Parse(time.RFC3339, input.TrialDate)
		if err != nil {
			respondError(w, errors.New(errors.ErrCodeValidation, "trialDate must be RFC3339"))
			return
		}
		trialDate = &parsed
	}

	legalCase, err := h.service.UpdateStatus(identity.PlayerID, identity.Role, id, input.Status, trialDate)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, legalCase)
}

// IssueVerdict handles POST /api/legal/cases/{id}/verdict
func (h *LegalHandler) IssueVerdict(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var input services.VerdictInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	verdict, err := h.service.IssueVerdict(identity.PlayerID, identity.Role, id, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, verdict)
}

// AddComment handles POST /api/legal/cases/{id}/comments
func (h *LegalHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var input services.CommentInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	comment, err := h.service.AddComment(identity.PlayerID, identity.Role, id, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}
