package web

import (
	"net/http"
	"time"

	"github.com/splitdeck/splitdeck/internal/domain"
	"github.com/splitdeck/splitdeck/internal/lifecycle"
	"github.com/splitdeck/splitdeck/internal/requestctx"
)

type variantResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Description       *string `json:"description,omitempty"`
	TrafficPercentage int     `json:"trafficPercentage"`
	IsControl         bool    `json:"isControl"`
}

type ownerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type experimentResponse struct {
	ID            string                `json:"id"`
	OwnerID       string                `json:"ownerId"`
	Owner         *ownerResponse        `json:"owner,omitempty"`
	Name          string                `json:"name"`
	Description   *string               `json:"description,omitempty"`
	Hypothesis    *string               `json:"hypothesis,omitempty"`
	PrimaryKPI    *string               `json:"primaryKPI,omitempty"`
	SecondaryKPIs []string              `json:"secondaryKPIs"`
	Targeting     domain.TargetingRules `json:"targeting"`
	Status        domain.Status         `json:"status"`
	GoLiveAt      *time.Time            `json:"goLiveAt,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
	Variants      []variantResponse     `json:"variants"`
	AuditCount    *int64                `json:"auditCount,omitempty"`
}

func experimentJSON(exp *domain.Experiment) experimentResponse {
	variants := make([]variantResponse, 0, len(exp.Variants))
	for _, v := range exp.Variants {
		variants = append(variants, variantResponse{
			ID:                v.ID,
			Name:              v.Name,
			Description:       v.Description,
			TrafficPercentage: v.TrafficPercentage,
			IsControl:         v.IsControl,
		})
	}
	return experimentResponse{
		ID:            exp.ID,
		OwnerID:       exp.OwnerID,
		Name:          exp.Name,
		Description:   exp.Description,
		Hypothesis:    exp.Hypothesis,
		PrimaryKPI:    exp.PrimaryKPI,
		SecondaryKPIs: exp.SecondaryKPIs,
		Targeting:     exp.Targeting,
		Status:        exp.Status,
		GoLiveAt:      exp.GoLiveAt,
		CreatedAt:     exp.CreatedAt,
		UpdatedAt:     exp.UpdatedAt,
		Variants:      variants,
	}
}

func (s *Server) handleCreateExperiment(w http.ResponseWriter, r *http.Request) {
	actorID := requestctx.ActorIDFromContext(r.Context())

	var input lifecycle.ExperimentInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := s.service.Create(r.Context(), actorID, input)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, experimentJSON(exp))
}

func (s *Server) handleListExperiments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	experiments, err := s.service.List(ctx)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	items := make([]experimentResponse, 0, len(experiments))
	for _, exp := range experiments {
		item := experimentJSON(exp)
		if count, err := s.service.AuditCount(ctx, exp.ID); err == nil {
			item.AuditCount = &count
		}
		items = append(items, item)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"experiments": items,
		"count":       len(items),
	})
}

func (s *Server) handleExperimentDetail(w http.ResponseWriter, r *http.Request) {
	exp, err := s.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := experimentJSON(exp)
	if owner, err := s.service.Owner(r.Context(), exp.OwnerID); err == nil && owner != nil {
		resp.Owner = &ownerResponse{ID: owner.ID, Name: owner.Name, Email: owner.Email}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateExperiment(w http.ResponseWriter, r *http.Request) {
	actorID := requestctx.ActorIDFromContext(r.Context())

	var input lifecycle.ExperimentInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := s.service.Update(r.Context(), actorID, r.PathValue("id"), input)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, experimentJSON(exp))
}

func (s *Server) handleDeleteExperiment(w http.ResponseWriter, r *http.Request) {
	actorID := requestctx.ActorIDFromContext(r.Context())

	if err := s.service.Delete(r.Context(), actorID, r.PathValue("id")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	actorID := requestctx.ActorIDFromContext(r.Context())

	var body struct {
		Status domain.Status `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Status == "" {
		respondError(w, http.StatusBadRequest, "status is required")
		return
	}

	exp, err := s.service.RequestTransition(r.Context(), actorID, r.PathValue("id"), body.Status)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, experimentJSON(exp))
}

func (s *Server) handleValidateGoLive(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.ValidateGoLive(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type auditEntryResponse struct {
	ID        string             `json:"id"`
	ActorID   string             `json:"actorId"`
	Action    domain.AuditAction `json:"action"`
	Changes   domain.ChangeSet   `json:"changes"`
	CreatedAt time.Time          `json:"createdAt"`
}

func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.AuditLog(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	items := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, auditEntryResponse{
			ID:        e.ID,
			ActorID:   e.ActorID,
			Action:    e.Action,
			Changes:   e.Changes,
			CreatedAt: e.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"entries": items,
		"count":   len(items),
	})
}
