package web

import (
	"net/http"
	"time"

	"github.com/splitdeck/splitdeck/internal/domain"
)

type integrationVariant struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	TrafficPercentage int    `json:"trafficPercentage"`
	IsControl         bool   `json:"isControl"`
}

type integrationExperiment struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Status     domain.Status         `json:"status"`
	Hypothesis *string               `json:"hypothesis,omitempty"`
	PrimaryKPI *string               `json:"primaryKPI,omitempty"`
	Targeting  domain.TargetingRules `json:"targeting"`
	Variants   []integrationVariant  `json:"variants"`
	GoLiveAt   *time.Time            `json:"goLiveAt,omitempty"`
}

// handleIntegrationFeed serves the running experiments to delivery
// systems that assign traffic. Only live experiments appear; paused and
// ended experiments drop out of the feed immediately.
func (s *Server) handleIntegrationFeed(w http.ResponseWriter, r *http.Request) {
	experiments, err := s.service.ListLive(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	items := make([]integrationExperiment, 0, len(experiments))
	for _, exp := range experiments {
		variants := make([]integrationVariant, 0, len(exp.Variants))
		for _, v := range exp.Variants {
			variants = append(variants, integrationVariant{
				ID:                v.ID,
				Name:              v.Name,
				TrafficPercentage: v.TrafficPercentage,
				IsControl:         v.IsControl,
			})
		}
		items = append(items, integrationExperiment{
			ID:         exp.ID,
			Name:       exp.Name,
			Status:     exp.Status,
			Hypothesis: exp.Hypothesis,
			PrimaryKPI: exp.PrimaryKPI,
			Targeting:  exp.Targeting,
			Variants:   variants,
			GoLiveAt:   exp.GoLiveAt,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"experiments": items,
		"count":       len(items),
		"fetchedAt":   time.Now().UTC().Format(time.RFC3339),
	})
}
