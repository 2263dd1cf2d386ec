package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/splitdeck/splitdeck/internal/adapters/otel"
	"github.com/splitdeck/splitdeck/internal/domain"
	"github.com/splitdeck/splitdeck/internal/lifecycle"
)

func TestIntegrationFeedRequiresAPIKey(t *testing.T) {
	server := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/integrations/experiments", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestIntegrationFeedDisabledWithoutKey(t *testing.T) {
	service := lifecycle.NewService(
		&lifecycle.MockExperimentRepository{},
		&lifecycle.MockAuditLogRepository{},
		&lifecycle.MockUserRepository{},
		otel.NewNoOpExporter(),
	)
	server := NewServer(service, 0, testJWTSecret, "")

	req := httptest.NewRequest(http.MethodGet, "/api/integrations/experiments", nil)
	req.Header.Set("X-API-Key", "anything")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestIntegrationFeedListsLiveExperiments(t *testing.T) {
	goLiveAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	experiments := &lifecycle.MockExperimentRepository{
		ListLiveFunc: func(ctx context.Context) ([]*domain.Experiment, error) {
			exp := draftFixture("exp-1")
			exp.Status = domain.StatusLive
			exp.GoLiveAt = &goLiveAt
			return []*domain.Experiment{exp}, nil
		},
	}
	server := newTestServer(t, experiments, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/integrations/experiments", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Experiments []integrationExperiment `json:"experiments"`
		Count       int                     `json:"count"`
		FetchedAt   string                  `json:"fetchedAt"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("expected 1 experiment, got %d", resp.Count)
	}

	exp := resp.Experiments[0]
	if exp.Status != domain.StatusLive {
		t.Errorf("expected LIVE status, got %s", exp.Status)
	}
	if exp.GoLiveAt == nil || !exp.GoLiveAt.Equal(goLiveAt) {
		t.Errorf("expected goLiveAt %v, got %v", goLiveAt, exp.GoLiveAt)
	}
	if len(exp.Variants) != 2 {
		t.Errorf("expected 2 variants, got %d", len(exp.Variants))
	}
	if exp.Variants[0].TrafficPercentage != 50 || !exp.Variants[0].IsControl {
		t.Errorf("unexpected first variant: %+v", exp.Variants[0])
	}
	if resp.FetchedAt == "" {
		t.Error("expected fetchedAt timestamp")
	}
}

func TestIntegrationFeedWrongKey(t *testing.T) {
	server := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/integrations/experiments", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}
