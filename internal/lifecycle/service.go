package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/splitdeck/splitdeck/internal/domain"
	"github.com/splitdeck/splitdeck/internal/ports"
)

// Service orchestrates the experiment lifecycle: creation, draft edits,
// status transitions with go-live validation, and the audit trail.
// Transitions on the same experiment are serialized; a request arriving
// second is evaluated against the already-updated status.
type Service struct {
	experiments ports.ExperimentRepository
	audits      ports.AuditLogRepository
	users       ports.UserRepository
	metrics     ports.MetricsExporter
	now         func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a lifecycle service over the given repositories.
func NewService(
	experiments ports.ExperimentRepository,
	audits ports.AuditLogRepository,
	users ports.UserRepository,
	metrics ports.MetricsExporter,
) *Service {
	return &Service{
		experiments: experiments,
		audits:      audits,
		users:       users,
		metrics:     metrics,
		now:         func() time.Time { return time.Now().UTC() },
		locks:       make(map[string]*sync.Mutex),
	}
}

// lockExperiment serializes lifecycle operations per experiment within
// this process. The conditional status write in the repository guards
// against writers outside it.
func (s *Service) lockExperiment(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// VariantInput describes one traffic bucket of a new or edited
// experiment.
type VariantInput struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	TrafficPercentage int    `json:"trafficPercentage"`
	IsControl         bool   `json:"isControl"`
}

// ExperimentInput describes the configurable fields of an experiment.
type ExperimentInput struct {
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	Hypothesis    string                `json:"hypothesis"`
	PrimaryKPI    string                `json:"primaryKPI"`
	SecondaryKPIs []string              `json:"secondaryKPIs"`
	Targeting     domain.TargetingRules `json:"targeting"`
	Variants      []VariantInput        `json:"variants"`
}

// Create validates and persists a new draft experiment owned by the
// actor, recording a "created" audit entry in the same transaction.
func (s *Service) Create(ctx context.Context, actorID string, input ExperimentInput) (*domain.Experiment, error) {
	now := s.now()
	exp := &domain.Experiment{
		ID:        uuid.New().String(),
		OwnerID:   actorID,
		Status:    domain.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(exp, input)

	if err := domain.ValidateDraft(exp, true); err != nil {
		return nil, err
	}

	entry := &domain.AuditEntry{
		ID:           uuid.New().String(),
		ExperimentID: exp.ID,
		ActorID:      actorID,
		Action:       domain.ActionCreated,
		Changes:      domain.ChangeSet{},
		CreatedAt:    now,
	}
	if err := s.experiments.Create(ctx, exp, entry); err != nil {
		return nil, fmt.Errorf("failed to create experiment: %w", err)
	}

	s.metrics.RecordCreated(ctx)
	return exp, nil
}

// Get loads one experiment with its variants.
func (s *Service) Get(ctx context.Context, id string) (*domain.Experiment, error) {
	exp, err := s.experiments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, domain.ErrNotFound
	}
	return exp, nil
}

// List returns all experiments, most recently updated first.
func (s *Service) List(ctx context.Context) ([]*domain.Experiment, error) {
	return s.experiments.List(ctx)
}

// ListLive returns live experiments for the integration feed, most
// recently gone live first.
func (s *Service) ListLive(ctx context.Context) ([]*domain.Experiment, error) {
	return s.experiments.ListLive(ctx)
}

// Update replaces the configuration of a draft experiment and records a
// field-level "updated" diff. Live and paused experiments accept status
// operations only; ended experiments are frozen.
func (s *Service) Update(ctx context.Context, actorID, id string, input ExperimentInput) (*domain.Experiment, error) {
	unlock := s.lockExperiment(id)
	defer unlock()

	exp, err := s.experiments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, domain.ErrNotFound
	}
	if exp.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}
	if !exp.Editable() {
		return nil, domain.ErrLocked
	}

	before := configSnapshot(exp)

	now := s.now()
	applyInput(exp, input)
	exp.UpdatedAt = now

	// Draft edits may leave the traffic split incomplete; the full
	// allocation is enforced again at go-live.
	if err := domain.ValidateDraft(exp, false); err != nil {
		return nil, err
	}

	entry := &domain.AuditEntry{
		ID:           uuid.New().String(),
		ExperimentID: exp.ID,
		ActorID:      actorID,
		Action:       domain.ActionUpdated,
		Changes:      domain.Diff(before, configSnapshot(exp)),
		CreatedAt:    now,
	}
	if err := s.experiments.Update(ctx, exp, entry); err != nil {
		return nil, fmt.Errorf("failed to update experiment: %w", err)
	}
	return exp, nil
}

// Delete removes a draft experiment. Experiments that have ever run keep
// their history; they are ended, not deleted.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	unlock := s.lockExperiment(id)
	defer unlock()

	exp, err := s.experiments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if exp == nil {
		return domain.ErrNotFound
	}
	if exp.OwnerID != actorID {
		return domain.ErrForbidden
	}
	if exp.Status != domain.StatusDraft {
		return domain.ErrLocked
	}

	return s.experiments.Delete(ctx, id)
}

// RequestTransition moves an experiment to a new lifecycle status on
// behalf of the actor. Transitions into LIVE are gated by the go-live
// validator. Exactly one audit entry is appended per successful
// transition; a failed attempt leaves experiment and audit log untouched.
func (s *Service) RequestTransition(ctx context.Context, actorID, id string, target domain.Status) (*domain.Experiment, error) {
	unlock := s.lockExperiment(id)
	defer unlock()

	exp, err := s.experiments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, domain.ErrNotFound
	}
	if exp.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}

	from := exp.Status
	if !target.IsValid() || !from.CanTransitionTo(target) {
		return nil, &domain.InvalidTransitionError{From: from, To: target}
	}

	if target == domain.StatusLive {
		if result := domain.ValidateGoLive(exp.GoLiveSnapshot()); !result.Valid {
			s.metrics.RecordGoLiveRejected(ctx)
			return nil, &domain.GoLiveValidationError{Errors: result.Errors}
		}
	}

	action, err := domain.ActionForTransition(from, target)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var goLiveAt *time.Time
	if target == domain.StatusLive && exp.GoLiveAt == nil {
		goLiveAt = &now
	}

	entry := &domain.AuditEntry{
		ID:           uuid.New().String(),
		ExperimentID: exp.ID,
		ActorID:      actorID,
		Action:       action,
		Changes:      domain.StatusChange(from, target),
		CreatedAt:    now,
	}

	err = s.experiments.ApplyTransition(ctx, ports.ApplyTransitionParams{
		ExperimentID: exp.ID,
		From:         from,
		To:           target,
		GoLiveAt:     goLiveAt,
		UpdatedAt:    now,
		Entry:        entry,
	})
	if errors.Is(err, domain.ErrStatusConflict) {
		// A writer outside this process moved the experiment first.
		// Re-evaluate against the stored status.
		fresh, readErr := s.experiments.GetByID(ctx, id)
		if readErr == nil && fresh != nil {
			return nil, &domain.InvalidTransitionError{From: fresh.Status, To: target}
		}
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}

	exp.Status = target
	exp.UpdatedAt = now
	if goLiveAt != nil {
		exp.GoLiveAt = goLiveAt
	}

	s.metrics.RecordTransition(ctx, action)
	return exp, nil
}

// ValidateGoLive runs the go-live checks against an experiment's current
// configuration without persisting anything. Used by the transition path
// and standalone for preflight display.
func (s *Service) ValidateGoLive(ctx context.Context, id string) (domain.ValidationResult, error) {
	exp, err := s.experiments.GetByID(ctx, id)
	if err != nil {
		return domain.ValidationResult{}, err
	}
	if exp == nil {
		return domain.ValidationResult{}, domain.ErrNotFound
	}
	return domain.ValidateGoLive(exp.GoLiveSnapshot()), nil
}

// AuditLog returns an experiment's audit entries, newest first.
func (s *Service) AuditLog(ctx context.Context, id string) ([]*domain.AuditEntry, error) {
	exp, err := s.experiments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, domain.ErrNotFound
	}
	return s.audits.ListByExperimentID(ctx, id)
}

// AuditCount returns the number of audit entries for an experiment.
func (s *Service) AuditCount(ctx context.Context, id string) (int64, error) {
	return s.audits.CountByExperimentID(ctx, id)
}

// Owner loads an experiment owner's record.
func (s *Service) Owner(ctx context.Context, ownerID string) (*domain.User, error) {
	return s.users.GetByID(ctx, ownerID)
}

// applyInput copies configurable fields onto an experiment. Blank
// optional strings become nil; variants are replaced wholesale with
// fresh identifiers.
func applyInput(exp *domain.Experiment, input ExperimentInput) {
	exp.Name = strings.TrimSpace(input.Name)
	exp.Description = optional(input.Description)
	exp.Hypothesis = optional(input.Hypothesis)
	exp.PrimaryKPI = optional(input.PrimaryKPI)
	exp.SecondaryKPIs = input.SecondaryKPIs
	if exp.SecondaryKPIs == nil {
		exp.SecondaryKPIs = []string{}
	}
	exp.Targeting = input.Targeting

	variants := make([]domain.Variant, 0, len(input.Variants))
	for _, v := range input.Variants {
		variants = append(variants, domain.Variant{
			ID:                uuid.New().String(),
			ExperimentID:      exp.ID,
			Name:              strings.TrimSpace(v.Name),
			Description:       optional(v.Description),
			TrafficPercentage: v.TrafficPercentage,
			IsControl:         v.IsControl,
		})
	}
	exp.Variants = variants
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// configSnapshot flattens the mutable configuration for audit diffing.
func configSnapshot(exp *domain.Experiment) map[string]any {
	variants := make([]map[string]any, 0, len(exp.Variants))
	for _, v := range exp.Variants {
		variants = append(variants, map[string]any{
			"name":              v.Name,
			"trafficPercentage": v.TrafficPercentage,
			"isControl":         v.IsControl,
		})
	}

	snapshot := map[string]any{
		"name":          exp.Name,
		"secondaryKPIs": exp.SecondaryKPIs,
		"targeting":     exp.Targeting,
		"variants":      variants,
	}
	if exp.Description != nil {
		snapshot["description"] = *exp.Description
	}
	if exp.Hypothesis != nil {
		snapshot["hypothesis"] = *exp.Hypothesis
	}
	if exp.PrimaryKPI != nil {
		snapshot["primaryKPI"] = *exp.PrimaryKPI
	}
	return snapshot
}
