package ports

import (
	"context"
	"time"

	"github.com/splitdeck/splitdeck/internal/domain"
)

// ApplyTransitionParams carries one lifecycle transition to persistence.
// The status update and the audit append must land in the same storage
// transaction; either both happen or neither does.
type ApplyTransitionParams struct {
	ExperimentID string
	From         domain.Status
	To           domain.Status
	GoLiveAt     *time.Time
	UpdatedAt    time.Time
	Entry        *domain.AuditEntry
}

// ExperimentRepository provides access to experiment storage. Read methods
// return nil without an error when no row matches.
type ExperimentRepository interface {
	// Create persists a new experiment with its variants and the creation
	// audit entry in one transaction.
	Create(ctx context.Context, experiment *domain.Experiment, entry *domain.AuditEntry) error

	// GetByID loads an experiment and its variants.
	GetByID(ctx context.Context, id string) (*domain.Experiment, error)

	// List returns all experiments with variants, most recently updated
	// first.
	List(ctx context.Context) ([]*domain.Experiment, error)

	// ListLive returns live experiments with variants, most recently gone
	// live first.
	ListLive(ctx context.Context) ([]*domain.Experiment, error)

	// Update persists draft configuration changes together with their
	// audit entry in one transaction.
	Update(ctx context.Context, experiment *domain.Experiment, entry *domain.AuditEntry) error

	// Delete removes an experiment; variants and audit entries cascade.
	Delete(ctx context.Context, id string) error

	// ApplyTransition conditionally moves an experiment from one status to
	// another and appends the transition's audit entry atomically. Returns
	// domain.ErrStatusConflict when the stored status no longer matches
	// From.
	ApplyTransition(ctx context.Context, params ApplyTransitionParams) error
}
