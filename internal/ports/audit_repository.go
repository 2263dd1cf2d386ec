package ports

import (
	"context"

	"github.com/splitdeck/splitdeck/internal/domain"
)

// AuditLogRepository provides access to the append-only audit trail.
// Entries are never updated or deleted.
type AuditLogRepository interface {
	// Append records a single audit entry.
	Append(ctx context.Context, entry *domain.AuditEntry) error

	// ListByExperimentID returns an experiment's entries, newest first.
	ListByExperimentID(ctx context.Context, experimentID string) ([]*domain.AuditEntry, error)

	// CountByExperimentID returns the number of entries for an experiment.
	CountByExperimentID(ctx context.Context, experimentID string) (int64, error)
}
