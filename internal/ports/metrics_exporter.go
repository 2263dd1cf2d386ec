package ports

import (
	"context"

	"github.com/splitdeck/splitdeck/internal/domain"
)

// MetricsExporter reports lifecycle activity to an external observability
// system.
type MetricsExporter interface {
	// RecordCreated increments the created-experiments counter.
	RecordCreated(ctx context.Context)
	// RecordTransition counts one successful lifecycle transition by its
	// audit action.
	RecordTransition(ctx context.Context, action domain.AuditAction)
	// RecordGoLiveRejected counts one failed go-live validation.
	RecordGoLiveRejected(ctx context.Context)
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}
