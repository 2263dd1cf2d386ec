package otel

import (
	"context"

	"github.com/splitdeck/splitdeck/internal/domain"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) RecordCreated(ctx context.Context) {}

func (e *NoOpExporter) RecordTransition(ctx context.Context, action domain.AuditAction) {}

func (e *NoOpExporter) RecordGoLiveRejected(ctx context.Context) {}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
