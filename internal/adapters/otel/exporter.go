package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/splitdeck/splitdeck/internal/domain"
)

const (
	serviceName    = "splitdeck"
	serviceVersion = "1.0.0"
)

// Exporter reports experiment lifecycle metrics to an OTEL Collector.
type Exporter struct {
	provider         *sdkmetric.MeterProvider
	meter            metric.Meter
	createdTotal     metric.Int64Counter
	transitionsTotal metric.Int64Counter
	goLiveRejected   metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	createdTotal, err := meter.Int64Counter(
		"splitdeck_experiments_created_total",
		metric.WithDescription("Total experiments created"),
		metric.WithUnit("{experiment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating created counter: %w", err)
	}

	transitionsTotal, err := meter.Int64Counter(
		"splitdeck_lifecycle_transitions_total",
		metric.WithDescription("Total successful lifecycle transitions by action"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transitions counter: %w", err)
	}

	goLiveRejected, err := meter.Int64Counter(
		"splitdeck_golive_rejections_total",
		metric.WithDescription("Total go-live attempts rejected by validation"),
		metric.WithUnit("{rejection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejection counter: %w", err)
	}

	return &Exporter{
		provider:         provider,
		meter:            meter,
		createdTotal:     createdTotal,
		transitionsTotal: transitionsTotal,
		goLiveRejected:   goLiveRejected,
	}, nil
}

// RecordCreated increments the created-experiments counter.
func (e *Exporter) RecordCreated(ctx context.Context) {
	e.createdTotal.Add(ctx, 1)
}

// RecordTransition counts one successful lifecycle transition by action.
func (e *Exporter) RecordTransition(ctx context.Context, action domain.AuditAction) {
	e.transitionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", string(action)),
	))
}

// RecordGoLiveRejected counts one failed go-live validation.
func (e *Exporter) RecordGoLiveRejected(ctx context.Context) {
	e.goLiveRejected.Add(ctx, 1)
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
