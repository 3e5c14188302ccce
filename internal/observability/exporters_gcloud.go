//go:build gcloud

package observability

import (
	"context"
	"fmt"
	"log/slog"

	mexporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/metric"
	texporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// platformExporters ships telemetry to Cloud Trace and Cloud Monitoring.
func platformExporters(ctx context.Context, cfg Config) ([]sdktrace.TracerProviderOption, []sdkmetric.Option, error) {
	if cfg.GCPProjectID == "" {
		slog.WarnContext(ctx, "GCP project id not set, telemetry export disabled")
		return nil, nil, nil
	}

	traceExporter, err := texporter.New(texporter.WithProjectID(cfg.GCPProjectID))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cloud trace exporter: %w", err)
	}

	metricExporter, err := mexporter.New(mexporter.WithProjectID(cfg.GCPProjectID))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cloud monitoring exporter: %w", err)
	}

	return []sdktrace.TracerProviderOption{sdktrace.WithBatcher(traceExporter)},
		[]sdkmetric.Option{sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter))},
		nil
}
