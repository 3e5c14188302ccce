package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	reminderMeterName = "reminder.service"
)

type ReminderMetrics struct {
	passes            metric.Int64Counter
	entriesScheduled  metric.Int64Counter
	idsCancelled      metric.Int64Counter
	applyDuration     metric.Float64Histogram
	remindersDispatch metric.Int64Counter
	dispatchDuration  metric.Float64Histogram
}

func NewReminderMetrics() (*ReminderMetrics, error) {
	meter := otel.Meter(reminderMeterName)

	passes, err := meter.Int64Counter(
		"reminder_passes_total",
		metric.WithDescription("Total number of reconciliation passes per item"),
		metric.WithUnit("{pass}"),
	)
	if err != nil {
		return nil, err
	}

	entriesScheduled, err := meter.Int64Counter(
		"reminder_entries_scheduled_total",
		metric.WithDescription("Total number of reminder entries submitted to the scheduler"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	idsCancelled, err := meter.Int64Counter(
		"reminder_cancelled_ids_total",
		metric.WithDescription("Total number of notification ids cancelled"),
		metric.WithUnit("{id}"),
	)
	if err != nil {
		return nil, err
	}

	applyDuration, err := meter.Float64Histogram(
		"reminder_apply_duration_seconds",
		metric.WithDescription("Time spent cancelling and rescheduling one item"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1,
		),
	)
	if err != nil {
		return nil, err
	}

	remindersDispatch, err := meter.Int64Counter(
		"reminder_dispatched_total",
		metric.WithDescription("Total number of due reminders handed to the task queue"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	dispatchDuration, err := meter.Float64Histogram(
		"reminder_dispatch_duration_seconds",
		metric.WithDescription("Dispatch pass duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
		),
	)
	if err != nil {
		return nil, err
	}

	return &ReminderMetrics{
		passes:            passes,
		entriesScheduled:  entriesScheduled,
		idsCancelled:      idsCancelled,
		applyDuration:     applyDuration,
		remindersDispatch: remindersDispatch,
		dispatchDuration:  dispatchDuration,
	}, nil
}

func (m *ReminderMetrics) RecordPass(ctx context.Context, trigger, outcome string) {
	m.passes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("trigger", trigger),
		attribute.String("outcome", outcome),
	))
}

func (m *ReminderMetrics) RecordScheduled(ctx context.Context, kind string, count int) {
	m.entriesScheduled.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

func (m *ReminderMetrics) RecordCancelled(ctx context.Context, count int) {
	m.idsCancelled.Add(ctx, int64(count))
}

func (m *ReminderMetrics) RecordApplyDuration(ctx context.Context, trigger string, duration time.Duration) {
	m.applyDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("trigger", trigger),
	))
}

func (m *ReminderMetrics) RecordDispatched(ctx context.Context, outcome string, count int) {
	m.remindersDispatch.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *ReminderMetrics) RecordDispatchDuration(ctx context.Context, duration time.Duration) {
	m.dispatchDuration.Record(ctx, duration.Seconds())
}
