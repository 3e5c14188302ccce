package tracing

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const reminderTracerName = "github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/service/schedule"

func ReminderTracer() trace.Tracer {
	return otel.Tracer(reminderTracerName)
}

func StartApplyPlanSpan(ctx context.Context, userID, itemID, trigger string) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.apply_plan",
		trace.WithAttributes(
			attribute.String("user_id", userID),
			attribute.String("item_id", itemID),
			attribute.String("trigger", trigger),
		),
	)
}

func StartRescheduleAllSpan(ctx context.Context, userID string, itemCount int) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.reschedule_all",
		trace.WithAttributes(
			attribute.String("user_id", userID),
			attribute.Int("reschedule.item_count", itemCount),
		),
	)
}

func StartDispatchSpan(ctx context.Context, now, until time.Time) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.dispatch",
		trace.WithAttributes(
			attribute.String("dispatch.now", now.Format(time.RFC3339)),
			attribute.String("dispatch.until", until.Format(time.RFC3339)),
		),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordApplyPlanResult(span trace.Span, cancelledCount, scheduledCount int, err error) {
	span.SetAttributes(
		attribute.Int("apply.cancelled_count", cancelledCount),
		attribute.Int("apply.scheduled_count", scheduledCount),
	)
	RecordResult(span, err)
}

func RecordDispatchResult(span trace.Span, dueCount, dispatchedCount, failedCount int, err error) {
	span.SetAttributes(
		attribute.Int("dispatch.due_count", dueCount),
		attribute.Int("dispatch.dispatched_count", dispatchedCount),
		attribute.Int("dispatch.failed_count", failedCount),
	)
	RecordResult(span, err)
}

func RecordResult(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// InjectToHTTPRequest propagates the trace context of ctx onto an outbound request.
func InjectToHTTPRequest(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// ExtractFromHTTPRequest continues an inbound trace.
func ExtractFromHTTPRequest(req *http.Request) context.Context {
	return otel.GetTextMapPropagator().Extract(req.Context(), propagation.HeaderCarrier(req.Header))
}
