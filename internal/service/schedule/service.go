package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/observability/metrics"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/observability/tracing"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/service/notifid"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/service/reminder"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/service/status"
)

// testNotificationDelay is how far ahead the test notification fires.
const testNotificationDelay = 5 * time.Second

type Options struct {
	Location *time.Location
	// LegacyCancel also clears the 100-id blocks written by older app builds.
	LegacyCancel bool
	Now          func() time.Time
}

type Service struct {
	scheduler       domain.NotificationScheduler
	resultRecorder  domain.ScheduleResultRecorder
	reminderMetrics *metrics.ReminderMetrics
	location        *time.Location
	legacyCancel    bool
	now             func() time.Time
	itemLocks       *keyedMutex
}

func NewService(
	scheduler domain.NotificationScheduler,
	resultRecorder domain.ScheduleResultRecorder,
	reminderMetrics *metrics.ReminderMetrics,
	opts Options,
) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		scheduler:       scheduler,
		resultRecorder:  resultRecorder,
		reminderMetrics: reminderMetrics,
		location:        loc,
		legacyCancel:    opts.LegacyCancel,
		now:             now,
		itemLocks:       newKeyedMutex(),
	}
}

// Now is the reference time in the calendar location items are read in.
func (s *Service) Now() time.Time {
	return s.now().In(s.location)
}

func (s *Service) Available() bool {
	return s.scheduler != nil && s.scheduler.Available()
}

func itemLockKey(userID string, itemID domain.ItemID) string {
	return userID + "|" + itemID.String()
}

// ApplyPlan clears the item's whole id block and schedules its fresh plan.
// Scheduler errors are returned as is; nothing is retried.
func (s *Service) ApplyPlan(ctx context.Context, userID string, item *domain.DiscountItem, pref domain.TimePreference) (*ApplyResult, error) {
	if !s.Available() {
		slog.DebugContext(ctx, "notification scheduler unavailable, skipping apply",
			slog.String("user_id", userID),
		)
		return &ApplyResult{ItemID: item.ID, Skipped: true}, nil
	}

	result, err := s.applyPlan(ctx, userID, item, pref, s.Now(), TriggerItemSaved)
	s.record(ctx, "", userID, TriggerItemSaved, []ApplyResult{*result})

	return result, err
}

func (s *Service) applyPlan(
	ctx context.Context,
	userID string,
	item *domain.DiscountItem,
	pref domain.TimePreference,
	now time.Time,
	trigger Trigger,
) (*ApplyResult, error) {
	ctx, span := tracing.StartApplyPlanSpan(ctx, userID, item.ID.String(), trigger.String())
	defer span.End()

	start := time.Now()

	unlock := s.itemLocks.Lock(itemLockKey(userID, item.ID))
	defer unlock()

	result := &ApplyResult{ItemID: item.ID, Plan: []domain.ReminderInstant{}}

	ids := notifid.CancelRange(item.ID)
	if err := s.scheduler.Cancel(ctx, userID, ids); err != nil {
		slog.ErrorContext(ctx, "failed to cancel item reminders",
			slog.String("user_id", userID),
			slog.String("item_id", item.ID.String()),
			slog.String("error", err.Error()),
		)
		result.Failed = true
		s.finishPass(ctx, trigger, start, "cancel_failed")
		tracing.RecordApplyPlanResult(span, 0, 0, err)
		return result, fmt.Errorf("cancel reminders of item %s: %w", item.ID, err)
	}
	result.CancelledCount = len(ids)

	plan := reminder.ComputePlan(item, pref, now)

	if len(plan) > 0 {
		if err := s.scheduler.Schedule(ctx, userID, plan); err != nil {
			slog.ErrorContext(ctx, "failed to schedule item reminders",
				slog.String("user_id", userID),
				slog.String("item_id", item.ID.String()),
				slog.Int("entry_count", len(plan)),
				slog.String("error", err.Error()),
			)
			result.Failed = true
			s.finishPass(ctx, trigger, start, "schedule_failed")
			tracing.RecordApplyPlanResult(span, result.CancelledCount, 0, err)
			return result, fmt.Errorf("schedule reminders of item %s: %w", item.ID, err)
		}
		result.Plan = plan
		next := plan[0].FireAt
		result.NextFireAt = &next
	}

	if s.reminderMetrics != nil {
		s.reminderMetrics.RecordCancelled(ctx, result.CancelledCount)
		for kind, count := range countByKind(plan) {
			s.reminderMetrics.RecordScheduled(ctx, kind.String(), count)
		}
	}
	s.finishPass(ctx, trigger, start, "success")
	tracing.RecordApplyPlanResult(span, result.CancelledCount, len(result.Plan), nil)

	slog.DebugContext(ctx, "item reminders applied",
		slog.String("user_id", userID),
		slog.String("item_id", item.ID.String()),
		slog.String("trigger", trigger.String()),
		slog.Int("scheduled_count", len(result.Plan)),
	)

	return result, nil
}

// RescheduleAll reapplies every active, unexpired, notification enabled item one
// after another. It keeps going past failures and returns them joined.
func (s *Service) RescheduleAll(ctx context.Context, userID string, items []domain.DiscountItem, pref domain.TimePreference) (*RescheduleResult, error) {
	return s.rescheduleAll(ctx, userID, items, pref, TriggerTimePreference)
}

// Resync is RescheduleAll run for a cold start reconciliation.
func (s *Service) Resync(ctx context.Context, userID string, items []domain.DiscountItem, pref domain.TimePreference) (*RescheduleResult, error) {
	return s.rescheduleAll(ctx, userID, items, pref, TriggerResync)
}

func (s *Service) rescheduleAll(
	ctx context.Context,
	userID string,
	items []domain.DiscountItem,
	pref domain.TimePreference,
	trigger Trigger,
) (*RescheduleResult, error) {
	result := &RescheduleResult{
		RunID:      uuid.NewString(),
		TotalCount: len(items),
		Items:      []ApplyResult{},
	}

	if !s.Available() {
		slog.DebugContext(ctx, "notification scheduler unavailable, skipping reschedule",
			slog.String("user_id", userID),
		)
		result.Skipped = true
		return result, nil
	}

	ctx, span := tracing.StartRescheduleAllSpan(ctx, userID, len(items))
	defer span.End()

	now := s.Now()

	eligible := make([]*domain.DiscountItem, 0, len(items))
	ids := make([]domain.ItemID, 0, len(items))
	for i := range items {
		item := &items[i]
		if item.IsUsed() || status.IsExpired(item.ExpiryDate, now) || !item.NotifyEnabled {
			continue
		}
		eligible = append(eligible, item)
		ids = append(ids, item.ID)
	}
	result.EligibleCount = len(eligible)

	result.Collisions = notifid.Collisions(ids)
	for _, c := range result.Collisions {
		itemIDs := make([]string, 0, len(c.ItemIDs))
		for _, id := range c.ItemIDs {
			itemIDs = append(itemIDs, id.String())
		}
		slog.WarnContext(ctx, "items share a notification id block, later items overwrite earlier reminders",
			slog.String("user_id", userID),
			slog.Int("base_id", int(c.BaseID)),
			slog.Any("item_ids", itemIDs),
		)
	}

	var errs []error
	for _, item := range eligible {
		applied, err := s.applyPlan(ctx, userID, item, pref, now, trigger)
		if err != nil {
			errs = append(errs, err)
			result.FailedCount++
		}
		result.ScheduledCount += len(applied.Plan)
		result.Items = append(result.Items, *applied)
	}

	err := errors.Join(errs...)
	s.record(ctx, result.RunID, userID, trigger, result.Items)
	tracing.RecordResult(span, err)

	slog.InfoContext(ctx, "reschedule completed",
		slog.String("run_id", result.RunID),
		slog.String("user_id", userID),
		slog.String("trigger", trigger.String()),
		slog.Int("total_count", result.TotalCount),
		slog.Int("eligible_count", result.EligibleCount),
		slog.Int("scheduled_count", result.ScheduledCount),
		slog.Int("failed_count", result.FailedCount),
	)

	return result, err
}

// CancelItem clears every reminder of a deleted or used item.
func (s *Service) CancelItem(ctx context.Context, userID string, itemID domain.ItemID) (*ApplyResult, error) {
	result := &ApplyResult{ItemID: itemID, Plan: []domain.ReminderInstant{}}
	if !s.Available() {
		result.Skipped = true
		return result, nil
	}

	unlock := s.itemLocks.Lock(itemLockKey(userID, itemID))
	defer unlock()

	ids := notifid.CancelRange(itemID)
	if s.legacyCancel {
		ids = append(ids, notifid.LegacyCancelRange(itemID)...)
	}

	if err := s.scheduler.Cancel(ctx, userID, ids); err != nil {
		slog.ErrorContext(ctx, "failed to cancel item reminders",
			slog.String("user_id", userID),
			slog.String("item_id", itemID.String()),
			slog.String("error", err.Error()),
		)
		result.Failed = true
		s.record(ctx, "", userID, TriggerItemRemoved, []ApplyResult{*result})
		return result, fmt.Errorf("cancel reminders of item %s: %w", itemID, err)
	}
	result.CancelledCount = len(ids)

	if s.reminderMetrics != nil {
		s.reminderMetrics.RecordCancelled(ctx, len(ids))
		s.reminderMetrics.RecordPass(ctx, TriggerItemRemoved.String(), "success")
	}
	s.record(ctx, "", userID, TriggerItemRemoved, []ApplyResult{*result})

	return result, nil
}

// SendTest schedules the one-off test notification. It returns nil when the
// scheduler is unavailable.
func (s *Service) SendTest(ctx context.Context, userID string) (*domain.ReminderInstant, error) {
	if !s.Available() {
		return nil, nil
	}

	title, body := reminder.TestMessage()
	entry := domain.ReminderInstant{
		ID:     notifid.TestNotificationID,
		Title:  title,
		Body:   body,
		FireAt: s.Now().Add(testNotificationDelay),
		Kind:   domain.ReminderKindTest,
	}

	if err := s.scheduler.Schedule(ctx, userID, []domain.ReminderInstant{entry}); err != nil {
		return nil, fmt.Errorf("schedule test notification: %w", err)
	}

	if s.reminderMetrics != nil {
		s.reminderMetrics.RecordScheduled(ctx, domain.ReminderKindTest.String(), 1)
		s.reminderMetrics.RecordPass(ctx, TriggerTest.String(), "success")
	}

	return &entry, nil
}

// PredictNext answers when the item will notify next without touching the scheduler.
func (s *Service) PredictNext(item *domain.DiscountItem, pref domain.TimePreference) *time.Time {
	return reminder.PredictNext(item, pref, s.Now())
}

func (s *Service) finishPass(ctx context.Context, trigger Trigger, start time.Time, outcome string) {
	if s.reminderMetrics == nil {
		return
	}
	s.reminderMetrics.RecordPass(ctx, trigger.String(), outcome)
	s.reminderMetrics.RecordApplyDuration(ctx, trigger.String(), time.Since(start))
}

func (s *Service) record(ctx context.Context, runID, userID string, trigger Trigger, results []ApplyResult) {
	if s.resultRecorder == nil || len(results) == 0 {
		return
	}

	if runID == "" {
		runID = uuid.NewString()
	}

	now := time.Now()
	records := make([]domain.ScheduleResultRecord, 0, len(results))
	for _, r := range results {
		records = append(records, domain.ScheduleResultRecord{
			RunID:          runID,
			UserID:         userID,
			ItemID:         r.ItemID,
			Trigger:        trigger.String(),
			CancelledCount: r.CancelledCount,
			ScheduledCount: len(r.Plan),
			NextFireAt:     r.NextFireAt,
			Failed:         r.Failed,
			RecordedAt:     now,
		})
	}

	if recErr := s.resultRecorder.RecordScheduleResults(ctx, records); recErr != nil {
		slog.WarnContext(ctx, "failed to record schedule results",
			slog.String("run_id", runID),
			slog.String("error", recErr.Error()),
		)
	}
}

func countByKind(plan []domain.ReminderInstant) map[domain.ReminderKind]int {
	counts := make(map[domain.ReminderKind]int)
	for _, r := range plan {
		counts[r.Kind]++
	}
	return counts
}
