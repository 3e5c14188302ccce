package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/infra/taskqueue"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/observability/metrics"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/observability/tracing"
)

var ErrDispatchInProgress = errors.New("dispatch already in progress")

type Options struct {
	Lookahead     time.Duration
	BatchSize     int
	RatePerSecond int
}

type Service struct {
	store           DueReminderStore
	taskQueue       taskqueue.TaskQueue
	limiter         *rate.Limiter
	resultRecorder  domain.ScheduleResultRecorder
	reminderMetrics *metrics.ReminderMetrics
	lookahead       time.Duration
	batchSize       int

	running sync.Mutex
}

func NewService(
	store DueReminderStore,
	taskQueue taskqueue.TaskQueue,
	resultRecorder domain.ScheduleResultRecorder,
	reminderMetrics *metrics.ReminderMetrics,
	opts Options,
) *Service {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.RatePerSecond)
	}

	return &Service{
		store:           store,
		taskQueue:       taskQueue,
		limiter:         limiter,
		resultRecorder:  resultRecorder,
		reminderMetrics: reminderMetrics,
		lookahead:       opts.Lookahead,
		batchSize:       batchSize,
	}
}

// DispatchDue registers every reminder firing within the lookahead window on the
// task queue, each scheduled for its own fire time. Reminders the queue rejects
// stay in the store for the next pass.
func (s *Service) DispatchDue(ctx context.Context, now time.Time) (*Result, error) {
	until := now.Add(s.lookahead)
	result := &Result{
		RunID: uuid.NewString(),
		Until: until,
	}

	if s.store == nil || s.taskQueue == nil {
		result.Skipped = true
		return result, nil
	}

	if !s.running.TryLock() {
		return nil, ErrDispatchInProgress
	}
	defer s.running.Unlock()

	ctx, span := tracing.StartDispatchSpan(ctx, now, until)
	defer span.End()

	start := time.Now()

	due, err := s.store.FetchDue(ctx, until, s.batchSize)
	if err != nil {
		tracing.RecordDispatchResult(span, 0, 0, 0, err)
		return nil, fmt.Errorf("fetch due reminders: %w", err)
	}
	result.DueCount = len(due)

	if len(due) == 0 {
		tracing.RecordDispatchResult(span, 0, 0, 0, nil)
		return result, nil
	}

	dispatched := make([]domain.ScheduledReminder, 0, len(due))
	for _, sr := range due {
		if err := s.limiter.Wait(ctx); err != nil {
			slog.WarnContext(ctx, "dispatch interrupted",
				slog.String("run_id", result.RunID),
				slog.String("error", err.Error()),
			)
			break
		}

		task := newNotificationTask(sr)
		if _, err := s.taskQueue.RegisterNotification(ctx, task); err != nil {
			slog.ErrorContext(ctx, "failed to dispatch reminder",
				slog.String("run_id", result.RunID),
				slog.String("user_id", sr.UserID),
				slog.Int("reminder_id", int(sr.Reminder.ID)),
				slog.String("error", err.Error()),
			)
			result.FailedCount++
			continue
		}
		dispatched = append(dispatched, sr)
	}
	result.DispatchedCount = len(dispatched)

	var markErr error
	if len(dispatched) > 0 {
		// the task names are deterministic, so a reminder left behind here is
		// de-duplicated by the queue on the next pass
		result.RemovedCount, markErr = s.store.MarkDispatched(ctx, dispatched)
		if markErr != nil {
			markErr = fmt.Errorf("mark reminders dispatched: %w", markErr)
		}
	}

	if s.reminderMetrics != nil {
		s.reminderMetrics.RecordDispatched(ctx, "success", result.DispatchedCount)
		s.reminderMetrics.RecordDispatched(ctx, "failed", result.FailedCount)
		s.reminderMetrics.RecordDispatchDuration(ctx, time.Since(start))
	}
	tracing.RecordDispatchResult(span, result.DueCount, result.DispatchedCount, result.FailedCount, markErr)
	s.record(ctx, result)

	slog.InfoContext(ctx, "dispatch completed",
		slog.String("run_id", result.RunID),
		slog.Int("due_count", result.DueCount),
		slog.Int("dispatched_count", result.DispatchedCount),
		slog.Int("failed_count", result.FailedCount),
		slog.Int("removed_count", result.RemovedCount),
	)

	return result, markErr
}

func (s *Service) record(ctx context.Context, result *Result) {
	if s.resultRecorder == nil {
		return
	}

	if err := s.resultRecorder.RecordDispatchResult(ctx, domain.DispatchResultRecord{
		RunID:           result.RunID,
		DueCount:        result.DueCount,
		DispatchedCount: result.DispatchedCount,
		FailedCount:     result.FailedCount,
		RecordedAt:      time.Now(),
	}); err != nil {
		slog.WarnContext(ctx, "failed to record dispatch result",
			slog.String("run_id", result.RunID),
			slog.String("error", err.Error()),
		)
	}
}

func newNotificationTask(sr domain.ScheduledReminder) *taskqueue.NotificationTask {
	return &taskqueue.NotificationTask{
		UserID:      sr.UserID,
		ReminderID:  sr.Reminder.ID,
		DiscountID:  int64(sr.Reminder.Payload.DiscountID),
		Kind:        sr.Reminder.Kind.String(),
		Title:       sr.Reminder.Title,
		Body:        sr.Reminder.Body,
		ScheduleAt:  sr.Reminder.FireAt,
		ScheduledAt: sr.ScheduledAt,
	}
}
