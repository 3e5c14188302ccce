package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
)

// Revoke deletes the queued tasks of reminders among ids that were already
// dispatched. Markers of tasks that could not be deleted are left in place so
// the caller can retry.
func (s *Service) Revoke(ctx context.Context, userID string, ids []int32) (int, error) {
	if s.store == nil || s.taskQueue == nil || len(ids) == 0 {
		return 0, nil
	}

	dispatched, err := s.store.ListDispatched(ctx, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("list dispatched reminders: %w", err)
	}

	revoked := 0
	var errs []error
	for _, sr := range dispatched {
		taskName := newNotificationTask(sr).TaskName()
		if err := s.taskQueue.DeleteTask(ctx, taskName); err != nil {
			slog.ErrorContext(ctx, "failed to revoke dispatched reminder",
				slog.String("user_id", userID),
				slog.Int("reminder_id", int(sr.Reminder.ID)),
				slog.String("task_name", taskName),
				slog.String("error", err.Error()),
			)
			errs = append(errs, err)
			continue
		}
		revoked++
	}

	if s.reminderMetrics != nil && revoked > 0 {
		s.reminderMetrics.RecordDispatched(ctx, "revoked", revoked)
	}
	if revoked > 0 {
		slog.InfoContext(ctx, "revoked dispatched reminders",
			slog.String("user_id", userID),
			slog.Int("revoked_count", revoked),
		)
	}

	if len(errs) > 0 {
		return revoked, fmt.Errorf("revoke dispatched reminders: %w", errors.Join(errs...))
	}
	return revoked, nil
}

// RevokingScheduler cancels through the wrapped scheduler after withdrawing any
// task the dispatcher already handed to the queue.
type RevokingScheduler struct {
	domain.NotificationScheduler
	dispatcher *Service
}

func NewRevokingScheduler(inner domain.NotificationScheduler, dispatcher *Service) *RevokingScheduler {
	return &RevokingScheduler{
		NotificationScheduler: inner,
		dispatcher:            dispatcher,
	}
}

func (s *RevokingScheduler) Cancel(ctx context.Context, userID string, ids []int32) error {
	if _, err := s.dispatcher.Revoke(ctx, userID, ids); err != nil {
		return err
	}
	return s.NotificationScheduler.Cancel(ctx, userID, ids)
}
