package domain

import "context"

//go:generate mockgen -source=scheduler.go -destination=scheduler_mock.go -package=domain

// NotificationScheduler is the platform capability that fires reminders.
// Cancel is idempotent; ids that were never scheduled are ignored.
type NotificationScheduler interface {
	Available() bool
	Cancel(ctx context.Context, userID string, ids []int32) error
	Schedule(ctx context.Context, userID string, entries []ReminderInstant) error
}
