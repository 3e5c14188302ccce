package dispatch

import (
	"context"
	"time"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=dispatch

// DueReminderStore is the part of the reminder store the dispatcher drains.
type DueReminderStore interface {
	FetchDue(ctx context.Context, until time.Time, limit int) ([]domain.ScheduledReminder, error)
	MarkDispatched(ctx context.Context, reminders []domain.ScheduledReminder) (int, error)
	// ListDispatched returns the reminders among ids that are on the task queue
	// and have not fired yet.
	ListDispatched(ctx context.Context, userID string, ids []int32) ([]domain.ScheduledReminder, error)
}
