package repository

import (
	"context"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
)

// unavailableScheduler stands in where no notification capability exists.
// The orchestrator checks Available and never calls the other methods.
type unavailableScheduler struct{}

func NewUnavailableScheduler() domain.NotificationScheduler {
	return &unavailableScheduler{}
}

func (u *unavailableScheduler) Available() bool {
	return false
}

func (u *unavailableScheduler) Cancel(_ context.Context, _ string, _ []int32) error {
	return nil
}

func (u *unavailableScheduler) Schedule(_ context.Context, _ string, _ []domain.ReminderInstant) error {
	return nil
}
