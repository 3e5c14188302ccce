package handler

import (
	"time"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type ItemRequest struct {
	Item           *domain.DiscountItem   `json:"item"`
	TimePreference *domain.TimePreference `json:"time_preference"`
}

type RescheduleRequest struct {
	Items          []domain.DiscountItem  `json:"items"`
	TimePreference *domain.TimePreference `json:"time_preference"`
}

type PredictResponse struct {
	ItemID          domain.ItemID `json:"item_id"`
	Status          string        `json:"status"`
	DaysUntilExpiry *int          `json:"days_until_expiry,omitempty"`
	SoonExpiring    bool          `json:"soon_expiring"`
	NextFireAt      *time.Time    `json:"next_fire_at"`
}

type TestNotificationResponse struct {
	Skipped  bool                    `json:"skipped"`
	Reminder *domain.ReminderInstant `json:"reminder,omitempty"`
}

type ScheduledRemindersResponse struct {
	Reminders []domain.ScheduledReminder `json:"reminders"`
	Count     int                        `json:"count"`
}
