package domain

import "time"

// ReminderKind tells which rule produced a reminder.
type ReminderKind string

const (
	ReminderKindExpiry ReminderKind = "expiry"
	ReminderKindWeekly ReminderKind = "weekly"
	ReminderKindDaily  ReminderKind = "daily"
	ReminderKindTest   ReminderKind = "test"
)

func (k ReminderKind) String() string {
	return string(k)
}

type ReminderPayload struct {
	DiscountID ItemID `json:"discountId"`
}

// ReminderInstant is one notification to hand to the platform scheduler.
// It is recomputed on every scheduling pass and never merged with a previous one.
type ReminderInstant struct {
	ID      int32           `json:"id"`
	Title   string          `json:"title"`
	Body    string          `json:"body"`
	FireAt  time.Time       `json:"fire_at"`
	Kind    ReminderKind    `json:"kind"`
	Payload ReminderPayload `json:"payload"`
}

// ScheduledReminder is a reminder held by the platform scheduler for a user.
type ScheduledReminder struct {
	UserID      string          `json:"user_id"`
	Reminder    ReminderInstant `json:"reminder"`
	ScheduledAt time.Time       `json:"scheduled_at"`
}
