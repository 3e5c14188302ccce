package schedule

import (
	"time"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/service/notifid"
)

// Trigger names what caused a reconciliation pass.
type Trigger string

const (
	TriggerItemSaved      Trigger = "item_saved"
	TriggerItemRemoved    Trigger = "item_removed"
	TriggerTimePreference Trigger = "time_preference"
	TriggerResync         Trigger = "resync"
	TriggerTest           Trigger = "test"
)

func (t Trigger) String() string {
	return string(t)
}

type ApplyResult struct {
	ItemID         domain.ItemID            `json:"item_id"`
	CancelledCount int                      `json:"cancelled_count"`
	Plan           []domain.ReminderInstant `json:"plan"`
	NextFireAt     *time.Time               `json:"next_fire_at,omitempty"`
	Skipped        bool                     `json:"skipped"`
	Failed         bool                     `json:"failed"`
}

type RescheduleResult struct {
	RunID          string              `json:"run_id"`
	TotalCount     int                 `json:"total_count"`
	EligibleCount  int                 `json:"eligible_count"`
	ScheduledCount int                 `json:"scheduled_count"`
	FailedCount    int                 `json:"failed_count"`
	Collisions     []notifid.Collision `json:"collisions,omitempty"`
	Items          []ApplyResult       `json:"items"`
	Skipped        bool                `json:"skipped"`
}
