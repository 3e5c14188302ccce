package reminder

import (
	"time"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
)

// PredictNext returns when the item will notify next, or nil when it never will.
// It schedules nothing.
func PredictNext(item *domain.DiscountItem, pref domain.TimePreference, now time.Time) *time.Time {
	var next *time.Time
	for _, c := range candidates(item, pref, now) {
		if next == nil || c.fireAt.Before(*next) {
			fireAt := c.fireAt
			next = &fireAt
		}
	}
	return next
}
