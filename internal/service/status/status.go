// Package status derives calendar based item state from YYYY-MM-DD date strings.
//
// Dates are calendar dates in the location of the reference time passed to each
// function; dashes are literal separators, never an ISO instant.
package status

import (
	"math"
	"strings"
	"time"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
)

const (
	dateLayout = "2006-01-02"

	// SoonExpiringDays is the inclusive upper bound of the "expiring soon" window.
	SoonExpiringDays = 7
)

// ParseDate parses a YYYY-MM-DD calendar date as local midnight in loc.
func ParseDate(dateStr string, loc *time.Location) (time.Time, bool) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dateLayout, dateStr, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// StartOfDay returns local midnight of t in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsExpired reports whether dateStr is strictly before today. Invalid input is not expired.
func IsExpired(dateStr string, now time.Time) bool {
	target, ok := ParseDate(dateStr, now.Location())
	if !ok {
		return false
	}
	return target.Before(StartOfDay(now))
}

// DaysUntil returns the ceiling of whole days between today and dateStr.
func DaysUntil(dateStr string, now time.Time) (int, bool) {
	target, ok := ParseDate(dateStr, now.Location())
	if !ok {
		return 0, false
	}
	diff := target.Sub(StartOfDay(now))
	return int(math.Ceil(diff.Hours() / 24)), true
}

// IsSoonExpiring reports whether dateStr is today or at most SoonExpiringDays
// days ahead of now.
func IsSoonExpiring(dateStr string, now time.Time) bool {
	days, ok := DaysUntil(dateStr, now)
	if !ok {
		return false
	}
	return days >= 0 && days <= SoonExpiringDays
}

// GetStatus reports used before expired: a used item is never shown as expired.
func GetStatus(item *domain.DiscountItem, now time.Time) domain.DerivedStatus {
	if item.IsUsed() {
		return domain.DerivedStatusUsed
	}
	if IsExpired(item.ExpiryDate, now) {
		return domain.DerivedStatusExpired
	}
	return domain.DerivedStatusActive
}

// IsInRange reports whether dateStr lies in [startDate, expiryDate] inclusive.
// A missing startDate opens the range at dateStr itself.
func IsInRange(dateStr, startDate, expiryDate string, now time.Time) bool {
	loc := now.Location()

	target, ok := ParseDate(dateStr, loc)
	if !ok {
		return false
	}
	end, ok := ParseDate(expiryDate, loc)
	if !ok {
		return false
	}
	start := target
	if strings.TrimSpace(startDate) != "" {
		parsed, ok := ParseDate(startDate, loc)
		if !ok {
			return false
		}
		start = parsed
	}

	return !target.Before(start) && !target.After(end)
}

// IsSchedulable reports whether an item may carry reminders at all.
func IsSchedulable(item *domain.DiscountItem, now time.Time) bool {
	if item == nil || item.IsUsed() || !item.NotifyEnabled || !item.HasExpiryDate() {
		return false
	}
	if _, ok := ParseDate(item.ExpiryDate, now.Location()); !ok {
		return false
	}
	return !IsExpired(item.ExpiryDate, now)
}
