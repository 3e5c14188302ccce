// Package reminder computes the reminder plan of a discount item.
//
// Everything here is pure: the reference time is an argument and its location is
// the calendar used to read item dates.
package reminder

import (
	"math"
	"sort"
	"time"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/service/notifid"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/service/status"
)

// LastWeekDays is how close to expiry daily reminders start without an active range.
const LastWeekDays = 7

type candidate struct {
	offset int
	kind   domain.ReminderKind
	fireAt time.Time
	title  string
	body   string
}

func atTimeOfDay(date time.Time, tod domain.TimeOfDay) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, tod.Hour, tod.Minute, 0, 0, date.Location())
}

func daysBetween(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

// candidates yields every future reminder the item is entitled to. ComputePlan and
// PredictNext both read from here so they can never disagree.
func candidates(item *domain.DiscountItem, pref domain.TimePreference, now time.Time) []candidate {
	if !status.IsSchedulable(item, now) {
		return nil
	}

	tod, ok := pref.EffectiveTime(item)
	if !ok {
		return nil
	}

	loc := now.Location()
	expiryDate, _ := status.ParseDate(item.ExpiryDate, loc)
	expiryInstant := atTimeOfDay(expiryDate, tod)

	var startInstant time.Time
	hasStart := false
	if item.HasStartDate() {
		if startDate, ok := status.ParseDate(item.StartDate, loc); ok {
			startInstant = atTimeOfDay(startDate, tod)
			hasStart = true
		}
	}

	out := make([]candidate, 0, notifid.BlockSize)
	add := func(c candidate) {
		if c.fireAt.After(now) {
			out = append(out, c)
		}
	}

	title, body := expiryDayMessage(item)
	add(candidate{
		offset: notifid.OffsetExpiry,
		kind:   domain.ReminderKindExpiry,
		fireAt: expiryInstant,
		title:  title,
		body:   body,
	})

	if item.NotifyWeekly {
		for weeks := 1; weeks <= notifid.MaxWeeksBefore; weeks++ {
			title, body := weeklyMessage(item, weeks)
			add(candidate{
				offset: notifid.WeeklyOffset(weeks),
				kind:   domain.ReminderKindWeekly,
				fireAt: expiryInstant.AddDate(0, 0, -7*weeks),
				title:  title,
				body:   body,
			})
		}
	}

	if item.NotifyLastWeek {
		today := status.StartOfDay(now)
		for daysFromNow := 1; daysFromNow <= notifid.MaxDailyDays; daysFromNow++ {
			fireAt := atTimeOfDay(today.AddDate(0, 0, daysFromNow), tod)
			// the expiry-day slot owns the expiry date itself
			if !fireAt.Before(expiryInstant) {
				break
			}

			daysRemaining := daysBetween(fireAt, expiryInstant)
			inLastWeek := daysRemaining <= LastWeekDays
			inActiveRange := hasStart && !fireAt.Before(startInstant) && !fireAt.After(expiryInstant)
			if !inLastWeek && !inActiveRange {
				continue
			}

			var title, body string
			if inActiveRange && !inLastWeek {
				title, body = ongoingMessage(item)
			} else {
				title, body = approachingMessage(item, daysRemaining)
			}

			add(candidate{
				offset: notifid.DailyOffset(daysFromNow),
				kind:   domain.ReminderKindDaily,
				fireAt: fireAt,
				title:  title,
				body:   body,
			})
		}
	}

	return out
}

// ComputePlan returns the reminders to schedule for item, ordered by fire time.
// Ineligible items (used, expired, disabled, no valid expiry date) get an empty plan.
func ComputePlan(item *domain.DiscountItem, pref domain.TimePreference, now time.Time) []domain.ReminderInstant {
	cands := candidates(item, pref, now)
	plan := make([]domain.ReminderInstant, 0, len(cands))
	if len(cands) == 0 {
		return plan
	}

	for _, c := range cands {
		plan = append(plan, domain.ReminderInstant{
			ID:      notifid.ID(item.ID, c.offset),
			Title:   c.title,
			Body:    c.body,
			FireAt:  c.fireAt,
			Kind:    c.kind,
			Payload: domain.ReminderPayload{DiscountID: item.ID},
		})
	}

	sort.SliceStable(plan, func(i, j int) bool {
		if plan[i].FireAt.Equal(plan[j].FireAt) {
			return plan[i].ID < plan[j].ID
		}
		return plan[i].FireAt.Before(plan[j].FireAt)
	})

	return plan
}
