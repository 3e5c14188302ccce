package domain

import (
	"fmt"
	"strconv"
)

// TimePreference is the user's global daily fire time for reminders.
type TimePreference struct {
	Hour string `json:"hour"`
	Min  string `json:"min"`
}

// DefaultTimePreference applies when the user never chose a fire time.
func DefaultTimePreference() TimePreference {
	return TimePreference{Hour: "09", Min: "00"}
}

func NewTimePreference(hour, minute int) TimePreference {
	return TimePreference{
		Hour: fmt.Sprintf("%02d", hour),
		Min:  fmt.Sprintf("%02d", minute),
	}
}

func (p TimePreference) Validate() error {
	if _, ok := parseClockField(p.Hour, 23); !ok {
		return ErrInvalidTimePreference
	}
	if _, ok := parseClockField(p.Min, 59); !ok {
		return ErrInvalidTimePreference
	}
	return nil
}

// TimeOfDay is a resolved hour and minute.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// EffectiveTime resolves the fire time for an item: the per-item override wins
// field by field, the global preference fills the rest. ok is false when neither
// source yields a valid value.
func (p TimePreference) EffectiveTime(item *DiscountItem) (TimeOfDay, bool) {
	hour, ok := parseClockField(p.Hour, 23)
	if item != nil && item.NotifHour != nil {
		if h, valid := parseClockField(*item.NotifHour, 23); valid {
			hour, ok = h, true
		}
	}
	if !ok {
		return TimeOfDay{}, false
	}

	minute, ok := parseClockField(p.Min, 59)
	if item != nil && item.NotifMin != nil {
		if m, valid := parseClockField(*item.NotifMin, 59); valid {
			minute, ok = m, true
		}
	}
	if !ok {
		return TimeOfDay{}, false
	}

	return TimeOfDay{Hour: hour, Minute: minute}, true
}

func parseClockField(raw string, upper int) (int, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 || v > upper {
		return 0, false
	}
	return v, true
}
