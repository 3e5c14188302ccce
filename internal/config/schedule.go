package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	reminderTimezoneEnv     = "REMINDER_TIMEZONE"
	reminderSchedulerEnv    = "REMINDER_SCHEDULER"
	reminderLegacyCancelEnv = "REMINDER_LEGACY_CANCEL"

	defaultReminderTimezone = "Asia/Hong_Kong"
)

type SchedulerMode string

const (
	SchedulerModeRedis    SchedulerMode = "redis"
	SchedulerModeDisabled SchedulerMode = "disabled"
)

type ScheduleConfig struct {
	// Location is the calendar item dates and fire times are read in.
	Location      *time.Location
	SchedulerMode SchedulerMode
	LegacyCancel  bool
}

func LoadScheduleConfig() (*ScheduleConfig, error) {
	tz := os.Getenv(reminderTimezoneEnv)
	if tz == "" {
		tz = defaultReminderTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}

	mode := SchedulerModeRedis
	switch strings.ToLower(os.Getenv(reminderSchedulerEnv)) {
	case "", string(SchedulerModeRedis):
	case string(SchedulerModeDisabled):
		mode = SchedulerModeDisabled
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSchedulerMode, os.Getenv(reminderSchedulerEnv))
	}

	return &ScheduleConfig{
		Location:      loc,
		SchedulerMode: mode,
		LegacyCancel:  os.Getenv(reminderLegacyCancelEnv) == "true",
	}, nil
}
