package domain

import "errors"

var (
	ErrInvalidItemID         = errors.New("item id must be an integer or numeric string")
	ErrInvalidTimePreference = errors.New("time preference must be hour 00-23 and min 00-59")
	ErrSchedulerUnavailable  = errors.New("notification scheduler unavailable")
	ErrReminderNotFound      = errors.New("scheduled reminder not found")
)
