package config

import "errors"

var (
	ErrRedisAddrMissing     = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB       = errors.New("REDIS_DB must be a non-negative integer")
	ErrInvalidRedisPoolSize = errors.New("REDIS_POOL_SIZE must be a non-negative integer")
	ErrInvalidTimezone      = errors.New("REMINDER_TIMEZONE must be an IANA time zone")
	ErrInvalidSchedulerMode = errors.New("REMINDER_SCHEDULER must be redis or disabled")
)
