package config

import (
	"os"
	"strconv"
	"time"
)

const (
	dispatchScheduleEnv         = "DISPATCH_SCHEDULE"
	dispatchLookaheadSecondsEnv = "DISPATCH_LOOKAHEAD_SECONDS"
	dispatchBatchSizeEnv        = "DISPATCH_BATCH_SIZE"
	dispatchRatePerSecondEnv    = "DISPATCH_RATE_PER_SECOND"

	defaultDispatchSchedule         = "@every 1m"
	defaultDispatchLookaheadSeconds = 60
	defaultDispatchBatchSize        = 500
	defaultDispatchRatePerSecond    = 50
)

type DispatchConfig struct {
	// Schedule is a cron expression; empty disables the periodic pass.
	Schedule      string
	Lookahead     time.Duration
	BatchSize     int
	RatePerSecond int
}

func LoadDispatchConfig() *DispatchConfig {
	schedule, ok := os.LookupEnv(dispatchScheduleEnv)
	if !ok {
		schedule = defaultDispatchSchedule
	}

	lookahead := defaultDispatchLookaheadSeconds
	if v := os.Getenv(dispatchLookaheadSecondsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			lookahead = parsed
		}
	}

	batchSize := defaultDispatchBatchSize
	if v := os.Getenv(dispatchBatchSizeEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			batchSize = parsed
		}
	}

	rate := defaultDispatchRatePerSecond
	if v := os.Getenv(dispatchRatePerSecondEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			rate = parsed
		}
	}

	return &DispatchConfig{
		Schedule:      schedule,
		Lookahead:     time.Duration(lookahead) * time.Second,
		BatchSize:     batchSize,
		RatePerSecond: rate,
	}
}
