package domain

import (
	"context"
	"time"
)

// ScheduleResultRecord describes one reconciliation pass for one item.
type ScheduleResultRecord struct {
	RunID          string
	UserID         string
	ItemID         ItemID
	Trigger        string
	CancelledCount int
	ScheduledCount int
	NextFireAt     *time.Time
	Failed         bool
	RecordedAt     time.Time
}

// DispatchResultRecord describes one dispatcher pass.
type DispatchResultRecord struct {
	RunID           string
	DueCount        int
	DispatchedCount int
	FailedCount     int
	RecordedAt      time.Time
}

//go:generate mockgen -source=schedule_result_recorder.go -destination=schedule_result_recorder_mock.go -package=domain

type ScheduleResultRecorder interface {
	RecordScheduleResults(ctx context.Context, records []ScheduleResultRecord) error
	RecordDispatchResult(ctx context.Context, record DispatchResultRecord) error
	Flush(ctx context.Context) error
	Close() error
}
