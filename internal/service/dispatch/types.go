package dispatch

import "time"

type Result struct {
	RunID           string    `json:"run_id"`
	Until           time.Time `json:"until"`
	DueCount        int       `json:"due_count"`
	DispatchedCount int       `json:"dispatched_count"`
	FailedCount     int       `json:"failed_count"`
	// RemovedCount excludes reminders rescheduled while the pass was running.
	RemovedCount int  `json:"removed_count"`
	Skipped      bool `json:"skipped"`
}
