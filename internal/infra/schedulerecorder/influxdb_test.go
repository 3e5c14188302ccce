//go:build !gcloud

package schedulerecorder

import (
	"context"
	"testing"
	"time"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
)

func TestNewRecorderWithoutCredentials(t *testing.T) {
	rec, err := NewRecorder(context.Background(), &Config{InfluxDBURL: "http://localhost:8086"})
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}
	if _, ok := rec.(*noopRecorder); !ok {
		t.Errorf("NewRecorder() = %T, want *noopRecorder", rec)
	}
}

func TestSchedulePoint(t *testing.T) {
	next := time.Date(2025, 1, 3, 1, 0, 0, 0, time.UTC)
	recordedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		record     domain.ScheduleResultRecord
		wantRunID  string
		wantFields map[string]any
	}{
		{
			name: "scheduled item",
			record: domain.ScheduleResultRecord{
				RunID:          "run-1",
				ItemID:         42,
				Trigger:        "item_saved",
				CancelledCount: 20,
				ScheduledCount: 9,
				NextFireAt:     &next,
				RecordedAt:     recordedAt,
			},
			wantRunID: "run-1",
			wantFields: map[string]any{
				"cancelled_count": int64(20),
				"scheduled_count": int64(9),
				"failed":          false,
				"next_fire_unix":  next.Unix(),
			},
		},
		{
			name: "cancel only without run id",
			record: domain.ScheduleResultRecord{
				ItemID:         42,
				Trigger:        "item_removed",
				CancelledCount: 20,
				RecordedAt:     recordedAt,
			},
			wantRunID: "default",
			wantFields: map[string]any{
				"cancelled_count": int64(20),
				"scheduled_count": int64(0),
				"failed":          false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := schedulePoint(tt.record)

			if p.Name() != "schedule_result" {
				t.Errorf("Name() = %q, want schedule_result", p.Name())
			}
			if !p.Time().Equal(recordedAt) {
				t.Errorf("Time() = %v, want %v", p.Time(), recordedAt)
			}

			tags := map[string]string{}
			for _, tag := range p.TagList() {
				tags[tag.Key] = tag.Value
			}
			if tags["run_id"] != tt.wantRunID {
				t.Errorf("run_id tag = %q, want %q", tags["run_id"], tt.wantRunID)
			}
			if tags["item_id"] != "42" {
				t.Errorf("item_id tag = %q, want 42", tags["item_id"])
			}

			fields := map[string]any{}
			for _, f := range p.FieldList() {
				fields[f.Key] = f.Value
			}
			if len(fields) != len(tt.wantFields) {
				t.Errorf("fields = %v, want %v", fields, tt.wantFields)
			}
			for k, want := range tt.wantFields {
				if fields[k] != want {
					t.Errorf("field %s = %v (%T), want %v (%T)", k, fields[k], fields[k], want, want)
				}
			}
		})
	}
}
