//go:build gcloud

package schedulerecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
)

type bigQueryScheduleRecord struct {
	RecordedAt     time.Time              `bigquery:"recorded_at"`
	RunID          string                 `bigquery:"run_id"`
	UserID         string                 `bigquery:"user_id"`
	ItemID         int64                  `bigquery:"item_id"`
	Trigger        string                 `bigquery:"trigger"`
	CancelledCount int64                  `bigquery:"cancelled_count"`
	ScheduledCount int64                  `bigquery:"scheduled_count"`
	NextFireAt     bigquery.NullTimestamp `bigquery:"next_fire_at"`
	Failed         bool                   `bigquery:"failed"`
}

type bigQueryDispatchRecord struct {
	RecordedAt      time.Time `bigquery:"recorded_at"`
	RunID           string    `bigquery:"run_id"`
	DueCount        int64     `bigquery:"due_count"`
	DispatchedCount int64     `bigquery:"dispatched_count"`
	FailedCount     int64     `bigquery:"failed_count"`
}

type bigQueryRecorder struct {
	client           *bigquery.Client
	scheduleInserter *bigquery.Inserter
	dispatchInserter *bigquery.Inserter
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ScheduleResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "schedule result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, schedule result recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, schedule result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	dataset := client.Dataset(cfg.BigQueryDataset)

	slog.InfoContext(ctx, "schedule result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("schedule_table", cfg.BigQueryScheduleTable),
		slog.String("dispatch_table", cfg.BigQueryDispatchTable),
	)

	return &bigQueryRecorder{
		client:           client,
		scheduleInserter: dataset.Table(cfg.BigQueryScheduleTable).Inserter(),
		dispatchInserter: dataset.Table(cfg.BigQueryDispatchTable).Inserter(),
	}, nil
}

func (r *bigQueryRecorder) RecordScheduleResults(ctx context.Context, records []domain.ScheduleResultRecord) error {
	if len(records) == 0 {
		return nil
	}

	bqRecords := make([]*bigQueryScheduleRecord, 0, len(records))
	for _, record := range records {
		var next bigquery.NullTimestamp
		if record.NextFireAt != nil {
			next = bigquery.NullTimestamp{Timestamp: *record.NextFireAt, Valid: true}
		}
		bqRecords = append(bqRecords, &bigQueryScheduleRecord{
			RecordedAt:     record.RecordedAt,
			RunID:          record.RunID,
			UserID:         record.UserID,
			ItemID:         int64(record.ItemID),
			Trigger:        record.Trigger,
			CancelledCount: int64(record.CancelledCount),
			ScheduledCount: int64(record.ScheduledCount),
			NextFireAt:     next,
			Failed:         record.Failed,
		})
	}

	if err := r.scheduleInserter.Put(ctx, bqRecords); err != nil {
		slog.WarnContext(ctx, "failed to insert schedule results to BigQuery",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(records)),
		)
	}

	return nil
}

func (r *bigQueryRecorder) RecordDispatchResult(ctx context.Context, record domain.DispatchResultRecord) error {
	bqRecord := &bigQueryDispatchRecord{
		RecordedAt:      record.RecordedAt,
		RunID:           record.RunID,
		DueCount:        int64(record.DueCount),
		DispatchedCount: int64(record.DispatchedCount),
		FailedCount:     int64(record.FailedCount),
	}

	if err := r.dispatchInserter.Put(ctx, bqRecord); err != nil {
		slog.WarnContext(ctx, "failed to insert dispatch result to BigQuery",
			slog.String("error", err.Error()),
			slog.String("run_id", record.RunID),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(ctx context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
