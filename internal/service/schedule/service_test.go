package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/service/notifid"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/testutil"
)

var hkt = testutil.HKT

var fixedNow = testutil.Date(2025, 1, 1, 0, 0)

func newTestService(scheduler domain.NotificationScheduler, recorder domain.ScheduleResultRecorder, legacy bool) *Service {
	return NewService(scheduler, recorder, nil, Options{
		Location:     hkt,
		LegacyCancel: legacy,
		Now:          testutil.FixedClock(fixedNow),
	})
}

func testItem(id domain.ItemID) domain.DiscountItem {
	return domain.DiscountItem{
		ID:             id,
		Title:          "Coffee",
		ExpiryDate:     "2025-01-10",
		Status:         domain.ItemStatusActive,
		NotifyEnabled:  true,
		NotifyWeekly:   true,
		NotifyLastWeek: true,
	}
}

func TestApplyPlan(t *testing.T) {
	errScheduler := errors.New("permission revoked")
	pref := domain.NewTimePreference(9, 0)

	tests := []struct {
		name         string
		mutate       func(*domain.DiscountItem)
		setupMock    func(m *domain.MockNotificationScheduler)
		wantPlanLen  int
		wantErr      error
		wantFailed   bool
		wantNextFire *time.Time
	}{
		{
			name:   "cancels whole block then schedules plan",
			mutate: func(*domain.DiscountItem) {},
			setupMock: func(m *domain.MockNotificationScheduler) {
				m.EXPECT().Available().Return(true)
				gomock.InOrder(
					m.EXPECT().Cancel(gomock.Any(), "user-1", notifid.CancelRange(42)).Return(nil),
					m.EXPECT().Schedule(gomock.Any(), "user-1", gomock.Len(9)).Return(nil),
				)
			},
			wantPlanLen: 9,
		},
		{
			name:   "disabled item only cancels",
			mutate: func(i *domain.DiscountItem) { i.NotifyEnabled = false },
			setupMock: func(m *domain.MockNotificationScheduler) {
				m.EXPECT().Available().Return(true)
				m.EXPECT().Cancel(gomock.Any(), "user-1", notifid.CancelRange(42)).Return(nil)
			},
		},
		{
			name:   "used item only cancels",
			mutate: func(i *domain.DiscountItem) { i.Status = domain.ItemStatusUsed },
			setupMock: func(m *domain.MockNotificationScheduler) {
				m.EXPECT().Available().Return(true)
				m.EXPECT().Cancel(gomock.Any(), "user-1", gomock.Len(notifid.BlockSize)).Return(nil)
			},
		},
		{
			name:   "cancel failure stops before scheduling",
			mutate: func(*domain.DiscountItem) {},
			setupMock: func(m *domain.MockNotificationScheduler) {
				m.EXPECT().Available().Return(true)
				m.EXPECT().Cancel(gomock.Any(), "user-1", gomock.Any()).Return(errScheduler)
			},
			wantErr:    errScheduler,
			wantFailed: true,
		},
		{
			name:   "schedule failure propagates",
			mutate: func(*domain.DiscountItem) {},
			setupMock: func(m *domain.MockNotificationScheduler) {
				m.EXPECT().Available().Return(true)
				m.EXPECT().Cancel(gomock.Any(), "user-1", gomock.Any()).Return(nil)
				m.EXPECT().Schedule(gomock.Any(), "user-1", gomock.Any()).Return(errScheduler)
			},
			wantErr:    errScheduler,
			wantFailed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			scheduler := domain.NewMockNotificationScheduler(ctrl)
			tt.setupMock(scheduler)

			item := testItem(42)
			tt.mutate(&item)

			svc := newTestService(scheduler, nil, false)
			result, err := svc.ApplyPlan(context.Background(), "user-1", &item, pref)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Failed != tt.wantFailed {
				t.Errorf("Failed = %v, want %v", result.Failed, tt.wantFailed)
			}
			if len(result.Plan) != tt.wantPlanLen {
				t.Errorf("len(Plan) = %d, want %d", len(result.Plan), tt.wantPlanLen)
			}
			if tt.wantPlanLen > 0 {
				want := time.Date(2025, 1, 3, 9, 0, 0, 0, hkt)
				if result.NextFireAt == nil || !result.NextFireAt.Equal(want) {
					t.Errorf("NextFireAt = %v, want %v", result.NextFireAt, want)
				}
			} else if result.NextFireAt != nil {
				t.Errorf("NextFireAt = %v, want nil", *result.NextFireAt)
			}
		})
	}
}

func TestApplyPlanSchedulerUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)

	scheduler := domain.NewMockNotificationScheduler(ctrl)
	scheduler.EXPECT().Available().Return(false).AnyTimes()

	svc := newTestService(scheduler, nil, false)
	item := testItem(42)

	result, err := svc.ApplyPlan(context.Background(), "user-1", &item, domain.NewTimePreference(9, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Skipped {
		t.Error("expected skipped result")
	}

	resched, err := svc.RescheduleAll(context.Background(), "user-1", []domain.DiscountItem{item}, domain.NewTimePreference(9, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resched.Skipped {
		t.Error("expected skipped reschedule")
	}

	if entry, err := svc.SendTest(context.Background(), "user-1"); entry != nil || err != nil {
		t.Errorf("SendTest() = %v, %v, want nil, nil", entry, err)
	}
}

func TestApplyPlanNilScheduler(t *testing.T) {
	svc := newTestService(nil, nil, false)
	item := testItem(42)

	result, err := svc.ApplyPlan(context.Background(), "user-1", &item, domain.NewTimePreference(9, 0))
	if err != nil || !result.Skipped {
		t.Errorf("ApplyPlan() = %+v, %v, want skipped", result, err)
	}
}

// fakeScheduler keeps the scheduled set the way the platform does.
type fakeScheduler struct {
	mu      sync.Mutex
	entries map[int32]domain.ReminderInstant
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{entries: make(map[int32]domain.ReminderInstant)}
}

func (f *fakeScheduler) Available() bool { return true }

func (f *fakeScheduler) Cancel(_ context.Context, _ string, ids []int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.entries, id)
	}
	return nil
}

func (f *fakeScheduler) Schedule(_ context.Context, _ string, entries []domain.ReminderInstant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range entries {
		f.entries[e.ID] = e
	}
	return nil
}

func (f *fakeScheduler) snapshot() map[int32]domain.ReminderInstant {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int32]domain.ReminderInstant, len(f.entries))
	for k, v := range f.entries {
		out[k] = v
	}
	return out
}

func TestApplyPlanIsIdempotent(t *testing.T) {
	scheduler := newFakeScheduler()
	svc := newTestService(scheduler, nil, false)
	item := testItem(42)
	pref := domain.NewTimePreference(9, 0)

	// a stale reminder from an earlier plan
	scheduler.entries[notifid.ID(42, notifid.OffsetReserved)] = domain.ReminderInstant{ID: notifid.ID(42, notifid.OffsetReserved)}

	if _, err := svc.ApplyPlan(context.Background(), "user-1", &item, pref); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	first := scheduler.snapshot()

	if _, err := svc.ApplyPlan(context.Background(), "user-1", &item, pref); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	second := scheduler.snapshot()

	if len(first) != 9 || len(second) != 9 {
		t.Fatalf("scheduled sets = %d and %d, want 9", len(first), len(second))
	}
	for id, e := range first {
		if got, ok := second[id]; !ok || !got.FireAt.Equal(e.FireAt) {
			t.Errorf("id %d differs between passes", id)
		}
	}
	if _, ok := second[notifid.ID(42, notifid.OffsetReserved)]; ok {
		t.Error("stale reminder survived")
	}
}

func TestApplyPlanSerializesSameItem(t *testing.T) {
	scheduler := newFakeScheduler()
	svc := newTestService(scheduler, nil, false)
	pref := domain.NewTimePreference(9, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item := testItem(42)
			_, _ = svc.ApplyPlan(context.Background(), "user-1", &item, pref)
		}()
	}
	wg.Wait()

	if got := len(scheduler.snapshot()); got != 9 {
		t.Errorf("scheduled = %d, want 9", got)
	}
	if got := len(svc.itemLocks.locks); got != 0 {
		t.Errorf("item locks left behind: %d", got)
	}
}

func TestRescheduleAll(t *testing.T) {
	ctrl := gomock.NewController(t)

	scheduler := domain.NewMockNotificationScheduler(ctrl)
	recorder := domain.NewMockScheduleResultRecorder(ctrl)

	errScheduler := errors.New("boom")

	used := testItem(1)
	used.Status = domain.ItemStatusUsed
	expired := testItem(2)
	expired.ExpiryDate = "2024-12-31"
	disabled := testItem(3)
	disabled.NotifyEnabled = false
	ok := testItem(4)
	failing := testItem(5)
	undated := testItem(6)
	undated.ExpiryDate = ""

	scheduler.EXPECT().Available().Return(true)
	scheduler.EXPECT().Cancel(gomock.Any(), "user-1", notifid.CancelRange(4)).Return(nil)
	scheduler.EXPECT().Schedule(gomock.Any(), "user-1", gomock.Len(9)).Return(nil)
	scheduler.EXPECT().Cancel(gomock.Any(), "user-1", notifid.CancelRange(5)).Return(errScheduler)
	scheduler.EXPECT().Cancel(gomock.Any(), "user-1", notifid.CancelRange(6)).Return(nil)

	recorder.EXPECT().RecordScheduleResults(gomock.Any(), gomock.Len(3)).
		DoAndReturn(func(_ context.Context, records []domain.ScheduleResultRecord) error {
			runID := records[0].RunID
			for _, r := range records {
				if r.RunID != runID || r.Trigger != TriggerTimePreference.String() {
					t.Errorf("record = %+v", r)
				}
			}
			return nil
		})

	svc := newTestService(scheduler, recorder, false)
	items := []domain.DiscountItem{used, expired, disabled, ok, failing, undated}

	result, err := svc.RescheduleAll(context.Background(), "user-1", items, domain.NewTimePreference(9, 0))

	if !errors.Is(err, errScheduler) {
		t.Fatalf("err = %v, want joined scheduler error", err)
	}
	if result.TotalCount != 6 || result.EligibleCount != 3 {
		t.Errorf("counts = %d/%d, want 6/3", result.TotalCount, result.EligibleCount)
	}
	if result.ScheduledCount != 9 || result.FailedCount != 1 {
		t.Errorf("scheduled/failed = %d/%d, want 9/1", result.ScheduledCount, result.FailedCount)
	}
	if len(result.Items) != 3 {
		t.Errorf("len(Items) = %d, want 3", len(result.Items))
	}
	if result.RunID == "" {
		t.Error("RunID is empty")
	}
}

func TestRescheduleAllReportsCollisions(t *testing.T) {
	scheduler := newFakeScheduler()
	svc := newTestService(scheduler, nil, false)

	first := testItem(42)
	second := testItem(notifid.ItemModulus + 42)
	second.ExpiryDate = "2025-01-05"

	result, err := svc.Resync(context.Background(), "user-1", []domain.DiscountItem{first, second}, domain.NewTimePreference(9, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Collisions) != 1 || result.Collisions[0].BaseID != 840 {
		t.Fatalf("Collisions = %+v", result.Collisions)
	}

	// the later item owns the shared block
	for _, e := range scheduler.snapshot() {
		if e.Payload.DiscountID != second.ID {
			t.Errorf("entry %d belongs to %d", e.ID, e.Payload.DiscountID)
		}
	}
}

func TestCancelItem(t *testing.T) {
	tests := []struct {
		name    string
		legacy  bool
		wantLen int
	}{
		{name: "block only", legacy: false, wantLen: notifid.BlockSize},
		{name: "with legacy block", legacy: true, wantLen: notifid.BlockSize + notifid.LegacyBlockSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			scheduler := domain.NewMockNotificationScheduler(ctrl)
			scheduler.EXPECT().Available().Return(true)
			scheduler.EXPECT().Cancel(gomock.Any(), "user-1", gomock.Len(tt.wantLen)).Return(nil)

			svc := newTestService(scheduler, nil, tt.legacy)
			result, err := svc.CancelItem(context.Background(), "user-1", 42)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.CancelledCount != tt.wantLen {
				t.Errorf("CancelledCount = %d, want %d", result.CancelledCount, tt.wantLen)
			}
		})
	}
}

func TestSendTest(t *testing.T) {
	ctrl := gomock.NewController(t)

	scheduler := domain.NewMockNotificationScheduler(ctrl)
	scheduler.EXPECT().Available().Return(true)
	scheduler.EXPECT().Schedule(gomock.Any(), "user-1", gomock.Len(1)).
		DoAndReturn(func(_ context.Context, _ string, entries []domain.ReminderInstant) error {
			if entries[0].ID != notifid.TestNotificationID {
				t.Errorf("ID = %d, want %d", entries[0].ID, notifid.TestNotificationID)
			}
			return nil
		})

	svc := newTestService(scheduler, nil, false)
	entry, err := svc.SendTest(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := fixedNow.Add(5 * time.Second); !entry.FireAt.Equal(want) {
		t.Errorf("FireAt = %v, want %v", entry.FireAt, want)
	}
	if entry.Kind != domain.ReminderKindTest {
		t.Errorf("Kind = %s", entry.Kind)
	}
}

func TestPredictNextUsesServiceClock(t *testing.T) {
	svc := newTestService(nil, nil, false)
	item := testItem(42)

	next := svc.PredictNext(&item, domain.NewTimePreference(9, 0))
	if want := time.Date(2025, 1, 3, 9, 0, 0, 0, hkt); next == nil || !next.Equal(want) {
		t.Errorf("PredictNext() = %v, want %v", next, want)
	}
}
