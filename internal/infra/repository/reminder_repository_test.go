package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/testutil"
)

func reminderAt(id int32, fireAt time.Time) domain.ReminderInstant {
	return domain.ReminderInstant{
		ID:      id,
		Title:   "Coffee 20% off",
		Body:    "Coffee 20% off expires today. Use it before it's gone!",
		FireAt:  fireAt,
		Kind:    domain.ReminderKindExpiry,
		Payload: domain.ReminderPayload{DiscountID: 42},
	}
}

func TestScheduleAndListScheduled(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client)
	base := time.Now().Add(time.Hour).Truncate(time.Second)

	entries := []domain.ReminderInstant{
		reminderAt(842, base.Add(2*time.Hour)),
		reminderAt(840, base),
		reminderAt(843, base.Add(time.Hour)),
	}

	if err := repo.Schedule(ctx, "user-1", entries); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	got, err := repo.ListScheduled(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListScheduled() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListScheduled() returned %d reminders, want 3", len(got))
	}

	wantOrder := []int32{840, 843, 842}
	for i, id := range wantOrder {
		if got[i].Reminder.ID != id {
			t.Errorf("reminder[%d].ID = %d, want %d", i, got[i].Reminder.ID, id)
		}
		if got[i].UserID != "user-1" {
			t.Errorf("reminder[%d].UserID = %q, want user-1", i, got[i].UserID)
		}
	}
	if got[0].Reminder.Payload.DiscountID != 42 {
		t.Errorf("DiscountID = %d, want 42", got[0].Reminder.Payload.DiscountID)
	}
	if !got[0].Reminder.FireAt.Equal(base) {
		t.Errorf("FireAt = %v, want %v", got[0].Reminder.FireAt, base)
	}

	other, err := repo.ListScheduled(ctx, "user-2")
	if err != nil {
		t.Fatalf("ListScheduled(user-2) error = %v", err)
	}
	if len(other) != 0 {
		t.Errorf("user-2 has %d reminders, want 0", len(other))
	}
}

func TestCancel(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client)
	fireAt := time.Now().Add(time.Hour).Truncate(time.Second)

	tests := []struct {
		name      string
		scheduled []int32
		cancel    []int32
		wantLeft  []int32
	}{
		{
			name:      "cancel removes only the given ids",
			scheduled: []int32{840, 841, 860},
			cancel:    []int32{840, 841},
			wantLeft:  []int32{860},
		},
		{
			name:      "cancel of never scheduled ids is a no-op",
			scheduled: []int32{900},
			cancel:    []int32{1, 2, 3},
			wantLeft:  []int32{900},
		},
		{
			name:      "empty cancel is a no-op",
			scheduled: []int32{1000},
			cancel:    nil,
			wantLeft:  []int32{1000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := client.FlushDB(ctx).Err(); err != nil {
				t.Fatalf("failed to flush redis: %v", err)
			}

			entries := make([]domain.ReminderInstant, 0, len(tt.scheduled))
			for _, id := range tt.scheduled {
				entries = append(entries, reminderAt(id, fireAt))
			}
			if err := repo.Schedule(ctx, "user-1", entries); err != nil {
				t.Fatalf("Schedule() error = %v", err)
			}

			if err := repo.Cancel(ctx, "user-1", tt.cancel); err != nil {
				t.Fatalf("Cancel() error = %v", err)
			}

			got, err := repo.ListScheduled(ctx, "user-1")
			if err != nil {
				t.Fatalf("ListScheduled() error = %v", err)
			}
			if len(got) != len(tt.wantLeft) {
				t.Fatalf("left %d reminders, want %d", len(got), len(tt.wantLeft))
			}
			for i, id := range tt.wantLeft {
				if got[i].Reminder.ID != id {
					t.Errorf("left[%d] = %d, want %d", i, got[i].Reminder.ID, id)
				}
			}

			due, err := repo.FetchDue(ctx, fireAt.Add(time.Minute), 100)
			if err != nil {
				t.Fatalf("FetchDue() error = %v", err)
			}
			if len(due) != len(tt.wantLeft) {
				t.Errorf("due set has %d reminders, want %d", len(due), len(tt.wantLeft))
			}
		})
	}
}

func TestScheduleOverwritesSameID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client)
	first := time.Now().Add(time.Hour).Truncate(time.Second)
	second := first.Add(24 * time.Hour)

	if err := repo.Schedule(ctx, "user-1", []domain.ReminderInstant{reminderAt(840, first)}); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if err := repo.Schedule(ctx, "user-1", []domain.ReminderInstant{reminderAt(840, second)}); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	got, err := repo.GetScheduled(ctx, "user-1", 840)
	if err != nil {
		t.Fatalf("GetScheduled() error = %v", err)
	}
	if !got.Reminder.FireAt.Equal(second) {
		t.Errorf("FireAt = %v, want %v", got.Reminder.FireAt, second)
	}

	due, err := repo.FetchDue(ctx, first.Add(time.Minute), 100)
	if err != nil {
		t.Fatalf("FetchDue() error = %v", err)
	}
	if len(due) != 0 {
		t.Errorf("FetchDue() before the new fire time returned %d reminders, want 0", len(due))
	}
}

func TestGetScheduledNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client)

	_, err := repo.GetScheduled(ctx, "user-1", 12345)
	if !errors.Is(err, domain.ErrReminderNotFound) {
		t.Errorf("GetScheduled() error = %v, want ErrReminderNotFound", err)
	}
}

func TestFetchDueAndMarkDispatched(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client)
	now := time.Now().Truncate(time.Second)

	if err := repo.Schedule(ctx, "user-1", []domain.ReminderInstant{
		reminderAt(840, now.Add(-time.Minute)),
		reminderAt(841, now.Add(30*time.Second)),
		reminderAt(842, now.Add(time.Hour)),
	}); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if err := repo.Schedule(ctx, "user-2", []domain.ReminderInstant{
		reminderAt(840, now),
	}); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	due, err := repo.FetchDue(ctx, now.Add(time.Minute), 100)
	if err != nil {
		t.Fatalf("FetchDue() error = %v", err)
	}
	if len(due) != 3 {
		t.Fatalf("FetchDue() returned %d reminders, want 3", len(due))
	}

	limited, err := repo.FetchDue(ctx, now.Add(time.Minute), 1)
	if err != nil {
		t.Fatalf("FetchDue(limit 1) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("FetchDue(limit 1) returned %d reminders, want 1", len(limited))
	}

	removed, err := repo.MarkDispatched(ctx, due)
	if err != nil {
		t.Fatalf("MarkDispatched() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("MarkDispatched() removed %d, want 3", removed)
	}

	left, err := repo.ListScheduled(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListScheduled() error = %v", err)
	}
	if len(left) != 1 || left[0].Reminder.ID != 842 {
		t.Errorf("left = %+v, want only reminder 842", left)
	}

	again, err := repo.FetchDue(ctx, now.Add(time.Minute), 100)
	if err != nil {
		t.Fatalf("FetchDue() error = %v", err)
	}
	if len(again) != 0 {
		t.Errorf("FetchDue() after dispatch returned %d reminders, want 0", len(again))
	}
}

func TestMarkDispatchedSkipsRescheduledReminder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client)
	now := time.Now().Truncate(time.Second)

	if err := repo.Schedule(ctx, "user-1", []domain.ReminderInstant{reminderAt(840, now)}); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	due, err := repo.FetchDue(ctx, now, 100)
	if err != nil {
		t.Fatalf("FetchDue() error = %v", err)
	}

	// the item is edited between fetch and dispatch
	if err := repo.Schedule(ctx, "user-1", []domain.ReminderInstant{reminderAt(840, now.Add(48*time.Hour))}); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	removed, err := repo.MarkDispatched(ctx, due)
	if err != nil {
		t.Fatalf("MarkDispatched() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("MarkDispatched() removed %d, want 0", removed)
	}

	if _, err := repo.GetScheduled(ctx, "user-1", 840); err != nil {
		t.Errorf("rescheduled reminder was removed: %v", err)
	}
}

func TestFetchDueDropsOrphans(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client)
	now := time.Now().Truncate(time.Second)

	if err := repo.Schedule(ctx, "user-1", []domain.ReminderInstant{reminderAt(840, now)}); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if err := client.Del(ctx, entryKey("user-1", 840)).Err(); err != nil {
		t.Fatalf("failed to delete entry: %v", err)
	}

	due, err := repo.FetchDue(ctx, now, 100)
	if err != nil {
		t.Fatalf("FetchDue() error = %v", err)
	}
	if len(due) != 0 {
		t.Errorf("FetchDue() returned %d reminders, want 0", len(due))
	}

	count, err := client.ZCard(ctx, dueKey).Result()
	if err != nil {
		t.Fatalf("ZCard() error = %v", err)
	}
	if count != 0 {
		t.Errorf("due set size = %d, want 0", count)
	}
}

func TestParseDueMember(t *testing.T) {
	tests := []struct {
		name     string
		member   string
		wantUser string
		wantID   int32
		wantErr  bool
	}{
		{name: "plain", member: "user-1|840", wantUser: "user-1", wantID: 840},
		{name: "user id containing separator", member: "a|b|19", wantUser: "a|b", wantID: 19},
		{name: "missing id", member: "user-1|", wantErr: true},
		{name: "missing user", member: "|840", wantErr: true},
		{name: "no separator", member: "user-1", wantErr: true},
		{name: "non numeric id", member: "user-1|abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, id, err := parseDueMember(tt.member)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDueMember) {
					t.Errorf("parseDueMember(%q) error = %v, want ErrInvalidDueMember", tt.member, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDueMember(%q) unexpected error: %v", tt.member, err)
			}
			if user != tt.wantUser || id != tt.wantID {
				t.Errorf("parseDueMember(%q) = (%q, %d), want (%q, %d)", tt.member, user, id, tt.wantUser, tt.wantID)
			}
		})
	}
}

func TestMarkDispatchedLeavesMarkerUntilCancel(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client)
	now := time.Now().Truncate(time.Second)

	if err := repo.Schedule(ctx, "user-1", []domain.ReminderInstant{
		reminderAt(840, now.Add(30*time.Second)),
		reminderAt(841, now.Add(time.Hour)),
	}); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	due, err := repo.FetchDue(ctx, now.Add(time.Minute), 100)
	if err != nil {
		t.Fatalf("FetchDue() error = %v", err)
	}
	if _, err := repo.MarkDispatched(ctx, due); err != nil {
		t.Fatalf("MarkDispatched() error = %v", err)
	}

	dispatched, err := repo.ListDispatched(ctx, "user-1", []int32{840, 841})
	if err != nil {
		t.Fatalf("ListDispatched() error = %v", err)
	}
	if len(dispatched) != 1 || dispatched[0].Reminder.ID != 840 {
		t.Fatalf("ListDispatched() = %+v, want only reminder 840", dispatched)
	}
	if !dispatched[0].ScheduledAt.Equal(due[0].ScheduledAt) {
		t.Errorf("ScheduledAt = %v, want %v", dispatched[0].ScheduledAt, due[0].ScheduledAt)
	}

	ttl, err := client.PTTL(ctx, dispatchedKey("user-1", 840)).Result()
	if err != nil {
		t.Fatalf("PTTL() error = %v", err)
	}
	if ttl <= 0 || ttl > 30*time.Second+dispatchedGrace {
		t.Errorf("marker ttl = %v, want within fire time plus grace", ttl)
	}

	if err := repo.Cancel(ctx, "user-1", []int32{840, 841}); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	dispatched, err = repo.ListDispatched(ctx, "user-1", []int32{840})
	if err != nil {
		t.Fatalf("ListDispatched() after cancel error = %v", err)
	}
	if len(dispatched) != 0 {
		t.Errorf("ListDispatched() after cancel returned %d reminders, want 0", len(dispatched))
	}
}

func TestListScheduledPrunesExpiredEntries(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client)
	base := time.Now().Add(time.Hour).Truncate(time.Second)

	if err := repo.Schedule(ctx, "user-1", []domain.ReminderInstant{
		reminderAt(840, base),
		reminderAt(841, base.Add(time.Hour)),
	}); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	// stands in for the entry ttl running out
	if err := client.Del(ctx, entryKey("user-1", 840)).Err(); err != nil {
		t.Fatalf("Del() error = %v", err)
	}

	got, err := repo.ListScheduled(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListScheduled() error = %v", err)
	}
	if len(got) != 1 || got[0].Reminder.ID != 841 {
		t.Errorf("ListScheduled() = %+v, want only reminder 841", got)
	}

	members, err := client.SMembers(ctx, userIndexKey("user-1")).Result()
	if err != nil {
		t.Fatalf("SMembers() error = %v", err)
	}
	if len(members) != 1 || members[0] != "841" {
		t.Errorf("index members = %v, want [841]", members)
	}
}
