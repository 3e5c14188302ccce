package reminder

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/service/notifid"
)

var hkt = time.FixedZone("HKT", 8*60*60)

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, hkt)
}

func strPtr(s string) *string { return &s }

func activeItem(id domain.ItemID, expiry string) domain.DiscountItem {
	return domain.DiscountItem{
		ID:            id,
		Title:         "Coffee",
		ExpiryDate:    expiry,
		Status:        domain.ItemStatusActive,
		NotifyEnabled: true,
	}
}

func TestComputePlanWeeklyAndLastWeek(t *testing.T) {
	item := activeItem(42, "2025-01-10")
	item.NotifyWeekly = true
	item.NotifyLastWeek = true

	plan := ComputePlan(&item, domain.NewTimePreference(9, 0), at(2025, 1, 1, 0, 0))

	type entry struct {
		id     int32
		kind   domain.ReminderKind
		fireAt time.Time
	}
	want := []entry{
		{id: 842, kind: domain.ReminderKindDaily, fireAt: at(2025, 1, 3, 9, 0)},
		{id: 855, kind: domain.ReminderKindWeekly, fireAt: at(2025, 1, 3, 9, 0)},
		{id: 843, kind: domain.ReminderKindDaily, fireAt: at(2025, 1, 4, 9, 0)},
		{id: 844, kind: domain.ReminderKindDaily, fireAt: at(2025, 1, 5, 9, 0)},
		{id: 845, kind: domain.ReminderKindDaily, fireAt: at(2025, 1, 6, 9, 0)},
		{id: 846, kind: domain.ReminderKindDaily, fireAt: at(2025, 1, 7, 9, 0)},
		{id: 847, kind: domain.ReminderKindDaily, fireAt: at(2025, 1, 8, 9, 0)},
		{id: 848, kind: domain.ReminderKindDaily, fireAt: at(2025, 1, 9, 9, 0)},
		{id: 840, kind: domain.ReminderKindExpiry, fireAt: at(2025, 1, 10, 9, 0)},
	}

	if len(plan) != len(want) {
		t.Fatalf("len(plan) = %d, want %d: %+v", len(plan), len(want), plan)
	}
	for i, w := range want {
		got := plan[i]
		if got.ID != w.id || got.Kind != w.kind || !got.FireAt.Equal(w.fireAt) {
			t.Errorf("plan[%d] = {%d %s %v}, want {%d %s %v}", i, got.ID, got.Kind, got.FireAt, w.id, w.kind, w.fireAt)
		}
		if got.Payload.DiscountID != 42 {
			t.Errorf("plan[%d] payload = %d, want 42", i, got.Payload.DiscountID)
		}
		if got.Title != "Coffee" {
			t.Errorf("plan[%d] title = %q", i, got.Title)
		}
	}

	if body := plan[1].Body; !strings.Contains(body, "1 week ") {
		t.Errorf("weekly body = %q", body)
	}
	if body := plan[0].Body; !strings.Contains(body, "7 days") {
		t.Errorf("first daily body = %q", body)
	}
	if body := plan[7].Body; !strings.Contains(body, "1 day ") {
		t.Errorf("last daily body = %q", body)
	}
}

func TestComputePlanActiveRange(t *testing.T) {
	item := activeItem(7, "2025-01-20")
	item.StartDate = "2025-01-01"
	item.NotifyLastWeek = true

	plan := ComputePlan(&item, domain.NewTimePreference(9, 0), at(2025, 1, 2, 0, 0))

	var daily []domain.ReminderInstant
	for _, r := range plan {
		if r.Kind == domain.ReminderKindDaily {
			daily = append(daily, r)
		}
	}

	if len(daily) != notifid.MaxDailyDays {
		t.Fatalf("daily entries = %d, want %d", len(daily), notifid.MaxDailyDays)
	}
	for i, r := range daily {
		wantFire := at(2025, 1, 3+i, 9, 0)
		if !r.FireAt.Equal(wantFire) {
			t.Errorf("daily[%d] fires at %v, want %v", i, r.FireAt, wantFire)
		}
	}

	// 2025-01-03 is 17 days out, 2025-01-13 is 7 days out
	if !strings.Contains(daily[0].Body, "active now") {
		t.Errorf("ongoing body = %q", daily[0].Body)
	}
	if !strings.Contains(daily[10].Body, "7 days") {
		t.Errorf("approaching body = %q", daily[10].Body)
	}
}

func TestComputePlanBeforeActiveRange(t *testing.T) {
	item := activeItem(7, "2025-01-20")
	item.StartDate = "2025-01-15"
	item.NotifyLastWeek = true

	plan := ComputePlan(&item, domain.NewTimePreference(9, 0), at(2025, 1, 2, 0, 0))

	for _, r := range plan {
		if r.Kind == domain.ReminderKindDaily && r.FireAt.Before(at(2025, 1, 13, 0, 0)) {
			t.Errorf("daily reminder at %v is outside both the range and the last week", r.FireAt)
		}
	}
}

func TestComputePlanIneligible(t *testing.T) {
	now := at(2025, 1, 5, 10, 0)
	pref := domain.NewTimePreference(9, 0)

	tests := []struct {
		name   string
		mutate func(*domain.DiscountItem)
		pref   domain.TimePreference
	}{
		{name: "used", mutate: func(i *domain.DiscountItem) { i.Status = domain.ItemStatusUsed }, pref: pref},
		{name: "expired", mutate: func(i *domain.DiscountItem) { i.ExpiryDate = "2025-01-04" }, pref: pref},
		{name: "disabled", mutate: func(i *domain.DiscountItem) { i.NotifyEnabled = false }, pref: pref},
		{name: "missing expiry", mutate: func(i *domain.DiscountItem) { i.ExpiryDate = "" }, pref: pref},
		{name: "malformed expiry", mutate: func(i *domain.DiscountItem) { i.ExpiryDate = "next week" }, pref: pref},
		{name: "invalid time", mutate: func(*domain.DiscountItem) {}, pref: domain.TimePreference{Hour: "x", Min: "00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := activeItem(1, "2025-01-20")
			item.NotifyWeekly = true
			item.NotifyLastWeek = true
			tt.mutate(&item)

			plan := ComputePlan(&item, tt.pref, now)
			if plan == nil || len(plan) != 0 {
				t.Errorf("plan = %+v, want empty", plan)
			}
			if next := PredictNext(&item, tt.pref, now); next != nil {
				t.Errorf("PredictNext() = %v, want nil", *next)
			}
		})
	}
}

func TestComputePlanExpiryToday(t *testing.T) {
	item := activeItem(3, "2025-01-05")
	item.NotifyLastWeek = true

	tests := []struct {
		name    string
		now     time.Time
		wantLen int
	}{
		{name: "before fire time", now: at(2025, 1, 5, 8, 0), wantLen: 1},
		{name: "at fire time", now: at(2025, 1, 5, 9, 0), wantLen: 0},
		{name: "after fire time", now: at(2025, 1, 5, 22, 0), wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := ComputePlan(&item, domain.NewTimePreference(9, 0), tt.now)
			if len(plan) != tt.wantLen {
				t.Fatalf("len(plan) = %d, want %d", len(plan), tt.wantLen)
			}
			if tt.wantLen == 1 && plan[0].Kind != domain.ReminderKindExpiry {
				t.Errorf("kind = %s, want expiry", plan[0].Kind)
			}
		})
	}
}

func TestComputePlanItemTimeOverride(t *testing.T) {
	item := activeItem(5, "2025-01-10")
	item.NotifHour = strPtr("20")
	item.NotifMin = strPtr("30")

	plan := ComputePlan(&item, domain.NewTimePreference(9, 0), at(2025, 1, 1, 0, 0))
	if len(plan) != 1 {
		t.Fatalf("len(plan) = %d, want 1", len(plan))
	}
	if want := at(2025, 1, 10, 20, 30); !plan[0].FireAt.Equal(want) {
		t.Errorf("FireAt = %v, want %v", plan[0].FireAt, want)
	}
}

func propertyItems() []domain.DiscountItem {
	var items []domain.DiscountItem
	expiries := []string{"2025-01-01", "2025-01-02", "2025-01-09", "2025-01-20", "2025-02-15", "2025-03-31"}
	starts := []string{"", "2024-12-01", "2025-01-05", "bogus"}

	id := domain.ItemID(1735689600000)
	for _, expiry := range expiries {
		for _, start := range starts {
			for flags := 0; flags < 4; flags++ {
				item := activeItem(id, expiry)
				item.StartDate = start
				item.NotifyWeekly = flags&1 != 0
				item.NotifyLastWeek = flags&2 != 0
				items = append(items, item)
				id += 12345
			}
		}
	}
	return items
}

func TestPlanProperties(t *testing.T) {
	nows := []time.Time{
		at(2024, 12, 31, 23, 59),
		at(2025, 1, 1, 0, 0),
		at(2025, 1, 1, 9, 0),
		at(2025, 1, 2, 18, 45),
	}
	prefs := []domain.TimePreference{
		domain.NewTimePreference(9, 0),
		domain.NewTimePreference(0, 0),
		domain.NewTimePreference(23, 59),
	}

	for _, now := range nows {
		for _, pref := range prefs {
			for _, item := range propertyItems() {
				plan := ComputePlan(&item, pref, now)

				if again := ComputePlan(&item, pref, now); !reflect.DeepEqual(plan, again) {
					t.Fatalf("plan not deterministic for item %d at %v", item.ID, now)
				}

				expiryDate, _ := time.ParseInLocation("2006-01-02", item.ExpiryDate, hkt)
				tod, _ := pref.EffectiveTime(&item)
				expiryInstant := time.Date(expiryDate.Year(), expiryDate.Month(), expiryDate.Day(), tod.Hour, tod.Minute, 0, 0, hkt)

				seen := make(map[int32]struct{}, len(plan))
				var earliest *time.Time
				for i, r := range plan {
					if !r.FireAt.After(now) {
						t.Errorf("item %d: entry %d fires at %v, not after now %v", item.ID, r.ID, r.FireAt, now)
					}
					if !notifid.Contains(item.ID, r.ID) {
						t.Errorf("item %d: id %d outside its block", item.ID, r.ID)
					}
					if _, dup := seen[r.ID]; dup {
						t.Errorf("item %d: duplicate id %d", item.ID, r.ID)
					}
					seen[r.ID] = struct{}{}
					if r.Kind == domain.ReminderKindDaily && !r.FireAt.Before(expiryInstant) {
						t.Errorf("item %d: daily entry at %v not before expiry %v", item.ID, r.FireAt, expiryInstant)
					}
					if i > 0 && r.FireAt.Before(plan[i-1].FireAt) {
						t.Errorf("item %d: plan not ordered by fire time", item.ID)
					}
					if earliest == nil || r.FireAt.Before(*earliest) {
						fireAt := r.FireAt
						earliest = &fireAt
					}
				}

				next := PredictNext(&item, pref, now)
				switch {
				case earliest == nil && next != nil:
					t.Errorf("item %d: PredictNext() = %v for empty plan", item.ID, *next)
				case earliest != nil && (next == nil || !next.Equal(*earliest)):
					t.Errorf("item %d: PredictNext() = %v, want %v", item.ID, next, *earliest)
				}
			}
		}
	}
}
