//go:build !gcloud

package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/observability/logging"
)

func newProfileServer(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetDiscounts(t *testing.T) {
	var gotRequestID string

	srv := newProfileServer(t, map[string]func(w http.ResponseWriter, r *http.Request){
		"GET /api/v1/users/user-1/discounts": func(w http.ResponseWriter, r *http.Request) {
			gotRequestID = r.Header.Get(logging.RequestIDHeader)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"items":[
				{"id":42,"title":"Coffee","expiryDate":"2025-01-10","status":"active","is_notify_enabled":true,"notify_last_7d_daily":true},
				{"id":"1736400000000","title":"Books","expiryDate":"2025-02-01","status":"used","notif_hour":"20"}
			],"count":2}`))
		},
	})

	client := NewClient(srv.URL)
	requestID := uuid.NewString()
	ctx := logging.WithRequestID(context.Background(), requestID)

	items, err := client.GetDiscounts(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetDiscounts() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("GetDiscounts() returned %d items, want 2", len(items))
	}

	if items[0].ID != 42 || !items[0].NotifyEnabled || !items[0].NotifyLastWeek {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].ID != 1736400000000 {
		t.Errorf("items[1].ID = %d, want 1736400000000", items[1].ID)
	}
	if !items[1].IsUsed() {
		t.Error("items[1] should be used")
	}
	if items[1].NotifHour == nil || *items[1].NotifHour != "20" {
		t.Errorf("items[1].NotifHour = %v, want 20", items[1].NotifHour)
	}

	if gotRequestID != requestID {
		t.Errorf("x-request-id = %q, want %q", gotRequestID, requestID)
	}
}

func TestGetDiscountsStatuses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCount int
		wantErr   bool
	}{
		{name: "unknown user has no items", status: http.StatusNotFound, wantCount: 0},
		{name: "null items", status: http.StatusOK, body: `{"items":null}`, wantCount: 0},
		{name: "server error", status: http.StatusInternalServerError, wantErr: true},
		{name: "malformed body", status: http.StatusOK, body: `{"items":[`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newProfileServer(t, map[string]func(w http.ResponseWriter, r *http.Request){
				"/": func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(tt.body))
				},
			})

			items, err := NewClient(srv.URL).GetDiscounts(context.Background(), "user-1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetDiscounts() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if items == nil {
				t.Fatal("GetDiscounts() returned nil slice")
			}
			if len(items) != tt.wantCount {
				t.Errorf("GetDiscounts() returned %d items, want %d", len(items), tt.wantCount)
			}
		})
	}
}

func TestGetTimePreference(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    domain.TimePreference
		wantErr bool
	}{
		{
			name:   "stored preference",
			status: http.StatusOK,
			body:   `{"hour":"21","min":"30"}`,
			want:   domain.TimePreference{Hour: "21", Min: "30"},
		},
		{
			name:   "never set falls back to default",
			status: http.StatusNotFound,
			want:   domain.DefaultTimePreference(),
		},
		{
			name:    "out of range preference",
			status:  http.StatusOK,
			body:    `{"hour":"25","min":"00"}`,
			wantErr: true,
		},
		{
			name:    "server error",
			status:  http.StatusBadGateway,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newProfileServer(t, map[string]func(w http.ResponseWriter, r *http.Request){
				"GET /api/v1/users/user-1/notification-time": func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(tt.body))
				},
			})

			got, err := NewClient(srv.URL).GetTimePreference(context.Background(), "user-1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetTimePreference() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("GetTimePreference() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
