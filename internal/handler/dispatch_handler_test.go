package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/service/dispatch"
)

func TestHandleDispatch(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{name: "current time", wantStatus: http.StatusOK},
		{name: "virtual time", query: "?from=2025-01-03T01:00:00Z", wantStatus: http.StatusOK},
		{name: "invalid virtual time", query: "?from=tomorrow", wantStatus: http.StatusBadRequest},
		{name: "virtual time equal to now", query: "?from=2025-01-10T01:00:00Z", wantStatus: http.StatusOK},
		{name: "virtual time in the future", query: "?from=2025-01-10T01:00:01Z", wantStatus: http.StatusBadRequest},
		{name: "virtual time days ahead", query: "?from=2025-02-01T00:00:00Z", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// no store or task queue configured, so the pass is skipped
			svc := dispatch.NewService(nil, nil, nil, nil, dispatch.Options{})

			h := NewDispatchHandler(svc)
			h.now = func() time.Time { return time.Date(2025, 1, 10, 1, 0, 0, 0, time.UTC) }

			r := gin.New()
			r.POST("/api/v1/dispatch", h.HandleDispatch)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/dispatch"+tt.query, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var result dispatch.Result
			if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if !result.Skipped {
				t.Error("expected a skipped pass")
			}
		})
	}
}
