package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		ping       error
		wantStatus int
		wantState  string
	}{
		{name: "healthy", method: http.MethodGet, wantStatus: http.StatusOK, wantState: "healthy"},
		{name: "database down", method: http.MethodGet, ping: errors.New("closed"), wantStatus: http.StatusServiceUnavailable, wantState: "unhealthy"},
		{name: "method not allowed", method: http.MethodPost, wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(pingFunc(func(context.Context) error { return tt.ping }))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, "/api/health", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantState == "" {
				return
			}
			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if resp.Status != tt.wantState {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantState)
			}
		})
	}
}
