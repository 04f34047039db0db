package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"notetree/internal/errs"
)

// serve routes one request through a chi mux so URL parameters resolve.
func serve(t *testing.T, method, pattern, target string, body any, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(data)
	}

	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp.Error
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "validation error",
			err:        &errs.ValidationError{Message: "This note already exists in the target."},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "This note already exists in the target.",
		},
		{
			name:       "wrapped invalid input",
			err:        fmt.Errorf("bad: %w", errs.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid input",
		},
		{
			name:       "not found",
			err:        errs.NotFound("note", "n1"),
			wantStatus: http.StatusNotFound,
			wantMsg:    "note n1: not found",
		},
		{
			name:       "precondition",
			err:        &errs.PreconditionError{Entity: "parent note", ID: "p", Message: "is deleted"},
			wantStatus: http.StatusConflict,
			wantMsg:    "parent note p: is deleted",
		},
		{
			name:       "protected session",
			err:        errs.ErrProtectedSession,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "traversal budget",
			err:        fmt.Errorf("cycle check: %w", errs.ErrTraversalBudget),
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "unknown",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "default message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handleServiceError(w, context.Background(), tt.err, "default message")

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			msg := decodeError(t, w)
			if tt.wantMsg != "" && msg != tt.wantMsg {
				t.Errorf("error = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   bool
		wantField string
	}{
		{name: "valid", body: `{"noteIds":["a","b"]}`},
		{name: "malformed", body: `{`, wantErr: true},
		{name: "missing required", body: `{}`, wantErr: true, wantField: "NoteIDs"},
		{name: "empty element", body: `{"noteIds":["a",""]}`, wantErr: true, wantField: "NoteIDs[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body))
			var dst DisplayRequest
			err := decodeJSON(req, &dst)

			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, errs.ErrInvalidInput) {
				t.Errorf("decodeJSON() error = %v, want ErrInvalidInput", err)
			}
			var ve *errs.ValidationError
			if tt.wantField != "" && (!errors.As(err, &ve) || ve.Field != tt.wantField) {
				t.Errorf("decodeJSON() field = %v, want %q", err, tt.wantField)
			}
		})
	}
}
