package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"notetree/internal/errs"
	"notetree/internal/revisions"
	"notetree/internal/service/mocks"
	"notetree/internal/storage"
)

func revisionView(noteID string, typ storage.NoteType, mime, content string) *revisions.View {
	return &revisions.View{
		Revision: &storage.Revision{
			RevisionID:     "r1",
			NoteID:         noteID,
			Type:           typ,
			Mime:           mime,
			Title:          "Draft",
			UtcDateCreated: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		Content: content,
	}
}

func TestRevisionHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockRevisionService(ctrl)
	h := NewRevisionHandler(m)

	m.EXPECT().List(gomock.Any(), "n1").Return([]*storage.Revision{
		{RevisionID: "r2", NoteID: "n1", Type: storage.NoteTypeText},
		{RevisionID: "r1", NoteID: "n1", Type: storage.NoteTypeText},
	}, nil)

	w := serve(t, http.MethodGet, "/notes/{noteId}/revisions", "/notes/n1/revisions", nil, h.List)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got []RevisionResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(got) != 2 || got[0].RevisionID != "r2" {
		t.Errorf("revisions = %+v", got)
	}
}

func TestRevisionHandler_Get(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		mockSetup  func(*mocks.MockRevisionService)
		wantStatus int
	}{
		{
			name: "found",
			path: "/notes/n1/revisions/r1",
			mockSetup: func(m *mocks.MockRevisionService) {
				m.EXPECT().Get(gomock.Any(), "r1").Return(revisionView("n1", storage.NoteTypeText, "text/html", "<p>x</p>"), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "belongs to another note",
			path: "/notes/other/revisions/r1",
			mockSetup: func(m *mocks.MockRevisionService) {
				m.EXPECT().Get(gomock.Any(), "r1").Return(revisionView("n1", storage.NoteTypeText, "text/html", ""), nil)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "unknown",
			path: "/notes/n1/revisions/r1",
			mockSetup: func(m *mocks.MockRevisionService) {
				m.EXPECT().Get(gomock.Any(), "r1").Return(nil, errs.NotFound("revision", "r1"))
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := mocks.NewMockRevisionService(ctrl)
			tt.mockSetup(m)
			h := NewRevisionHandler(m)

			w := serve(t, http.MethodGet, "/notes/{noteId}/revisions/{revisionId}", tt.path, nil, h.Get)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if w.Code != http.StatusOK {
				return
			}
			var got RevisionResponse
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if got.Content != "<p>x</p>" || got.UtcDateCreated != "2024-03-01T12:00:00Z" {
				t.Errorf("response = %+v", got)
			}
		})
	}
}

func TestRevisionHandler_Preview(t *testing.T) {
	tests := []struct {
		name         string
		view         *revisions.View
		wantContains string
	}{
		{
			name:         "markdown rendered",
			view:         revisionView("n1", storage.NoteTypeCode, "text/x-markdown", "# Heading\n\n**bold**"),
			wantContains: "<strong>bold</strong>",
		},
		{
			name:         "text passed through",
			view:         revisionView("n1", storage.NoteTypeText, "text/html", "<p>hello</p>"),
			wantContains: "<p>hello</p>",
		},
		{
			name:         "code escaped",
			view:         revisionView("n1", storage.NoteTypeCode, "application/javascript", "a < b"),
			wantContains: "<pre>a &lt; b</pre>",
		},
		{
			name:         "image inlined",
			view:         revisionView("n1", storage.NoteTypeImage, "image/png", "iVBO"),
			wantContains: `src="data:image/png;base64,iVBO"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := mocks.NewMockRevisionService(ctrl)
			m.EXPECT().Get(gomock.Any(), "r1").Return(tt.view, nil)
			h := NewRevisionHandler(m)

			w := serve(t, http.MethodGet, "/notes/{noteId}/revisions/{revisionId}/preview", "/notes/n1/revisions/r1/preview", nil, h.Preview)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("Content-Type = %q", ct)
			}
			if body := w.Body.String(); !strings.Contains(body, tt.wantContains) {
				t.Errorf("body does not contain %q:\n%s", tt.wantContains, body)
			}
		})
	}
}

func TestRevisionHandler_Download(t *testing.T) {
	tests := []struct {
		name       string
		mockSetup  func(*mocks.MockRevisionService)
		wantStatus int
	}{
		{
			name: "served as file",
			mockSetup: func(m *mocks.MockRevisionService) {
				m.EXPECT().Download(gomock.Any(), "n1", "r1").
					Return(&revisions.Download{Filename: "Draft-20240301_120000.html", Mime: "text/html", Content: []byte("<p>x</p>")}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "protected without session",
			mockSetup: func(m *mocks.MockRevisionService) {
				m.EXPECT().Download(gomock.Any(), "n1", "r1").Return(nil, errs.ErrProtectedSession)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong note",
			mockSetup: func(m *mocks.MockRevisionService) {
				m.EXPECT().Download(gomock.Any(), "n1", "r1").
					Return(nil, &errs.ValidationError{Field: "revisionId", Message: "revision r1 does not belong to note n1"})
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := mocks.NewMockRevisionService(ctrl)
			tt.mockSetup(m)
			h := NewRevisionHandler(m)

			w := serve(t, http.MethodGet, "/notes/{noteId}/revisions/{revisionId}/download", "/notes/n1/revisions/r1/download", nil, h.Download)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if w.Code != http.StatusOK {
				return
			}
			if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="Draft-20240301_120000.html"`) {
				t.Errorf("Content-Disposition = %q", cd)
			}
			if w.Body.String() != "<p>x</p>" {
				t.Errorf("body = %q", w.Body.String())
			}
		})
	}
}

func TestRevisionHandler_Erase(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockRevisionService(ctrl)
	h := NewRevisionHandler(m)

	m.EXPECT().Get(gomock.Any(), "r1").Return(revisionView("n1", storage.NoteTypeText, "text/html", ""), nil)
	m.EXPECT().Erase(gomock.Any(), "r1").Return(true, nil)
	w := serve(t, http.MethodDelete, "/notes/{noteId}/revisions/{revisionId}", "/notes/n1/revisions/r1", nil, h.Erase)
	if w.Code != http.StatusNoContent {
		t.Errorf("erase status = %d, want %d", w.Code, http.StatusNoContent)
	}

	m.EXPECT().EraseAll(gomock.Any(), "n1").Return(2, errors.New("revision r9: locked"))
	w = serve(t, http.MethodDelete, "/notes/{noteId}/revisions", "/notes/n1/revisions", nil, h.EraseAll)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("erase-all failure status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	m.EXPECT().EraseAll(gomock.Any(), "n1").Return(3, nil)
	w = serve(t, http.MethodDelete, "/notes/{noteId}/revisions", "/notes/n1/revisions", nil, h.EraseAll)
	var got EraseAllResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if got.Erased != 3 {
		t.Errorf("erased = %d, want 3", got.Erased)
	}
}

func TestRevisionHandler_Snapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockRevisionService(ctrl)
	h := NewRevisionHandler(m)

	m.EXPECT().Snapshot(gomock.Any(), "n1").Return(&storage.Revision{RevisionID: "r5", NoteID: "n1"}, nil)
	w := serve(t, http.MethodPost, "/notes/{noteId}/revisions", "/notes/n1/revisions", nil, h.Snapshot)
	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
}
