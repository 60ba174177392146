package handlers_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"homefix/internal/domain"
	"homefix/internal/http/handlers"
	"homefix/internal/storage"
)

type memDraftRepo struct {
	drafts map[string]domain.DiagnosisDraft
}

func newMemDraftRepo() *memDraftRepo {
	return &memDraftRepo{drafts: make(map[string]domain.DiagnosisDraft)}
}

func (m *memDraftRepo) Upsert(ctx context.Context, draft *domain.DiagnosisDraft) error {
	stored := *draft
	stored.UpdatedAt = time.Now()
	m.drafts[draft.DeviceID] = stored
	return nil
}

func (m *memDraftRepo) GetByDeviceID(ctx context.Context, deviceID string) (*domain.DiagnosisDraft, error) {
	draft, ok := m.drafts[deviceID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &draft, nil
}

func (m *memDraftRepo) Delete(ctx context.Context, deviceID string) error {
	delete(m.drafts, deviceID)
	return nil
}

func newDraftApp(t *testing.T) (*handlers.App, *memDraftRepo) {
	t.Helper()
	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	repo := newMemDraftRepo()
	app := handlers.NewApp(zerolog.New(io.Discard), nil, repo, files, nil)
	return app, repo
}

func TestSaveAndGetDraftRoundTrip(t *testing.T) {
	app, _ := newDraftApp(t)
	image := []byte{0xff, 0xd8, 0xff}

	body := `{"description":"water stain on ceiling","image_base64":"` +
		base64.StdEncoding.EncodeToString(image) + `"}`
	req := httptest.NewRequest(http.MethodPut, "/v1/diagnosis-draft", strings.NewReader(body))
	req.Header.Set("X-Device-ID", "device-1")
	rec := httptest.NewRecorder()
	app.SaveDraft(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("save status = %d, want 204", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/diagnosis-draft", nil)
	req.Header.Set("X-Device-ID", "device-1")
	rec = httptest.NewRecorder()
	app.GetDraft(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var resp struct {
		Description string `json:"description"`
		ImageBase64 string `json:"image_base64"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Description != "water stain on ceiling" {
		t.Fatalf("description = %q", resp.Description)
	}
	if resp.ImageBase64 != base64.StdEncoding.EncodeToString(image) {
		t.Fatal("stored photo does not round-trip")
	}
}

func TestSaveDraftRequiresDeviceID(t *testing.T) {
	app, _ := newDraftApp(t)
	req := httptest.NewRequest(http.MethodPut, "/v1/diagnosis-draft", strings.NewReader(`{"description":"x"}`))
	rec := httptest.NewRecorder()
	app.SaveDraft(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSaveDraftRejectsEmptyDraft(t *testing.T) {
	app, _ := newDraftApp(t)
	req := httptest.NewRequest(http.MethodPut, "/v1/diagnosis-draft", strings.NewReader(`{}`))
	req.Header.Set("X-Device-ID", "device-1")
	rec := httptest.NewRecorder()
	app.SaveDraft(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetDraftNotFound(t *testing.T) {
	app, _ := newDraftApp(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/diagnosis-draft", nil)
	req.Header.Set("X-Device-ID", "device-2")
	rec := httptest.NewRecorder()
	app.GetDraft(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteDraftRemovesRecordAndPhoto(t *testing.T) {
	app, repo := newDraftApp(t)
	body := `{"description":"cracked tile","image_base64":"` +
		base64.StdEncoding.EncodeToString([]byte{1, 2}) + `"}`
	req := httptest.NewRequest(http.MethodPut, "/v1/diagnosis-draft", strings.NewReader(body))
	req.Header.Set("X-Device-ID", "device-3")
	rec := httptest.NewRecorder()
	app.SaveDraft(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("save status = %d, want 204", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/v1/diagnosis-draft", nil)
	req.Header.Set("X-Device-ID", "device-3")
	rec = httptest.NewRecorder()
	app.DeleteDraft(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	if _, ok := repo.drafts["device-3"]; ok {
		t.Fatal("draft record still present after delete")
	}
}
