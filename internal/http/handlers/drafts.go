package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"homefix/internal/domain"
)

type saveDraftRequest struct {
	Description   string `json:"description"`
	ImageBase64   string `json:"image_base64,omitempty"`
	ImageMIMEType string `json:"image_mime_type,omitempty"`
}

type draftResponse struct {
	Description string `json:"description"`
	ImageBase64 string `json:"image_base64,omitempty"`
	UpdatedAt   string `json:"updated_at"`
}

func deviceID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Device-ID"))
}

// SaveDraft stores the device's single resumable capture so an interrupted
// session can be picked up again.
func (a *App) SaveDraft(w http.ResponseWriter, r *http.Request) {
	device := deviceID(r)
	if device == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "X-Device-ID header required")
		return
	}
	var req saveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Description) == "" && req.ImageBase64 == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "draft is empty")
		return
	}

	var imageKey string
	if req.ImageBase64 != "" {
		image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "image_base64 is not valid base64")
			return
		}
		key, err := a.Files.Write(r.Context(), "drafts/"+device+"/photo", image)
		if err != nil {
			a.Logger.Error().Err(err).Msg("handlers: store draft photo")
			a.error(w, http.StatusInternalServerError, "internal_error", "could not store draft photo")
			return
		}
		imageKey = key
	}

	draft := &domain.DiagnosisDraft{
		DeviceID:    device,
		Description: req.Description,
		ImageKey:    imageKey,
	}
	if err := a.Drafts.Upsert(r.Context(), draft); err != nil {
		a.Logger.Error().Err(err).Msg("handlers: save draft")
		a.error(w, http.StatusInternalServerError, "internal_error", "could not save draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetDraft returns the device's saved draft, including the stored photo.
func (a *App) GetDraft(w http.ResponseWriter, r *http.Request) {
	device := deviceID(r)
	if device == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "X-Device-ID header required")
		return
	}
	draft, err := a.Drafts.GetByDeviceID(r.Context(), device)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "no draft saved")
			return
		}
		a.Logger.Error().Err(err).Msg("handlers: load draft")
		a.error(w, http.StatusInternalServerError, "internal_error", "could not load draft")
		return
	}
	resp := draftResponse{
		Description: draft.Description,
		UpdatedAt:   draft.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if draft.ImageKey != "" {
		if image, err := a.Files.Read(r.Context(), draft.ImageKey); err == nil {
			resp.ImageBase64 = base64.StdEncoding.EncodeToString(image)
		}
	}
	a.json(w, http.StatusOK, resp)
}

// DeleteDraft discards the device's draft and its stored photo.
func (a *App) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	device := deviceID(r)
	if device == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "X-Device-ID header required")
		return
	}
	draft, err := a.Drafts.GetByDeviceID(r.Context(), device)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		a.Logger.Error().Err(err).Msg("handlers: load draft for delete")
		a.error(w, http.StatusInternalServerError, "internal_error", "could not delete draft")
		return
	}
	if draft != nil && draft.ImageKey != "" {
		_ = a.Files.Delete(r.Context(), draft.ImageKey)
	}
	if err := a.Drafts.Delete(r.Context(), device); err != nil {
		a.Logger.Error().Err(err).Msg("handlers: delete draft")
		a.error(w, http.StatusInternalServerError, "internal_error", "could not delete draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
