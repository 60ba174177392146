package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

type transcriptionRequest struct {
	AudioBase64 string `json:"audio_base64"`
	MIMEType    string `json:"mime_type,omitempty"`
}

// Transcribe converts a recorded problem description into text so it can seed
// a diagnosis submission.
func (a *App) Transcribe(w http.ResponseWriter, r *http.Request) {
	if a.Transcriber == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "transcription is not configured")
		return
	}
	var req transcriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.AudioBase64 == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "audio_base64 required")
		return
	}
	audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "audio_base64 is not valid base64")
		return
	}
	transcript, err := a.Transcriber.Transcribe(r.Context(), audio, req.MIMEType)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"transcript": transcript})
}
