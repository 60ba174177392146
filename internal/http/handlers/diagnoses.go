package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"homefix/internal/diagnosis"
	"homefix/internal/domain"
	"homefix/internal/middleware"
)

type submitDiagnosisRequest struct {
	Description   string `json:"description"`
	ImageBase64   string `json:"image_base64,omitempty"`
	ImageMIMEType string `json:"image_mime_type,omitempty"`
}

type followUpRequest struct {
	Message string `json:"message"`
}

type diagnosisResponse struct {
	ID      string                       `json:"id"`
	State   diagnosis.State              `json:"state"`
	Result  *domain.DiagnosisResult      `json:"result,omitempty"`
	History []domain.ConversationMessage `json:"history"`
}

// SubmitDiagnosis opens a new diagnosis session for the capture and runs the
// initial analysis. The response always carries a result: provider failures
// are absorbed into the documented fallback.
func (a *App) SubmitDiagnosis(w http.ResponseWriter, r *http.Request) {
	var req submitDiagnosisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "description required")
		return
	}
	var image []byte
	if req.ImageBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "image_base64 is not valid base64")
			return
		}
		image = decoded
	}

	session := a.Sessions.Create(middleware.LocaleFromContext(r.Context()))
	result, err := session.Submit(r.Context(), domain.DiagnosisRequest{
		ImageData:   image,
		ImageMIME:   req.ImageMIMEType,
		Description: req.Description,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, diagnosisResponse{
		ID:      session.ID,
		State:   session.State(),
		Result:  result,
		History: session.History(),
	})
}

// AskFollowUp relays one follow-up question to the session's conversation.
// Failures leave the question in the history and are surfaced so the client
// can offer a retry.
func (a *App) AskFollowUp(w http.ResponseWriter, r *http.Request) {
	session, err := a.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	var req followUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	reply, err := session.AskFollowUp(r.Context(), req.Message)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"reply":   reply,
		"history": session.History(),
	})
}

// GetHistory returns a read-only snapshot of the conversation.
func (a *App) GetHistory(w http.ResponseWriter, r *http.Request) {
	session, err := a.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, diagnosisResponse{
		ID:      session.ID,
		State:   session.State(),
		Result:  session.Result(),
		History: session.History(),
	})
}

// CloseDiagnosis ends the session's conversation. Its history stays readable
// until the session expires.
func (a *App) CloseDiagnosis(w http.ResponseWriter, r *http.Request) {
	if err := a.Sessions.Close(chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
