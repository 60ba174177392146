package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"homefix/internal/diagnosis"
	"homefix/internal/domain"
	"homefix/internal/providers/transcribe"
	"homefix/internal/storage"
)

// App bundles the dependencies the HTTP handlers need.
type App struct {
	Logger      zerolog.Logger
	Sessions    *diagnosis.Manager
	Drafts      domain.DraftRepository
	Files       *storage.FileStore
	Transcriber transcribe.Transcriber
}

// NewApp constructs the handler container.
func NewApp(logger zerolog.Logger, sessions *diagnosis.Manager, drafts domain.DraftRepository, files *storage.FileStore, transcriber transcribe.Transcriber) *App {
	return &App{
		Logger:      logger,
		Sessions:    sessions,
		Drafts:      drafts,
		Files:       files,
		Transcriber: transcriber,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"error": code, "message": message})
}

// domainError maps the error taxonomy onto HTTP responses: validation and
// state errors are client faults, provider transport/parse failures are
// upstream faults the client may retry.
func (a *App) domainError(w http.ResponseWriter, err error) {
	var transportErr *domain.TransportError
	var parseErr *domain.ParseError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		a.error(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "no such resource")
	case errors.As(err, &transportErr), errors.As(err, &parseErr):
		a.error(w, http.StatusBadGateway, "upstream_error", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("handlers: unexpected error")
		a.error(w, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
