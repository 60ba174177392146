package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"homefix/internal/http/handlers"
	"homefix/internal/infra"
	"homefix/internal/middleware"
)

// NewRouter wires the middleware chain and the diagnosis API routes.
func NewRouter(app *handlers.App, logger zerolog.Logger, cfg *infra.Config, lookup middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	r.Use(middleware.Locale(cfg.DefaultLocale, lookup))

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/diagnoses", func(r chi.Router) {
		r.Post("/", app.SubmitDiagnosis)
		r.Post("/{id}/messages", app.AskFollowUp)
		r.Get("/{id}/history", app.GetHistory)
		r.Delete("/{id}", app.CloseDiagnosis)
	})

	r.Route("/v1/diagnosis-draft", func(r chi.Router) {
		r.Put("/", app.SaveDraft)
		r.Get("/", app.GetDraft)
		r.Delete("/", app.DeleteDraft)
	})

	r.Post("/v1/transcriptions", app.Transcribe)

	return r
}
