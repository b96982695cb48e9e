package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zakahfir/microflow-ai/internal/app/config"
	"github.com/zakahfir/microflow-ai/internal/app/http/handlers"
	"github.com/zakahfir/microflow-ai/internal/app/http/middleware"
	"github.com/zakahfir/microflow-ai/internal/infra/db/postgres"
	"github.com/zakahfir/microflow-ai/internal/llm"
)

func NewRouter(cfg config.Config, db *postgres.DB, backend llm.Backend) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logging)

	h := handlers.New(cfg, db, backend)

	r.Get("/health", h.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.InternalAuth(cfg.InternalToken))

			r.Post("/devis/extract", h.ExtractDevis)
			r.Post("/devis/structure", h.StructureDevis)
			r.Post("/devis/generate", h.GenerateDevis)
			r.Post("/devis/process", h.ProcessDevis)
			r.Post("/devis/restart", h.RestartSession)

			if h.Leads != nil {
				r.Post("/leads", h.CaptureLead)
				r.Get("/leads/export.xlsx", h.ExportLeads)
			}
		})
	})

	return r
}
