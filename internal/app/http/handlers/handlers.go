package handlers

import (
	"github.com/zakahfir/microflow-ai/internal/app/config"
	"github.com/zakahfir/microflow-ai/internal/domain/quote/pdf"
	pdfgen "github.com/zakahfir/microflow-ai/internal/domain/quote/pdf/gofpdf"
	"github.com/zakahfir/microflow-ai/internal/extract"
	"github.com/zakahfir/microflow-ai/internal/infra/db/postgres"
	"github.com/zakahfir/microflow-ai/internal/leads"
	"github.com/zakahfir/microflow-ai/internal/llm"
	"github.com/zakahfir/microflow-ai/internal/pipeline"
	"github.com/zakahfir/microflow-ai/internal/workflow"
)

type Handlers struct {
	Cfg        config.Config
	Extractor  pipeline.Extractor
	Structurer pipeline.Structurer
	Generator  pdf.Generator
	Leads      *leads.Service
	Sessions   *workflow.Store
}

func New(cfg config.Config, db *postgres.DB, backend llm.Backend) *Handlers {
	h := &Handlers{
		Cfg:        cfg,
		Extractor:  extract.New(),
		Structurer: llm.NewStructurer(backend, cfg.LLMTimeout, cfg.MaxPromptChars),
		Generator:  pdfgen.New(cfg.FontDir),
		Sessions:   workflow.NewStore(),
	}
	if db != nil {
		h.Leads = leads.New(db)
	}
	return h
}
