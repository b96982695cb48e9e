package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/zakahfir/microflow-ai/internal/domain/quote/pdf"
	"github.com/zakahfir/microflow-ai/internal/extract"
	"github.com/zakahfir/microflow-ai/internal/llm"
)

// writeStageError maps a pipeline failure onto a distinct status and a
// human-readable message, so the front end can tell a bad document from a
// flaky backend. Nothing from the pipeline reaches the client as a raw 500.
func writeStageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, extract.ErrExtractionFailed):
		http.Error(w, "Impossible d'extraire le texte de ce PDF.", http.StatusUnprocessableEntity)
	case errors.Is(err, llm.ErrBackendTimeout):
		http.Error(w, "Le service IA n'a pas répondu à temps. Veuillez réessayer.", http.StatusGatewayTimeout)
	case errors.Is(err, llm.ErrBackendUnavailable):
		http.Error(w, "Erreur de communication avec le service IA.", http.StatusBadGateway)
	case errors.Is(err, llm.ErrNoJSONFound):
		http.Error(w, "L'IA n'a renvoyé aucune donnée structurée. Veuillez réessayer.", http.StatusBadGateway)
	case errors.Is(err, llm.ErrMalformedJSON):
		http.Error(w, "L'IA a renvoyé des données illisibles. Veuillez réessayer.", http.StatusBadGateway)
	case errors.Is(err, pdf.ErrRenderingFailed):
		http.Error(w, "Erreur lors de la création du PDF.", http.StatusInternalServerError)
	default:
		log.Printf("handlers: unexpected error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
