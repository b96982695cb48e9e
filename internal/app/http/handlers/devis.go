package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/zakahfir/microflow-ai/internal/domain/quote"
	"github.com/zakahfir/microflow-ai/internal/pipeline"
	"github.com/zakahfir/microflow-ai/internal/workflow"
)

const maxUploadBytes = 20 << 20

// ExtractDevis takes a supplier PDF upload and returns its raw text.
// The upload is staged in an exclusively-owned temp file that is always
// removed, whatever the outcome.
func (h *Handlers) ExtractDevis(w http.ResponseWriter, r *http.Request) {
	path, cleanup, err := h.saveUpload(r)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	defer cleanup()

	rawText, err := h.Extractor.Text(path)
	if err != nil {
		writeStageError(w, err)
		return
	}

	h.fireSession(r.FormValue("session_id"), workflow.FileAccepted)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"raw_text": rawText})
}

type structureRequest struct {
	RawText string `json:"raw_text"`
}

// StructureDevis sends raw text through the structuring client and returns
// the quote in the wire schema.
func (h *Handlers) StructureDevis(w http.ResponseWriter, r *http.Request) {
	var req structureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.RawText == "" {
		http.Error(w, "raw_text is required", http.StatusBadRequest)
		return
	}

	q, err := h.Structurer.Structure(r.Context(), req.RawText)
	if err != nil {
		writeStageError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(quote.ToWire(q))
}

type laborRequest struct {
	Description string  `json:"description"`
	Hours       float64 `json:"heures"`
	HourlyRate  float64 `json:"taux_horaire"`
}

type generateRequest struct {
	SessionID     string         `json:"session_id,omitempty"`
	Devis         map[string]any `json:"devis"`
	MarginPercent *float64       `json:"marge_pourcentage"`
	Labor         *laborRequest  `json:"main_oeuvre"`
}

// GenerateDevis applies the adjustments to a structured quote and streams
// back the rendered client PDF.
func (h *Handlers) GenerateDevis(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.Devis == nil {
		http.Error(w, "devis is required", http.StatusBadRequest)
		return
	}

	adj := adjustmentsFromRequest(req)
	if adj.MarginPercent < 0 || adj.Labor.Hours < 0 || adj.Labor.HourlyRate < 0 {
		http.Error(w, "adjustments must be >= 0", http.StatusBadRequest)
		return
	}

	adjusted := quote.Apply(quote.Normalize(req.Devis), adj)

	pdfBytes, err := h.Generator.Generate(adjusted)
	if err != nil {
		writeStageError(w, err)
		return
	}

	h.fireSession(req.SessionID, workflow.AdjustmentsSubmitted)

	filename := pipeline.OutputFilename(time.Now())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

// ProcessDevis is the one-shot path: upload in, adjusted client PDF out.
func (h *Handlers) ProcessDevis(w http.ResponseWriter, r *http.Request) {
	path, cleanup, err := h.saveUpload(r)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	defer cleanup()

	adj := quote.DefaultAdjustments()
	if v := r.FormValue("marge_pourcentage"); v != "" {
		if _, err := fmt.Sscanf(v, "%f", &adj.MarginPercent); err != nil || adj.MarginPercent < 0 {
			http.Error(w, "invalid marge_pourcentage", http.StatusBadRequest)
			return
		}
	}

	rawText, err := h.Extractor.Text(path)
	if err != nil {
		writeStageError(w, err)
		return
	}
	q, err := h.Structurer.Structure(r.Context(), rawText)
	if err != nil {
		writeStageError(w, err)
		return
	}
	adjusted := quote.Apply(q, adj)
	pdfBytes, err := h.Generator.Generate(adjusted)
	if err != nil {
		writeStageError(w, err)
		return
	}

	filename := pipeline.OutputFilename(time.Now())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

type restartRequest struct {
	SessionID string `json:"session_id"`
}

// RestartSession resets a front-end session back to the upload step.
func (h *Handlers) RestartSession(w http.ResponseWriter, r *http.Request) {
	var req restartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}
	wf := h.Sessions.Get(req.SessionID)
	if err := wf.Fire(workflow.RestartRequested); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"state": string(wf.State())})
}

func adjustmentsFromRequest(req generateRequest) quote.Adjustments {
	adj := quote.DefaultAdjustments()
	if req.MarginPercent != nil {
		adj.MarginPercent = *req.MarginPercent
	}
	if req.Labor != nil {
		adj.Labor = quote.Labor{
			Description: req.Labor.Description,
			Hours:       req.Labor.Hours,
			HourlyRate:  req.Labor.HourlyRate,
		}
	}
	return adj
}

// fireSession advances the workflow when the caller tracks a session.
// A missing session id means a stateless API client; that is fine.
func (h *Handlers) fireSession(sessionID string, ev workflow.Event) {
	if sessionID == "" {
		return
	}
	if err := h.Sessions.Get(sessionID).Fire(ev); err != nil {
		log.Printf("workflow session=%s event=%s rejected: %v", sessionID, ev, err)
	}
}

// saveUpload stages the multipart "file" part into a temp file. The returned
// cleanup must run regardless of how the request ends.
func (h *Handlers) saveUpload(r *http.Request) (string, func(), error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", nil, err
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "devis-upload-*.pdf")
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(tmp, io.LimitReader(file, maxUploadBytes)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}
	name := tmp.Name()
	return name, func() { os.Remove(name) }, nil
}
