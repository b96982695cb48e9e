package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zakahfir/microflow-ai/internal/domain/quote"
	"github.com/zakahfir/microflow-ai/internal/domain/quote/pdf"
	"github.com/zakahfir/microflow-ai/internal/extract"
	"github.com/zakahfir/microflow-ai/internal/llm"
	"github.com/zakahfir/microflow-ai/internal/workflow"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) Text(path string) (string, error) { return f.text, f.err }

type fakeStructurer struct {
	quote quote.Quote
	err   error
}

func (f fakeStructurer) Structure(ctx context.Context, rawText string) (quote.Quote, error) {
	return f.quote, f.err
}

type fakeGenerator struct {
	out []byte
	err error
}

func (f fakeGenerator) Generate(q quote.Quote) ([]byte, error) { return f.out, f.err }

func testHandlers() *Handlers {
	return &Handlers{
		Extractor: fakeExtractor{text: "DEVIS FOURNISSEUR"},
		Structurer: fakeStructurer{quote: quote.Quote{
			ClientName: "M. Dupont",
			Lines: []quote.Line{
				{Description: "Pompe", Quantity: quote.Num(2), UnitPrice: quote.Num(100), LineTotal: quote.Num(200)},
			},
		}},
		Generator: fakeGenerator{out: []byte("%PDF-1.4 fake")},
		Sessions:  workflow.NewStore(),
	}
}

func TestStructureDevis(t *testing.T) {
	h := testHandlers()
	body := `{"raw_text": "DEVIS FOURNISSEUR n° 42"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/devis/structure", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.StructureDevis(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var wire quote.WireQuote
	if err := json.Unmarshal(rec.Body.Bytes(), &wire); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if wire.ClientName == nil || *wire.ClientName != "M. Dupont" {
		t.Errorf("nom_client = %v", wire.ClientName)
	}
	if wire.TotalHT == nil || *wire.TotalHT != 200 {
		t.Errorf("total_ht = %v", wire.TotalHT)
	}
}

func TestStructureDevisMissingText(t *testing.T) {
	h := testHandlers()
	req := httptest.NewRequest(http.MethodPost, "/v1/devis/structure", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.StructureDevis(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateDevis(t *testing.T) {
	h := testHandlers()
	body := `{
		"devis": {
			"nom_client": "M. Dupont",
			"lignes_articles": [
				{"description": "Pompe", "quantite": 2, "prix_unitaire_ht": 100, "total_ligne_ht": 200}
			]
		},
		"marge_pourcentage": 30,
		"main_oeuvre": {"description": "Main d'œuvre", "heures": 8, "taux_horaire": 50}
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/devis/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.GenerateDevis(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Devis_Client_") {
		t.Errorf("content disposition = %q", cd)
	}
	if !bytes.Equal(rec.Body.Bytes(), []byte("%PDF-1.4 fake")) {
		t.Errorf("body = %q", rec.Body)
	}
}

func TestGenerateDevisNegativeAdjustments(t *testing.T) {
	h := testHandlers()
	body := `{"devis": {}, "marge_pourcentage": -5}`
	req := httptest.NewRequest(http.MethodPost, "/v1/devis/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.GenerateDevis(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestStageErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"extraction failed", extract.ErrExtractionFailed, http.StatusUnprocessableEntity},
		{"backend timeout", fmt.Errorf("%w: cause", llm.ErrBackendTimeout), http.StatusGatewayTimeout},
		{"backend unavailable", llm.ErrBackendUnavailable, http.StatusBadGateway},
		{"no json", llm.ErrNoJSONFound, http.StatusBadGateway},
		{"malformed json", llm.ErrMalformedJSON, http.StatusBadGateway},
		{"rendering failed", pdf.ErrRenderingFailed, http.StatusInternalServerError},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeStageError(rec, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestStructureDevisBackendDown(t *testing.T) {
	h := testHandlers()
	h.Structurer = fakeStructurer{err: llm.ErrBackendUnavailable}
	req := httptest.NewRequest(http.MethodPost, "/v1/devis/structure",
		strings.NewReader(`{"raw_text": "texte"}`))
	rec := httptest.NewRecorder()
	h.StructureDevis(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func multipartUpload(t *testing.T, sessionID string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "devis.pdf")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte("%PDF-1.4 uploaded")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if sessionID != "" {
		if err := mw.WriteField("session_id", sessionID); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestExtractDevis(t *testing.T) {
	h := testHandlers()
	body, contentType := multipartUpload(t, "s0")
	req := httptest.NewRequest(http.MethodPost, "/v1/devis/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.ExtractDevis(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["raw_text"] != "DEVIS FOURNISSEUR" {
		t.Errorf("raw_text = %q", resp["raw_text"])
	}
	if got := h.Sessions.Get("s0").State(); got != workflow.StateEdit {
		t.Errorf("session state = %s, want %s", got, workflow.StateEdit)
	}
}

func TestExtractDevisNoFile(t *testing.T) {
	h := testHandlers()
	req := httptest.NewRequest(http.MethodPost, "/v1/devis/extract", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ExtractDevis(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestProcessDevis(t *testing.T) {
	h := testHandlers()
	body, contentType := multipartUpload(t, "")
	req := httptest.NewRequest(http.MethodPost, "/v1/devis/process", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.ProcessDevis(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
}

func TestRestartSession(t *testing.T) {
	h := testHandlers()
	wf := h.Sessions.Get("s1")
	if err := wf.Fire(workflow.FileAccepted); err != nil {
		t.Fatalf("Fire: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/devis/restart",
		strings.NewReader(`{"session_id": "s1"}`))
	rec := httptest.NewRecorder()
	h.RestartSession(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if got := h.Sessions.Get("s1").State(); got != workflow.StateUpload {
		t.Errorf("state = %s, want %s", got, workflow.StateUpload)
	}
}

func TestRestartSessionInvalidState(t *testing.T) {
	h := testHandlers()
	// fresh session is already at upload, restart is not a valid move
	req := httptest.NewRequest(http.MethodPost, "/v1/devis/restart",
		strings.NewReader(`{"session_id": "s2"}`))
	rec := httptest.NewRecorder()
	h.RestartSession(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}
