package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/zakahfir/microflow-ai/internal/leads"
)

type leadRequest struct {
	Name       string `json:"prenom"`
	Email      string `json:"email"`
	Profession string `json:"metier"`
}

// CaptureLead upserts one mailing-list entry, keyed by email.
func (h *Handlers) CaptureLead(w http.ResponseWriter, r *http.Request) {
	var req leadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	err := h.Leads.Upsert(r.Context(), leads.Lead{
		Name:       req.Name,
		Email:      req.Email,
		Profession: req.Profession,
	})
	if err != nil {
		log.Printf("leads: upsert failed: %v", err)
		http.Error(w, "Veuillez entrer une adresse email valide.", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportLeads streams the mailing list as an Excel workbook.
func (h *Handlers) ExportLeads(w http.ResponseWriter, r *http.Request) {
	data, err := h.Leads.ExportXLSX(r.Context())
	if err != nil {
		log.Printf("leads: export failed: %v", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="beta_users.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
