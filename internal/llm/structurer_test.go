package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeBackend struct {
	output string
	err    error
}

func (f fakeBackend) Complete(ctx context.Context, prompt string) (string, error) {
	return f.output, f.err
}

// slowBackend never answers before the call deadline.
type slowBackend struct{}

func (slowBackend) Complete(ctx context.Context, prompt string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestStructureSuccess(t *testing.T) {
	out := "```json\n" + `{
		"nom_client": "M. Jean Dupont",
		"date_devis": "25/08/2025",
		"numero_devis": "DEV-2025-042",
		"lignes_articles": [
			{"description": "Chaudière Frisquet", "quantite": 1, "prix_unitaire_ht": 3500.00, "total_ligne_ht": 3500.00},
			{"description": "Tube cuivre diam. 14", "quantite": 12, "prix_unitaire_ht": 8.50, "total_ligne_ht": 102.00}
		],
		"total_ht": 3602.00,
		"total_ttc": 4322.40
	}` + "\n```"

	s := NewStructurer(fakeBackend{output: out}, time.Second, 0)
	q, err := s.Structure(context.Background(), "DEVIS FOURNISSEUR ...")
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}
	if q.ClientName != "M. Jean Dupont" {
		t.Errorf("ClientName = %q", q.ClientName)
	}
	if len(q.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(q.Lines))
	}
	if q.Lines[0].UnitPrice.Value != 3500 || !q.Lines[0].UnitPrice.Valid {
		t.Errorf("line 0 unit price = %+v", q.Lines[0].UnitPrice)
	}
	if q.Lines[1].LineTotal.Value != 102 {
		t.Errorf("line 1 total = %+v", q.Lines[1].LineTotal)
	}
}

func TestStructureErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		backend Backend
		want    error
	}{
		{"backend down", fakeBackend{err: errors.New("connection refused")}, ErrBackendUnavailable},
		{"sentinel passthrough", fakeBackend{err: ErrBackendUnavailable}, ErrBackendUnavailable},
		{"no json", fakeBackend{output: "je ne peux pas"}, ErrNoJSONFound},
		{"empty output", fakeBackend{output: ""}, ErrNoJSONFound},
		{"malformed json", fakeBackend{output: `{"nom_client": }`}, ErrMalformedJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStructurer(tt.backend, time.Second, 0)
			_, err := s.Structure(context.Background(), "texte")
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStructureTimeout(t *testing.T) {
	s := NewStructurer(slowBackend{}, 20*time.Millisecond, 0)
	_, err := s.Structure(context.Background(), "texte")
	if !errors.Is(err, ErrBackendTimeout) {
		t.Errorf("err = %v, want ErrBackendTimeout", err)
	}
}
