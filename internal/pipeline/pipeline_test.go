package pipeline

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zakahfir/microflow-ai/internal/domain/quote"
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

func TestProcess(t *testing.T) {
	supplier := quote.Quote{
		ClientName: "M. Dupont",
		Lines: []quote.Line{
			{Description: "Chaudière", Quantity: quote.Num(1), UnitPrice: quote.Num(2500), LineTotal: quote.Num(2500)},
		},
	}
	r := &Runner{
		Extractor:  fakeExtractor{text: "DEVIS FOURNISSEUR"},
		Structurer: fakeStructurer{quote: supplier},
		Generator:  fakeGenerator{out: []byte("%PDF-1.4 fake")},
	}
	adj := quote.Adjustments{
		MarginPercent: 30,
		Labor:         quote.Labor{Description: "Main d'œuvre", Hours: 5, HourlyRate: 50},
	}

	outDir := t.TempDir()
	res, err := r.Process(context.Background(), "devis.pdf", adj, outDir)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	// 2500 * 1.30 + 5 * 50
	if math.Abs(res.TotalHT-3500) > 1e-9 {
		t.Errorf("TotalHT = %v, want 3500", res.TotalHT)
	}
	if math.Abs(res.TotalTTC-4200) > 1e-9 {
		t.Errorf("TotalTTC = %v, want 4200", res.TotalTTC)
	}
	if len(res.Adjusted.Lines) != 2 {
		t.Errorf("adjusted lines = %d, want 2", len(res.Adjusted.Lines))
	}

	name := filepath.Base(res.OutputPath)
	if !strings.HasPrefix(name, "Devis_Client_") || !strings.HasSuffix(name, ".pdf") {
		t.Errorf("output name = %q", name)
	}
	data, err := os.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("output content = %q", data)
	}
}

func TestProcessStageFailuresLeaveNoOutput(t *testing.T) {
	boom := errors.New("boom")
	good := fakeStructurer{quote: quote.Quote{}}

	tests := []struct {
		name   string
		runner *Runner
	}{
		{"extract fails", &Runner{
			Extractor:  fakeExtractor{err: boom},
			Structurer: good,
			Generator:  fakeGenerator{out: []byte("x")},
		}},
		{"structure fails", &Runner{
			Extractor:  fakeExtractor{text: "t"},
			Structurer: fakeStructurer{err: boom},
			Generator:  fakeGenerator{out: []byte("x")},
		}},
		{"render fails", &Runner{
			Extractor:  fakeExtractor{text: "t"},
			Structurer: good,
			Generator:  fakeGenerator{err: boom},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outDir := t.TempDir()
			_, err := tt.runner.Process(context.Background(), "devis.pdf", quote.DefaultAdjustments(), outDir)
			if !errors.Is(err, boom) {
				t.Fatalf("err = %v, want boom", err)
			}
			entries, readErr := os.ReadDir(outDir)
			if readErr == nil && len(entries) != 0 {
				t.Errorf("failed run left %d files in output dir", len(entries))
			}
		})
	}
}

func TestOutputFilename(t *testing.T) {
	at := time.Date(2025, 8, 25, 14, 30, 5, 0, time.UTC)
	if got := OutputFilename(at); got != "Devis_Client_20250825_143005.pdf" {
		t.Errorf("OutputFilename = %q", got)
	}
}
