// Package pipeline orchestrates the three stages of one document run:
// extract raw text, structure it into a canonical quote, adjust prices and
// render the client PDF. Each invocation is independent and stateless;
// nothing is shared or retried across documents.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/zakahfir/microflow-ai/internal/domain/quote"
	"github.com/zakahfir/microflow-ai/internal/domain/quote/pdf"
)

type Extractor interface {
	Text(path string) (string, error)
}

type Structurer interface {
	Structure(ctx context.Context, rawText string) (quote.Quote, error)
}

type Runner struct {
	Extractor  Extractor
	Structurer Structurer
	Generator  pdf.Generator
}

// Result carries everything the caller may want to show: the supplier quote
// as extracted, the adjusted client quote, the recomputed totals and the
// written file.
type Result struct {
	Supplier   quote.Quote
	Adjusted   quote.Quote
	TotalHT    float64
	TotalTTC   float64
	OutputPath string
}

// Process runs the full pipeline for one PDF and writes the client quote
// into outDir under a deterministic Devis_Client_<timestamp>.pdf name.
// The file is staged in a temp file and renamed into place, so a failed run
// never leaves a partial document behind.
func (r *Runner) Process(ctx context.Context, inputPath string, adj quote.Adjustments, outDir string) (Result, error) {
	start := time.Now()
	log.Printf("pipeline input=%s margin=%.0f%%", inputPath, adj.MarginPercent)

	rawText, err := r.Extractor.Text(inputPath)
	if err != nil {
		return Result{}, err
	}
	log.Printf("pipeline input=%s extracted chars=%d", inputPath, len(rawText))

	supplier, err := r.Structurer.Structure(ctx, rawText)
	if err != nil {
		return Result{}, err
	}

	adjusted := quote.Apply(supplier, adj)
	ht, ttc := quote.Totals(adjusted)

	pdfBytes, err := r.Generator.Generate(adjusted)
	if err != nil {
		return Result{}, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("%w: output dir: %v", pdf.ErrRenderingFailed, err)
	}
	outPath := filepath.Join(outDir, OutputFilename(time.Now()))
	if err := writeAtomic(outPath, pdfBytes); err != nil {
		return Result{}, err
	}

	log.Printf("pipeline input=%s done output=%s lines=%d total_ht=%.2f took=%s",
		inputPath, outPath, len(adjusted.Lines), ht, time.Since(start))
	return Result{
		Supplier:   supplier,
		Adjusted:   adjusted,
		TotalHT:    ht,
		TotalTTC:   ttc,
		OutputPath: outPath,
	}, nil
}

// OutputFilename is the deterministic client-quote name for a given instant.
func OutputFilename(t time.Time) string {
	return fmt.Sprintf("Devis_Client_%s.pdf", t.Format("20060102_150405"))
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".devis-*.pdf")
	if err != nil {
		return fmt.Errorf("%w: temp file: %v", pdf.ErrRenderingFailed, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write: %v", pdf.ErrRenderingFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close: %v", pdf.ErrRenderingFailed, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename: %v", pdf.ErrRenderingFailed, err)
	}
	return nil
}
