package gofpdf

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/zakahfir/microflow-ai/internal/domain/quote"
	"github.com/zakahfir/microflow-ai/internal/domain/quote/pdf"
)

var colWidths = [4]float64{100, 20, 35, 35}

const lineHeight = 6

type Generator struct {
	FontDir string
}

func New(fontDir string) *Generator { return &Generator{FontDir: fontDir} }

// Generate renders the adjusted quote as an A4 PDF. Totals are derived here
// from line totals so the document always balances.
func (g *Generator) Generate(q quote.Quote) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Devis Client", false)

	family, tr := g.loadFonts(doc)
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("%w: fonts: %v", pdf.ErrRenderingFailed, err)
	}

	doc.SetHeaderFunc(func() {
		doc.SetFont(family, "B", 20)
		doc.CellFormat(0, 15, tr("DEVIS CLIENT"), "", 1, "C", false, 0, "")
		doc.Ln(10)
	})
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont(family, "I", 8)
		doc.CellFormat(0, 10, fmt.Sprintf("Page %d", doc.PageNo()), "", 0, "C", false, 0, "")
	})
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	g.customerBlock(doc, family, tr, q.ClientName)
	g.quoteDetails(doc, family, tr, q.QuoteDate, q.QuoteNumber)
	g.quoteTable(doc, family, tr, q)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		log.Printf("quote pdf: output failed: %v", err)
		return nil, fmt.Errorf("%w: %v", pdf.ErrRenderingFailed, err)
	}
	return buf.Bytes(), nil
}

// loadFonts registers the DejaVu UTF-8 fonts when the TTF files exist and
// falls back to the built-in Helvetica with a cp1252 translator otherwise.
// Either way the render proceeds; a missing font never fails the document.
func (g *Generator) loadFonts(doc *gofpdf.Fpdf) (family string, tr func(string) string) {
	regular := filepath.Join(g.FontDir, "DejaVuSans.ttf")
	bold := filepath.Join(g.FontDir, "DejaVuSans-Bold.ttf")
	oblique := filepath.Join(g.FontDir, "DejaVuSans-Oblique.ttf")

	if fileExists(regular) && fileExists(bold) {
		doc.AddUTF8Font("DejaVu", "", regular)
		doc.AddUTF8Font("DejaVu", "B", bold)
		if fileExists(oblique) {
			doc.AddUTF8Font("DejaVu", "I", oblique)
		} else {
			doc.AddUTF8Font("DejaVu", "I", regular)
		}
		if doc.Error() == nil {
			return "DejaVu", func(s string) string { return s }
		}
		log.Printf("quote pdf: dejavu load failed: %v, falling back to helvetica", doc.Error())
		doc.ClearError()
	} else {
		log.Printf("quote pdf: dejavu fonts not found in %s, falling back to helvetica", g.FontDir)
	}
	return "Helvetica", doc.UnicodeTranslatorFromDescriptor("")
}

func (g *Generator) customerBlock(doc *gofpdf.Fpdf, family string, tr func(string) string, clientName string) {
	doc.SetFont(family, "B", 11)
	doc.CellFormat(0, 7, tr("Informations du Client :"), "", 1, "L", false, 0, "")
	doc.SetFont(family, "", 11)
	if clientName == "" {
		clientName = "Non spécifié"
	}
	doc.MultiCell(0, 7, tr("Nom: "+clientName), "", "L", false)
	doc.Ln(10)
}

func (g *Generator) quoteDetails(doc *gofpdf.Fpdf, family string, tr func(string) string, date, number string) {
	doc.SetFont(family, "", 11)
	if date == "" {
		date = time.Now().Format("02/01/2006")
	}
	if number == "" {
		number = "N/A"
	}
	doc.CellFormat(0, 7, tr("Date du devis: "+date), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 7, tr("Numéro de devis: "+number), "", 1, "L", false, 0, "")
	doc.Ln(10)
}

func (g *Generator) quoteTable(doc *gofpdf.Fpdf, family string, tr func(string) string, q quote.Quote) {
	doc.SetFont(family, "B", 10)
	headers := [4]string{"Description", "Qté", "Prix U. HT", "Total HT"}
	for i, h := range headers {
		last := 0
		if i == len(headers)-1 {
			last = 1
		}
		doc.CellFormat(colWidths[i], 8, tr(h), "1", last, "C", false, 0, "")
	}

	doc.SetFont(family, "", 9)
	if len(q.Lines) == 0 {
		doc.CellFormat(colWidths[0], lineHeight, tr("Aucun article"), "1", 0, "L", false, 0, "")
		doc.CellFormat(colWidths[1], lineHeight, "-", "1", 0, "R", false, 0, "")
		doc.CellFormat(colWidths[2], lineHeight, "-", "1", 0, "R", false, 0, "")
		doc.CellFormat(colWidths[3], lineHeight, "-", "1", 1, "R", false, 0, "")
	}
	for _, l := range q.Lines {
		g.tableRow(doc, tr, l)
	}

	ht, ttc := quote.Totals(q)
	tva := ttc - ht
	labelWidth := colWidths[0] + colWidths[1] + colWidths[2]

	doc.Ln(5)
	doc.SetFont(family, "B", 10)
	doc.CellFormat(labelWidth, 8, "TOTAL HT", "1", 0, "R", false, 0, "")
	doc.CellFormat(colWidths[3], 8, tr(money(ht)), "1", 1, "R", false, 0, "")
	doc.SetFont(family, "", 10)
	doc.CellFormat(labelWidth, 8, "TVA (20%)", "1", 0, "R", false, 0, "")
	doc.CellFormat(colWidths[3], 8, tr(money(tva)), "1", 1, "R", false, 0, "")
	doc.SetFont(family, "B", 11)
	doc.CellFormat(labelWidth, 8, "TOTAL TTC", "1", 0, "R", false, 0, "")
	doc.CellFormat(colWidths[3], 8, tr(money(ttc)), "1", 1, "R", false, 0, "")
}

// tableRow draws one item line. The description wraps inside its column and
// the numeric cells stretch to the wrapped height so borders stay aligned.
func (g *Generator) tableRow(doc *gofpdf.Fpdf, tr func(string) string, l quote.Line) {
	desc := tr(l.Description)
	rows := doc.SplitLines([]byte(desc), colWidths[0]-2)
	height := float64(len(rows)) * lineHeight
	if height < lineHeight {
		height = lineHeight
	}

	// keep the whole row on one page
	_, pageH := doc.GetPageSize()
	_, _, _, bottom := doc.GetMargins()
	if doc.GetY()+height > pageH-bottom-10 {
		doc.AddPage()
	}

	x, y := doc.GetXY()
	doc.MultiCell(colWidths[0], lineHeight, desc, "1", "L", false)
	doc.SetXY(x+colWidths[0], y)
	doc.CellFormat(colWidths[1], height, cell(l.Quantity, "%.2f"), "1", 0, "R", false, 0, "")
	doc.CellFormat(colWidths[2], height, tr(cell(l.UnitPrice, "%.2f €")), "1", 0, "R", false, 0, "")
	doc.CellFormat(colWidths[3], height, tr(cell(l.LineTotal, "%.2f €")), "1", 1, "R", false, 0, "")
	doc.SetY(y + height)
}

// cell formats a numeric cell. A value that never parsed renders as an
// explicit marker instead of blanking the row.
func cell(a quote.Amount, format string) string {
	if !a.Valid {
		return "N/A"
	}
	return fmt.Sprintf(format, a.Value)
}

func money(v float64) string { return fmt.Sprintf("%.2f €", v) }

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
