package quote

// VATRate is the single tax rate applied to every quote.
const VATRate = 0.20

// Amount is a numeric cell that remembers whether it could be parsed.
// Invalid amounts keep their default value so arithmetic never panics,
// and downstream stages (margin, rendering) can skip or mark them.
type Amount struct {
	Value float64
	Valid bool
}

func Num(v float64) Amount { return Amount{Value: v, Valid: true} }

// Line is one itemized row of a quote. Every numeric field defaults
// independently: one malformed cell never discards the rest of the line.
type Line struct {
	Description string
	Quantity    Amount
	UnitPrice   Amount
	LineTotal   Amount
}

// Quote is the canonical structured record produced by the normalizer.
// ClientName, QuoteDate and QuoteNumber are empty when the source document
// did not carry them; placeholders are substituted at render time only.
type Quote struct {
	ClientName  string
	QuoteDate   string // DD/MM/YYYY
	QuoteNumber string
	Lines       []Line
}

// Labor describes the synthetic billable-hours line the user can append.
type Labor struct {
	Description string
	Hours       float64
	HourlyRate  float64
}

// Adjustments are the user-supplied pricing parameters.
type Adjustments struct {
	MarginPercent float64
	Labor         Labor
}

func DefaultAdjustments() Adjustments {
	return Adjustments{
		MarginPercent: 30,
		Labor: Labor{
			Description: "Main d'œuvre - Prestation Globale",
			Hours:       8.0,
			HourlyRate:  50.0,
		},
	}
}

// Totals recomputes document totals from line totals. Model-provided totals
// are never used here, so any arithmetic drift in the LLM output is corrected.
func Totals(q Quote) (ht, ttc float64) {
	for _, l := range q.Lines {
		ht += l.LineTotal.Value
	}
	return ht, ht * (1 + VATRate)
}
