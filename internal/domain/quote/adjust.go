package quote

// Apply derives a client-facing quote from a supplier quote: every supply
// line gets the margin applied, then the labor line is appended when fully
// specified. The input quote is never mutated.
//
// Lines whose quantity or unit price could not be parsed are carried through
// unchanged; skipping the margin for a single bad line is an observable
// fallback, not an error.
func Apply(q Quote, adj Adjustments) Quote {
	out := Quote{
		ClientName:  q.ClientName,
		QuoteDate:   q.QuoteDate,
		QuoteNumber: q.QuoteNumber,
		Lines:       make([]Line, 0, len(q.Lines)+1),
	}

	factor := 1 + adj.MarginPercent/100
	for _, l := range q.Lines {
		if !l.Quantity.Valid || !l.UnitPrice.Valid {
			out.Lines = append(out.Lines, l)
			continue
		}
		price := l.UnitPrice.Value * factor
		out.Lines = append(out.Lines, Line{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   Num(price),
			LineTotal:   Num(price * l.Quantity.Value),
		})
	}

	if lab := adj.Labor; lab.Description != "" && lab.Hours > 0 && lab.HourlyRate > 0 {
		out.Lines = append(out.Lines, Line{
			Description: lab.Description,
			Quantity:    Num(lab.Hours),
			UnitPrice:   Num(lab.HourlyRate),
			LineTotal:   Num(lab.Hours * lab.HourlyRate),
		})
	}
	return out
}
