package quote

// Wire types mirror the JSON contract shared with the LLM prompt and the
// front end: French keys, numbers as numbers, null for unknown metadata.

type WireLine struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantite"`
	UnitPrice   float64 `json:"prix_unitaire_ht"`
	LineTotal   float64 `json:"total_ligne_ht"`
}

type WireQuote struct {
	ClientName  *string    `json:"nom_client"`
	QuoteDate   *string    `json:"date_devis"`
	QuoteNumber *string    `json:"numero_devis"`
	TotalHT     *float64   `json:"total_ht"`
	TotalTTC    *float64   `json:"total_ttc"`
	Lines       []WireLine `json:"lignes_articles"`
}

// ToWire encodes a canonical Quote for the HTTP layer. Totals are always
// the recomputed ones; invalid amounts surface as their default values.
func ToWire(q Quote) WireQuote {
	w := WireQuote{
		ClientName:  nullableString(q.ClientName),
		QuoteDate:   nullableString(q.QuoteDate),
		QuoteNumber: nullableString(q.QuoteNumber),
		Lines:       make([]WireLine, 0, len(q.Lines)),
	}
	ht, ttc := Totals(q)
	w.TotalHT = &ht
	w.TotalTTC = &ttc
	for _, l := range q.Lines {
		w.Lines = append(w.Lines, WireLine{
			Description: l.Description,
			Quantity:    l.Quantity.Value,
			UnitPrice:   l.UnitPrice.Value,
			LineTotal:   l.LineTotal.Value,
		})
	}
	return w
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
