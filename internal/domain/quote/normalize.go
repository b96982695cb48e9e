package quote

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Normalize coerces an arbitrary decoded JSON value purportedly matching the
// devis schema into a canonical Quote. Every field is coerced independently:
// missing keys become empty equivalents, unparseable numbers fall back to
// their defaults, and no input shape ever makes Normalize fail.
//
// The model-provided total_ht/total_ttc are ignored on purpose; Totals
// recomputes them from line totals.
func Normalize(payload map[string]any) Quote {
	q := Quote{
		ClientName:  stringField(payload, "nom_client"),
		QuoteDate:   stringField(payload, "date_devis"),
		QuoteNumber: stringField(payload, "numero_devis"),
	}

	rawLines, ok := payload["lignes_articles"].([]any)
	if !ok {
		return q
	}
	for _, raw := range rawLines {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		q.Lines = append(q.Lines, normalizeLine(obj))
	}
	return q
}

func normalizeLine(obj map[string]any) Line {
	l := Line{
		Description: stringField(obj, "description"),
		Quantity:    amountField(obj, "quantite", 1),
		UnitPrice:   amountField(obj, "prix_unitaire_ht", 0),
	}
	if _, present := obj["total_ligne_ht"]; present {
		l.LineTotal = amountField(obj, "total_ligne_ht", 0)
	} else if l.Quantity.Valid && l.UnitPrice.Valid {
		l.LineTotal = Num(l.Quantity.Value * l.UnitPrice.Value)
	} else {
		l.LineTotal = Amount{Value: 0, Valid: false}
	}
	return l
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// amountField parses a numeric cell leniently. Strings with a comma decimal
// separator or a trailing currency marker still parse; anything else yields
// the default with Valid=false.
func amountField(m map[string]any, key string, def float64) Amount {
	v, ok := m[key]
	if !ok || v == nil {
		return Amount{Value: def, Valid: false}
	}
	switch t := v.(type) {
	case float64:
		return Num(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return Num(f)
		}
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimSuffix(s, "€")
		s = strings.TrimSuffix(s, "EUR")
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Num(f)
		}
	}
	return Amount{Value: def, Valid: false}
}
