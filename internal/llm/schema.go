package llm

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildQuoteJSONSchema describes the structured intermediate contract the
// prompt asks for. Validation against it is advisory only: a payload that
// fails here still goes through the lenient normalizer, but the mismatch is
// worth a log line.
func BuildQuoteJSONSchema() map[string]any {
	nullable := func(typ string) map[string]any {
		return map[string]any{"type": []string{typ, "null"}}
	}
	lineProps := map[string]any{
		"description":      map[string]any{"type": "string"},
		"quantite":         map[string]any{"type": "number"},
		"prix_unitaire_ht": map[string]any{"type": "number"},
		"total_ligne_ht":   map[string]any{"type": "number"},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"nom_client":   nullable("string"),
			"date_devis":   nullable("string"),
			"numero_devis": nullable("string"),
			"total_ht":     nullable("number"),
			"total_ttc":    nullable("number"),
			"lignes_articles": map[string]any{
				"type": []string{"array", "null"},
				"items": map[string]any{
					"type":       "object",
					"properties": lineProps,
				},
			},
		},
	}
}

func compileQuoteSchema() (*jsonschema.Schema, error) {
	raw, err := json.Marshal(BuildQuoteJSONSchema())
	if err != nil {
		return nil, err
	}
	return jsonschema.CompileString("devis.schema.json", string(raw))
}
