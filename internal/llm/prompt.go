package llm

// DefaultMaxPromptChars bounds the extracted text embedded in the prompt so
// the request stays inside the model context window.
const DefaultMaxPromptChars = 12000

const promptHeader = `Tu es un assistant expert en extraction de données. Ta mission est d'analyser un texte de devis et de retourner un objet JSON valide et complet.

RÈGLES STRICTES :
1. Tu dois retourner UNIQUEMENT l'objet JSON. Pas de texte avant, pas de texte après, pas de ` + "```json" + `.
2. Toutes les valeurs numériques (quantite, prix, total) doivent être des nombres (float ou int), pas des chaînes de caractères.
3. Si une information est introuvable, sa valeur doit être null.

EXEMPLE DE SORTIE ATTENDUE :
{
  "nom_client": "M. Jean Dupont",
  "date_devis": "25/08/2025",
  "numero_devis": "DEV-2025-042",
  "total_ht": 4122.00,
  "total_ttc": 4946.40,
  "lignes_articles": [
    {
      "description": "Fourniture et pose chaudière Frisquet",
      "quantite": 1,
      "prix_unitaire_ht": 3500.00,
      "total_ligne_ht": 3500.00
    },
    {
      "description": "Tube cuivre diam. 14 (mètre)",
      "quantite": 12,
      "prix_unitaire_ht": 8.50,
      "total_ligne_ht": 102.00
    }
  ]
}

MAINTENANT, ANALYSE LE TEXTE SUIVANT ET PRODUIS LE JSON CORRESPONDANT :
TEXTE À ANALYSER:
---
`

// BuildPrompt composes the fixed structuring instruction with the raw
// extracted text, truncated to maxChars (DefaultMaxPromptChars when <= 0).
func BuildPrompt(rawText string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxPromptChars
	}
	if len(rawText) > maxChars {
		rawText = rawText[:maxChars]
	}
	return promptHeader + rawText + "\n---\n"
}
