package llm

import "strings"

// ExtractJSONObject slices the JSON payload out of free-form model output.
// Markdown code fences are stripped first; failing that, everything between
// the first '{' and the last '}' is kept. Wrapper prose before or after the
// object is tolerated either way.
func ExtractJSONObject(raw string) (string, error) {
	s := stripCodeFences(raw)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSONFound
	}
	return s[start : end+1], nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "json") {
		s = strings.TrimSpace(s[4:])
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
