package llm

import "strings"

// The engine classifies model output with deliberately small string
// heuristics. They live here, away from request construction, so the rules
// stay unit-testable and swappable.

// LastLineLabel returns the last non-empty line of raw, uppercased and
// trimmed. Classifiers that ask the model for a final explicit label on its
// own line read it through this.
func LastLineLabel(raw string) string {
	lines := strings.Split(raw, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line != "" {
			return strings.ToUpper(line)
		}
	}
	return ""
}

// ContainsLabel reports whether raw contains label, case-insensitively.
func ContainsLabel(raw, label string) bool {
	return strings.Contains(strings.ToUpper(raw), strings.ToUpper(label))
}

// ExtractJSON prepares a model response for JSON parsing: it trims
// whitespace, unwraps a fenced code block if present, and skips any preamble
// text before the first opening brace. It never fails; callers detect
// unusable payloads at json.Unmarshal time.
func ExtractJSON(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```") {
		parts := strings.SplitN(cleaned, "```", 3)
		if len(parts) >= 2 {
			cleaned = parts[1]
		}
		cleaned = strings.TrimPrefix(cleaned, "json")
		cleaned = strings.TrimSpace(cleaned)
	}

	if !strings.HasPrefix(cleaned, "{") {
		if idx := strings.Index(cleaned, "{"); idx != -1 {
			cleaned = cleaned[idx:]
		}
	}

	return cleaned
}
