// internal/workers/query-routing/classify-intent/extract.go
package classifyintent

import "encoding/json"

// extractJSONObject returns the first balanced {...} span in text that parses
// as a JSON object. Braces inside string literals do not count. Only the first
// limit bytes are scanned; limit <= 0 scans everything.
func extractJSONObject(text string, limit int) (string, bool) {
	if limit > 0 && len(text) > limit {
		text = text[:limit]
	}

	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		end, ok := matchBrace(text, start)
		if !ok {
			continue
		}
		candidate := text[start : end+1]
		var probe map[string]interface{}
		if json.Unmarshal([]byte(candidate), &probe) == nil {
			return candidate, true
		}
	}
	return "", false
}

// matchBrace returns the index of the brace closing text[start].
func matchBrace(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
