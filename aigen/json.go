package aigen

import (
	"errors"
	"strings"
)

// ExtractJSONPayload trims a model response down to its JSON payload.
// Models wrap output in markdown fences or chat filler even when asked
// for raw JSON, so this strips ``` fences (with or without a language
// tag) and cuts everything before the first '{'/'[' and after the
// matching last '}'/']'.
func ExtractJSONPayload(rawText string) (string, error) {
	text := strings.TrimSpace(rawText)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	objStart := strings.Index(text, "{")
	arrStart := strings.Index(text, "[")
	start := objStart
	closer := "}"
	if arrStart >= 0 && (objStart < 0 || arrStart < objStart) {
		start = arrStart
		closer = "]"
	}
	if start < 0 {
		return "", errors.New("no JSON payload found in response")
	}
	end := strings.LastIndex(text, closer)
	if end < start {
		return "", errors.New("unterminated JSON payload in response")
	}
	return text[start : end+1], nil
}
