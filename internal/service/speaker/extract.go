package speaker

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject locates the candidate JSON object in free-form model
// output: the span from the first '{' to the last '}', greedily. Models
// wrap their answer in prose or code fences often enough that this is the
// reliable way in. Returns false when the text holds no such span.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start < 0 {
		return "", false
	}
	end := strings.LastIndex(text, "}")
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// ParseMapping extracts and parses a label->name mapping from free-form
// model output. Extraction and parsing fail independently; either failure
// yields ok=false. Values are retained as-is, with no validation against
// the participant list at this layer.
func ParseMapping(text string) (map[string]string, bool) {
	candidate, ok := ExtractJSONObject(text)
	if !ok {
		return nil, false
	}
	var mapping map[string]string
	if err := json.Unmarshal([]byte(candidate), &mapping); err != nil {
		return nil, false
	}
	return mapping, true
}
