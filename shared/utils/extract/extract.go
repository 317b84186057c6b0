package extract

import (
	"encoding/json"
	"strings"
)

// The text service is asked for raw JSON but routinely wraps its output in
// markdown code fences. Strip them before parsing.

// CleanJSON removes ```json / ``` fence markers and surrounding whitespace
func CleanJSON(text string) string {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// JSON parses fenced-or-plain JSON text into v. It returns an error when the
// cleaned text is not valid JSON for v.
func JSON(text string, v interface{}) error {
	return json.Unmarshal([]byte(CleanJSON(text)), v)
}
