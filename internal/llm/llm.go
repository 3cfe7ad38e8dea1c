// Package llm holds the shared pieces of talking to a reasoning model.
// Model output arrives with unpredictable framing (markdown fences,
// preamble prose), so JSON has to be dug out of free text.
package llm

import "strings"

// ExtractObject locates the outermost JSON object embedded in text by
// scanning for the first '{' and the last '}'. The bool reports whether a
// candidate was found; callers still have to unmarshal it.
func ExtractObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// Truncate caps s at n bytes for use in fallback summaries.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
