package generator

import "unicode/utf8"

const (
	// PromptLimit is the number of characters of source text a prompt embeds.
	PromptLimit = 12000
	// TruncationMarker is appended when text was cut. It is not counted
	// against PromptLimit.
	TruncationMarker = "..."
)

// TruncateForPrompt keeps the first PromptLimit characters of text and marks
// the cut. Applying it to its own output returns the same value.
func TruncateForPrompt(text string) string {
	if utf8.RuneCountInString(text) <= PromptLimit {
		return text
	}
	n := 0
	for i := range text {
		if n == PromptLimit {
			return text[:i] + TruncationMarker
		}
		n++
	}
	return text
}
