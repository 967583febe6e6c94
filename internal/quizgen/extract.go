package quizgen

import "strings"

const fence = "```"

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Extract normalizes raw model output into a single-line JSON candidate.
// A leading code fence (with its language label) and a trailing fence are
// removed, then every line break becomes a space. Text without fences or
// line breaks is returned unchanged.
func Extract(raw string) string {
	text := raw

	trimmed := strings.TrimSpace(text)
	stripped := false
	if strings.HasPrefix(trimmed, fence) {
		trimmed = strings.TrimPrefix(trimmed, fence)
		// Only the label ("json", "JSON", "") goes; content on the fence
		// line stays.
		trimmed = strings.TrimLeftFunc(trimmed, isLabelRune)
		stripped = true
	}
	if strings.HasSuffix(trimmed, fence) {
		trimmed = strings.TrimSuffix(trimmed, fence)
		stripped = true
	}
	if stripped {
		text = strings.TrimSpace(trimmed)
	}

	return newlines.Replace(text)
}

func isLabelRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' ||
		r == '-' || r == '_' || r == '+'
}
