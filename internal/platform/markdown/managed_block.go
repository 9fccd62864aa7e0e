package markdown

import "strings"

// ReplaceManagedBlock swaps the text between the markers, appending a new
// block when the body has none yet.
func ReplaceManagedBlock(body, startMarker, endMarker, generated string) string {
	start := strings.Index(body, startMarker)
	end := strings.Index(body, endMarker)
	block := startMarker + "\n" + generated + "\n" + endMarker

	if start >= 0 && end > start {
		end += len(endMarker)
		return body[:start] + block + body[end:]
	}

	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return block + "\n"
	}
	if strings.HasSuffix(body, "\n") {
		return body + "\n" + block + "\n"
	}
	return body + "\n\n" + block + "\n"
}

// ExtractManagedBlock returns the trimmed text between the markers.
func ExtractManagedBlock(body, startMarker, endMarker string) (string, bool) {
	start := strings.Index(body, startMarker)
	end := strings.Index(body, endMarker)
	if start < 0 || end < start {
		return "", false
	}
	return strings.TrimSpace(body[start+len(startMarker) : end]), true
}

// StripManagedBlock removes the markers and everything between them.
func StripManagedBlock(body, startMarker, endMarker string) string {
	start := strings.Index(body, startMarker)
	end := strings.Index(body, endMarker)
	if start < 0 || end < start {
		return body
	}
	return strings.TrimRight(body[:start], "\n") + body[end+len(endMarker):]
}
