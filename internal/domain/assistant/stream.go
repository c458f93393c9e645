package assistant

import "strings"

// Markers preceding the embedded JSON documents in the raw streaming
// response. The stream may repeat incremental frames; only the text after the
// last occurrence of a marker is authoritative.
const (
	markerThread  = "thread.json:"
	markerMessage = "new_message.json:"
)

// threadDocument refreshes the conversation session after an exchange.
type threadDocument struct {
	ID string `json:"id"`
}

// messageDocument carries the assistant reply. Reply is a pointer so a
// present-but-empty reply is distinguishable from an absent one.
type messageDocument struct {
	State string  `json:"state"`
	Reply *string `json:"reply"`
}

// extractMarkedJSON locates the last occurrence of marker in raw and returns
// the first syntactically complete JSON object following it.
//
// The scan starts at the first '{' after the marker and tracks brace depth,
// ignoring braces inside string literals (with backslash-escape awareness).
// It stops when the depth returns to zero. A missing marker, a missing
// opening brace, or a truncated object all report not found.
func extractMarkedJSON(raw, marker string) (string, bool) {
	at := strings.LastIndex(raw, marker)
	if at < 0 {
		return "", false
	}

	rest := strings.TrimSpace(raw[at+len(marker):])
	start := strings.IndexByte(rest, '{')
	if start < 0 {
		return "", false
	}

	var (
		buf      strings.Builder
		depth    int
		inString bool
		escaped  bool
	)
	for i := start; i < len(rest); i++ {
		c := rest[i]
		buf.WriteByte(c)

		if escaped {
			escaped = false
			continue
		}

		switch c {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return buf.String(), true
				}
			}
		}
	}

	// Stream ended with the object still open.
	return "", false
}
