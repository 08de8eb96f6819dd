package kb

import (
	"strings"
	"unicode"
)

// NormalizeName converts a Go identifier to the canonical snake_case id
// the knowledge base keys on, so one artifact serves every SDK generation:
//
//	SendMessage → send_message
//	QueueURL    → queue_url
//	ListObjectsV2 → list_objects_v2
//
// Identifiers already in snake_case pass through unchanged.
func NormalizeName(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		prevLowerOrDigit := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
		upperRunEnds := i > 0 && unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if prevLowerOrDigit || upperRunEnds {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
