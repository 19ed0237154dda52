package utils

import (
	"strings"
	"unicode"
)

// SafeFileStem keeps letters, digits, spaces, '-' and '_' and then replaces
// spaces with underscores.
func SafeFileStem(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}

// DownloadName is the attachment filename for a blog post.
func DownloadName(topic string) string {
	return strings.ReplaceAll(topic, " ", "_") + "_blog.md"
}
