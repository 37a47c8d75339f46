package product

import (
	"strings"

	"github.com/kennygrant/sanitize"
)

// maxTextLen bounds sanitized name and description length, ellipsis included.
const maxTextLen = 120

// CleanText strips HTML tags and truncates the result to maxTextLen
// characters. Truncated values end in a single ellipsis rune and never
// exceed maxTextLen characters in total.
func CleanText(s string) string {
	s = strings.TrimSpace(sanitize.HTML(s))
	runes := []rune(s)
	if len(runes) <= maxTextLen {
		return s
	}
	return string(runes[:maxTextLen-1]) + "…"
}
