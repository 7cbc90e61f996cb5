package element

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Clean normalizes text to Unicode NFC and collapses all runs of whitespace
// into single spaces, trimming both ends.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(norm.NFC.String(text)), " ")
}

// stripLabelWord removes a leading label word from an attribute label,
// e.g. "Artikel 1a" becomes "1a". Labels without a word are returned as is.
func stripLabelWord(label string) string {
	fields := strings.Fields(label)
	if len(fields) < 2 || !isWord(fields[0]) {
		return strings.TrimSpace(label)
	}
	return strings.Join(fields[1:], " ")
}

func isWord(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return s != ""
}
