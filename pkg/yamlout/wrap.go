// Package yamlout serializes article trees to canonical YAML.
package yamlout

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ShouldWrapText reports whether text is longer than width characters.
// A width below 1 disables wrapping.
func ShouldWrapText(text string, width int) bool {
	return width > 0 && utf8.RuneCountInString(text) > width
}

// WrapText breaks text into lines of at most width characters. Lines break
// only at a single space between two non-space characters, so joining the
// lines with single spaces reproduces text exactly. A word longer than width
// is emitted unbroken on its own line.
func WrapText(text string, width int) []string {
	if !ShouldWrapText(text, width) {
		return []string{text}
	}

	words := splitAtBreaks(text)
	lines := make([]string, 0, len(words))
	line := words[0]
	lineLen := utf8.RuneCountInString(line)
	for _, word := range words[1:] {
		wordLen := utf8.RuneCountInString(word)
		if lineLen+1+wordLen <= width {
			line += " " + word
			lineLen += 1 + wordLen
			continue
		}
		lines = append(lines, line)
		line = word
		lineLen = wordLen
	}
	return append(lines, line)
}

// splitAtBreaks splits text at every single space that sits between two
// non-space characters.
func splitAtBreaks(text string) []string {
	var words []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != ' ' || i == 0 || i == len(text)-1 {
			continue
		}
		before, _ := utf8.DecodeLastRuneInString(text[:i])
		after, _ := utf8.DecodeRuneInString(text[i+1:])
		if unicode.IsSpace(before) || unicode.IsSpace(after) {
			continue
		}
		words = append(words, text[start:i])
		start = i + 1
	}
	return append(words, text[start:])
}

// foldable reports whether text survives a folded block scalar unchanged:
// a single line without tabs, control characters, or surrounding spaces.
func foldable(text string) bool {
	if text == "" || text != strings.TrimSpace(text) {
		return false
	}
	for _, r := range text {
		if r == '\t' || r == '\uFEFF' || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
