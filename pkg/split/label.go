package split

import (
	"strconv"
	"strings"
	"unicode"
)

// NormalizeLabel turns a raw source label into an address segment:
// a leading label word is removed ("Artikel 1" → "1"), surrounding
// punctuation is stripped ("a." → "a", "1°" → "1", "(2)" → "2") and
// internal dots and spaces become dashes ("3.1" → "3-1").
func NormalizeLabel(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) > 1 && isLetters(fields[0]) {
		fields = fields[1:]
	}
	label := strings.Join(fields, "-")
	label = strings.Trim(label, ".()°:-")
	return strings.ReplaceAll(label, ".", "-")
}

// FormatOrdinal renders n (1-based) in the given numbering.
func FormatOrdinal(n int, numbering Numbering) string {
	switch numbering {
	case NumberingAlphabetic:
		return alphabetic(n)
	case NumberingRoman:
		return roman(n)
	}
	return strconv.Itoa(n)
}

// ordinalOf returns the leading ordinal value of label in the given
// numbering, or 0 when the label does not start with one.
func ordinalOf(label string, numbering Numbering) int {
	switch numbering {
	case NumberingAlphabetic:
		end := 0
		for end < len(label) && label[end] >= 'a' && label[end] <= 'z' {
			end++
		}
		return parseAlphabetic(label[:end])
	case NumberingRoman:
		end := 0
		for end < len(label) && strings.IndexByte("IVXLCDM", label[end]) >= 0 {
			end++
		}
		return parseRoman(label[:end])
	}
	end := 0
	for end < len(label) && label[end] >= '0' && label[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(label[:end])
	if err != nil {
		return 0
	}
	return n
}

// alphabetic renders n in bijective base 26: a..z, aa..az, ba...
func alphabetic(n int) string {
	if n <= 0 {
		return ""
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('a' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

func parseAlphabetic(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*26 + int(s[i]-'a') + 1
	}
	return n
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) string {
	var b strings.Builder
	for _, numeral := range romanNumerals {
		for n >= numeral.value {
			b.WriteString(numeral.symbol)
			n -= numeral.value
		}
	}
	return b.String()
}

func parseRoman(s string) int {
	values := map[byte]int{'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000}
	total := 0
	for i := 0; i < len(s); i++ {
		v := values[s[i]]
		if i+1 < len(s) && values[s[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	return total
}

func isRoman(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte("IVXLCDM", s[i]) < 0 {
			return false
		}
	}
	return roman(parseRoman(s)) == s
}

func isLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// romanValue returns the value of s when it is a roman numeral written in a
// single case ("iv", "IV"), or 0 otherwise.
func romanValue(s string) int {
	upper := strings.ToUpper(s)
	if s != upper && s != strings.ToLower(s) {
		return 0
	}
	if !isRoman(upper) {
		return 0
	}
	return parseRoman(upper)
}

// CompareLabels orders address segments naturally: digit runs compare
// numerically, letter runs compare by length then alphabetically, and
// segments that are entirely roman numerals compare by value.
// So "1" < "1a" < "2" < "10", "z" < "aa", "IV" < "IX" and "iii" < "iv".
// Adjacent letters that happen to be numerals ("c" < "d", "l" < "m") keep
// their alphabetical order.
func CompareLabels(a, b string) int {
	if va, vb := romanValue(a), romanValue(b); va > 0 && vb > 0 {
		return compareInts(va, vb)
	}

	ta, tb := tokenize(a), tokenize(b)
	for i := 0; i < len(ta) && i < len(tb); i++ {
		if c := compareTokens(ta[i], tb[i]); c != 0 {
			return c
		}
	}
	return compareInts(len(ta), len(tb))
}

func compareTokens(a, b string) int {
	aDigit, bDigit := isDigits(a), isDigits(b)
	switch {
	case aDigit && bDigit:
		na, _ := strconv.Atoi(a)
		nb, _ := strconv.Atoi(b)
		return compareInts(na, nb)
	case aDigit:
		return -1
	case bDigit:
		return 1
	}
	if len(a) != len(b) {
		return compareInts(len(a), len(b))
	}
	return strings.Compare(a, b)
}

func tokenize(s string) []string {
	var tokens []string
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigit(s[i]) != isDigit(s[i-1]) {
			tokens = append(tokens, s[start:i])
			start = i
		}
	}
	return tokens
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
