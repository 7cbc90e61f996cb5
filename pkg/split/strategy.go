package split

import (
	"regexp"
	"strconv"
	"strings"
)

// item is one piece of leaf text produced by a strategy.
type item struct {
	label string
	text  string
}

// leafSplitter decomposes the text of a leaf component.
type leafSplitter interface {
	split(text string) (body string, items []item)
}

func splitterFor(strategy Strategy) leafSplitter {
	if strategy == StrategyEnumeration {
		return enumerationSplitter{}
	}
	return atomicSplitter{}
}

// atomicSplitter keeps the text whole.
type atomicSplitter struct{}

func (atomicSplitter) split(text string) (string, []item) {
	return text, nil
}

// enumerationMarker matches "a.", "1°" or "1°." after a colon or semicolon.
var enumerationMarker = regexp.MustCompile(`[:;]\s*(?:([a-z])\.|(\d+)°\.?)\s+`)

// enumerationSplitter splits text such as "de minister: a. een; b. twee"
// into items. Markers are used only when they form the sequence a, b, c...
// or 1°, 2°, 3°... from the start; anything else leaves the text whole.
type enumerationSplitter struct{}

func (enumerationSplitter) split(text string) (string, []item) {
	matches := enumerationMarker.FindAllStringSubmatchIndex(text, -1)
	if len(matches) < 2 {
		return text, nil
	}

	// The kind of the first marker selects the sequence; markers of the
	// other kind stay inside item text.
	lettered := matches[0][2] != -1
	var markers [][]int
	for _, m := range matches {
		if (m[2] != -1) == lettered {
			markers = append(markers, m)
		}
	}
	if len(markers) < 2 {
		return text, nil
	}

	items := make([]item, len(markers))
	for i, m := range markers {
		var label string
		if lettered {
			label = text[m[2]:m[3]]
			if label != alphabetic(i+1) {
				return text, nil
			}
		} else {
			label = text[m[4]:m[5]]
			if label != strconv.Itoa(i+1) {
				return text, nil
			}
		}

		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		items[i] = item{label: label, text: strings.TrimSpace(text[m[1]:end])}
	}

	body := strings.TrimSpace(text[:markers[0][0]+1])
	return body, items
}
