package reference

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// JCI is a parsed Juriconnect identifier as used in BWB link elements,
// e.g. "jci1.3:c:BWBR0018451&artikel=1&lid=2&g=2024-01-01".
type JCI struct {
	Version string
	// Kind is "c" (consolidated) or "v" (versioned).
	Kind      string
	BWBID     string
	Chapter   string
	Section   string
	Article   string
	Paragraph string
	Item      string
	// ValidOn holds the "g" (geldigheidsdatum) parameter when present.
	ValidOn string
}

var jciPattern = regexp.MustCompile(`^jci([0-9.]+):([a-z]):([A-Za-z0-9]+)(?:&(.*))?$`)

// ParseJCI parses a Juriconnect identifier.
func ParseJCI(raw string) (JCI, error) {
	match := jciPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return JCI{}, fmt.Errorf("invalid jci identifier %q", raw)
	}

	jci := JCI{
		Version: match[1],
		Kind:    match[2],
		BWBID:   match[3],
	}

	if match[4] == "" {
		return jci, nil
	}

	params, err := url.ParseQuery(match[4])
	if err != nil {
		return JCI{}, fmt.Errorf("invalid jci parameters in %q: %w", raw, err)
	}
	jci.Chapter = params.Get("hoofdstuk")
	jci.Section = params.Get("afdeling")
	jci.Article = params.Get("artikel")
	jci.Paragraph = params.Get("lid")
	jci.Item = params.Get("onderdeel")
	jci.ValidOn = params.Get("g")

	return jci, nil
}

// target returns the most specific provision level the identifier names.
func (j JCI) target() Target {
	switch {
	case j.Item != "":
		return TargetItem
	case j.Paragraph != "":
		return TargetParagraph
	case j.Article != "":
		return TargetArticle
	case j.Section != "":
		return TargetSection
	case j.Chapter != "":
		return TargetChapter
	}
	return TargetLaw
}

// FromLink builds a reference from a link element's target attribute and text.
// document is the identifier of the document being parsed; links to it are internal.
// Non-JCI targets (CELEX numbers, URLs) become external document references.
func FromLink(target, text, document, sourcePath string) Reference {
	target = strings.TrimSpace(target)
	ref := Reference{
		Kind:       KindExternal,
		Origin:     OriginElement,
		RawText:    text,
		SourcePath: sourcePath,
	}

	jci, err := ParseJCI(target)
	if err != nil {
		ref.Target = TargetDocument
		ref.Law = strings.TrimPrefix(target, "CELEX:")
		ref.Identifier = target
		if strings.HasPrefix(target, "CELEX:") {
			ref.Target = TargetRegulation
		}
		return ref
	}

	if document != "" && strings.EqualFold(jci.BWBID, document) {
		ref.Kind = KindInternal
	}
	ref.Target = jci.target()
	ref.Law = jci.BWBID
	ref.Article = jci.Article
	ref.Paragraph = jci.Paragraph
	ref.Item = jci.Item

	law := jci.BWBID
	if ref.Kind == KindInternal {
		law = ""
	}
	ref.Identifier = buildIdentifier(law, jci.Article, jci.Paragraph, jci.Item)
	switch {
	case jci.Article != "":
	case jci.Section != "":
		ref.Identifier = strings.TrimSpace(law + " afdeling " + jci.Section)
	case jci.Chapter != "":
		ref.Identifier = strings.TrimSpace(law + " hoofdstuk " + jci.Chapter)
	case ref.Identifier == "":
		ref.Identifier = jci.BWBID
	}
	return ref
}
