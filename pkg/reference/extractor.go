package reference

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	ordinalWords = `eerste|tweede|derde|vierde|vijfde|zesde|zevende|achtste|negende|tiende|elfde|twaalfde|dertiende|veertiende|vijftiende|zestiende|zeventiende|achttiende|negentiende|twintigste`
	articleNum   = `\d+[a-z]*(?:[.:]\d+[a-z]*)*`
	itemLabel    = `[a-z]{1,2}\b|\d+°`
	lawName      = `Algemene\s+wet\s+[a-zà-ÿ]+|Wet\s+(?:op|inzake|betreffende|tot|van)\s+(?:de\s+|het\s+)?[a-zà-ÿ-]+(?:\s+\d{4})?|Wet\s+[a-zà-ÿ]+\s+\d{4}|[A-Z][a-zà-ÿ]+wet(?:\s+\d{4})?`
)

var ordinals = map[string]int{
	"eerste": 1, "tweede": 2, "derde": 3, "vierde": 4, "vijfde": 5,
	"zesde": 6, "zevende": 7, "achtste": 8, "negende": 9, "tiende": 10,
	"elfde": 11, "twaalfde": 12, "dertiende": 13, "veertiende": 14, "vijftiende": 15,
	"zestiende": 16, "zeventiende": 17, "achttiende": 18, "negentiende": 19, "twintigste": 20,
}

// Extractor detects cross-references in Dutch statutory text.
// It is immutable after construction and safe for concurrent use.
type Extractor struct {
	// Internal references
	articlePattern    *regexp.Regexp // artikel 3, tweede lid, onderdeel a
	articlesPattern   *regexp.Regexp // artikelen 3 en 4, artikelen 3 tot en met 7
	ordinalParagraph  *regexp.Regexp // het tweede lid
	numberedParagraph *regexp.Regexp // lid 2
	itemPattern       *regexp.Regexp // onderdeel a
	divisionPattern   *regexp.Regexp // hoofdstuk 2, afdeling 3.1, titel IV
	lawAfterArticle   *regexp.Regexp // ... van de Wet op de zorgtoeslag
	lawPattern        *regexp.Regexp // Zorgverzekeringswet, Algemene wet bestuursrecht
	regulationPattern *regexp.Regexp // Verordening (EU) 2016/679
	directivePattern  *regexp.Regexp // Richtlijn 2011/24/EU
}

// NewExtractor creates an Extractor with the default Dutch patterns.
func NewExtractor() *Extractor {
	return &Extractor{
		articlePattern: regexp.MustCompile(`(?i)\bartikel\s+(` + articleNum + `)` +
			`(?:,?\s*(?:(` + ordinalWords + `|\d+e)\s+lid|lid\s+(\d+[a-z]*)))?` +
			`(?:,?\s*(?:aanhef\s+en\s+)?onderdeel\s+(` + itemLabel + `))?`),
		articlesPattern:   regexp.MustCompile(`(?i)\bartikelen\s+(` + articleNum + `)\s+(?:en|tot\s+en\s+met|t/m)\s+(` + articleNum + `)`),
		ordinalParagraph:  regexp.MustCompile(`(?i)\b(?:het\s+)?(` + ordinalWords + `|\d+e)\s+lid\b`),
		numberedParagraph: regexp.MustCompile(`(?i)\blid\s+(\d+[a-z]*)\b`),
		itemPattern:       regexp.MustCompile(`(?i)\bonderdeel\s+(` + itemLabel + `)`),
		divisionPattern:   regexp.MustCompile(`\b([Hh]oofdstuk|[Aa]fdeling|[Pp]aragraaf|[Tt]itel)\s+(\d+[a-z]*(?:\.\d+[a-z]*)*|[IVXLC]+\b)`),
		lawAfterArticle:   regexp.MustCompile(`^\s+van\s+(?:de\s+|het\s+)?(` + lawName + `)`),
		lawPattern:        regexp.MustCompile(`\b(` + lawName + `)`),
		regulationPattern: regexp.MustCompile(`[Vv]erordening\s+\((EU|EG|EEG)\)\s+(?:(?:nr\.?|No\.?)\s+)?(\d+)/(\d+)`),
		directivePattern:  regexp.MustCompile(`[Rr]ichtlijn\s+(?:\((EU|EG|EEG)\)\s+)?(\d+)/(\d+)(?:/(EU|EG|EEG))?`),
	}
}

// Extract returns all references found in text, ordered by position.
// sourcePath is recorded on every reference.
func (e *Extractor) Extract(text, sourcePath string) []Reference {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var refs []Reference
	refs = append(refs, e.extractArticleRefs(text, sourcePath)...)
	refs = append(refs, e.extractArticleRangeRefs(text, sourcePath, refs)...)
	refs = append(refs, e.extractParagraphRefs(text, sourcePath, refs)...)
	refs = append(refs, e.extractItemRefs(text, sourcePath, refs)...)
	refs = append(refs, e.extractDivisionRefs(text, sourcePath, refs)...)
	refs = append(refs, e.extractEURefs(text, sourcePath, refs)...)
	refs = append(refs, e.extractLawRefs(text, sourcePath, refs)...)

	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].TextOffset != refs[j].TextOffset {
			return refs[i].TextOffset < refs[j].TextOffset
		}
		return refs[i].TextLength > refs[j].TextLength
	})

	return refs
}

// extractArticleRefs extracts "artikel N[, lid][, onderdeel]" references,
// optionally qualified with the law they belong to.
func (e *Extractor) extractArticleRefs(text, sourcePath string) []Reference {
	var refs []Reference

	for _, match := range e.articlePattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := match[0], match[1]
		ref := Reference{
			Kind:       KindInternal,
			Target:     TargetArticle,
			Origin:     OriginText,
			Article:    text[match[2]:match[3]],
			SourcePath: sourcePath,
		}

		switch {
		case match[4] != -1:
			ref.Paragraph = ordinalValue(text[match[4]:match[5]])
			ref.Target = TargetParagraph
		case match[6] != -1:
			ref.Paragraph = text[match[6]:match[7]]
			ref.Target = TargetParagraph
		}
		if match[8] != -1 {
			ref.Item = strings.TrimSuffix(text[match[8]:match[9]], "°")
			ref.Target = TargetItem
		}

		if law := e.lawAfterArticle.FindStringSubmatchIndex(text[end:]); law != nil {
			ref.Kind = KindExternal
			ref.Law = normalizeSpace(text[end+law[2] : end+law[3]])
			end += law[1]
		}

		ref.RawText = text[start:end]
		ref.TextOffset = start
		ref.TextLength = end - start
		ref.Identifier = buildIdentifier(ref.Law, ref.Article, ref.Paragraph, ref.Item)
		refs = append(refs, ref)
	}

	return refs
}

// extractArticleRangeRefs extracts "artikelen N en M" and "artikelen N tot en met M".
func (e *Extractor) extractArticleRangeRefs(text, sourcePath string, existing []Reference) []Reference {
	var refs []Reference

	for _, match := range e.articlesPattern.FindAllStringSubmatchIndex(text, -1) {
		if isOverlapping(match[0], match[1], existing) {
			continue
		}
		first := text[match[2]:match[3]]
		last := text[match[4]:match[5]]
		refs = append(refs, Reference{
			Kind:       KindInternal,
			Target:     TargetArticle,
			Origin:     OriginText,
			RawText:    text[match[0]:match[1]],
			Identifier: "artikelen " + first + "-" + last,
			Article:    first,
			SourcePath: sourcePath,
			TextOffset: match[0],
			TextLength: match[1] - match[0],
		})
	}

	return refs
}

// extractParagraphRefs extracts relative paragraph references ("het tweede lid", "lid 3").
func (e *Extractor) extractParagraphRefs(text, sourcePath string, existing []Reference) []Reference {
	var refs []Reference

	add := func(start, end int, number string) {
		if isOverlapping(start, end, existing) || isOverlapping(start, end, refs) {
			return
		}
		refs = append(refs, Reference{
			Kind:       KindInternal,
			Target:     TargetParagraph,
			Origin:     OriginText,
			RawText:    text[start:end],
			Identifier: "lid " + number,
			Paragraph:  number,
			SourcePath: sourcePath,
			TextOffset: start,
			TextLength: end - start,
		})
	}

	for _, match := range e.ordinalParagraph.FindAllStringSubmatchIndex(text, -1) {
		add(match[0], match[1], ordinalValue(text[match[2]:match[3]]))
	}
	for _, match := range e.numberedParagraph.FindAllStringSubmatchIndex(text, -1) {
		add(match[0], match[1], text[match[2]:match[3]])
	}

	return refs
}

// extractItemRefs extracts relative item references ("onderdeel b").
func (e *Extractor) extractItemRefs(text, sourcePath string, existing []Reference) []Reference {
	var refs []Reference

	for _, match := range e.itemPattern.FindAllStringSubmatchIndex(text, -1) {
		if isOverlapping(match[0], match[1], existing) {
			continue
		}
		item := strings.TrimSuffix(text[match[2]:match[3]], "°")
		refs = append(refs, Reference{
			Kind:       KindInternal,
			Target:     TargetItem,
			Origin:     OriginText,
			RawText:    text[match[0]:match[1]],
			Identifier: "onderdeel " + item,
			Item:       item,
			SourcePath: sourcePath,
			TextOffset: match[0],
			TextLength: match[1] - match[0],
		})
	}

	return refs
}

// extractDivisionRefs extracts chapter, section and title references.
func (e *Extractor) extractDivisionRefs(text, sourcePath string, existing []Reference) []Reference {
	var refs []Reference

	for _, match := range e.divisionPattern.FindAllStringSubmatchIndex(text, -1) {
		if isOverlapping(match[0], match[1], existing) {
			continue
		}
		word := strings.ToLower(text[match[2]:match[3]])
		number := text[match[4]:match[5]]
		refs = append(refs, Reference{
			Kind:       KindInternal,
			Target:     Target(word),
			Origin:     OriginText,
			RawText:    text[match[0]:match[1]],
			Identifier: word + " " + number,
			SourcePath: sourcePath,
			TextOffset: match[0],
			TextLength: match[1] - match[0],
		})
	}

	return refs
}

// extractEURefs extracts references to EU regulations and directives.
func (e *Extractor) extractEURefs(text, sourcePath string, existing []Reference) []Reference {
	var refs []Reference

	for _, match := range e.regulationPattern.FindAllStringSubmatchIndex(text, -1) {
		if isOverlapping(match[0], match[1], existing) {
			continue
		}
		identifier := "Verordening (" + text[match[2]:match[3]] + ") " + text[match[4]:match[5]] + "/" + text[match[6]:match[7]]
		refs = append(refs, Reference{
			Kind:       KindExternal,
			Target:     TargetRegulation,
			Origin:     OriginText,
			RawText:    text[match[0]:match[1]],
			Identifier: identifier,
			Law:        identifier,
			SourcePath: sourcePath,
			TextOffset: match[0],
			TextLength: match[1] - match[0],
		})
	}

	for _, match := range e.directivePattern.FindAllStringSubmatchIndex(text, -1) {
		if isOverlapping(match[0], match[1], existing) {
			continue
		}
		identifier := "Richtlijn " + text[match[4]:match[5]] + "/" + text[match[6]:match[7]]
		switch {
		case match[8] != -1:
			identifier += "/" + text[match[8]:match[9]]
		case match[2] != -1:
			identifier = "Richtlijn (" + text[match[2]:match[3]] + ") " + text[match[4]:match[5]] + "/" + text[match[6]:match[7]]
		}
		refs = append(refs, Reference{
			Kind:       KindExternal,
			Target:     TargetDirective,
			Origin:     OriginText,
			RawText:    text[match[0]:match[1]],
			Identifier: identifier,
			Law:        identifier,
			SourcePath: sourcePath,
			TextOffset: match[0],
			TextLength: match[1] - match[0],
		})
	}

	return refs
}

// extractLawRefs extracts references to laws by name.
func (e *Extractor) extractLawRefs(text, sourcePath string, existing []Reference) []Reference {
	var refs []Reference

	for _, match := range e.lawPattern.FindAllStringSubmatchIndex(text, -1) {
		if isOverlapping(match[0], match[1], existing) {
			continue
		}
		name := normalizeSpace(text[match[2]:match[3]])
		refs = append(refs, Reference{
			Kind:       KindExternal,
			Target:     TargetLaw,
			Origin:     OriginText,
			RawText:    text[match[0]:match[1]],
			Identifier: name,
			Law:        name,
			SourcePath: sourcePath,
			TextOffset: match[0],
			TextLength: match[1] - match[0],
		})
	}

	return refs
}

// isOverlapping checks if a span overlaps with any existing reference.
func isOverlapping(start, end int, refs []Reference) bool {
	for _, ref := range refs {
		refEnd := ref.TextOffset + ref.TextLength
		if start < refEnd && ref.TextOffset < end {
			return true
		}
	}
	return false
}

// ordinalValue converts "tweede" or "2e" into "2".
func ordinalValue(word string) string {
	word = strings.ToLower(word)
	if n, ok := ordinals[word]; ok {
		return strconv.Itoa(n)
	}
	return strings.TrimSuffix(word, "e")
}

func normalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
