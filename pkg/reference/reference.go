// Package reference models cross-references found in Dutch statutory texts and
// provides the collector that accumulates them during a parse.
package reference

import (
	"strings"
)

// Kind indicates whether a reference points into the same document or elsewhere.
type Kind string

const (
	KindInternal Kind = "internal"
	KindExternal Kind = "external"
)

// Target indicates what kind of provision is being referenced.
type Target string

const (
	TargetArticle    Target = "artikel"
	TargetParagraph  Target = "lid"
	TargetItem       Target = "onderdeel"
	TargetChapter    Target = "hoofdstuk"
	TargetSection    Target = "afdeling"
	TargetSubsection Target = "paragraaf"
	TargetTitle      Target = "titel"
	TargetLaw        Target = "wet"
	TargetRegulation Target = "verordening"
	TargetDirective  Target = "richtlijn"
	TargetDocument   Target = "document"
)

// Origin records how a reference was discovered.
type Origin string

const (
	// OriginElement references come from explicit link elements (extref, intref).
	OriginElement Origin = "element"
	// OriginText references are detected in running text.
	OriginText Origin = "text"
)

// Reference represents a detected cross-reference.
type Reference struct {
	Kind       Kind   `json:"kind" yaml:"kind"`
	Target     Target `json:"target" yaml:"target"`
	Origin     Origin `json:"origin" yaml:"origin"`
	RawText    string `json:"raw_text" yaml:"raw_text"`
	Identifier string `json:"identifier" yaml:"identifier"`

	// Law is the BWB identifier or the cited name of the referenced regulation.
	Law       string `json:"law,omitempty" yaml:"law,omitempty"`
	Article   string `json:"article,omitempty" yaml:"article,omitempty"`
	Paragraph string `json:"paragraph,omitempty" yaml:"paragraph,omitempty"`
	Item      string `json:"item,omitempty" yaml:"item,omitempty"`

	// Location information
	SourcePath    string `json:"source_path" yaml:"source_path"`
	SourceAddress string `json:"source_address,omitempty" yaml:"source_address,omitempty"`
	TextOffset    int    `json:"text_offset,omitempty" yaml:"text_offset,omitempty"`
	TextLength    int    `json:"text_length,omitempty" yaml:"text_length,omitempty"`
}

// Key identifies a reference for de-duplication. Two references with the same
// key found at the same source path are the same reference.
func (r Reference) Key() string {
	return strings.Join([]string{
		string(r.Kind),
		string(r.Target),
		string(r.Origin),
		r.Identifier,
		r.SourcePath,
		r.RawText,
	}, "\x1f")
}

// buildIdentifier renders the canonical identifier "<law> artikel 3 lid 2 onderdeel a".
func buildIdentifier(law, article, paragraph, item string) string {
	var parts []string
	if law != "" {
		parts = append(parts, law)
	}
	if article != "" {
		parts = append(parts, "artikel "+article)
	}
	if paragraph != "" {
		parts = append(parts, "lid "+paragraph)
	}
	if item != "" {
		parts = append(parts, "onderdeel "+item)
	}
	return strings.Join(parts, " ")
}

// Collector accumulates the references found anywhere in one document.
// It is append-only and keeps first-seen order; duplicates are dropped.
// A Collector belongs to a single parse and must not be shared between documents.
type Collector struct {
	document string
	seen     map[string]struct{}
	refs     []Reference
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[string]struct{})}
}

// SetDocument records the identifier of the document being parsed, used to
// classify link elements that point back into the same document as internal.
// Only the first non-empty identifier is kept.
func (c *Collector) SetDocument(id string) {
	if c.document == "" {
		c.document = strings.TrimSpace(id)
	}
}

// Document returns the identifier recorded with SetDocument.
func (c *Collector) Document() string {
	return c.document
}

// Add appends ref unless an identical reference was already collected.
// It reports whether the reference was new.
func (c *Collector) Add(ref Reference) bool {
	key := ref.Key()
	if _, exists := c.seen[key]; exists {
		return false
	}
	c.seen[key] = struct{}{}
	c.refs = append(c.refs, ref)
	return true
}

// All returns a copy of the collected references in discovery order.
func (c *Collector) All() []Reference {
	result := make([]Reference, len(c.refs))
	copy(result, c.refs)
	return result
}

// Len returns the number of collected references.
func (c *Collector) Len() int {
	return len(c.refs)
}
