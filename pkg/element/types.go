// Package element parses BWB statutory XML into an intermediate tree of typed
// parse results by dispatching every element to a handler registered for its tag.
package element

// Type identifies the kind of legal-document construct a parse result represents.
// The default set below is closed for the built-in handlers but registries may
// introduce additional types.
type Type string

const (
	TypeDocument  Type = "document"
	TypeDivision  Type = "division"
	TypeArticle   Type = "article"
	TypeParagraph Type = "paragraph"
	TypeList      Type = "list"
	TypeListItem  Type = "list_item"
	TypeHeading   Type = "heading"
	TypeLabel     Type = "label"
	TypeTitle     Type = "title"
	TypeText      Type = "text"
	TypeInline    Type = "inline"
	TypeReference Type = "reference"
	TypeNote      Type = "note"
	TypePreamble  Type = "preamble"
	TypeIgnored   Type = "ignored"
	TypeUnknown   Type = "unknown"
)

// IsBlock reports whether content of this type is separated from its
// neighbours by whitespace when a tree is flattened to text.
func (t Type) IsBlock() bool {
	switch t {
	case TypeDocument, TypeDivision, TypeArticle, TypeParagraph, TypeList,
		TypeListItem, TypeHeading, TypeText, TypePreamble:
		return true
	}
	return false
}

// IsMetadata reports whether content of this type describes its parent
// (numbering, headings, preamble) rather than contributing body text.
func (t Type) IsMetadata() bool {
	switch t {
	case TypeHeading, TypeLabel, TypeTitle, TypePreamble, TypeIgnored:
		return true
	}
	return false
}

// ParseType converts a type name from configuration into a Type.
// Unknown names are accepted as custom types.
func ParseType(name string) Type {
	return Type(name)
}
