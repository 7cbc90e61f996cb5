package element

import "strings"

// ParseResult is the output of handling one element.
//
// Text holds the character data before the first child; Tail holds the
// character data that follows the element's closing tag inside its parent.
// Both are kept raw so the original order of text and children can be
// reconstructed with Content.
type ParseResult struct {
	Type  Type
	Tag   string
	Path  string
	Attrs map[string]string

	// Label is the explicit numbering the source gives this element, e.g. "1" or "a.".
	Label string
	Title string

	Text     string
	Tail     string
	Children []*ParseResult
}

// Content returns the cleaned body text of the element: its own text and the
// content of every non-metadata descendant, each child's tail in position.
func (r *ParseResult) Content() string {
	return r.ContentFunc(nil)
}

// ContentFunc is like Content but also omits the content (not the tail) of
// every descendant for which skip returns true.
func (r *ParseResult) ContentFunc(skip func(*ParseResult) bool) string {
	var b strings.Builder
	r.writeContent(&b, skip)
	return Clean(b.String())
}

func (r *ParseResult) writeContent(b *strings.Builder, skip func(*ParseResult) bool) {
	b.WriteString(r.Text)
	for _, child := range r.Children {
		if !child.Type.IsMetadata() && (skip == nil || !skip(child)) {
			if child.Type.IsBlock() {
				b.WriteByte(' ')
				child.writeContent(b, skip)
				b.WriteByte(' ')
			} else {
				child.writeContent(b, skip)
			}
		}
		b.WriteString(child.Tail)
	}
}

// OwnText returns the text directly inside the element: its leading text and
// the tails of its children, without any child content.
func (r *ParseResult) OwnText() string {
	var b strings.Builder
	b.WriteString(r.Text)
	for _, child := range r.Children {
		b.WriteByte(' ')
		b.WriteString(child.Tail)
	}
	return Clean(b.String())
}

// Find returns the first direct child of type t.
func (r *ParseResult) Find(t Type) *ParseResult {
	for _, child := range r.Children {
		if child.Type == t {
			return child
		}
	}
	return nil
}

// Walk visits r and its descendants depth-first in source order.
// Returning false from fn skips the descendants of that node.
func (r *ParseResult) Walk(fn func(*ParseResult) bool) {
	if !fn(r) {
		return
	}
	for _, child := range r.Children {
		child.Walk(fn)
	}
}

// Attr returns the named attribute value or the empty string.
func (r *ParseResult) Attr(name string) string {
	return r.Attrs[name]
}
