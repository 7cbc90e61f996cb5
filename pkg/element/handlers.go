package element

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/coolbeans/harvester/pkg/reference"
)

// Structural returns the handler for container elements of type t:
// documents, divisions, articles, paragraphs, lists and list items.
// Document handlers record the bwb-id attribute as the document identifier
// before any child is parsed.
func Structural(t Type) Handler {
	return structuralHandler{typ: t}
}

type structuralHandler struct {
	typ Type
}

func (h structuralHandler) Handle(el *etree.Element, ctx ParseContext, recurse Recurse) (*ParseResult, error) {
	if h.typ == TypeDocument && ctx.Collector != nil {
		ctx.Collector.SetDocument(el.SelectAttrValue("bwb-id", ""))
	}

	res := newResult(el, ctx, h.typ)
	if err := collectChildren(res, el, recurse); err != nil {
		return nil, err
	}

	res.Label = sourceLabel(el, res)
	if heading := res.Find(TypeHeading); heading != nil {
		res.Title = heading.Title
	}
	ctx.ScanText(res.OwnText())
	return res, nil
}

// Heading returns the handler for heading blocks (kop). The heading takes
// its label from a numbering child and its title from a title child.
func Heading() Handler {
	return HandlerFunc(func(el *etree.Element, ctx ParseContext, recurse Recurse) (*ParseResult, error) {
		res := newResult(el, ctx, TypeHeading)
		if err := collectChildren(res, el, recurse); err != nil {
			return nil, err
		}
		for _, child := range res.Children {
			switch {
			case child.Type == TypeLabel && res.Label == "":
				res.Label = child.Label
			case child.Type == TypeTitle && res.Title == "":
				res.Title = child.Title
			}
		}
		if res.Title == "" {
			res.Title = res.OwnText()
		}
		return res, nil
	})
}

// Label returns the handler for label elements. When numbering is true the
// element's text is the source number (nr, lidnr, li.nr); otherwise it is a
// label word such as "Artikel" and is kept as text only.
func Label(numbering bool) Handler {
	return HandlerFunc(func(el *etree.Element, ctx ParseContext, recurse Recurse) (*ParseResult, error) {
		res := newResult(el, ctx, TypeLabel)
		if err := collectChildren(res, el, recurse); err != nil {
			return nil, err
		}
		if numbering {
			res.Label = res.Content()
		}
		return res, nil
	})
}

// Title returns the handler for title elements.
func Title() Handler {
	return HandlerFunc(func(el *etree.Element, ctx ParseContext, recurse Recurse) (*ParseResult, error) {
		res := newResult(el, ctx, TypeTitle)
		if err := collectChildren(res, el, recurse); err != nil {
			return nil, err
		}
		res.Title = res.Content()
		return res, nil
	})
}

// Text returns the handler for text blocks (al). Its content, apart from
// explicit reference elements, is scanned for textual cross-references.
func Text() Handler {
	return HandlerFunc(func(el *etree.Element, ctx ParseContext, recurse Recurse) (*ParseResult, error) {
		res := newResult(el, ctx, TypeText)
		if err := collectChildren(res, el, recurse); err != nil {
			return nil, err
		}
		ctx.ScanText(res.ContentFunc(func(child *ParseResult) bool {
			return child.Type == TypeReference
		}))
		return res, nil
	})
}

// Inline returns the handler for inline markup. Inline content is
// concatenated with its surroundings without added whitespace.
func Inline() Handler {
	return HandlerFunc(func(el *etree.Element, ctx ParseContext, recurse Recurse) (*ParseResult, error) {
		res := newResult(el, ctx, TypeInline)
		if err := collectChildren(res, el, recurse); err != nil {
			return nil, err
		}
		return res, nil
	})
}

// Link returns the handler for explicit reference elements (extref, intref).
// The target is read from the doc attribute, falling back to bwb-id.
func Link() Handler {
	return HandlerFunc(func(el *etree.Element, ctx ParseContext, recurse Recurse) (*ParseResult, error) {
		res := newResult(el, ctx, TypeReference)
		if err := collectChildren(res, el, recurse); err != nil {
			return nil, err
		}

		target := el.SelectAttrValue("doc", "")
		if target == "" {
			target = el.SelectAttrValue("bwb-id", "")
		}
		if target != "" && ctx.Collector != nil {
			ctx.AddReference(reference.FromLink(target, res.Content(), ctx.Collector.Document(), ctx.Path))
		}
		return res, nil
	})
}

// Note returns the handler for footnotes. The note body is not parsed; the
// result carries only the marker "[n]", which the parent merges into the
// preceding text run.
func Note() Handler {
	return HandlerFunc(func(el *etree.Element, ctx ParseContext, _ Recurse) (*ParseResult, error) {
		res := newResult(el, ctx, TypeNote)

		nr := el.SelectAttrValue("nr", "")
		if nr == "" {
			for _, tag := range []string{"noot.nr", "nr"} {
				if child := el.SelectElement(tag); child != nil {
					nr = child.Text()
					break
				}
			}
		}
		nr = strings.Trim(Clean(nr), ").")
		if nr == "" {
			nr = "*"
		}

		res.Label = nr
		res.Text = "[" + nr + "]"
		return res, nil
	})
}

// Preamble returns the handler for preamble elements. When titled is true
// the element content is also recorded as the result's title (citeertitel,
// intitule).
func Preamble(titled bool) Handler {
	return HandlerFunc(func(el *etree.Element, ctx ParseContext, recurse Recurse) (*ParseResult, error) {
		res := newResult(el, ctx, TypePreamble)
		if err := collectChildren(res, el, recurse); err != nil {
			return nil, err
		}
		if titled {
			res.Title = res.Content()
		}
		return res, nil
	})
}

// Ignored returns the handler for elements whose subtree carries no content.
func Ignored() Handler {
	return HandlerFunc(func(el *etree.Element, ctx ParseContext, _ Recurse) (*ParseResult, error) {
		return newResult(el, ctx, TypeIgnored), nil
	})
}

// PassThrough returns the fallback handler for unregistered tags. It records
// an unknown-tag warning, keeps the element's text and parses its children.
func PassThrough() Handler {
	return HandlerFunc(func(el *etree.Element, ctx ParseContext, recurse Recurse) (*ParseResult, error) {
		ctx.Warn(el.Tag)
		res := newResult(el, ctx, TypeUnknown)
		if err := collectChildren(res, el, recurse); err != nil {
			return nil, err
		}
		ctx.ScanText(res.OwnText())
		return res, nil
	})
}

func newResult(el *etree.Element, ctx ParseContext, t Type) *ParseResult {
	res := &ParseResult{Type: t, Tag: el.Tag, Path: ctx.Path}
	if len(el.Attr) > 0 {
		res.Attrs = make(map[string]string, len(el.Attr))
		for _, attr := range el.Attr {
			key := attr.Key
			if attr.Space != "" {
				key = attr.Space + ":" + attr.Key
			}
			res.Attrs[key] = attr.Value
		}
	}
	return res
}

// collectChildren walks the mixed content of el in order. Character data
// before the first child becomes res.Text, character data after a child
// becomes that child's Tail. Notes are merged into the preceding text run.
func collectChildren(res *ParseResult, el *etree.Element, recurse Recurse) error {
	var last *ParseResult
	appendText := func(text string) {
		if last == nil {
			res.Text += text
		} else {
			last.Tail += text
		}
	}

	for _, token := range el.Child {
		switch node := token.(type) {
		case *etree.CharData:
			appendText(node.Data)
		case *etree.Element:
			child, err := recurse(node)
			if err != nil {
				return err
			}
			if child == nil {
				continue
			}
			if child.Type == TypeNote {
				appendText(child.Text)
				continue
			}
			res.Children = append(res.Children, child)
			last = child
		}
	}
	return nil
}

// sourceLabel finds the explicit numbering of a structural element: the nr
// attribute, the heading number, a numbering child, or the label attribute.
func sourceLabel(el *etree.Element, res *ParseResult) string {
	if nr := strings.TrimSpace(el.SelectAttrValue("nr", "")); nr != "" {
		return nr
	}
	if heading := res.Find(TypeHeading); heading != nil && heading.Label != "" {
		return heading.Label
	}
	for _, child := range res.Children {
		if child.Type == TypeLabel && child.Label != "" {
			return child.Label
		}
	}
	if label := el.SelectAttrValue("label", ""); label != "" {
		return stripLabelWord(label)
	}
	return ""
}
