package split

import (
	"strings"

	"go.uber.org/zap"

	"github.com/coolbeans/harvester/pkg/element"
	"github.com/coolbeans/harvester/pkg/errdefs"
)

// Engine splits parse trees into article trees.
// It holds no per-document state and is safe for concurrent use.
type Engine struct {
	hierarchy *HierarchyRegistry
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an Engine over hierarchy. A nil hierarchy selects DutchLawHierarchy.
func NewEngine(hierarchy *HierarchyRegistry, opts ...Option) *Engine {
	if hierarchy == nil {
		hierarchy = DutchLawHierarchy()
	}
	e := &Engine{hierarchy: hierarchy, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Hierarchy returns the registry of the engine.
func (e *Engine) Hierarchy() *HierarchyRegistry {
	return e.hierarchy
}

// Split converts root into an article tree. The returned component is the
// document itself: it has an empty address and the top-level components as
// children. The tree is validated before it is returned; any violation is a
// *errdefs.SplitError.
func (e *Engine) Split(root *element.ParseResult) (*ArticleComponent, error) {
	if root == nil {
		return nil, &errdefs.SplitError{Reason: "empty parse tree"}
	}

	doc := &ArticleComponent{
		Level:      "document",
		Title:      documentTitle(root),
		SourcePath: root.Path,
	}

	consumed := make(map[*element.ParseResult]bool)
	children, err := e.splitChildren(root, NewContext(), nil, consumed)
	if err != nil {
		return nil, err
	}
	doc.Children = children
	doc.Text = bodyText(root, consumed)

	if err := Validate(doc); err != nil {
		return nil, err
	}

	e.logger.Debug("Split document",
		zap.String("title", doc.Title),
		zap.Int("components", len(doc.Flatten())))
	return doc, nil
}

// splitChildren turns the children of node into components of the sibling
// group ctx. Every node that became a component is recorded in consumed, so
// the caller can exclude it from its body text. Transparent containers are
// not recorded: their remaining text folds into the enclosing body.
func (e *Engine) splitChildren(node *element.ParseResult, ctx *Context, headings []string, consumed map[*element.ParseResult]bool) ([]*ArticleComponent, error) {
	var components []*ArticleComponent

	for _, child := range node.Children {
		if child.Type.IsMetadata() {
			continue
		}

		spec, ok := e.hierarchy.SpecFor(child.Type)
		if !ok {
			// Unrecognized elements fold into the body text unless they wrap components.
			if !e.containsComponents(child) {
				continue
			}
			spec = ElementSpec{Kind: KindContainer}
		}

		if spec.Kind == KindContainer {
			nested, err := e.splitChildren(child, ctx, withHeading(headings, child), consumed)
			if err != nil {
				return nil, err
			}
			components = append(components, nested...)
			continue
		}

		component, err := e.component(child, spec, ctx, headings)
		if err != nil {
			return nil, err
		}
		components = append(components, component)
		consumed[child] = true
	}

	return components, nil
}

func (e *Engine) component(node *element.ParseResult, spec ElementSpec, ctx *Context, headings []string) (*ArticleComponent, error) {
	label := ctx.NextLabel(spec, node.Label)
	if label == "" {
		return nil, &errdefs.SplitError{Address: ctx.Prefix(), Reason: "cannot derive a label for " + node.Path}
	}

	component := &ArticleComponent{
		Address:    ctx.Address(label),
		Label:      label,
		Level:      spec.Level,
		Title:      node.Title,
		Context:    headings,
		SourcePath: node.Path,
	}

	switch spec.Kind {
	case KindInternal:
		consumed := make(map[*element.ParseResult]bool)
		children, err := e.splitChildren(node, ctx.Descend(label), nil, consumed)
		if err != nil {
			return nil, err
		}
		component.Children = children
		component.Text = bodyText(node, consumed)

	case KindLeaf:
		body, items := splitterFor(spec.Strategy).split(leafText(node))
		component.Text = body
		itemCtx := ctx.Descend(label)
		for _, it := range items {
			component.Children = append(component.Children, &ArticleComponent{
				Address:    itemCtx.Address(it.label),
				Label:      it.label,
				Level:      spec.ItemLevel,
				Text:       it.text,
				SourcePath: node.Path,
			})
		}
	}

	return component, nil
}

// containsComponents reports whether any descendant of node is recognized
// by a non-container level.
func (e *Engine) containsComponents(node *element.ParseResult) bool {
	found := false
	node.Walk(func(n *element.ParseResult) bool {
		if found || n.Type.IsMetadata() {
			return false
		}
		if spec, ok := e.hierarchy.SpecFor(n.Type); ok && spec.Kind != KindContainer {
			found = true
			return false
		}
		return true
	})
	return found
}

// withHeading appends the heading of a titled container to headings.
func withHeading(headings []string, node *element.ParseResult) []string {
	if node.Label == "" && node.Title == "" {
		return headings
	}
	parts := []string{node.Tag}
	if node.Label != "" {
		parts = append(parts, node.Label)
	}
	if node.Title != "" {
		parts = append(parts, node.Title)
	}
	result := make([]string, len(headings), len(headings)+1)
	copy(result, headings)
	return append(result, strings.Join(parts, " "))
}

// documentTitle returns the citation title, falling back to the long title.
func documentTitle(root *element.ParseResult) string {
	var citation, long string
	root.Walk(func(n *element.ParseResult) bool {
		if n.Type != element.TypePreamble || n.Title == "" {
			return true
		}
		switch n.Tag {
		case "citeertitel":
			if citation == "" {
				citation = n.Title
			}
		default:
			if long == "" {
				long = n.Title
			}
		}
		return false
	})
	if citation != "" {
		return citation
	}
	return long
}

// bodyText flattens node, leaving out metadata and consumed descendants.
func bodyText(node *element.ParseResult, consumed map[*element.ParseResult]bool) string {
	return flatten(node, func(child *element.ParseResult, _ int) bool {
		return !child.Type.IsMetadata() && !consumed[child]
	})
}

// leafText flattens a leaf. Only the leaf's own label and heading are left
// out; nested numbering is kept so strategies can see enumeration markers.
func leafText(node *element.ParseResult) string {
	return flatten(node, func(child *element.ParseResult, depth int) bool {
		if depth > 1 && child.Type == element.TypeLabel {
			return true
		}
		return !child.Type.IsMetadata()
	})
}

func flatten(node *element.ParseResult, include func(child *element.ParseResult, depth int) bool) string {
	var b strings.Builder
	writeFlat(&b, node, 1, include)
	return element.Clean(b.String())
}

func writeFlat(b *strings.Builder, node *element.ParseResult, depth int, include func(*element.ParseResult, int) bool) {
	b.WriteString(node.Text)
	for _, child := range node.Children {
		if include(child, depth) {
			if child.Type.IsBlock() {
				b.WriteByte(' ')
				writeFlat(b, child, depth+1, include)
				b.WriteByte(' ')
			} else {
				writeFlat(b, child, depth+1, include)
			}
		}
		b.WriteString(child.Tail)
	}
}
