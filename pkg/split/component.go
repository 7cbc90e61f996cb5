package split

// ArticleComponent is an addressed node of the article tree.
type ArticleComponent struct {
	// Address is the dot-notation address, e.g. "1.1.a". The document root has an empty address.
	Address string `json:"address" yaml:"address"`
	// Label is the last address segment.
	Label string `json:"label" yaml:"label"`
	Level string `json:"level" yaml:"level"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	// Context lists the headings of the divisions enclosing a top-level component.
	Context []string `json:"context,omitempty" yaml:"context,omitempty"`
	Text    string   `json:"text,omitempty" yaml:"text,omitempty"`
	// References lists identifiers of cross-references found in this component.
	References []string `json:"references,omitempty" yaml:"references,omitempty"`
	// SourcePath is the parse path of the element the component came from.
	SourcePath string              `json:"-" yaml:"-"`
	Children   []*ArticleComponent `json:"components,omitempty" yaml:"components,omitempty"`
}

// Walk visits c and its descendants depth-first in document order.
func (c *ArticleComponent) Walk(fn func(*ArticleComponent)) {
	fn(c)
	for _, child := range c.Children {
		child.Walk(fn)
	}
}

// Flatten returns all components below c in document order, excluding c.
func (c *ArticleComponent) Flatten() []*ArticleComponent {
	var result []*ArticleComponent
	for _, child := range c.Children {
		child.Walk(func(component *ArticleComponent) {
			result = append(result, component)
		})
	}
	return result
}

// Find returns the component with the given address below c.
func (c *ArticleComponent) Find(address string) *ArticleComponent {
	for _, component := range c.Flatten() {
		if component.Address == address {
			return component
		}
	}
	return nil
}
