// Package profile loads harvesting profiles: YAML files that define the
// hierarchy levels of a document family and extend the element registry
// with additional tags.
package profile

import (
	"fmt"
	"sort"

	"github.com/coolbeans/harvester/pkg/element"
	"github.com/coolbeans/harvester/pkg/errdefs"
	"github.com/coolbeans/harvester/pkg/split"
)

// BuiltinName is the name of the profile that is always registered.
const BuiltinName = "dutch-law"

// Profile describes how one family of documents is parsed and split.
type Profile struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`

	// Levels are the hierarchy levels. An empty list selects the Dutch law levels.
	Levels []split.ElementSpec `yaml:"levels,omitempty"`

	// Elements registers tags on top of the built-in element families.
	Elements Elements `yaml:"elements,omitempty"`

	hierarchy *split.HierarchyRegistry
	source    string
}

// Elements lists extra tags per element family.
type Elements struct {
	// Structural maps a tag to the element type it represents.
	Structural map[string]element.Type `yaml:"structural,omitempty"`
	Inline     []string                `yaml:"inline,omitempty"`
	Preamble   []string                `yaml:"preamble,omitempty"`
	Ignore     []string                `yaml:"ignore,omitempty"`
	References []string                `yaml:"references,omitempty"`
}

// Builtin returns the built-in Dutch law profile.
func Builtin() *Profile {
	p := &Profile{
		Name:        BuiltinName,
		Version:     "builtin",
		Description: "Dutch statutory law (BWB): artikel, lid, onderdeel",
		Levels:      split.DutchLawSpecs(),
		source:      "builtin",
	}
	if err := p.Compile(); err != nil {
		panic(err)
	}
	return p
}

// Validate checks the fields that do not require building registries.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return p.configError("name is required")
	}
	if p.Version == "" {
		return p.configError("version is required")
	}
	return nil
}

// Compile validates the profile and builds its hierarchy. The element
// extensions are checked by building a throwaway registry.
func (p *Profile) Compile() error {
	if err := p.Validate(); err != nil {
		return err
	}

	levels := p.Levels
	if len(levels) == 0 {
		levels = split.DutchLawSpecs()
	}
	hierarchy, err := split.NewHierarchyRegistry(levels...)
	if err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	if _, err := p.ElementRegistry(); err != nil {
		return err
	}

	p.hierarchy = hierarchy
	return nil
}

// IsCompiled reports whether Compile succeeded.
func (p *Profile) IsCompiled() bool {
	return p.hierarchy != nil
}

// Hierarchy returns the compiled hierarchy registry, or nil before Compile.
func (p *Profile) Hierarchy() *split.HierarchyRegistry {
	return p.hierarchy
}

// Source returns the file the profile was loaded from.
func (p *Profile) Source() string {
	return p.source
}

// ElementRegistry builds a new, unsealed element registry holding the
// built-in families plus the profile's extensions. A fresh registry is
// returned on every call because engines seal the registry they are given.
func (p *Profile) ElementRegistry() (*element.Registry, error) {
	r := element.DefaultRegistry()

	tags := make([]string, 0, len(p.Elements.Structural))
	for tag := range p.Elements.Structural {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		handler, err := structuralHandler(p.Elements.Structural[tag])
		if err != nil {
			return nil, p.configError("tag %q: %v", tag, err)
		}
		if err := r.Register(tag, handler); err != nil {
			return nil, fmt.Errorf("profile %q: %w", p.Name, err)
		}
	}

	families := []struct {
		tags    []string
		handler element.Handler
	}{
		{p.Elements.Inline, element.Inline()},
		{p.Elements.Preamble, element.Preamble(false)},
		{p.Elements.Ignore, element.Ignored()},
		{p.Elements.References, element.Link()},
	}
	for _, family := range families {
		for _, tag := range family.tags {
			if err := r.Register(tag, family.handler); err != nil {
				return nil, fmt.Errorf("profile %q: %w", p.Name, err)
			}
		}
	}
	return r, nil
}

func structuralHandler(t element.Type) (element.Handler, error) {
	switch t {
	case element.TypeDocument, element.TypeDivision, element.TypeArticle,
		element.TypeParagraph, element.TypeList, element.TypeListItem:
		return element.Structural(t), nil
	case element.TypeHeading:
		return element.Heading(), nil
	case element.TypeLabel:
		return element.Label(true), nil
	case element.TypeTitle:
		return element.Title(), nil
	case element.TypeText:
		return element.Text(), nil
	}
	return nil, fmt.Errorf("type %q is not structural", t)
}

func (p *Profile) configError(format string, args ...any) error {
	name := p.Name
	if name == "" {
		name = "unnamed"
	}
	return &errdefs.ConfigurationError{
		Component: fmt.Sprintf("profile %q", name),
		Reason:    fmt.Sprintf(format, args...),
	}
}
