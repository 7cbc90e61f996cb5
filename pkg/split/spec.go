// Package split turns a parse tree into an addressed tree of article
// components (artikel, lid, onderdeel) using a hierarchy of element specs.
package split

import "github.com/coolbeans/harvester/pkg/element"

// Kind describes how a hierarchy level takes part in addressing.
type Kind string

const (
	// KindContainer levels group components without adding an address segment.
	KindContainer Kind = "container"
	// KindInternal levels add a segment and recurse into their children.
	KindInternal Kind = "internal"
	// KindLeaf levels add a segment and hand their text to a split strategy.
	KindLeaf Kind = "leaf"
)

// Numbering is the label convention of a level.
type Numbering string

const (
	NumberingNumeric    Numbering = "numeric"
	NumberingAlphabetic Numbering = "alphabetic"
	NumberingRoman      Numbering = "roman"
)

// LabelPolicy selects where labels come from.
type LabelPolicy string

const (
	// LabelsSourceFirst takes the label from the source when one is present
	// and counts positionally otherwise.
	LabelsSourceFirst LabelPolicy = "source"
	// LabelsPositional always counts positionally.
	LabelsPositional LabelPolicy = "positional"
)

// Strategy names a leaf split strategy.
type Strategy string

const (
	// StrategyLeaf keeps leaf text atomic.
	StrategyLeaf Strategy = "leaf"
	// StrategyEnumeration splits leaf text at enumeration markers ("a.", "1°").
	StrategyEnumeration Strategy = "enumeration"
)

// ElementSpec configures one hierarchy level.
type ElementSpec struct {
	// Level is the level name used in output, e.g. "artikel".
	Level string `yaml:"level"`
	// Types are the element types recognized at this level.
	Types     []element.Type `yaml:"types"`
	Kind      Kind           `yaml:"kind"`
	Numbering Numbering      `yaml:"numbering,omitempty"`
	Labels    LabelPolicy    `yaml:"labels,omitempty"`
	// Strategy applies to leaf levels only.
	Strategy Strategy `yaml:"strategy,omitempty"`
	// ItemLevel names the components produced by a decomposing strategy.
	ItemLevel string `yaml:"item_level,omitempty"`
}

// withDefaults fills in the conventional defaults for unset fields.
func (s ElementSpec) withDefaults() ElementSpec {
	if s.Kind != KindContainer {
		if s.Numbering == "" {
			s.Numbering = NumberingNumeric
		}
		if s.Labels == "" {
			s.Labels = LabelsSourceFirst
		}
	}
	if s.Kind == KindLeaf && s.Strategy == "" {
		s.Strategy = StrategyLeaf
	}
	return s
}

// DutchLawSpecs returns the level specifications of Dutch statutory law.
// Documents, divisions and lists are transparent containers.
func DutchLawSpecs() []ElementSpec {
	return []ElementSpec{
		{Level: "document", Types: []element.Type{element.TypeDocument}, Kind: KindContainer},
		{Level: "divisie", Types: []element.Type{element.TypeDivision}, Kind: KindContainer},
		{Level: "lijst", Types: []element.Type{element.TypeList}, Kind: KindContainer},
		{Level: "artikel", Types: []element.Type{element.TypeArticle}, Kind: KindInternal, Numbering: NumberingNumeric},
		{Level: "lid", Types: []element.Type{element.TypeParagraph}, Kind: KindInternal, Numbering: NumberingNumeric},
		{
			Level:     "onderdeel",
			Types:     []element.Type{element.TypeListItem},
			Kind:      KindLeaf,
			Numbering: NumberingAlphabetic,
			Strategy:  StrategyEnumeration,
			ItemLevel: "subonderdeel",
		},
	}
}

// DutchLawHierarchy returns the registry built from DutchLawSpecs.
func DutchLawHierarchy() *HierarchyRegistry {
	registry, err := NewHierarchyRegistry(DutchLawSpecs()...)
	if err != nil {
		panic(err)
	}
	return registry
}
