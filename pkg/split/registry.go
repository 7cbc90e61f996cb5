package split

import (
	"fmt"

	"github.com/coolbeans/harvester/pkg/element"
	"github.com/coolbeans/harvester/pkg/errdefs"
)

// HierarchyRegistry maps element types to level specifications.
// It is immutable after construction and safe for concurrent use.
type HierarchyRegistry struct {
	specs   []ElementSpec
	byType  map[element.Type]int
	byLevel map[string]int
}

// NewHierarchyRegistry validates specs and builds a registry.
// Conflicting or incomplete specifications return a *errdefs.ConfigurationError.
func NewHierarchyRegistry(specs ...ElementSpec) (*HierarchyRegistry, error) {
	r := &HierarchyRegistry{
		byType:  make(map[element.Type]int),
		byLevel: make(map[string]int),
	}

	for _, spec := range specs {
		spec = spec.withDefaults()
		if err := validateSpec(spec); err != nil {
			return nil, err
		}
		if _, exists := r.byLevel[spec.Level]; exists {
			return nil, configError("level %q defined twice", spec.Level)
		}

		index := len(r.specs)
		for _, t := range spec.Types {
			if other, exists := r.byType[t]; exists {
				return nil, configError("element type %q claimed by levels %q and %q", t, r.specs[other].Level, spec.Level)
			}
			r.byType[t] = index
		}
		r.byLevel[spec.Level] = index
		r.specs = append(r.specs, spec)
	}

	for _, spec := range r.specs {
		if spec.ItemLevel == "" {
			continue
		}
		if _, exists := r.byLevel[spec.ItemLevel]; exists {
			return nil, configError("item level %q of %q collides with a defined level", spec.ItemLevel, spec.Level)
		}
	}

	return r, nil
}

func validateSpec(spec ElementSpec) error {
	if spec.Level == "" {
		return configError("level name cannot be empty")
	}
	if len(spec.Types) == 0 {
		return configError("level %q matches no element types", spec.Level)
	}

	switch spec.Kind {
	case KindContainer:
		if spec.Strategy != "" {
			return configError("container level %q cannot have a split strategy", spec.Level)
		}
		return nil
	case KindInternal:
		if spec.Strategy != "" {
			return configError("internal level %q cannot have a split strategy", spec.Level)
		}
	case KindLeaf:
		switch spec.Strategy {
		case StrategyLeaf:
		case StrategyEnumeration:
			if spec.ItemLevel == "" {
				return configError("level %q uses enumeration without an item level", spec.Level)
			}
		default:
			return configError("level %q has unknown strategy %q", spec.Level, spec.Strategy)
		}
	default:
		return configError("level %q has unknown kind %q", spec.Level, spec.Kind)
	}

	switch spec.Numbering {
	case NumberingNumeric, NumberingAlphabetic, NumberingRoman:
	default:
		return configError("level %q has unknown numbering %q", spec.Level, spec.Numbering)
	}
	switch spec.Labels {
	case LabelsSourceFirst, LabelsPositional:
	default:
		return configError("level %q has unknown label policy %q", spec.Level, spec.Labels)
	}
	return nil
}

func configError(format string, args ...any) error {
	return &errdefs.ConfigurationError{Component: "hierarchy registry", Reason: fmt.Sprintf(format, args...)}
}

// SpecFor returns the level specification that recognizes t.
func (r *HierarchyRegistry) SpecFor(t element.Type) (ElementSpec, bool) {
	index, ok := r.byType[t]
	if !ok {
		return ElementSpec{}, false
	}
	return r.specs[index], true
}

// Level returns the specification of the named level.
func (r *HierarchyRegistry) Level(name string) (ElementSpec, bool) {
	index, ok := r.byLevel[name]
	if !ok {
		return ElementSpec{}, false
	}
	return r.specs[index], true
}

// Specs returns the specifications in registration order.
func (r *HierarchyRegistry) Specs() []ElementSpec {
	result := make([]ElementSpec, len(r.specs))
	copy(result, r.specs)
	return result
}
