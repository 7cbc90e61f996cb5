package split

import "strings"

// Context is the state threaded through splitting: the address prefix of
// the current sibling group and a counter per level within that group.
// A Context belongs to one document.
type Context struct {
	prefix   []string
	counters map[string]int
}

// NewContext returns the context of the top-level sibling group.
func NewContext() *Context {
	return &Context{counters: make(map[string]int)}
}

// Descend returns the context for the children of the component labeled label.
func (c *Context) Descend(label string) *Context {
	prefix := make([]string, len(c.prefix), len(c.prefix)+1)
	copy(prefix, c.prefix)
	return &Context{
		prefix:   append(prefix, label),
		counters: make(map[string]int),
	}
}

// Address returns the address of a component labeled label in this group.
func (c *Context) Address(label string) string {
	if len(c.prefix) == 0 {
		return label
	}
	return strings.Join(c.prefix, ".") + "." + label
}

// Prefix returns the address of the component owning this group.
func (c *Context) Prefix() string {
	return strings.Join(c.prefix, ".")
}

// NextLabel assigns the label of the next sibling at spec's level.
// A source label is used verbatim (after normalization) unless the level is
// positional; otherwise the label is one past the highest ordinal seen so far
// at that level in this group.
func (c *Context) NextLabel(spec ElementSpec, source string) string {
	highest := c.counters[spec.Level]

	if spec.Labels != LabelsPositional {
		if label := NormalizeLabel(source); label != "" {
			if n := ordinalOf(label, spec.Numbering); n > highest {
				c.counters[spec.Level] = n
			}
			return label
		}
	}

	highest++
	c.counters[spec.Level] = highest
	return FormatOrdinal(highest, spec.Numbering)
}
