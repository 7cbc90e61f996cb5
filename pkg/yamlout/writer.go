package yamlout

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/harvester/pkg/split"
)

// DefaultWidth is the default wrap width for text fields.
const DefaultWidth = 100

// Writer serializes article trees. Output is byte-stable: the same tree
// always produces the same bytes.
type Writer struct {
	width int
}

// Option configures a Writer.
type Option func(*Writer)

// WithWidth sets the wrap width. Values below 1 disable wrapping.
func WithWidth(width int) Option {
	return func(w *Writer) {
		w.width = width
	}
}

// NewWriter creates a Writer.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{width: DefaultWidth}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Width returns the wrap width.
func (w *Writer) Width() int {
	return w.width
}

// Serialize renders one YAML document per top-level component of root,
// separated by "---". A tree without components yields empty output.
//
// Keys appear in the order address, level, title, context, text,
// references, components. Addresses are always double-quoted. Long
// title and text values are folded (">-") at word boundaries.
func (w *Writer) Serialize(root *split.ArticleComponent) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write is like Serialize but writes to out.
func (w *Writer) Write(out io.Writer, root *split.ArticleComponent) error {
	if root == nil {
		return nil
	}
	var buf bytes.Buffer
	for i, component := range root.Children {
		if i > 0 {
			buf.WriteString("---\n")
		}
		if err := w.writeComponent(&buf, component, 0, false); err != nil {
			return fmt.Errorf("failed to serialize component %q: %w", component.Address, err)
		}
	}
	_, err := out.Write(buf.Bytes())
	return err
}

// mappingWriter writes the keys of one mapping. The first key of a sequence
// item carries the "- " indicator.
type mappingWriter struct {
	buf    *bytes.Buffer
	indent int
	item   bool
	first  bool
}

func (m *mappingWriter) key(name string) {
	if m.first && m.item {
		m.buf.WriteString(strings.Repeat(" ", m.indent-2))
		m.buf.WriteString("- ")
	} else {
		m.buf.WriteString(strings.Repeat(" ", m.indent))
	}
	m.first = false
	m.buf.WriteString(name)
	m.buf.WriteByte(':')
}

func (m *mappingWriter) scalar(name, value string, style yaml.Style) error {
	encoded, err := encodeScalar(value, style)
	if err != nil {
		return err
	}
	m.key(name)
	m.buf.WriteByte(' ')
	m.buf.WriteString(encoded)
	m.buf.WriteByte('\n')
	return nil
}

func (m *mappingWriter) sequence(name string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	m.key(name)
	m.buf.WriteByte('\n')
	for _, value := range values {
		encoded, err := encodeScalar(value, 0)
		if err != nil {
			return err
		}
		m.buf.WriteString(strings.Repeat(" ", m.indent+2))
		m.buf.WriteString("- ")
		m.buf.WriteString(encoded)
		m.buf.WriteByte('\n')
	}
	return nil
}

func (w *Writer) text(m *mappingWriter, name, value string) error {
	if value == "" {
		return nil
	}
	if !ShouldWrapText(value, w.width) || !foldable(value) {
		return m.scalar(name, value, 0)
	}
	m.key(name)
	m.buf.WriteString(" >-\n")
	for _, line := range WrapText(value, w.width) {
		m.buf.WriteString(strings.Repeat(" ", m.indent+2))
		m.buf.WriteString(line)
		m.buf.WriteByte('\n')
	}
	return nil
}

func (w *Writer) writeComponent(buf *bytes.Buffer, c *split.ArticleComponent, indent int, item bool) error {
	m := &mappingWriter{buf: buf, indent: indent, item: item, first: true}

	if err := m.scalar("address", c.Address, yaml.DoubleQuotedStyle); err != nil {
		return err
	}
	if err := m.scalar("level", c.Level, 0); err != nil {
		return err
	}
	if err := w.text(m, "title", c.Title); err != nil {
		return err
	}
	if err := m.sequence("context", c.Context); err != nil {
		return err
	}
	if err := w.text(m, "text", c.Text); err != nil {
		return err
	}
	if err := m.sequence("references", c.References); err != nil {
		return err
	}

	if len(c.Children) == 0 {
		return nil
	}
	m.key("components")
	buf.WriteByte('\n')
	for _, child := range c.Children {
		if err := w.writeComponent(buf, child, indent+4, true); err != nil {
			return err
		}
	}
	return nil
}

// encodeScalar renders value as a single-line YAML scalar. Values that would
// need more than one line are double-quoted.
func encodeScalar(value string, style yaml.Style) (string, error) {
	encoded, err := marshalScalar(value, style)
	if err != nil {
		return "", err
	}
	if strings.Contains(encoded, "\n") && style != yaml.DoubleQuotedStyle {
		return marshalScalar(value, yaml.DoubleQuotedStyle)
	}
	return encoded, nil
}

func marshalScalar(value string, style yaml.Style) (string, error) {
	node := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: style}
	out, err := yaml.Marshal(node)
	if err != nil {
		return "", fmt.Errorf("failed to encode scalar: %w", err)
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}
