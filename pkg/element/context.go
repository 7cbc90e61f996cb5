package element

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/coolbeans/harvester/pkg/errdefs"
	"github.com/coolbeans/harvester/pkg/reference"
)

// ParseContext is the state threaded through one parse. It is passed by value:
// every recursive call receives a fresh snapshot with its own path and depth.
// Only the reference collector and the warning sink are shared across the parse.
type ParseContext struct {
	// Path is the XPath-like location of the current element, e.g. "/wet/artikel[1]/lid[2]".
	Path string
	// Depth is 1 for the root element.
	Depth int
	// Collector accumulates references for the whole document.
	Collector *reference.Collector
	// Extractor detects references in running text. It is read-only.
	Extractor *reference.Extractor

	diag *diagnostics
}

// child derives the context for a child element.
func (c ParseContext) child(tag string, index int) ParseContext {
	next := c
	next.Path = fmt.Sprintf("%s/%s[%d]", c.Path, tag, index)
	next.Depth = c.Depth + 1
	return next
}

// Warn records an unknown tag at the current path.
func (c ParseContext) Warn(tag string) {
	if c.diag == nil {
		return
	}
	c.diag.warn(errdefs.UnknownTagWarning{Tag: tag, Path: c.Path})
}

// AddReference registers ref with the collector, if any.
func (c ParseContext) AddReference(ref reference.Reference) {
	if c.Collector != nil {
		c.Collector.Add(ref)
	}
}

// ScanText runs the textual reference extractor over text and registers what it finds.
func (c ParseContext) ScanText(text string) {
	if c.Collector == nil || c.Extractor == nil {
		return
	}
	for _, ref := range c.Extractor.Extract(Clean(text), c.Path) {
		c.Collector.Add(ref)
	}
}

type diagnostics struct {
	logger   *zap.Logger
	warnings []errdefs.UnknownTagWarning
}

func (d *diagnostics) warn(w errdefs.UnknownTagWarning) {
	d.warnings = append(d.warnings, w)
	d.logger.Warn("Unknown tag, passing through", zap.String("tag", w.Tag), zap.String("path", w.Path))
}
