package element

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/coolbeans/harvester/pkg/errdefs"
	"github.com/coolbeans/harvester/pkg/reference"
)

// DefaultMaxDepth is the default maximum element nesting depth.
const DefaultMaxDepth = 256

// Document is the result of parsing one XML document.
type Document struct {
	// ID is the document identifier (bwb-id) when the root declares one.
	ID         string
	Root       *ParseResult
	References []reference.Reference
	Warnings   []errdefs.UnknownTagWarning
}

// Engine parses documents by dispatching every element through a sealed Registry.
// An Engine holds no per-document state and is safe for concurrent use.
type Engine struct {
	registry  *Registry
	fallback  Handler
	extractor *reference.Extractor
	logger    *zap.Logger
	maxDepth  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for warnings and diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxDepth limits element nesting. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// WithFallback replaces the pass-through handler used for unregistered tags.
func WithFallback(handler Handler) Option {
	return func(e *Engine) {
		if handler != nil {
			e.fallback = handler
		}
	}
}

// NewEngine creates an Engine over registry, sealing it. A nil registry
// selects DefaultRegistry.
func NewEngine(registry *Registry, opts ...Option) *Engine {
	if registry == nil {
		registry = DefaultRegistry()
	}
	registry.Seal()

	e := &Engine{
		registry:  registry,
		fallback:  PassThrough(),
		extractor: reference.NewExtractor(),
		logger:    zap.NewNop(),
		maxDepth:  DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the sealed registry of the engine.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Parse converts data into a parse tree. Malformed input, an unsupported root
// element or excessive nesting return a *errdefs.ParseError.
func (e *Engine) Parse(data []byte) (*Document, error) {
	if err := checkWellFormed(data); err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &errdefs.ParseError{Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &errdefs.ParseError{Err: errors.New("document has no root element")}
	}

	rootPath := "/" + root.Tag
	if !e.registry.Has(root.Tag) {
		return nil, &errdefs.ParseError{Path: rootPath, Err: fmt.Errorf("unsupported root element <%s>", root.Tag)}
	}

	state := &parseState{
		engine:   e,
		siblings: make(map[*etree.Element]int),
		indexed:  make(map[*etree.Element]bool),
	}
	collector := reference.NewCollector()
	diag := &diagnostics{logger: e.logger}
	ctx := ParseContext{
		Path:      rootPath,
		Depth:     1,
		Collector: collector,
		Extractor: e.extractor,
		diag:      diag,
	}

	result, err := e.registry.dispatch(root, ctx, state.recurser(ctx), e.fallback)
	if err != nil {
		return nil, wrapParseError(err, rootPath)
	}
	if result == nil || result.Type != TypeDocument {
		return nil, &errdefs.ParseError{Path: rootPath, Err: fmt.Errorf("root element <%s> is not a document", root.Tag)}
	}

	e.logger.Debug("Parsed document",
		zap.String("id", collector.Document()),
		zap.String("root", root.Tag),
		zap.Int("references", collector.Len()),
		zap.Int("warnings", len(diag.warnings)))

	return &Document{
		ID:         collector.Document(),
		Root:       result,
		References: collector.All(),
		Warnings:   diag.warnings,
	}, nil
}

// parseState holds the per-document bookkeeping behind Recurse.
type parseState struct {
	engine   *Engine
	siblings map[*etree.Element]int
	indexed  map[*etree.Element]bool
}

func (s *parseState) recurser(parent ParseContext) Recurse {
	return func(child *etree.Element) (*ParseResult, error) {
		ctx := parent.child(child.Tag, s.index(child))
		if ctx.Depth > s.engine.maxDepth {
			return nil, &errdefs.ParseError{
				Path: ctx.Path,
				Err:  fmt.Errorf("maximum nesting depth of %d exceeded", s.engine.maxDepth),
			}
		}
		result, err := s.engine.registry.dispatch(child, ctx, s.recurser(ctx), s.engine.fallback)
		if err != nil {
			return nil, wrapParseError(err, ctx.Path)
		}
		return result, nil
	}
}

// index returns the 1-based position of el among its same-tag siblings.
func (s *parseState) index(el *etree.Element) int {
	parent := el.Parent()
	if parent == nil {
		return 1
	}
	if !s.indexed[parent] {
		counts := make(map[string]int)
		for _, sibling := range parent.ChildElements() {
			counts[sibling.Tag]++
			s.siblings[sibling] = counts[sibling.Tag]
		}
		s.indexed[parent] = true
	}
	return s.siblings[el]
}

func wrapParseError(err error, path string) error {
	var parseErr *errdefs.ParseError
	if errors.As(err, &parseErr) {
		return err
	}
	return &errdefs.ParseError{Path: path, Err: err}
}
