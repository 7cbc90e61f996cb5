package harvest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coolbeans/harvester/pkg/element"
	"github.com/coolbeans/harvester/pkg/reference"
	"github.com/coolbeans/harvester/pkg/split"
	"github.com/coolbeans/harvester/pkg/yamlout"
)

// Output is the full product of transforming one document.
type Output struct {
	Document *element.Document
	Root     *split.ArticleComponent
	// References carry the address of the component they were found in.
	References []reference.Reference
	YAML       []byte
}

// Pipeline transforms XML documents into YAML article trees.
// It holds only sealed registries and is safe for concurrent use.
type Pipeline struct {
	elements  *element.Registry
	hierarchy *split.HierarchyRegistry
	writer    *yamlout.Writer
	logger    *zap.Logger
	metrics   *Metrics
	maxDepth  int

	parser   *element.Engine
	splitter *split.Engine
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithElementRegistry sets the element registry. The pipeline seals it.
func WithElementRegistry(reg *element.Registry) Option {
	return func(p *Pipeline) {
		p.elements = reg
	}
}

// WithHierarchy sets the hierarchy used for splitting.
func WithHierarchy(h *split.HierarchyRegistry) Option {
	return func(p *Pipeline) {
		p.hierarchy = h
	}
}

// WithWriter sets the YAML writer.
func WithWriter(w *yamlout.Writer) Option {
	return func(p *Pipeline) {
		if w != nil {
			p.writer = w
		}
	}
}

// WithLogger sets the logger passed to every stage.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records every processed payload in m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithMaxDepth limits element nesting during parsing.
func WithMaxDepth(depth int) Option {
	return func(p *Pipeline) {
		p.maxDepth = depth
	}
}

// NewPipeline creates a Pipeline. Without options it parses and splits
// Dutch statutory law and writes YAML at the default width.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		writer:   yamlout.NewWriter(),
		logger:   zap.NewNop(),
		maxDepth: element.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.parser = element.NewEngine(p.elements,
		element.WithLogger(p.logger),
		element.WithMaxDepth(p.maxDepth))
	p.splitter = split.NewEngine(p.hierarchy, split.WithLogger(p.logger))
	return p
}

// Transform parses, splits and serializes one document.
func (p *Pipeline) Transform(data []byte) (*Output, error) {
	doc, err := p.parser.Parse(data)
	if err != nil {
		return nil, err
	}

	root, err := p.splitter.Split(doc.Root)
	if err != nil {
		return nil, err
	}
	refs := split.AttachReferences(root, doc.References)

	out, err := p.writer.Serialize(root)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}

	return &Output{
		Document:   doc,
		Root:       root,
		References: refs,
		YAML:       out,
	}, nil
}

// Process harvests one payload. Failures are reported in the Result, never returned.
func (p *Pipeline) Process(payload Payload) Result {
	start := time.Now()
	res := Result{
		DocumentID: payload.DocumentID,
		RunID:      uuid.New(),
	}

	out, err := p.Transform(payload.Content)
	if err != nil {
		res.Failure = NewFailure(err)
	} else {
		if res.DocumentID == "" {
			res.DocumentID = out.Document.ID
		}
		res.Title = out.Root.Title
		res.YAML = out.YAML
		res.References = out.References
		res.Warnings = out.Document.Warnings
		res.Components = len(out.Root.Flatten())
	}
	res.Duration = time.Since(start)

	p.metrics.observe(res, res.Duration)
	p.log(res)
	return res
}

func (p *Pipeline) log(res Result) {
	fields := []zap.Field{
		zap.String("document", res.DocumentID),
		zap.String("run_id", res.RunID.String()),
		zap.Duration("duration", res.Duration),
	}
	if res.Failure != nil {
		p.logger.Warn("Harvest failed", append(fields,
			zap.String("kind", string(res.Failure.Kind)),
			zap.Bool("permanent", res.Failure.Permanent),
			zap.String("error", res.Failure.Message))...)
		return
	}
	p.logger.Info("Harvested document", append(fields,
		zap.Int("components", res.Components),
		zap.Int("references", len(res.References)),
		zap.Int("warnings", len(res.Warnings)))...)
}

// ProcessBatch harvests payloads with at most concurrency documents in
// flight. Results are returned in payload order. The context is checked
// before each document; payloads not started when it is done get a
// transient failure and the context error is returned.
func (p *Pipeline) ProcessBatch(ctx context.Context, payloads []Payload, concurrency int) ([]Result, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Result, len(payloads))
	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, payload := range payloads {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{
					DocumentID: payload.DocumentID,
					RunID:      uuid.New(),
					Failure:    NewFailure(err),
				}
				return nil
			}
			results[i] = p.Process(payload)
			return nil
		})
	}

	// Workers record failures in results and never return an error.
	_ = g.Wait()
	return results, ctx.Err()
}
