package element

import (
	"fmt"
	"sort"
	"sync"

	"github.com/beevik/etree"

	"github.com/coolbeans/harvester/pkg/errdefs"
)

// Recurse parses a child element with a context derived from the caller's.
// Handlers decide which children to pass to it and in what order.
type Recurse func(child *etree.Element) (*ParseResult, error)

// Handler converts one element into a ParseResult.
// A handler never recurses on its own; it uses the supplied Recurse function.
type Handler interface {
	Handle(el *etree.Element, ctx ParseContext, recurse Recurse) (*ParseResult, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(el *etree.Element, ctx ParseContext, recurse Recurse) (*ParseResult, error)

// Handle calls f(el, ctx, recurse).
func (f HandlerFunc) Handle(el *etree.Element, ctx ParseContext, recurse Recurse) (*ParseResult, error) {
	return f(el, ctx, recurse)
}

// Registry maps tag names to handlers.
// Registration is allowed until Seal is called; afterwards the registry is
// read-only and safe to share between concurrent parses.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	sealed   bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register associates tag with handler.
// Returns a ConfigurationError if the tag is empty, the handler is nil, the tag
// is already registered, or the registry is sealed.
func (r *Registry) Register(tag string, handler Handler) error {
	if tag == "" {
		return &errdefs.ConfigurationError{Component: "element registry", Reason: "tag cannot be empty"}
	}
	if handler == nil {
		return &errdefs.ConfigurationError{Component: "element registry", Reason: fmt.Sprintf("handler for <%s> cannot be nil", tag)}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return &errdefs.ConfigurationError{Component: "element registry", Reason: fmt.Sprintf("cannot register <%s>: registry is sealed", tag)}
	}
	if _, exists := r.handlers[tag]; exists {
		return &errdefs.ConfigurationError{Component: "element registry", Reason: fmt.Sprintf("tag <%s> already registered", tag)}
	}

	r.handlers[tag] = handler
	return nil
}

// Seal makes the registry read-only. Sealing twice is a no-op.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Lookup returns the handler registered for tag.
func (r *Registry) Lookup(tag string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[tag]
	return handler, ok
}

// Has reports whether tag has a registered handler.
func (r *Registry) Has(tag string) bool {
	_, ok := r.Lookup(tag)
	return ok
}

// Tags returns all registered tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.handlers))
	for tag := range r.handlers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Len returns the number of registered tags.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Dispatch handles el with its registered handler, or with the pass-through
// handler when the tag is unknown.
func (r *Registry) Dispatch(el *etree.Element, ctx ParseContext, recurse Recurse) (*ParseResult, error) {
	return r.dispatch(el, ctx, recurse, PassThrough())
}

func (r *Registry) dispatch(el *etree.Element, ctx ParseContext, recurse Recurse, fallback Handler) (*ParseResult, error) {
	handler, ok := r.Lookup(el.Tag)
	if !ok {
		handler = fallback
	}
	return handler.Handle(el, ctx, recurse)
}
