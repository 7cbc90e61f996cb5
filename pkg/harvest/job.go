// Package harvest runs documents through the parse, split and serialize
// stages and reports each run as a Result suitable for a job queue.
package harvest

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/coolbeans/harvester/pkg/errdefs"
	"github.com/coolbeans/harvester/pkg/reference"
)

// Payload is one document submitted for harvesting.
type Payload struct {
	// DocumentID identifies the document, typically its BWB identifier.
	DocumentID string `json:"document_id"`
	Content    []byte `json:"content"`
}

// Failure describes why a run produced no output.
type Failure struct {
	Kind    errdefs.Kind `json:"kind"`
	Message string       `json:"message"`
	// Path is the element path of a parse failure.
	Path string `json:"path,omitempty"`
	// Address is the component address of a split failure.
	Address string `json:"address,omitempty"`
	// Permanent failures recur on identical input and must not be retried.
	Permanent bool `json:"permanent"`
}

// Result is the outcome of harvesting one payload.
type Result struct {
	DocumentID string                      `json:"document_id"`
	RunID      uuid.UUID                   `json:"run_id"`
	Title      string                      `json:"title,omitempty"`
	YAML       []byte                      `json:"yaml,omitempty"`
	References []reference.Reference       `json:"references,omitempty"`
	Warnings   []errdefs.UnknownTagWarning `json:"warnings,omitempty"`
	// Components counts every addressed component in the tree.
	Components int           `json:"components"`
	Duration   time.Duration `json:"duration"`
	Failure    *Failure      `json:"failure,omitempty"`
}

// OK reports whether the run succeeded.
func (r Result) OK() bool {
	return r.Failure == nil
}

// Outcome is the metrics label of the result: "success" or the failure kind.
func (r Result) Outcome() string {
	if r.Failure == nil {
		return "success"
	}
	return string(r.Failure.Kind)
}

// NewFailure classifies err into a Failure.
func NewFailure(err error) *Failure {
	kind := errdefs.Classify(err)
	f := &Failure{
		Kind:      kind,
		Message:   err.Error(),
		Permanent: kind.Permanent(),
	}

	var parseErr *errdefs.ParseError
	if errors.As(err, &parseErr) {
		f.Path = parseErr.Path
	}
	var splitErr *errdefs.SplitError
	if errors.As(err, &splitErr) {
		f.Address = splitErr.Address
	}
	return f
}
