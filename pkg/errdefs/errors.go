// Package errdefs defines the error taxonomy shared by the parse and split engines.
package errdefs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes of a document transformation.
// Typed errors below match their sentinel with errors.Is.
//
//	if errors.Is(err, errdefs.ErrSplit) {
//	    // invariant violation, do not retry
//	}
var (
	// ErrParse indicates malformed or unsupported XML input.
	ErrParse = errors.New("parse error")

	// ErrSplit indicates an addressing invariant was violated after splitting.
	ErrSplit = errors.New("split error")

	// ErrConfiguration indicates a registry was built from conflicting or incomplete specifications.
	ErrConfiguration = errors.New("configuration error")
)

// ParseError reports a fatal structural problem in the input document.
type ParseError struct {
	// Path is the element path at which parsing failed, e.g. "/wet/artikel[2]".
	Path string
	// Line is the 1-based input line when known, 0 otherwise.
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	location := e.Path
	if location == "" {
		location = "/"
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error at %s (line %d): %v", location, e.Line, e.Err)
	}
	return fmt.Sprintf("parse error at %s: %v", location, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// SplitError reports an invariant violation found while validating an article tree.
type SplitError struct {
	// Address is the offending dot-notation address.
	Address string
	Reason  string
}

func (e *SplitError) Error() string {
	return fmt.Sprintf("split error at address %q: %s", e.Address, e.Reason)
}

// Is reports whether target is ErrSplit.
func (e *SplitError) Is(target error) bool { return target == ErrSplit }

// ConfigurationError reports a registry that cannot be built.
type ConfigurationError struct {
	// Component names the registry or specification at fault.
	Component string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Reason)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// UnknownTagWarning records an element handled by the fallback pass-through handler.
// It is informational and never aborts parsing.
type UnknownTagWarning struct {
	Tag  string `json:"tag" yaml:"tag"`
	Path string `json:"path" yaml:"path"`
}

func (w UnknownTagWarning) String() string {
	return fmt.Sprintf("unknown tag <%s> at %s", w.Tag, w.Path)
}

// Kind classifies an error for callers that need to decide on retry or status handling.
type Kind string

const (
	KindNone          Kind = ""
	KindParse         Kind = "parse"
	KindSplit         Kind = "split"
	KindConfiguration Kind = "configuration"
	KindInternal      Kind = "internal"
)

// Classify maps an error to its Kind. Nil errors yield KindNone.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	switch {
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrSplit):
		return KindSplit
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	}

	return KindInternal
}

// Permanent reports whether a failure of this kind will recur on identical input.
func (k Kind) Permanent() bool {
	switch k {
	case KindParse, KindSplit, KindConfiguration:
		return true
	}
	return false
}
