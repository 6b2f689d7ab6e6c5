package volby

import (
	"errors"
	"fmt"
)

// ErrNotLoaded is returned when a structural query or extraction runs
// against a document that was never successfully parsed.
var ErrNotLoaded = errors.New("volby: document not loaded")

// LoadError reports a source that could not be fetched, read, or parsed
// as well-formed XML. The failed load attempt may be retried by the caller.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// NumericError reports an attribute that was expected to be numeric but
// failed every parse attempt. Only the region-results extractor produces
// it; preference extraction degrades bad numerics to absent values instead.
type NumericError struct {
	Attr  string
	Value string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("attribute %s: cannot parse %q as a number", e.Attr, e.Value)
}
