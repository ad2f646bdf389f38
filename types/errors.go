package types

import "fmt"

// MalformedInputError marks input that cannot be parsed as a paged PDF
// document. Surfaced to the caller immediately, never retried.
type MalformedInputError struct {
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed input: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed input: %s", e.Reason)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// ExtractionError marks a per-chunk model or parse failure. It is recovered
// locally by tagging the chunk's record; it only escalates when every chunk
// of a document fails.
type ExtractionError struct {
	ChunkIndex int
	Err        error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for chunk %d: %v", e.ChunkIndex, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// SynthesisError marks a model or parse failure at the merge stage. Fatal
// for the run; no partial synthesis is ever returned.
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis failed: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// PersistenceError marks a storage write failure, annotated with the
// collection so the discrepancy can be reconciled manually.
type PersistenceError struct {
	Collection string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed on %s: %v", e.Collection, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
