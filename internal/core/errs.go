package core

import (
	"errors"
	"fmt"
)

// ErrAllModelsFailed is returned by the fallback generator when every model
// fails without producing a recorded error.
var ErrAllModelsFailed = errors.New("all generation models failed")

// ValidationError reports missing or oversized caller input. Maps to a 400
// at the HTTP boundary and is never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// EmbeddingError reports that the embedding provider returned no usable
// vector. It fails the whole ingestion or chat turn.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string { return fmt.Sprintf("embedding failed: %v", e.Err) }
func (e *EmbeddingError) Unwrap() error { return e.Err }

// GenerationError wraps a single model attempt's failure. Status carries the
// provider's HTTP-equivalent status code, 0 when unknown.
type GenerationError struct {
	Model  string
	Status int
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("model %s failed (status %d): %v", e.Model, e.Status, e.Err)
	}
	return fmt.Sprintf("model %s failed: %v", e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// NonRetryable reports whether trying another model is pointless. Client
// errors are terminal except timeouts (408) and rate limits (429), where a
// different model may still have headroom.
func (e *GenerationError) NonRetryable() bool {
	if e.Status < 400 || e.Status >= 500 {
		return false
	}
	return e.Status != 408 && e.Status != 429
}

// ExtractionError reports that neither the PDF text layer nor OCR produced
// readable text. The caller must supply cleaner input; maps to a 400.
type ExtractionError struct {
	Msg string
}

func (e *ExtractionError) Error() string { return e.Msg }
