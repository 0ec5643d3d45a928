package llm

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/dumbpishu/ExplainThis/internal/core"
)

// FallbackGenerator tries an ordered list of models until one returns
// non-empty text. Retryable failures move on to the next model; a
// non-retryable failure (a request-validation-class error) short-circuits
// immediately, since every later model would reject the same request.
type FallbackGenerator struct {
	gen     core.Generator
	models  []string
	timeout time.Duration
}

func NewFallbackGenerator(gen core.Generator, models []string, timeout time.Duration) *FallbackGenerator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &FallbackGenerator{gen: gen, models: models, timeout: timeout}
}

func (f *FallbackGenerator) Generate(ctx context.Context, prompt string) (*core.GenerateResult, error) {
	var lastErr error

	for _, model := range f.models {
		text, err := f.tryModel(ctx, model, prompt)
		if err == nil {
			if strings.TrimSpace(text) != "" {
				return &core.GenerateResult{Text: text, ModelUsed: model}, nil
			}
			err = &core.GenerationError{Model: model, Err: errors.New("empty response from model")}
		}

		lastErr = err
		log.Printf("generation fallback: model %s failed: %v", model, err)

		var gerr *core.GenerationError
		if errors.As(err, &gerr) && gerr.NonRetryable() {
			break
		}
	}

	if lastErr == nil {
		lastErr = core.ErrAllModelsFailed
	}
	return nil, lastErr
}

// tryModel bounds each attempt so one hung model cannot starve the rest of
// the list.
func (f *FallbackGenerator) tryModel(ctx context.Context, model, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	return f.gen.Generate(ctx, model, prompt)
}

var _ core.TextGenerator = (*FallbackGenerator)(nil)
