// Package extract pulls the text layer out of uploaded PDFs.
package extract

import (
	"bytes"
	"context"
	"fmt"

	"code.sajari.com/docconv"

	"github.com/dumbpishu/ExplainThis/internal/core"
)

// DocconvExtractor reads the embedded text layer. Scanned documents come
// back empty or garbled here; the readability filter decides whether to fall
// through to OCR.
type DocconvExtractor struct{}

func NewDocconvExtractor() *DocconvExtractor { return &DocconvExtractor{} }

func (e *DocconvExtractor) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	res, err := docconv.Convert(bytes.NewReader(pdf), "application/pdf", false)
	if err != nil {
		return "", fmt.Errorf("docconv: %w", err)
	}
	return res.Body, nil
}

var _ core.PdfTextExtractor = (*DocconvExtractor)(nil)
