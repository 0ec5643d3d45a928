package ocr

import (
	"context"

	"github.com/otiai10/gosseract/v2"

	"github.com/dumbpishu/ExplainThis/internal/core"
)

// TesseractEngine recognizes text via a local Tesseract install. A fresh
// client per call keeps the engine safe under the extractor's page fan-out;
// gosseract clients are not goroutine-safe.
type TesseractEngine struct {
	language string
}

func NewTesseractEngine(language string) *TesseractEngine {
	if language == "" {
		language = "eng"
	}
	return &TesseractEngine{language: language}
}

func (e *TesseractEngine) Recognize(ctx context.Context, img []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return "", err
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", err
	}
	return client.Text()
}

var _ core.OcrEngine = (*TesseractEngine)(nil)
