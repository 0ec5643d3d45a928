// Package ocr recovers text from scanned PDFs whose text layer is missing or
// garbled: rasterize each page, clean up the raster, and run it through the
// recognition engine.
package ocr

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dumbpishu/ExplainThis/internal/core"
)

// Config tunes rasterization and preprocessing. Zero values take the
// defaults below, which match what scanned office documents need.
type Config struct {
	Density     float64 // rasterization DPI
	Threshold   uint8   // binarization cutoff
	TargetWidth int     // post-processing resize width
	PageWorkers int     // concurrent recognition workers
}

const (
	defaultDensity     = 200
	defaultThreshold   = 150
	defaultTargetWidth = 1800
	defaultPageWorkers = 2
)

// Extractor is the OCR fallback behind the ingestion flow. It satisfies the
// same contract as the text-layer extractor so callers can chain the two.
type Extractor struct {
	raster core.PageRasterizer
	engine core.OcrEngine
	cfg    Config
}

func NewExtractor(raster core.PageRasterizer, engine core.OcrEngine, cfg Config) *Extractor {
	if cfg.Density <= 0 {
		cfg.Density = defaultDensity
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = defaultThreshold
	}
	if cfg.TargetWidth <= 0 {
		cfg.TargetWidth = defaultTargetWidth
	}
	if cfg.PageWorkers <= 0 {
		cfg.PageWorkers = defaultPageWorkers
	}
	return &Extractor{raster: raster, engine: engine, cfg: cfg}
}

// ExtractText rasterizes every page and recognizes them with bounded
// parallelism, reassembling the per-page text in page order. A failed page is
// logged and skipped; the document fails only when every page fails.
func (e *Extractor) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	doc, err := e.raster.Open(pdf)
	if err != nil {
		return "", fmt.Errorf("open pdf for ocr: %w", err)
	}
	defer doc.Close()

	n := doc.PageCount()
	if n == 0 {
		return "", &core.ExtractionError{Msg: "pdf has no pages"}
	}

	// Rendering goes through a single MuPDF handle and stays sequential;
	// recognition is the slow part and fans out below.
	pages := make([]struct {
		img []byte
		err error
	}, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		img, err := doc.RenderPage(i, e.cfg.Density)
		if err != nil {
			pages[i].err = err
			continue
		}
		pages[i].img, pages[i].err = prepareForOCR(img, e.cfg.Threshold, e.cfg.TargetWidth)
	}

	texts := make([]string, n)
	var failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.PageWorkers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if pages[i].err != nil {
				log.Printf("ocr: page %d render failed: %v", i+1, pages[i].err)
				failed.Add(1)
				return nil
			}
			text, err := e.engine.Recognize(gctx, pages[i].img)
			if err != nil {
				log.Printf("ocr: page %d recognition failed: %v", i+1, err)
				failed.Add(1)
				return nil
			}
			texts[i] = strings.TrimSpace(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	if int(failed.Load()) == n {
		return "", &core.ExtractionError{Msg: "ocr failed on every page"}
	}

	var nonEmpty []string
	for _, t := range texts {
		if t != "" {
			nonEmpty = append(nonEmpty, t)
		}
	}
	return strings.Join(nonEmpty, "\n"), nil
}

var _ core.PdfTextExtractor = (*Extractor)(nil)
