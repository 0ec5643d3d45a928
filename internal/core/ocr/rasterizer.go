package ocr

import (
	"image"

	"github.com/gen2brain/go-fitz"

	"github.com/dumbpishu/ExplainThis/internal/core"
)

// FitzRasterizer renders PDF pages to images through MuPDF.
type FitzRasterizer struct{}

func NewFitzRasterizer() *FitzRasterizer { return &FitzRasterizer{} }

func (r *FitzRasterizer) Open(pdf []byte) (core.RasterDocument, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, err
	}
	return &fitzDocument{doc: doc}, nil
}

var _ core.PageRasterizer = (*FitzRasterizer)(nil)

type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) PageCount() int { return d.doc.NumPage() }

func (d *fitzDocument) RenderPage(n int, dpi float64) (image.Image, error) {
	return d.doc.ImageDPI(n, dpi)
}

func (d *fitzDocument) Close() error { return d.doc.Close() }
