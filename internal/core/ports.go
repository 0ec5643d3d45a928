package core

import (
	"context"
	"image"
	"time"
)

// Embedder produces fixed-dimension vectors, one per input text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator runs a prompt through one named generation model.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// GenerateResult is the outcome of a successful generation, including which
// model finally produced the text.
type GenerateResult struct {
	Text      string
	ModelUsed string
}

// TextGenerator is the prompt-level generation capability the pipelines
// consume. The model-fallback wrapper implements it on top of a Generator.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (*GenerateResult, error)
}

// ChunkMetadata travels with every stored vector so retrieval can hand the
// original text back without a second lookup.
type ChunkMetadata struct {
	SessionID  string
	ChunkIndex int
	Text       string
}

// Match is one retrieval hit; results are ordered by similarity rank.
type Match struct {
	ID         string
	ChunkIndex int
	Text       string
}

// VectorStore abstracts the namespaced vector index. A namespace belongs to
// exactly one session; queries and deletes never cross namespaces.
type VectorStore interface {
	Upsert(ctx context.Context, namespace, id string, vector []float32, meta ChunkMetadata) error
	Query(ctx context.Context, namespace string, vector []float32, topK int) ([]Match, error)
	DeleteNamespace(ctx context.Context, namespace string) error
}

// KeyValueStore abstracts the TTL'd cache backing chat history.
// Get returns "" with a nil error when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// PdfTextExtractor turns PDF bytes into plain text. The result may be empty
// or garbled for scanned documents; callers gate it through the readability
// filter before trusting it.
type PdfTextExtractor interface {
	ExtractText(ctx context.Context, pdf []byte) (string, error)
}

// OcrEngine recognizes text in one encoded page image.
type OcrEngine interface {
	Recognize(ctx context.Context, img []byte) (string, error)
}

// PageRasterizer opens a PDF for page-by-page rendering.
type PageRasterizer interface {
	Open(pdf []byte) (RasterDocument, error)
}

// RasterDocument renders individual pages to images. Close must always be
// called, success or failure.
type RasterDocument interface {
	PageCount() int
	RenderPage(n int, dpi float64) (image.Image, error)
	Close() error
}

// ObjectStore archives raw uploads. Best-effort: callers never fail a request
// on archival errors.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	DeletePrefix(ctx context.Context, prefix string) error
}
