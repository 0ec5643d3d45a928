package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dumbpishu/ExplainThis/internal/config"
	"github.com/dumbpishu/ExplainThis/internal/core"
	"github.com/dumbpishu/ExplainThis/internal/core/cache"
	"github.com/dumbpishu/ExplainThis/internal/core/extract"
	"github.com/dumbpishu/ExplainThis/internal/core/history"
	"github.com/dumbpishu/ExplainThis/internal/core/llm"
	"github.com/dumbpishu/ExplainThis/internal/core/objectstore"
	"github.com/dumbpishu/ExplainThis/internal/core/ocr"
	"github.com/dumbpishu/ExplainThis/internal/core/pipeline"
	"github.com/dumbpishu/ExplainThis/internal/core/session"
	"github.com/dumbpishu/ExplainThis/internal/core/vectorstore"
)

// App owns the process-wide clients. They are constructed once here and
// injected into the pipelines; nothing below this layer opens connections.
type App struct {
	vectors  *vectorstore.Store
	kv       *cache.RedisStore
	embedder *llm.GeminiEmbedder
	closers  []func() error

	Server *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	vectors, err := vectorstore.New(appCtx, cfg.DatabaseURL, cfg.EmbedDim)
	if err != nil {
		return nil, fmt.Errorf("vector store: %w", err)
	}
	log.Println("Vector store initialized and ready.")

	kv, err := cache.NewRedisStore(appCtx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	log.Println("Redis connected.")

	embedder, err := llm.NewGeminiEmbedder(appCtx, cfg.GeminiAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}

	generator, closeGen, err := newGenerator(appCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}

	fallback := llm.NewFallbackGenerator(generator, cfg.GenModels, time.Duration(cfg.GenTimeout)*time.Second)

	var archive core.ObjectStore
	if cfg.ArchiveEnabled() {
		s3Store, err := objectstore.NewS3Store(appCtx, cfg.AwsAccessKey, cfg.AwsSecretKey, cfg.AwsRegion, cfg.BucketName)
		if err != nil {
			return nil, fmt.Errorf("object store: %w", err)
		}
		archive = s3Store
		log.Println("Upload archival enabled.")
	}

	hist := history.New(kv)
	sessions := session.NewManager(vectors, hist, archive)

	ingestor := pipeline.NewIngestor(embedder, vectors, fallback, cfg.ChunkSize, cfg.ChunkOverlap)
	chat := pipeline.NewChat(embedder, vectors, fallback, hist, cfg.TopK)

	ocrExtractor := ocr.NewExtractor(
		ocr.NewFitzRasterizer(),
		ocr.NewTesseractEngine(cfg.OCRLanguage),
		ocr.Config{
			Density:     float64(cfg.OCRDensity),
			Threshold:   uint8(cfg.OCRThreshold),
			TargetWidth: cfg.OCRWidth,
		},
	)
	textLayer := extract.NewDocconvExtractor()

	app := &App{
		vectors:  vectors,
		kv:       kv,
		embedder: embedder,
		closers:  []func() error{closeGen},
	}
	app.Server = NewServer(cfg, ingestor, chat, sessions, textLayer, ocrExtractor, archive)

	return app, nil
}

// newGenerator selects the generation provider by configuration, never by
// editing call sites.
func newGenerator(ctx context.Context, cfg *config.Config) (core.Generator, func() error, error) {
	switch cfg.LLMProvider {
	case "openrouter":
		gen := llm.NewOpenRouterGenerator(cfg.OpenRouterAPIKey, cfg.OpenRouterURL, cfg.SiteURL, cfg.AppName)
		return gen, func() error { return nil }, nil
	case "gemini":
		gen, err := llm.NewGeminiGenerator(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, nil, err
		}
		return gen, gen.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func (a *App) Close() {
	for _, c := range a.closers {
		_ = c()
	}
	if a.embedder != nil {
		_ = a.embedder.Close()
	}
	if a.kv != nil {
		_ = a.kv.Close()
	}
	if a.vectors != nil {
		_ = a.vectors.Close()
	}
}
