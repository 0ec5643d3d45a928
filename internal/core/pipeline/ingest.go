// Package pipeline holds the two orchestrators: ingestion (chunk, summarize,
// embed, upsert) and chat (rewrite, retrieve, answer).
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dumbpishu/ExplainThis/internal/core"
	"github.com/dumbpishu/ExplainThis/internal/core/prompts"
	"github.com/dumbpishu/ExplainThis/internal/core/textsplit"
	"github.com/dumbpishu/ExplainThis/internal/models"
)

// IngestOptions selects the per-chunk actions. Embedding requires a session
// id to scope the vector namespace.
type IngestOptions struct {
	SessionID string
	Summarize bool
	Embed     bool
}

type Ingestor struct {
	chunkSize int
	overlap   int
	embedder  core.Embedder
	store     core.VectorStore
	gen       core.TextGenerator
}

func NewIngestor(embedder core.Embedder, store core.VectorStore, gen core.TextGenerator, chunkSize, overlap int) *Ingestor {
	return &Ingestor{
		chunkSize: chunkSize,
		overlap:   overlap,
		embedder:  embedder,
		store:     store,
		gen:       gen,
	}
}

// Ingest chunks the text and walks the chunks in ordinal order, summarizing
// and/or embedding each one, then reduces the chunk summaries into a final
// summary. Ordinal order is observable: it fixes both the upsert order and
// the concatenation order fed to the reduce step.
//
// An embedding failure aborts the whole ingestion with no rollback of chunks
// already upserted; re-ingesting overwrites the same chunk ids, and session
// deletion clears any partial state.
func (ing *Ingestor) Ingest(ctx context.Context, text string, opts IngestOptions) (*models.IngestResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &core.ValidationError{Msg: "text is required"}
	}

	chunks, err := textsplit.Chunk(text, ing.chunkSize, ing.overlap)
	if err != nil {
		return nil, err
	}

	var summaries []string
	for i, chunk := range chunks {
		if opts.Summarize {
			res, err := ing.gen.Generate(ctx, prompts.ChunkSummary(chunk))
			if err != nil {
				return nil, err
			}
			summaries = append(summaries, res.Text)
		}

		if opts.Embed && opts.SessionID != "" {
			vecs, err := ing.embedder.EmbedTexts(ctx, []string{chunk})
			if err != nil {
				return nil, &core.EmbeddingError{Err: err}
			}
			if len(vecs) == 0 || len(vecs[0]) == 0 {
				return nil, &core.EmbeddingError{Err: errors.New("no vector returned for chunk")}
			}

			meta := core.ChunkMetadata{SessionID: opts.SessionID, ChunkIndex: i, Text: chunk}
			id := fmt.Sprintf("chunk-%d", i)
			if err := ing.store.Upsert(ctx, opts.SessionID, id, vecs[0], meta); err != nil {
				return nil, err
			}
		}
	}

	result := &models.IngestResult{ChunkCount: len(chunks)}

	if opts.Summarize && len(summaries) > 0 {
		res, err := ing.gen.Generate(ctx, prompts.FinalSummary(strings.Join(summaries, "\n")))
		if err != nil {
			return nil, err
		}
		result.Summary = res.Text
	}

	return result, nil
}
