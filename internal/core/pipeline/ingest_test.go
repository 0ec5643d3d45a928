package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumbpishu/ExplainThis/internal/core"
)

// fakeEmbedder returns a fixed-dimension vector per input. failAfter, when
// positive, fails the call once that many embeddings have been produced.
type fakeEmbedder struct {
	calls     int
	failAfter int
	emptyVecs bool
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.failAfter > 0 && f.calls > f.failAfter {
		return nil, errors.New("embedding provider unavailable")
	}
	if f.emptyVecs {
		return [][]float32{{}}, nil
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 2, 3}
	}
	return out, nil
}

type upsertRecord struct {
	namespace string
	id        string
	meta      core.ChunkMetadata
}

// fakeVectorStore records writes and serves canned matches.
type fakeVectorStore struct {
	upserts  []upsertRecord
	matches  []core.Match
	queries  []string // namespaces queried
	deleted  []string
	queryK   int
	queryErr error
}

func (f *fakeVectorStore) Upsert(ctx context.Context, namespace, id string, vector []float32, meta core.ChunkMetadata) error {
	f.upserts = append(f.upserts, upsertRecord{namespace: namespace, id: id, meta: meta})
	return nil
}

func (f *fakeVectorStore) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]core.Match, error) {
	f.queries = append(f.queries, namespace)
	f.queryK = topK
	return f.matches, f.queryErr
}

func (f *fakeVectorStore) DeleteNamespace(ctx context.Context, namespace string) error {
	f.deleted = append(f.deleted, namespace)
	return nil
}

// fakeTextGen records every prompt and answers from a queue, falling back to
// a default once the queue drains.
type fakeTextGen struct {
	prompts  []string
	queue    []string
	fallback string
	err      error
}

func (f *fakeTextGen) Generate(ctx context.Context, prompt string) (*core.GenerateResult, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	text := f.fallback
	if len(f.queue) > 0 {
		text = f.queue[0]
		f.queue = f.queue[1:]
	}
	return &core.GenerateResult{Text: text, ModelUsed: "test-model"}, nil
}

// memKV backs the history store in pipeline tests.
type memKV struct {
	data map[string]string
}

func newMemKV() *memKV { return &memKV{data: make(map[string]string)} }

func (m *memKV) Get(ctx context.Context, key string) (string, error) { return m.data[key], nil }

func (m *memKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestIngestChunksEmbedsAndSummarizes(t *testing.T) {
	emb := &fakeEmbedder{}
	store := &fakeVectorStore{}
	gen := &fakeTextGen{fallback: "- a summary point"}
	ing := NewIngestor(emb, store, gen, 1000, 100)

	text := strings.Repeat("abcdefghij", 250) // 2500 chars, 3 windows

	res, err := ing.Ingest(context.Background(), text, IngestOptions{
		SessionID: "sess-1",
		Summarize: true,
		Embed:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.ChunkCount)
	assert.NotEmpty(t, res.Summary)

	require.Len(t, store.upserts, 3)
	for i, u := range store.upserts {
		assert.Equal(t, "sess-1", u.namespace)
		assert.Equal(t, fmt.Sprintf("chunk-%d", i), u.id)
		assert.Equal(t, i, u.meta.ChunkIndex)
		assert.Equal(t, "sess-1", u.meta.SessionID)
	}

	// One prompt per chunk plus the final reduce.
	assert.Len(t, gen.prompts, 4)
	assert.Contains(t, gen.prompts[3], "- a summary point")
}

func TestIngestWithoutSummarization(t *testing.T) {
	emb := &fakeEmbedder{}
	store := &fakeVectorStore{}
	gen := &fakeTextGen{}
	ing := NewIngestor(emb, store, gen, 1000, 100)

	res, err := ing.Ingest(context.Background(), strings.Repeat("x", 1500), IngestOptions{
		SessionID: "sess-1",
		Embed:     true,
	})
	require.NoError(t, err)

	assert.Empty(t, res.Summary)
	assert.Empty(t, gen.prompts)
	assert.Len(t, store.upserts, 2)
}

func TestIngestRejectsEmptyText(t *testing.T) {
	ing := NewIngestor(&fakeEmbedder{}, &fakeVectorStore{}, &fakeTextGen{}, 1000, 100)

	var vErr *core.ValidationError
	_, err := ing.Ingest(context.Background(), "   \n ", IngestOptions{SessionID: "s"})
	require.ErrorAs(t, err, &vErr)
}

func TestIngestEmptyVectorIsEmbeddingError(t *testing.T) {
	emb := &fakeEmbedder{emptyVecs: true}
	store := &fakeVectorStore{}
	ing := NewIngestor(emb, store, &fakeTextGen{}, 1000, 100)

	_, err := ing.Ingest(context.Background(), strings.Repeat("x", 100), IngestOptions{
		SessionID: "sess-1",
		Embed:     true,
	})

	var eErr *core.EmbeddingError
	require.ErrorAs(t, err, &eErr)
	assert.Empty(t, store.upserts)
}

func TestIngestMidFailureKeepsEarlierChunks(t *testing.T) {
	emb := &fakeEmbedder{failAfter: 1}
	store := &fakeVectorStore{}
	ing := NewIngestor(emb, store, &fakeTextGen{}, 1000, 100)

	_, err := ing.Ingest(context.Background(), strings.Repeat("abcdefghij", 250), IngestOptions{
		SessionID: "sess-1",
		Embed:     true,
	})

	var eErr *core.EmbeddingError
	require.ErrorAs(t, err, &eErr)

	// No rollback: the first chunk stays and will be overwritten on retry.
	require.Len(t, store.upserts, 1)
	assert.Equal(t, "chunk-0", store.upserts[0].id)
}

func TestIngestSkipsEmbeddingWithoutSession(t *testing.T) {
	emb := &fakeEmbedder{}
	store := &fakeVectorStore{}
	gen := &fakeTextGen{fallback: "- summary"}
	ing := NewIngestor(emb, store, gen, 1000, 100)

	res, err := ing.Ingest(context.Background(), strings.Repeat("x", 500), IngestOptions{
		Summarize: true,
		Embed:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.ChunkCount)
	assert.Empty(t, store.upserts)
	assert.Zero(t, emb.calls)
}
