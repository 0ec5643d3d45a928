// Package vectorstore implements the namespaced vector index on
// Postgres/pgvector. Namespace isolation is a hard boundary: every statement
// filters on the namespace column, so no session can read or delete
// another's chunks.
package vectorstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pgvector/pgvector-go"

	"github.com/dumbpishu/ExplainThis/internal/core"
)

type Store struct {
	db *sql.DB
}

// New opens the pool, pings it, and bootstraps the schema for the given
// embedding dimension.
func New(ctx context.Context, databaseURL string, embedDim int) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if embedDim <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", embedDim)
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := ensureBootstrapped(ctx, db, embedDim); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Upsert writes one chunk vector. Re-ingesting a session overwrites the same
// chunk ids instead of accumulating duplicates.
func (s *Store) Upsert(ctx context.Context, namespace, id string, vector []float32, meta core.ChunkMetadata) error {
	const q = `
		INSERT INTO session_chunks (namespace, chunk_id, chunk_index, content, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (namespace, chunk_id)
		DO UPDATE SET chunk_index = EXCLUDED.chunk_index,
		              content     = EXCLUDED.content,
		              embedding   = EXCLUDED.embedding
	`
	_, err := s.db.ExecContext(ctx, q, namespace, id, meta.ChunkIndex, meta.Text, pgvector.NewVector(vector))
	if err != nil {
		return fmt.Errorf("upsert chunk %s: %w", id, err)
	}
	return nil
}

// Query returns the topK nearest chunks within one namespace, nearest first.
func (s *Store) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]core.Match, error) {
	const q = `
		SELECT chunk_id, chunk_index, content
		FROM session_chunks
		WHERE namespace = $1
		ORDER BY embedding <-> $2
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, q, namespace, pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var out []core.Match
	for rows.Next() {
		var m core.Match
		if err := rows.Scan(&m.ID, &m.ChunkIndex, &m.Text); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteNamespace removes every chunk for one session. Deleting an absent
// namespace is a no-op, which keeps session deletion idempotent.
func (s *Store) DeleteNamespace(ctx context.Context, namespace string) error {
	const q = `DELETE FROM session_chunks WHERE namespace = $1`
	if _, err := s.db.ExecContext(ctx, q, namespace); err != nil {
		return fmt.Errorf("delete namespace: %w", err)
	}
	return nil
}

var _ core.VectorStore = (*Store)(nil)
