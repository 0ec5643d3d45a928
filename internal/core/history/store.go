// Package history keeps a bounded, TTL-expiring chat log per session in the
// key-value cache, one serialized record per session.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dumbpishu/ExplainThis/internal/core"
	"github.com/dumbpishu/ExplainThis/internal/models"
)

const (
	keyPrefix = "chat:history:"

	// MaxMessages caps a session's history; the oldest turns are evicted
	// first once the cap is exceeded.
	MaxMessages = 10

	// TTL is sliding: it resets on every write, so an active conversation
	// never expires mid-session.
	TTL = time.Hour
)

type Store struct {
	kv core.KeyValueStore

	// Per-session locks serialize the read-modify-write cycle of Append so
	// two in-flight turns for one session cannot drop each other's writes.
	// Only protects against races within this process.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(kv core.KeyValueStore) *Store {
	return &Store{kv: kv, locks: make(map[string]*sync.Mutex)}
}

func key(sessionID string) string { return keyPrefix + sessionID }

func (s *Store) lockFor(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

// Get returns the session's messages in append order, or an empty slice when
// no history exists.
func (s *Store) Get(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	raw, err := s.kv.Get(ctx, key(sessionID))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var msgs []models.ChatMessage
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		return nil, fmt.Errorf("decode history for %s: %w", sessionID, err)
	}
	return msgs, nil
}

// Append adds one message, evicting from the front past MaxMessages, and
// writes the whole record back with the TTL reset.
func (s *Store) Append(ctx context.Context, sessionID string, msg models.ChatMessage) error {
	l := s.lockFor(sessionID)
	l.Lock()
	defer l.Unlock()

	msgs, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	msgs = append(msgs, msg)
	if len(msgs) > MaxMessages {
		msgs = msgs[len(msgs)-MaxMessages:]
	}

	raw, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encode history for %s: %w", sessionID, err)
	}
	return s.kv.Set(ctx, key(sessionID), string(raw), TTL)
}

// Clear drops the whole record. Clearing an absent session is a no-op.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.locks, sessionID)
	s.mu.Unlock()
	return s.kv.Delete(ctx, key(sessionID))
}
