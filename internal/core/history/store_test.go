package history

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumbpishu/ExplainThis/internal/models"
)

// fakeKV is an in-memory stand-in for the redis store. It records the TTL of
// every Set so the sliding-expiry behavior is observable.
type fakeKV struct {
	data     map[string]string
	lastTTLs []time.Duration
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	return f.data[key], nil
}

func (f *fakeKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.data[key] = value
	f.lastTTLs = append(f.lastTTLs, ttl)
	return nil
}

func (f *fakeKV) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func TestAppendAndGetRoundTrip(t *testing.T) {
	kv := newFakeKV()
	s := New(kv)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", models.ChatMessage{Role: models.RoleUser, Content: "hi"}))
	require.NoError(t, s.Append(ctx, "s1", models.ChatMessage{Role: models.RoleAssistant, Content: "hello"}))

	msgs, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, "hello", msgs[1].Content)
}

func TestGetMissingSessionIsEmpty(t *testing.T) {
	s := New(newFakeKV())

	msgs, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestAppendEvictsOldestPastCap(t *testing.T) {
	kv := newFakeKV()
	s := New(kv)
	ctx := context.Background()

	for i := 0; i < MaxMessages+5; i++ {
		msg := models.ChatMessage{Role: models.RoleUser, Content: fmt.Sprintf("turn %d", i)}
		require.NoError(t, s.Append(ctx, "s1", msg))
	}

	msgs, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, MaxMessages)
	assert.Equal(t, "turn 5", msgs[0].Content, "oldest turns are evicted first")
	assert.Equal(t, fmt.Sprintf("turn %d", MaxMessages+4), msgs[MaxMessages-1].Content)
}

func TestAppendResetsTTLOnEveryWrite(t *testing.T) {
	kv := newFakeKV()
	s := New(kv)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Append(ctx, "s1", models.ChatMessage{Role: models.RoleUser, Content: "x"}))
	}

	require.Len(t, kv.lastTTLs, 3)
	for _, ttl := range kv.lastTTLs {
		assert.Equal(t, TTL, ttl)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	kv := newFakeKV()
	s := New(kv)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", models.ChatMessage{Role: models.RoleUser, Content: "for s1"}))
	require.NoError(t, s.Append(ctx, "s2", models.ChatMessage{Role: models.RoleUser, Content: "for s2"}))

	msgs, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "for s1", msgs[0].Content)
}

func TestClearDropsRecord(t *testing.T) {
	kv := newFakeKV()
	s := New(kv)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", models.ChatMessage{Role: models.RoleUser, Content: "hi"}))
	require.NoError(t, s.Clear(ctx, "s1"))

	msgs, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// Clearing again is a no-op.
	require.NoError(t, s.Clear(ctx, "s1"))
}

func TestStoredRecordIsJSONArray(t *testing.T) {
	kv := newFakeKV()
	s := New(kv)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", models.ChatMessage{Role: models.RoleUser, Content: "hi"}))

	raw := kv.data["chat:history:s1"]
	require.NotEmpty(t, raw)

	var msgs []models.ChatMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &msgs))
	assert.Equal(t, models.RoleUser, msgs[0].Role)
}
