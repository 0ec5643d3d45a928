package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumbpishu/ExplainThis/internal/core"
	"github.com/dumbpishu/ExplainThis/internal/core/history"
)

type fakeVectors struct {
	deleted []string
	fail    bool
}

func (f *fakeVectors) Upsert(ctx context.Context, namespace, id string, vector []float32, meta core.ChunkMetadata) error {
	return nil
}

func (f *fakeVectors) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]core.Match, error) {
	return nil, nil
}

func (f *fakeVectors) DeleteNamespace(ctx context.Context, namespace string) error {
	f.deleted = append(f.deleted, namespace)
	if f.fail {
		return errors.New("db down")
	}
	return nil
}

type fakeKV struct {
	deleted []string
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) { return "", nil }
func (f *fakeKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}
func (f *fakeKV) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeArchive struct {
	deletedPrefixes []string
}

func (f *fakeArchive) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return "https://bucket/" + key, nil
}

func (f *fakeArchive) DeletePrefix(ctx context.Context, prefix string) error {
	f.deletedPrefixes = append(f.deletedPrefixes, prefix)
	return nil
}

func TestCreateMintsUniqueIDs(t *testing.T) {
	m := NewManager(&fakeVectors{}, history.New(&fakeKV{}), nil)

	a, b := m.Create(), m.Create()
	assert.NotEqual(t, a, b)

	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestDeleteCascades(t *testing.T) {
	vectors := &fakeVectors{}
	kv := &fakeKV{}
	archive := &fakeArchive{}
	m := NewManager(vectors, history.New(kv), archive)

	require.NoError(t, m.Delete(context.Background(), "s1"))

	assert.Equal(t, []string{"s1"}, vectors.deleted)
	assert.Equal(t, []string{"chat:history:s1"}, kv.deleted)
	assert.Equal(t, []string{"sessions/s1/"}, archive.deletedPrefixes)
}

func TestDeleteWithoutArchive(t *testing.T) {
	vectors := &fakeVectors{}
	m := NewManager(vectors, history.New(&fakeKV{}), nil)

	require.NoError(t, m.Delete(context.Background(), "s1"))
	assert.Equal(t, []string{"s1"}, vectors.deleted)
}

func TestDeleteAttemptsEveryStoreOnPartialFailure(t *testing.T) {
	vectors := &fakeVectors{fail: true}
	kv := &fakeKV{}
	archive := &fakeArchive{}
	m := NewManager(vectors, history.New(kv), archive)

	err := m.Delete(context.Background(), "s1")
	require.Error(t, err)

	// The vector failure must not stop the other deletions.
	assert.Equal(t, []string{"chat:history:s1"}, kv.deleted)
	assert.Equal(t, []string{"sessions/s1/"}, archive.deletedPrefixes)
}

func TestDeleteIsIdempotent(t *testing.T) {
	m := NewManager(&fakeVectors{}, history.New(&fakeKV{}), nil)

	require.NoError(t, m.Delete(context.Background(), "s1"))
	require.NoError(t, m.Delete(context.Background(), "s1"))
}

func TestDeleteRequiresSessionID(t *testing.T) {
	m := NewManager(&fakeVectors{}, history.New(&fakeKV{}), nil)

	var vErr *core.ValidationError
	require.ErrorAs(t, m.Delete(context.Background(), ""), &vErr)
}
