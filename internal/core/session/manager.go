// Package session owns the session lifecycle: minting ids and cascading
// deletion across the stores a session touches.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dumbpishu/ExplainThis/internal/core"
	"github.com/dumbpishu/ExplainThis/internal/core/history"
)

type Manager struct {
	store   core.VectorStore
	history *history.Store
	archive core.ObjectStore // nil when archival is not configured
}

func NewManager(store core.VectorStore, hist *history.Store, archive core.ObjectStore) *Manager {
	return &Manager{store: store, history: hist, archive: archive}
}

// Create mints an opaque session id. No state is created eagerly; the vector
// namespace and chat history appear lazily on first write.
func (m *Manager) Create() string {
	return uuid.NewString()
}

// Delete cascades: vector namespace, chat history, and any archived uploads.
// Every deletion is attempted even when an earlier one fails, so a partial
// failure never strands orphaned state that a retry could not clean up.
// Deleting an already-deleted session succeeds.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return &core.ValidationError{Msg: "sessionId is required"}
	}

	var errs []error
	if err := m.store.DeleteNamespace(ctx, sessionID); err != nil {
		errs = append(errs, fmt.Errorf("delete vector namespace: %w", err))
	}
	if err := m.history.Clear(ctx, sessionID); err != nil {
		errs = append(errs, fmt.Errorf("clear chat history: %w", err))
	}
	if m.archive != nil {
		if err := m.archive.DeletePrefix(ctx, ArchivePrefix(sessionID)); err != nil {
			errs = append(errs, fmt.Errorf("delete archived uploads: %w", err))
		}
	}
	return errors.Join(errs...)
}

// ArchivePrefix is the object-store prefix under which a session's uploads
// are archived.
func ArchivePrefix(sessionID string) string {
	return "sessions/" + sessionID + "/"
}
