package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dumbpishu/ExplainThis/internal/core"
)

// SessionManager mints and destroys sessions.
type SessionManager interface {
	Create() string
	Delete(ctx context.Context, sessionID string) error
}

type SessionHandler struct {
	sessions SessionManager
}

func NewSessionHandler(sessions SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Create handles POST /api/session. Ingestion also mints ids; this endpoint
// remains for clients that want a session before their first upload.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{
		"sessionId": h.sessions.Create(),
	})
}

// Delete handles DELETE /api/sessions/{sessionID}.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeError(w, &core.ValidationError{Msg: "sessionId is required"})
		return
	}

	if err := h.sessions.Delete(r.Context(), sessionID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "session deleted"})
}
