package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dumbpishu/ExplainThis/internal/core"
)

// Chatter is the slice of the chat pipeline the handler needs.
type Chatter interface {
	Ask(ctx context.Context, sessionID, question string) (string, error)
}

type ChatHandler struct {
	chat Chatter
}

func NewChatHandler(chat Chatter) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

// Ask handles POST /api/chat/{sessionID}.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeError(w, &core.ValidationError{Msg: "sessionId is required"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &core.ValidationError{Msg: "invalid request body"})
		return
	}
	if req.Question == "" {
		writeError(w, &core.ValidationError{Msg: "question is required"})
		return
	}

	answer, err := h.chat.Ask(r.Context(), sessionID, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Answer: answer})
}
