package pipeline

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/dumbpishu/ExplainThis/internal/core"
	"github.com/dumbpishu/ExplainThis/internal/core/history"
	"github.com/dumbpishu/ExplainThis/internal/core/prompts"
	"github.com/dumbpishu/ExplainThis/internal/models"
)

// FallbackAnswer is stored in history when the model returns empty text, so
// a later rewrite never sees a hole in the conversation.
const FallbackAnswer = "I could not find an answer to that question."

var errEmptyQueryVector = errors.New("no vector returned for query")

type Chat struct {
	embedder core.Embedder
	store    core.VectorStore
	gen      core.TextGenerator
	history  *history.Store
	topK     int
}

func NewChat(embedder core.Embedder, store core.VectorStore, gen core.TextGenerator, hist *history.Store, topK int) *Chat {
	if topK <= 0 {
		topK = 5
	}
	return &Chat{embedder: embedder, store: store, gen: gen, history: hist, topK: topK}
}

// Ask answers one chat turn: rewrite the follow-up against history, embed the
// effective question, retrieve the session's nearest chunks, and generate a
// grounded answer.
//
// The user turn is appended before the answer is generated, so the history a
// future turn rewrites against contains this turn's rewritten question
// rather than the raw input.
func (c *Chat) Ask(ctx context.Context, sessionID, question string) (string, error) {
	if sessionID == "" {
		return "", &core.ValidationError{Msg: "sessionId is required"}
	}
	if strings.TrimSpace(question) == "" {
		return "", &core.ValidationError{Msg: "question is required"}
	}

	hist, err := c.history.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	effective := question
	if len(hist) > 0 {
		res, err := c.gen.Generate(ctx, prompts.RewriteQuestion(hist, question))
		switch {
		case err != nil:
			// Rewriting is best-effort; the raw question still works.
			log.Printf("chat: question rewrite failed for session %s: %v", sessionID, err)
		case strings.TrimSpace(res.Text) != "":
			effective = strings.TrimSpace(res.Text)
		}
	}

	vecs, err := c.embedder.EmbedTexts(ctx, []string{effective})
	if err != nil {
		return "", &core.EmbeddingError{Err: err}
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return "", &core.EmbeddingError{Err: errEmptyQueryVector}
	}

	matches, err := c.store.Query(ctx, sessionID, vecs[0], c.topK)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, m := range matches {
		if t := strings.TrimSpace(m.Text); t != "" {
			parts = append(parts, t)
		}
	}
	contextText := strings.Join(parts, "\n")

	if err := c.history.Append(ctx, sessionID, models.ChatMessage{Role: models.RoleUser, Content: effective}); err != nil {
		return "", err
	}

	res, err := c.gen.Generate(ctx, prompts.Answer(contextText, effective))
	if err != nil {
		return "", err
	}

	answer := strings.TrimSpace(res.Text)
	if answer == "" {
		answer = FallbackAnswer
	}

	if err := c.history.Append(ctx, sessionID, models.ChatMessage{Role: models.RoleAssistant, Content: answer}); err != nil {
		return "", err
	}

	return answer, nil
}
