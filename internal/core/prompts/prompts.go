// Package prompts centralizes every prompt template as a pure function.
// Identical inputs always produce identical prompt text; orchestration code
// never assembles prompt strings inline.
package prompts

import (
	"fmt"
	"strings"

	"github.com/dumbpishu/ExplainThis/internal/models"
)

// ChunkSummary asks for a short bullet summary of one chunk.
func ChunkSummary(chunkText string) string {
	return fmt.Sprintf(`You are a professional summarizer.

TASK:
Summarize the text into SHORT bullet points.

STRICT RULES:
- Output ONLY bullet points
- Exactly 3 bullet points
- Each bullet must be ONE simple sentence
- Maximum 15 words per bullet
- Use simple, everyday English
- Do NOT add new information
- Do NOT write paragraphs

TEXT:
%s

OUTPUT FORMAT:
- Bullet 1
- Bullet 2
- Bullet 3
`, chunkText)
}

// FinalSummary merges the accumulated chunk summaries into one list.
func FinalSummary(summaries string) string {
	return fmt.Sprintf(`You are a professional summarizer.

TASK:
Create ONE final summary from the points below.

STRICT RULES (DO NOT BREAK):
- Output ONLY bullet points
- Exactly 5 bullet points
- Each bullet must be ONE short sentence
- Maximum 18 words per bullet
- Use very simple, human-readable English
- Remove repeated ideas
- Do NOT write paragraphs
- Do NOT add headings or introductions
- Do NOT mention "summary", "text", or "document"

INPUT:
%s

OUTPUT FORMAT:
- Bullet 1
- Bullet 2
- Bullet 3
- Bullet 4
- Bullet 5
`, summaries)
}

// RewriteQuestion makes a follow-up self-contained given the prior turns.
func RewriteQuestion(history []models.ChatMessage, question string) string {
	var b strings.Builder
	for i, m := range history {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}

	return fmt.Sprintf(`You are rewriting a follow-up question so it is fully self-contained.

Conversation so far:
%s

Follow-up question:
%s

Rewrite the question so it can be understood on its own.
Return ONLY the rewritten question.
`, b.String(), question)
}

// Answer constrains the model to the retrieved context.
func Answer(context, question string) string {
	return fmt.Sprintf(`You are a professional AI assistant.

Use ONLY the provided context to answer the user's question.

RULES:
- Keep the answer concise and professional
- Use short paragraphs (2-3 lines max)
- Avoid headings, markdown lists, emojis, or decorative formatting
- Do not add unnecessary background or storytelling
- If the context is insufficient, clearly say so in one sentence

Context:
%s

Question:
%s

Answer:
`, context, question)
}
