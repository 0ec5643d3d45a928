package models

// Chat message roles as stored in history and rendered into prompts.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn in a session's history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// IngestResult reports what ingestion produced. Summary is empty when
// summarization was not requested.
type IngestResult struct {
	Summary    string `json:"summary,omitempty"`
	ChunkCount int    `json:"chunkCount"`
}
