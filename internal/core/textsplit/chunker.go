package textsplit

import (
	"strings"

	"github.com/dumbpishu/ExplainThis/internal/core"
)

// Chunk splits text into overlapping fixed-size windows. The window advances
// by chunkSize-overlap each step, so consecutive chunks share exactly overlap
// characters of raw text. Windows are trimmed of surrounding whitespace and
// dropped when empty after trimming; the final chunk may be shorter than
// chunkSize. Indexing is rune-based so multi-byte text never splits
// mid-character.
func Chunk(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, &core.ValidationError{Msg: "chunkSize must be positive"}
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, &core.ValidationError{Msg: "overlap must be smaller than chunkSize"}
	}

	runes := []rune(text)
	step := chunkSize - overlap

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		if c := strings.TrimSpace(string(runes[start:end])); c != "" {
			chunks = append(chunks, c)
		}
	}
	return chunks, nil
}
