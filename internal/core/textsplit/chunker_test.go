package textsplit

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumbpishu/ExplainThis/internal/core"
)

func TestChunkCoversWholeText(t *testing.T) {
	text := strings.Repeat("abcdefghij", 250) // 2500 chars

	chunks, err := Chunk(text, 1000, 100)
	require.NoError(t, err)

	// Window step is 900, so a 2500-char text yields windows at 0, 900 and 1800.
	assert.Len(t, chunks, 3)
	assert.Equal(t, text[:1000], chunks[0])
	assert.Equal(t, text[1800:], chunks[2])
}

func TestChunkConsecutiveWindowsShareOverlap(t *testing.T) {
	text := strings.Repeat("x", 450) + strings.Repeat("y", 450) + strings.Repeat("z", 450)

	chunks, err := Chunk(text, 500, 100)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	assert.Equal(t, chunks[0][400:], chunks[1][:100])
}

func TestChunkShortTextIsSingleChunk(t *testing.T) {
	chunks, err := Chunk("short text", 1000, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"short text"}, chunks)
}

func TestChunkTrimsAndDropsWhitespaceWindows(t *testing.T) {
	// Second window is all spaces and must not survive.
	text := "abcde" + strings.Repeat(" ", 10)

	chunks, err := Chunk(text, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"abcde"}, chunks)
}

func TestChunkEmptyText(t *testing.T) {
	chunks, err := Chunk("", 1000, 100)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkRuneSafety(t *testing.T) {
	text := strings.Repeat("héllo wörld ", 40)

	chunks, err := Chunk(text, 100, 10)
	require.NoError(t, err)
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunk must not split mid-rune")
	}
}

func TestChunkRejectsBadParameters(t *testing.T) {
	var vErr *core.ValidationError

	_, err := Chunk("text", 0, 0)
	require.ErrorAs(t, err, &vErr)

	_, err = Chunk("text", 100, 100)
	require.ErrorAs(t, err, &vErr)

	_, err = Chunk("text", 100, 150)
	require.ErrorAs(t, err, &vErr)

	_, err = Chunk("text", 100, -1)
	require.ErrorAs(t, err, &vErr)
}
