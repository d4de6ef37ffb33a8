package gateway

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractThinking(t *testing.T) {
	thinking, main := ExtractThinking("<thinking> first </thinking>Answer <thinking>second\nline</thinking> here ")
	assert.Equal(t, "first second\nline", thinking)
	assert.Equal(t, "Answer  here", main)

	thinking, main = ExtractThinking(" plain ")
	assert.Empty(t, thinking)
	assert.Equal(t, " plain ", main)
}

func TestSplitIntoChunks(t *testing.T) {
	text := "a b c d e f g h i j k l"
	chunks := SplitIntoChunks(text, 5)
	assert.Equal(t, []string{"a b c d e ", "f g h i j ", "k l"}, chunks)
	assert.Equal(t, text, strings.Join(chunks, ""))

	assert.Empty(t, SplitIntoChunks("", 10))
}
