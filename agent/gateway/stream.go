package gateway

import (
	"regexp"
	"strings"
)

var thinkingBlock = regexp.MustCompile(`(?s)<thinking>(.*?)</thinking>`)

// ExtractThinking splits <thinking> blocks out of a reply. The inner texts are
// trimmed and joined with a space; the remaining content is trimmed only when
// a block was removed.
func ExtractThinking(content string) (thinking, main string) {
	matches := thinkingBlock.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return "", content
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, strings.TrimSpace(m[1]))
	}
	return strings.Join(parts, " "), strings.TrimSpace(thinkingBlock.ReplaceAllString(content, ""))
}

// SplitIntoChunks groups space separated words. Every chunk except the last
// keeps a trailing space so the chunks concatenate back to the input.
func SplitIntoChunks(text string, wordsPerChunk int) []string {
	if wordsPerChunk <= 0 {
		wordsPerChunk = 10
	}

	words := strings.Split(text, " ")
	var chunks []string
	for i := 0; i < len(words); i += wordsPerChunk {
		end := min(i+wordsPerChunk, len(words))
		chunk := strings.Join(words[i:end], " ")
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		if end < len(words) {
			chunk += " "
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}
