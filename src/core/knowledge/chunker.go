package knowledge

import "strings"

// Chunk splits text into bounded-length chunks on word boundaries. Words are
// accumulated greedily, counting len(word)+1 per word to approximate the
// separator; the current chunk is flushed once the counter reaches maxLen.
// maxLen is a soft cap: a chunk may exceed it by up to one word. Empty input
// yields no chunks, and every input word lands in exactly one chunk in order.
func Chunk(text string, maxLen int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	length := 0

	for _, w := range words {
		current = append(current, w)
		length += len(w) + 1
		if length >= maxLen {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
			length = 0
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}
