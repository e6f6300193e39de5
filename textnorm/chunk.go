package textnorm

import (
	"strings"
	"unicode/utf8"
)

// Chunk splits cleaned text into pieces of at most maxLen runes, breaking
// only between words. A word longer than maxLen becomes a chunk of its own.
// Empty input yields no chunks. A maxLen of zero or less disables splitting.
func Chunk(cleaned string, maxLen int) []string {
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil
	}
	if maxLen <= 0 || utf8.RuneCountInString(cleaned) <= maxLen {
		return []string{cleaned}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	for _, word := range strings.Fields(cleaned) {
		wordLen := utf8.RuneCountInString(word)
		if currentLen > 0 && currentLen+1+wordLen > maxLen {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}
	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// Paragraphs cleans raw text and chunks the result.
func Paragraphs(raw string, maxLen int) []string {
	return Chunk(Clean(raw), maxLen)
}
