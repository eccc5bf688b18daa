package citation

import (
	"context"
	"regexp"
	"strings"

	"github.com/cortexai/cortex/collab"
)

const (
	minExcerptLen       = 50
	maxExcerptLen       = 200
	sentenceChunkMinLen = 20
)

var sentenceBoundaryPattern = regexp.MustCompile(`(?:[.!?])\s+`)

// extractExcerpt picks the display excerpt for a citation. With
// no query or short content, it truncates at a sentence boundary (or a
// word boundary with an ellipsis); with a query and an embedding model,
// it picks the most query-similar sentence, optionally extending into
// the next one when still short.
func extractExcerpt(ctx context.Context, content, query string, embedder collab.EmbeddingModel) string {
	if len(content) < minExcerptLen || query == "" || embedder == nil {
		return truncateAtBoundary(content, maxExcerptLen)
	}

	sentences := splitSentences(content, sentenceChunkMinLen)
	if len(sentences) == 0 {
		return truncateAtBoundary(content, maxExcerptLen)
	}

	queryVec, err := embedder.Embed(ctx, query)
	if err != nil {
		return truncateAtBoundary(content, maxExcerptLen)
	}

	bestIdx := 0
	bestScore := -2.0
	for i, s := range sentences {
		vec, err := embedder.Embed(ctx, s)
		if err != nil {
			continue
		}
		score := cosineSimilarity(queryVec, vec)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	excerpt := sentences[bestIdx]
	if len(excerpt) < minExcerptLen && bestIdx+1 < len(sentences) {
		excerpt = excerpt + " " + sentences[bestIdx+1]
	}

	return truncateAtBoundary(excerpt, maxExcerptLen)
}

// splitSentences splits on ". ", "! ", "? " boundaries and drops
// fragments shorter than minLen.
func splitSentences(content string, minLen int) []string {
	parts := sentenceBoundaryPattern.Split(content, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) >= minLen {
			out = append(out, p)
		}
	}
	return out
}

// truncateAtBoundary truncates text to at most maxLen characters,
// preferring to cut at a sentence boundary (". ", "! ", "? ") and
// falling back to a word boundary with an ellipsis.
func truncateAtBoundary(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}

	window := text[:maxLen]

	if idx := lastSentenceBoundary(window); idx > 0 {
		return strings.TrimSpace(window[:idx])
	}

	if idx := strings.LastIndexByte(window, ' '); idx > 0 {
		return strings.TrimSpace(window[:idx]) + "..."
	}

	return strings.TrimSpace(window) + "..."
}

func lastSentenceBoundary(s string) int {
	best := -1
	for _, sep := range []string{". ", "! ", "? "} {
		if idx := strings.LastIndex(s, sep); idx > best {
			best = idx + 1 // keep the terminal punctuation, drop the trailing space
		}
	}
	return best
}
