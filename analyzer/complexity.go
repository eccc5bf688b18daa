package analyzer

import (
	"regexp"
	"strings"

	"github.com/cortexai/cortex/model"
)

var sentenceSplitPattern = regexp.MustCompile(`[.!?]+`)

// scoreComplexity computes an additive complexity score from the
// query's surface features and classifies it into a bucket.
func scoreComplexity(query string) (model.Complexity, int) {
	score := 0

	words := strings.Fields(query)
	wordCount := len(words)
	switch {
	case wordCount > 20:
		score += 2
	case wordCount > 10:
		score += 1
	}

	sentences := sentenceSplitPattern.Split(query, -1)
	sentenceCount := 0
	for _, s := range sentences {
		if strings.TrimSpace(s) != "" {
			sentenceCount++
		}
	}
	switch {
	case sentenceCount > 2:
		score += 2
	case sentenceCount > 1:
		score += 1
	}

	if strings.Count(query, "?") > 1 {
		score += 2
	}

	andOrCount := countAndOr(query)
	switch {
	case andOrCount > 2:
		score += 2
	case andOrCount > 0:
		score += 1
	}

	if strings.Count(query, ",") > 2 {
		score += 1
	}

	if hasMultiStepKeyword(query) {
		score += 3
	}

	switch {
	case score >= 5:
		return model.ComplexityComplex, score
	case score >= 2:
		return model.ComplexityModerate, score
	default:
		return model.ComplexitySimple, score
	}
}
