package analyzer

import (
	"context"
	"strings"

	"github.com/cortexai/cortex/collab"
	"github.com/cortexai/cortex/model"
)

// QueryAnalyzer classifies a raw query into an Analysis. An LLMHandler
// is optional; when absent (or when the model call fails to parse) the
// analyzer falls back to the deterministic rule set for intent
// classification.
type QueryAnalyzer struct {
	llm collab.LLMHandler
}

// NewQueryAnalyzer creates a query analyzer. llm may be nil.
func NewQueryAnalyzer(llm collab.LLMHandler) *QueryAnalyzer {
	return &QueryAnalyzer{llm: llm}
}

// Analyze produces an Analysis from a raw query.
func (a *QueryAnalyzer) Analyze(ctx context.Context, query string) model.Analysis {
	complexity, _ := scoreComplexity(query)
	intent := classifyIntent(ctx, query, a.llm)
	entities := extractEntities(query)
	keywords := matchKeywords(query)
	multi := requiresMultipleTools(query, complexity, intent, keywords)

	return model.Analysis{
		Complexity:            complexity,
		Intent:                intent,
		Entities:              entities,
		RequiresMultipleTools: multi,
		Keywords:              keywords,
		QueryLength:           len(query),
		WordCount:             len(strings.Fields(query)),
	}
}
