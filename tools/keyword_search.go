package tools

import (
	"context"

	"github.com/cortexai/cortex/collab"
	"github.com/cortexai/cortex/model"
)

// KeywordSearchTool performs lexical (keyword/BM25-style) retrieval, the
// complement to SemanticSearchTool for moderate/complex queries that
// benefit from exact-term matching.
type KeywordSearchTool struct {
	defaultTopK int
}

// NewKeywordSearchTool creates the keyword search tool.
func NewKeywordSearchTool(defaultTopK int) *KeywordSearchTool {
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &KeywordSearchTool{defaultTopK: defaultTopK}
}

func (t *KeywordSearchTool) Name() string { return "keyword_search" }

func (t *KeywordSearchTool) Description() string {
	return "Retrieves relevant passages from the document store via keyword matching"
}

func (t *KeywordSearchTool) CanHandle(ctx context.Context, query string, ectx *model.ExecutionContext) float64 {
	if ectx == nil || ectx.Retriever == nil {
		return 0
	}
	retriever, ok := ectx.Retriever.(collab.Retriever)
	if !ok || retriever == nil || !retriever.HasKeywordIndex() {
		return 0
	}
	if ectx.Intent == model.IntentConversational {
		return 0
	}
	return 0.5
}

func (t *KeywordSearchTool) Execute(ctx context.Context, query string, ectx *model.ExecutionContext) model.ToolResult {
	retriever, ok := ectx.Retriever.(collab.Retriever)
	if !ok || retriever == nil {
		return fail(NewToolError(t.Name(), "execute", "no retriever configured", nil))
	}

	chunks, err := retriever.KeywordSearch(ctx, query, t.defaultTopK)
	if err != nil {
		return fail(NewToolError(t.Name(), "retrieve", "keyword search failed", err))
	}

	citations := chunksToCitations(chunks)
	confidence := topScoreConfidence(chunks)

	data := map[string]interface{}{
		"results_count": len(chunks),
	}

	if chain, ok := ectx.QAChain.(collab.AnswerChain); ok && chain != nil && len(chunks) > 0 {
		result, err := chain.ProcessQuery(ctx, query, contentsOf(chunks), nil)
		if err == nil && result.Answer != "" {
			data["answer"] = result.Answer
		}
	}

	return model.ToolResult{
		Success: true,
		Data:    data,
		Metadata: map[string]interface{}{
			"tool":       t.Name(),
			"confidence": confidence,
		},
		Citations: citations,
	}
}
