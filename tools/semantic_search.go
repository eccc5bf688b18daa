package tools

import (
	"context"

	"github.com/cortexai/cortex/collab"
	"github.com/cortexai/cortex/model"
)

// SemanticSearchTool retrieves relevant document chunks via vector
// similarity and, when an answer chain is available, synthesizes a
// direct answer from them. It is the default tool for simple factual
// queries and the retrieval half of comparison,
// summarization, and external-fallback plans.
type SemanticSearchTool struct {
	defaultTopK int
}

// NewSemanticSearchTool creates the semantic search tool.
func NewSemanticSearchTool(defaultTopK int) *SemanticSearchTool {
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &SemanticSearchTool{defaultTopK: defaultTopK}
}

func (t *SemanticSearchTool) Name() string { return "semantic_search" }

func (t *SemanticSearchTool) Description() string {
	return "Retrieves relevant passages from the document store via vector similarity search"
}

func (t *SemanticSearchTool) CanHandle(ctx context.Context, query string, ectx *model.ExecutionContext) float64 {
	if ectx == nil || ectx.Retriever == nil {
		return 0
	}
	switch ectx.Intent {
	case model.IntentConversational:
		return 0
	case model.IntentCalculation:
		return 0.2
	default:
		return 0.8
	}
}

func (t *SemanticSearchTool) Execute(ctx context.Context, query string, ectx *model.ExecutionContext) model.ToolResult {
	retriever, ok := ectx.Retriever.(collab.Retriever)
	if !ok || retriever == nil {
		return fail(NewToolError(t.Name(), "execute", "no retriever configured", nil))
	}

	chunks, err := retriever.SemanticSearch(ctx, query, t.defaultTopK)
	if err != nil {
		return fail(NewToolError(t.Name(), "retrieve", "semantic search failed", err))
	}

	citations := chunksToCitations(chunks)
	confidence := topScoreConfidence(chunks)

	data := map[string]interface{}{
		"results_count": len(chunks),
	}

	if chain, ok := ectx.QAChain.(collab.AnswerChain); ok && chain != nil {
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
