package tools

import (
	"context"
	"strings"

	"github.com/cortexai/cortex/collab"
	"github.com/cortexai/cortex/model"
)

// ComparisonTool answers "compare X and Y" style queries. It retrieves
// supporting context for each compared entity (when a retriever is
// configured) and synthesizes the comparison via the answer chain's
// dedicated comparison entry point.
type ComparisonTool struct {
	topKPerEntity int
}

// NewComparisonTool creates the comparison tool.
func NewComparisonTool(topKPerEntity int) *ComparisonTool {
	if topKPerEntity <= 0 {
		topKPerEntity = 3
	}
	return &ComparisonTool{topKPerEntity: topKPerEntity}
}

func (t *ComparisonTool) Name() string { return "comparison" }

func (t *ComparisonTool) Description() string {
	return "Compares two or more entities found in the query using retrieved supporting context"
}

func (t *ComparisonTool) CanHandle(ctx context.Context, query string, ectx *model.ExecutionContext) float64 {
	if ectx == nil {
		return 0
	}
	if ectx.Intent == model.IntentComparison {
		return 0.9
	}
	if len(ectx.Keywords[model.KeywordComparison]) > 0 {
		return 0.6
	}
	return 0
}

func (t *ComparisonTool) Execute(ctx context.Context, query string, ectx *model.ExecutionContext) model.ToolResult {
	chain, ok := ectx.QAChain.(collab.AnswerChain)
	if !ok || chain == nil {
		return fail(NewToolError(t.Name(), "execute", "no answer chain configured", nil))
	}

	entities := comparedEntities(ectx.Entities)

	var docs []string
	var citations []model.Citation
	if retriever, ok := ectx.Retriever.(collab.Retriever); ok && retriever != nil {
		for _, entity := range entities {
			chunks, err := retriever.SemanticSearch(ctx, entity, t.topKPerEntity)
			if err != nil {
				continue
			}
			docs = append(docs, contentsOf(chunks)...)
			citations = append(citations, chunksToCitations(chunks)...)
		}
	}
	if len(docs) == 0 {
		docs = []string{query}
	}

	result, err := chain.ComparisonChain(ctx, query, docs)
	if err != nil {
		return fail(NewToolError(t.Name(), "compare", "comparison chain failed", err))
	}

	return model.ToolResult{
		Success: true,
		Data: map[string]interface{}{
			"answer": result.Answer,
		},
		Metadata: map[string]interface{}{
			"tool":       t.Name(),
			"confidence": result.Confidence,
			"entities":   entities,
		},
		Citations: citations,
	}
}

// comparedEntities narrows the analyzer's entity list to the ones being
// compared: when at least two multi-word phrases are present ("Policy
// A", "Policy B"), single-word fragments of those phrases ("Policy")
// are noise and dropped.
func comparedEntities(entities []string) []string {
	var phrases []string
	for _, e := range entities {
		if strings.Contains(e, " ") {
			phrases = append(phrases, e)
		}
	}
	if len(phrases) >= 2 {
		return phrases
	}
	return entities
}
