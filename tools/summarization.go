package tools

import (
	"context"

	"github.com/cortexai/cortex/collab"
	"github.com/cortexai/cortex/model"
)

// SummarizationTool condenses the previous tool's retrieved content,
// via the answer chain's dedicated summarization entry point. It is
// always planned after a retrieval tool and reads context.previous_result
// / context.previous_citations populated by the engine.
type SummarizationTool struct{}

// NewSummarizationTool creates the summarization tool.
func NewSummarizationTool() *SummarizationTool { return &SummarizationTool{} }

func (t *SummarizationTool) Name() string { return "summarization" }

func (t *SummarizationTool) Description() string {
	return "Summarizes previously retrieved content into a concise overview"
}

func (t *SummarizationTool) CanHandle(ctx context.Context, query string, ectx *model.ExecutionContext) float64 {
	if ectx == nil {
		return 0
	}
	if ectx.Intent == model.IntentSummarization {
		return 0.9
	}
	if len(ectx.Keywords[model.KeywordSummarization]) > 0 {
		return 0.7
	}
	return 0.1
}

func (t *SummarizationTool) Execute(ctx context.Context, query string, ectx *model.ExecutionContext) model.ToolResult {
	chain, ok := ectx.QAChain.(collab.AnswerChain)
	if !ok || chain == nil {
		return fail(NewToolError(t.Name(), "execute", "no answer chain configured", nil))
	}

	docs := citationContents(ectx.PreviousCitations)
	if len(docs) == 0 {
		if prev, ok := ectx.PreviousResult.(map[string]interface{}); ok {
			if answer, ok := prev["answer"].(string); ok && answer != "" {
				docs = []string{answer}
			}
		}
	}
	if len(docs) == 0 {
		return fail(NewToolError(t.Name(), "execute", "nothing to summarize: no prior retrieval result", nil))
	}

	result, err := chain.SummarizationChain(ctx, query, docs)
	if err != nil {
		return fail(NewToolError(t.Name(), "summarize", "summarization chain failed", err))
	}

	return model.ToolResult{
		Success: true,
		Data: map[string]interface{}{
			"answer": result.Answer,
		},
		Metadata: map[string]interface{}{
			"tool":       t.Name(),
			"confidence": result.Confidence,
		},
		Citations: ectx.PreviousCitations,
	}
}

func citationContents(citations []model.Citation) []string {
	out := make([]string, len(citations))
	for i, c := range citations {
		out[i] = c.Content
	}
	return out
}
