package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexai/cortex/collab"
	"github.com/cortexai/cortex/engine"
	"github.com/cortexai/cortex/model"
	"github.com/cortexai/cortex/tools"
)

// stubTool is a minimal tools.Tool driving the orchestrator under test
// without any real collaborators (mirrors engine package's stub).
type stubTool struct {
	name       string
	canHandle  float64
	result     model.ToolResult
	calls      int
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub " + s.name }
func (s *stubTool) CanHandle(ctx context.Context, query string, ectx *model.ExecutionContext) float64 {
	return s.canHandle
}
func (s *stubTool) Execute(ctx context.Context, query string, ectx *model.ExecutionContext) model.ToolResult {
	s.calls++
	return s.result
}

func newRegistry(t *testing.T, toolsList ...tools.Tool) *tools.Registry {
	t.Helper()
	reg := tools.NewRegistry(nil)
	for _, tl := range toolsList {
		reg.Register(tl)
	}
	return reg
}

type stubChain struct {
	answer string
}

func (c *stubChain) ProcessQuery(ctx context.Context, query string, docs []string, history []string) (collab.ChainResult, error) {
	return collab.ChainResult{Answer: c.answer, Confidence: 0.9}, nil
}
func (c *stubChain) SummarizationChain(ctx context.Context, query string, docs []string) (collab.ChainResult, error) {
	return collab.ChainResult{Answer: c.answer, Confidence: 0.9}, nil
}
func (c *stubChain) ComparisonChain(ctx context.Context, query string, docs []string) (collab.ChainResult, error) {
	return collab.ChainResult{Answer: c.answer, Confidence: 0.9}, nil
}

func TestProcessConversationalShortCircuit(t *testing.T) {
	reg := newRegistry(t)
	eng := engine.New(reg, engine.DefaultConfig())
	o := New(reg, eng)

	resp := o.Process(context.Background(), "hi")

	assert.Equal(t, "Hello! I'm Cortex. How can I help you today? You can ask me questions about your documents.", resp.Answer)
	assert.Empty(t, resp.Sources)

	var sawConversational bool
	for _, e := range resp.ReasoningTrace {
		if e.Step == model.StepConversationResponse {
			sawConversational = true
		}
	}
	assert.True(t, sawConversational)
}

func TestProcessSimpleFactualSingleTool(t *testing.T) {
	semantic := &stubTool{
		name:      "semantic_search",
		canHandle: 0.8,
		result: model.ToolResult{
			Success: true,
			Data:    map[string]interface{}{"answer": "Remote work is allowed 3 days a week."},
			Metadata: map[string]interface{}{
				"tool":       "semantic_search",
				"confidence": 0.9,
			},
			Citations: []model.Citation{{Document: "handbook.pdf", Content: "policy text", SimilarityScore: 0.9, RankPosition: 1}},
		},
	}
	reg := newRegistry(t, semantic)
	eng := engine.New(reg, engine.DefaultConfig())
	o := New(reg, eng)

	resp := o.Process(context.Background(), "What is the remote work policy?")

	assert.Equal(t, "Remote work is allowed 3 days a week.", resp.Answer)
	assert.Equal(t, []string{"semantic_search"}, resp.Metadata["tools_used"])
}

func TestProcessSummarizationSequential(t *testing.T) {
	semantic := &stubTool{
		name:      "semantic_search",
		canHandle: 0.8,
		result: model.ToolResult{
			Success:  true,
			Data:     map[string]interface{}{"results_count": 3},
			Metadata: map[string]interface{}{"tool": "semantic_search", "confidence": 0.7},
			Citations: []model.Citation{{Document: "report.pdf", Content: "long report text", RankPosition: 1}},
		},
	}
	summarization := &stubTool{
		name:      "summarization",
		canHandle: 0.9,
		result: model.ToolResult{
			Success:  true,
			Data:     map[string]interface{}{"answer": "Short summary of the report."},
			Metadata: map[string]interface{}{"tool": "summarization", "confidence": 0.85},
		},
	}
	reg := newRegistry(t, semantic, summarization)
	eng := engine.New(reg, engine.DefaultConfig())
	o := New(reg, eng)

	resp := o.Process(context.Background(), "Summarize the uploaded report.")

	assert.Equal(t, "Short summary of the report.", resp.Answer)
	require.Equal(t, 1, summarization.calls)
}

func TestProcessExternalKBFallbackToWeb(t *testing.T) {
	semantic := &stubTool{
		name:      "semantic_search",
		canHandle: 0.8,
		result: model.ToolResult{
			Success:  true,
			Data:     map[string]interface{}{},
			Metadata: map[string]interface{}{"tool": "semantic_search", "confidence": 0.2},
		},
	}
	web := &stubTool{
		name:      "web_search",
		canHandle: 0.8,
		result: model.ToolResult{
			Success:  true,
			Data:     map[string]interface{}{"answer": "Tokyo is currently 24C and sunny."},
			Metadata: map[string]interface{}{"tool": "web_search", "confidence": 0.6},
		},
	}
	reg := newRegistry(t, semantic, web)
	eng := engine.New(reg, engine.DefaultConfig())
	o := New(reg, eng)

	resp := o.Process(context.Background(), "What is the current weather in Tokyo?")

	assert.Equal(t, 1, web.calls)
	assert.Contains(t, resp.Answer, "Answer from external sources (internal documents had low relevance):")
	assert.Contains(t, resp.Answer, "Tokyo is currently 24C and sunny.")
}

func TestProcessExternalStrongKBSkipsWeb(t *testing.T) {
	semantic := &stubTool{
		name:      "semantic_search",
		canHandle: 0.8,
		result: model.ToolResult{
			Success:  true,
			Data:     map[string]interface{}{"answer": "Cached: Tokyo weather unavailable offline."},
			Metadata: map[string]interface{}{"tool": "semantic_search", "confidence": 0.8},
		},
	}
	web := &stubTool{
		name:      "web_search",
		canHandle: 0.8,
		result: model.ToolResult{Success: true, Metadata: map[string]interface{}{"tool": "web_search"}},
	}
	reg := newRegistry(t, semantic, web)
	eng := engine.New(reg, engine.DefaultConfig())
	o := New(reg, eng)

	resp := o.Process(context.Background(), "What is the current weather in Tokyo?")

	assert.Equal(t, 0, web.calls)
	assert.Equal(t, []string{"semantic_search"}, resp.Metadata["tools_used"])

	var skipReason interface{}
	for _, e := range resp.ReasoningTrace {
		if e.Step == model.StepSkipTool {
			skipReason = e.Fields["reason"]
		}
	}
	assert.Equal(t, "confidence 0.800 >= 0.5", skipReason)
}

func TestProcessComparisonSequential(t *testing.T) {
	comparison := &stubTool{
		name:      "comparison",
		canHandle: 0.9,
		result: model.ToolResult{
			Success:  true,
			Data:     map[string]interface{}{"answer": "Policy A offers more flexibility than Policy B."},
			Metadata: map[string]interface{}{"tool": "comparison", "confidence": 0.85, "entities": []string{"Policy A", "Policy B"}},
		},
	}
	semantic := &stubTool{
		name:      "semantic_search",
		canHandle: 0.8,
		result: model.ToolResult{
			Success:  true,
			Metadata: map[string]interface{}{"tool": "semantic_search", "confidence": 0.7},
		},
	}
	reg := newRegistry(t, comparison, semantic)
	eng := engine.New(reg, engine.DefaultConfig())
	o := New(reg, eng)

	resp := o.Process(context.Background(), "Compare Policy A and Policy B")

	assert.Contains(t, resp.Answer, "Policy A offers more flexibility than Policy B.")
	names, _ := resp.Metadata["tools_used"].([]string)
	assert.ElementsMatch(t, []string{"comparison", "semantic_search"}, names)
}

func TestProcessRecoversFromInternalPanic(t *testing.T) {
	reg := newRegistry(t, &stubTool{name: "semantic_search", canHandle: 0.8})
	o := New(reg, nil) // no engine wired: executing any plan panics

	resp := o.Process(context.Background(), "What is the remote work policy?")

	assert.Contains(t, resp.Answer, "I couldn't find an answer to your query.")
	assert.Equal(t, true, resp.Metadata["error"])
	assert.Contains(t, resp.Metadata["error_detail"], "[orchestrator:process]")
}

func TestProcessAllToolsFailed(t *testing.T) {
	semantic := &stubTool{
		name:      "semantic_search",
		canHandle: 0.8,
		result:    model.Failed("semantic_search", "retriever unavailable"),
	}
	reg := newRegistry(t, semantic)
	eng := engine.New(reg, engine.DefaultConfig())
	o := New(reg, eng)

	resp := o.Process(context.Background(), "What is the remote work policy?")

	assert.Contains(t, resp.Answer, "I couldn't find an answer to your query.")
	assert.Equal(t, true, resp.Metadata["all_tools_failed"])
}
