package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexai/cortex/model"
	"github.com/cortexai/cortex/tools"
)

// stubTool is a minimal tools.Tool used to drive the engine under test
// without any real collaborators.
type stubTool struct {
	name       string
	confidence float64
	delay      time.Duration
	panics     bool
	result     model.ToolResult

	mu          sync.Mutex
	calls       int
	inFlight    *int32 // shared counter across a batch, for the parallel bound test
	maxInFlight *int32
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub" }

func (s *stubTool) CanHandle(ctx context.Context, query string, ectx *model.ExecutionContext) float64 {
	return s.confidence
}

func (s *stubTool) Execute(ctx context.Context, query string, ectx *model.ExecutionContext) model.ToolResult {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.inFlight != nil {
		n := atomic.AddInt32(s.inFlight, 1)
		defer atomic.AddInt32(s.inFlight, -1)
		for {
			cur := atomic.LoadInt32(s.maxInFlight)
			if n <= cur || atomic.CompareAndSwapInt32(s.maxInFlight, cur, n) {
				break
			}
		}
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return model.Failed(s.name, "timeout")
		}
	}
	if s.panics {
		panic("boom")
	}
	return s.result
}

func newTestRegistry(t *testing.T, toolsList ...tools.Tool) *tools.Registry {
	t.Helper()
	reg := tools.NewRegistry(nil)
	for _, tool := range toolsList {
		reg.Register(tool)
	}
	return reg
}

func TestSequentialPropagatesContextBetweenTools(t *testing.T) {
	first := &stubTool{name: "semantic_search", result: model.ToolResult{
		Success:   true,
		Data:      map[string]interface{}{"answer": "a"},
		Metadata:  map[string]interface{}{"tool": "semantic_search", "confidence": 0.9},
		Citations: []model.Citation{{Document: "d1"}},
	}}
	second := &stubTool{name: "summarization", result: model.ToolResult{Success: true, Metadata: map[string]interface{}{"tool": "summarization"}}}

	reg := newTestRegistry(t, first, second)
	eng := New(reg, DefaultConfig())

	ectx := model.NewExecutionContext("q", model.Analysis{})
	plan := model.ExecutionPlan{
		Strategy: model.StrategySequential,
		Tools:    []model.RankedTool{{Name: "semantic_search", Confidence: 0.9}, {Name: "summarization", Confidence: 0.7}},
	}

	results := eng.Execute(context.Background(), plan, ectx)
	require.Len(t, results, 2)

	assert.Equal(t, map[string]interface{}{"answer": "a"}, ectx.PreviousResult)
	require.Len(t, ectx.PreviousCitations, 1)

	trace := eng.GetExecutionTrace()
	var executeCount int
	for _, e := range trace {
		if e.Step == model.StepExecuteTool {
			executeCount++
		}
	}
	assert.Equal(t, 2, executeCount)
}

func TestSequentialContinuesAfterFailure(t *testing.T) {
	failing := &stubTool{name: "semantic_search", result: model.Failed("semantic_search", "boom")}
	second := &stubTool{name: "keyword_search", result: model.ToolResult{Success: true, Metadata: map[string]interface{}{"tool": "keyword_search"}}}

	reg := newTestRegistry(t, failing, second)
	eng := New(reg, DefaultConfig())
	ectx := model.NewExecutionContext("q", model.Analysis{})
	plan := model.ExecutionPlan{
		Strategy: model.StrategySequential,
		Tools:    []model.RankedTool{{Name: "semantic_search"}, {Name: "keyword_search"}},
	}

	results := eng.Execute(context.Background(), plan, ectx)
	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.True(t, results[1].Success)
}

func TestEnginePanicBecomesFailedResultWithToolErrorTrace(t *testing.T) {
	panicking := &stubTool{name: "calculator", panics: true}
	reg := newTestRegistry(t, panicking)
	eng := New(reg, DefaultConfig())
	ectx := model.NewExecutionContext("q", model.Analysis{})
	plan := model.ExecutionPlan{Strategy: model.StrategySequential, Tools: []model.RankedTool{{Name: "calculator"}}}

	results := eng.Execute(context.Background(), plan, ectx)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "panic")

	trace := eng.GetExecutionTrace()
	var sawToolError bool
	for _, e := range trace {
		if e.Step == model.StepToolError {
			sawToolError = true
		}
	}
	assert.True(t, sawToolError)
}

func TestParallelBoundsConcurrencyAndGathersAllResults(t *testing.T) {
	var inFlight, maxInFlight int32

	var list []tools.Tool
	var rankedTools []model.RankedTool
	for i := 0; i < 6; i++ {
		name := "t" + string(rune('a'+i))
		list = append(list, &stubTool{
			name:        name,
			delay:       20 * time.Millisecond,
			result:      model.ToolResult{Success: true, Metadata: map[string]interface{}{"tool": name}},
			inFlight:    &inFlight,
			maxInFlight: &maxInFlight,
		})
		rankedTools = append(rankedTools, model.RankedTool{Name: name})
	}

	reg := newTestRegistry(t, list...)
	cfg := DefaultConfig()
	cfg.MaxParallelWorkers = 3
	eng := New(reg, cfg)

	ectx := model.NewExecutionContext("q", model.Analysis{})
	plan := model.ExecutionPlan{Strategy: model.StrategyParallel, Tools: rankedTools}

	results := eng.Execute(context.Background(), plan, ectx)
	require.Len(t, results, 6)
	assert.LessOrEqual(t, int(atomic.LoadInt32(&maxInFlight)), 3)
}

func TestConditionalSkipsGatedTool(t *testing.T) {
	strongKB := &stubTool{name: "semantic_search", result: model.ToolResult{
		Success:  true,
		Metadata: map[string]interface{}{"tool": "semantic_search", "confidence": 0.8},
	}}
	web := &stubTool{name: "web_search", result: model.ToolResult{Success: true, Metadata: map[string]interface{}{"tool": "web_search"}}}

	reg := newTestRegistry(t, strongKB, web)
	eng := New(reg, DefaultConfig())
	ectx := model.NewExecutionContext("q", model.Analysis{})
	maxConf := 0.5
	plan := model.ExecutionPlan{
		Strategy: model.StrategyConditional,
		Tools:    []model.RankedTool{{Name: "semantic_search"}, {Name: "web_search"}},
		Conditions: map[string]model.Condition{
			"web_search": {MaxConfidence: &maxConf},
		},
	}

	results := eng.Execute(context.Background(), plan, ectx)
	require.Len(t, results, 1)
	assert.Equal(t, "semantic_search", results[0].ToolName())
	assert.Equal(t, 0, web.calls)

	trace := eng.GetExecutionTrace()
	var sawSkip bool
	for _, e := range trace {
		if e.Step == model.StepSkipTool {
			sawSkip = true
			assert.Equal(t, "confidence 0.800 >= 0.5", e.Fields["reason"])
		}
	}
	assert.True(t, sawSkip)
}
