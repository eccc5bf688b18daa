// Package engine implements the execution engine: the three execution
// strategies (Sequential, Parallel, Conditional), the conditional-gating
// predicate DSL, the per-call reasoning trace, and result merging.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/cortexai/cortex/model"
	"github.com/cortexai/cortex/tools"
)

// Config tunes the engine's concurrency and timeout behavior.
type Config struct {
	// MaxParallelWorkers bounds the Parallel strategy's worker pool.
	MaxParallelWorkers int

	// DefaultToolTimeout applies to any tool without a ToolTimeouts entry.
	DefaultToolTimeout time.Duration

	// ToolTimeouts overrides the default per tool name, e.g.
	// {"web_search": 30s, "url_ingestion": 60s}.
	ToolTimeouts map[string]time.Duration
}

// DefaultConfig returns the engine defaults: 3 parallel workers, 15s
// default tool timeout, 30s for web_search, 60s for url_ingestion.
func DefaultConfig() Config {
	return Config{
		MaxParallelWorkers: 3,
		DefaultToolTimeout: 15 * time.Second,
		ToolTimeouts: map[string]time.Duration{
			"web_search":    30 * time.Second,
			"url_ingestion": 60 * time.Second,
		},
	}
}

func (c Config) timeoutFor(toolName string) time.Duration {
	if d, ok := c.ToolTimeouts[toolName]; ok && d > 0 {
		return d
	}
	if c.DefaultToolTimeout > 0 {
		return c.DefaultToolTimeout
	}
	return 15 * time.Second
}

func (c Config) workers() int {
	if c.MaxParallelWorkers > 0 {
		return c.MaxParallelWorkers
	}
	return 3
}

// Engine executes an ExecutionPlan's tools under one of the three
// strategies, resolving tools by name against a registry. An Engine
// instance owns one query's trace; callers must not share an Engine
// across concurrent queries.
type Engine struct {
	registry *tools.Registry
	cfg      Config
	metrics  *Metrics
	tracer   trace.Tracer

	mu    sync.Mutex
	trace []model.TraceEntry
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *Metrics) Option { return func(e *Engine) { e.metrics = m } }

// WithTracer attaches an OpenTelemetry tracer; runOne opens one child
// span per tool execution under it.
func WithTracer(t trace.Tracer) Option { return func(e *Engine) { e.tracer = t } }

// New creates an execution engine against a tool registry.
func New(registry *tools.Registry, cfg Config, opts ...Option) *Engine {
	e := &Engine{registry: registry, cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs plan's tools under its chosen strategy, returning every
// ToolResult produced. The trace is cleared at the start of
// every call.
func (e *Engine) Execute(ctx context.Context, plan model.ExecutionPlan, ectx *model.ExecutionContext) []model.ToolResult {
	e.resetTrace()

	switch plan.Strategy {
	case model.StrategyParallel:
		return e.runParallel(ctx, plan, ectx)
	case model.StrategyConditional:
		return e.runConditional(ctx, plan, ectx)
	default:
		return e.runSequential(ctx, plan, ectx)
	}
}

// GetExecutionTrace returns a copy of the trace accumulated by the most
// recent Execute call.
func (e *Engine) GetExecutionTrace() []model.TraceEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.TraceEntry, len(e.trace))
	copy(out, e.trace)
	return out
}

func (e *Engine) resetTrace() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.trace = nil
}

func (e *Engine) addTrace(entry model.TraceEntry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.trace = append(e.trace, entry)
}

func (e *Engine) resolveTool(name string) (tools.Tool, bool) {
	if e.registry == nil {
		return nil, false
	}
	return e.registry.Get(name)
}

// runOne invokes a single tool under a bounded timeout, recovering any
// panic into a failed ToolResult, and
// recording the execute_tool/tool_success/tool_failure/tool_error trace
// triple.
func (e *Engine) runOne(ctx context.Context, tool tools.Tool, query string, ectx *model.ExecutionContext) model.ToolResult {
	e.addTrace(model.NewTrace(model.StepExecuteTool, "tool", tool.Name()))

	spanCtx := ctx
	if e.tracer != nil {
		var span trace.Span
		spanCtx, span = e.tracer.Start(ctx, "tool."+tool.Name())
		defer span.End()
	}

	callCtx, cancel := context.WithTimeout(spanCtx, e.cfg.timeoutFor(tool.Name()))
	defer cancel()

	start := time.Now()
	result, panicked := e.safeExecute(callCtx, tool, query, ectx)
	elapsed := time.Since(start)

	if e.metrics != nil {
		e.metrics.observeToolCall(tool.Name(), result.Success, elapsed.Seconds())
	}

	switch {
	case panicked:
		e.addTrace(model.NewTrace(model.StepToolError, "tool", tool.Name(), "error", result.Error))
	case result.Success:
		e.addTrace(model.NewTrace(model.StepToolSuccess, "tool", tool.Name(), "citations", len(result.Citations)))
	default:
		e.addTrace(model.NewTrace(model.StepToolFailure, "tool", tool.Name(), "error", result.Error))
	}

	return result
}

func (e *Engine) safeExecute(ctx context.Context, tool tools.Tool, query string, ectx *model.ExecutionContext) (result model.ToolResult, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			result = model.Failed(tool.Name(), fmt.Sprintf("panic: %v", r))
		}
	}()
	return tool.Execute(ctx, query, ectx), false
}

// propagate copy-propagates a successful result's data/citations onto
// ectx, the context-mutation rule shared by Sequential and Conditional.
// A success without data (or without citations) leaves the previously
// propagated value in place.
func propagate(ectx *model.ExecutionContext, result model.ToolResult) {
	if !result.Success {
		return
	}
	if result.Data != nil {
		ectx.PreviousResult = result.Data
	}
	if len(result.Citations) > 0 {
		ectx.PreviousCitations = result.Citations
	}
}
