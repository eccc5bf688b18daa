// Package orchestrator ties the analyzer, tool registry, execution
// engine, and citation enhancer into the single entry point of this
// system: Process takes a raw query and returns an AgenticResponse.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/cortexai/cortex/analyzer"
	"github.com/cortexai/cortex/citation"
	"github.com/cortexai/cortex/collab"
	"github.com/cortexai/cortex/engine"
	"github.com/cortexai/cortex/model"
	"github.com/cortexai/cortex/tools"
)

// Orchestrator runs one query at a time end to end. Each Process call
// builds its own ExecutionContext, but all calls share the one Engine
// passed to New, whose trace is reset by every Execute; concurrent
// Process calls on the same Orchestrator are not safe.
type Orchestrator struct {
	registry  *tools.Registry
	analyzer  *analyzer.QueryAnalyzer
	engine    *engine.Engine
	citations *citation.Enhancer

	retriever      collab.Retriever
	llm            collab.LLMHandler
	chain          collab.AnswerChain
	useLLMFallback bool

	tracer trace.Tracer
	logger *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLLM attaches the language-model handler used for intent
// classification and the advisory tool-selection fallback.
func WithLLM(llm collab.LLMHandler) Option { return func(o *Orchestrator) { o.llm = llm } }

// WithRetriever attaches the document retriever placed on every query's
// ExecutionContext.Retriever, the collaborator semantic_search and
// keyword_search read from the context (they hold no retriever of
// their own).
func WithRetriever(r collab.Retriever) Option { return func(o *Orchestrator) { o.retriever = r } }

// WithAnswerChain attaches the answer-synthesis chain used when no tool
// result carries a direct answer.
func WithAnswerChain(chain collab.AnswerChain) Option {
	return func(o *Orchestrator) { o.chain = chain }
}

// WithCitationEnhancer attaches the citation enhancer run before merge.
func WithCitationEnhancer(e *citation.Enhancer) Option {
	return func(o *Orchestrator) { o.citations = e }
}

// WithLLMFallback toggles the advisory model fallback in tool
// selection (default true).
func WithLLMFallback(enabled bool) Option { return func(o *Orchestrator) { o.useLLMFallback = enabled } }

// WithTracer attaches an OpenTelemetry tracer; Process opens one span
// per query and hands it to the engine for per-tool child spans.
func WithTracer(t trace.Tracer) Option { return func(o *Orchestrator) { o.tracer = t } }

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option { return func(o *Orchestrator) { o.logger = l } }

// New builds an Orchestrator around a populated tool registry and an
// execution engine over that same registry.
func New(registry *tools.Registry, eng *engine.Engine, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry:       registry,
		engine:         eng,
		useLLMFallback: true,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.analyzer = analyzer.NewQueryAnalyzer(o.llm)
	return o
}

// Process runs one query through analysis, selection, planning,
// execution, and synthesis, returning the final AgenticResponse.
func (o *Orchestrator) Process(ctx context.Context, query string) (resp model.AgenticResponse) {
	if o.tracer != nil {
		var span trace.Span
		ctx, span = o.tracer.Start(ctx, "orchestrator.process")
		defer span.End()
	}

	queryID := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			oerr := NewOrchestratorError("process", "unexpected failure during query processing", fmt.Errorf("panic: %v", r))
			o.logger.Error("query processing panicked", "query_id", queryID, "error", oerr)
			resp = model.NewAgenticResponse(
				"I couldn't find an answer to your query.",
				nil, nil,
				map[string]interface{}{
					"query_id":     queryID,
					"error":        true,
					"error_detail": oerr.Error(),
				},
			)
		}
	}()

	analysis := o.analyzer.Analyze(ctx, query)
	o.logger.Debug("query analyzed",
		"query_id", queryID,
		"complexity", string(analysis.Complexity),
		"intent", string(analysis.Intent))
	reasoningTrace := []model.TraceEntry{
		model.NewTrace(model.StepQueryAnalysis, "complexity", string(analysis.Complexity), "intent", string(analysis.Intent)),
	}

	if analysis.Intent == model.IntentConversational {
		reply := conversationalReply(query)
		reasoningTrace = append(reasoningTrace, model.NewTrace(model.StepConversationResponse, "reply", reply))
		return model.NewAgenticResponse(reply, nil, reasoningTrace, map[string]interface{}{
			"query_id":   queryID,
			"complexity": string(analysis.Complexity),
			"intent":     string(analysis.Intent),
		})
	}

	ectx := model.NewExecutionContext(query, analysis)
	ectx.Retriever = o.retriever
	ectx.QAChain = o.chain
	ectx.LLMHandler = o.llm

	selected, selectionTrace := o.selectTools(ctx, query, analysis, ectx)
	reasoningTrace = append(reasoningTrace, selectionTrace...)

	plan := buildPlan(selected, analysis)
	reasoningTrace = append(reasoningTrace, model.NewTrace(model.StepExecutionPlan, "strategy", string(plan.Strategy), "tools", plan.ToolNames()))
	for _, name := range plan.ToolNames() {
		reasoningTrace = append(reasoningTrace, model.NewTrace(model.StepSubmitTool, "tool", name))
	}

	o.logger.Debug("executing plan",
		"query_id", queryID,
		"strategy", string(plan.Strategy),
		"tools", plan.ToolNames())

	results := o.engine.Execute(ctx, plan, ectx)
	reasoningTrace = append(reasoningTrace, o.engine.GetExecutionTrace()...)

	resp = o.synthesize(ctx, query, analysis, results, reasoningTrace)
	resp.Metadata["query_id"] = queryID
	return resp
}
