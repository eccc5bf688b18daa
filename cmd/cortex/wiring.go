package main

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/cortexai/cortex/citation"
	"github.com/cortexai/cortex/config"
	"github.com/cortexai/cortex/engine"
	"github.com/cortexai/cortex/orchestrator"
	"github.com/cortexai/cortex/tools"
)

// buildRegistry registers the seven concrete tools, constructing each
// from its config section. The webhook-backed tools are only
// registered when a base URL is configured.
func buildRegistry(cfg *config.OrchestratorConfig, logger *slog.Logger) *tools.Registry {
	reg := tools.NewRegistry(logger)

	reg.Register(tools.NewSemanticSearchTool(cfg.Tools.SemanticSearch.DefaultTopK))
	reg.Register(tools.NewKeywordSearchTool(cfg.Tools.KeywordSearch.DefaultTopK))
	reg.Register(tools.NewCalculatorTool())
	reg.Register(tools.NewComparisonTool(cfg.Tools.Comparison.TopKPerEntity))
	reg.Register(tools.NewSummarizationTool())

	if cfg.Tools.WebSearch.BaseURL != "" {
		reg.Register(tools.NewWebSearchTool(cfg.Tools.WebSearch.BaseURL, cfg.Tools.WebSearch.MaxResults))
	}
	if cfg.Tools.URLIngestion.BaseURL != "" {
		reg.Register(tools.NewURLIngestionTool(cfg.Tools.URLIngestion.BaseURL))
	}

	return reg
}

// buildOrchestrator wires a tool registry, execution engine, citation
// enhancer, and demo collaborators into a ready-to-run Orchestrator.
func buildOrchestrator(cfg *config.OrchestratorConfig, logger *slog.Logger, tracer trace.Tracer) *orchestrator.Orchestrator {
	reg := buildRegistry(cfg, logger)

	engCfg := engine.Config{
		MaxParallelWorkers: cfg.Engine.MaxParallelWorkers,
		DefaultToolTimeout: cfg.Engine.DefaultToolTimeout,
		ToolTimeouts:       cfg.Engine.ToolTimeouts,
	}

	metrics := engine.NewMetrics()
	engOpts := []engine.Option{engine.WithMetrics(metrics)}
	if tracer != nil {
		engOpts = append(engOpts, engine.WithTracer(tracer))
	}
	eng := engine.New(reg, engCfg, engOpts...)

	retriever := newDemoRetriever()
	chain := demoChain{}
	enhancer := citation.NewEnhancer(nil,
		citation.WithMinConfidence(cfg.Citation.MinConfidence),
		citation.WithDedupThreshold(cfg.Citation.DedupThreshold),
	)

	orchOpts := []orchestrator.Option{
		orchestrator.WithRetriever(retriever),
		orchestrator.WithAnswerChain(chain),
		orchestrator.WithCitationEnhancer(enhancer),
		orchestrator.WithLLMFallback(cfg.LLMFallbackEnabled()),
		orchestrator.WithLogger(logger),
	}
	if tracer != nil {
		orchOpts = append(orchOpts, orchestrator.WithTracer(tracer))
	}

	return orchestrator.New(reg, eng, orchOpts...)
}
