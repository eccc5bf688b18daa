package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cortexai/cortex/model"
	"github.com/cortexai/cortex/tools"
)

const minToolConfidence = 0.3

// selectTools runs the hybrid rule-plus-model tool selection procedure:
// earlier rules win, each rule falls through to the next when it
// resolves to an empty list (e.g. because its named tools aren't
// registered).
func (o *Orchestrator) selectTools(ctx context.Context, query string, analysis model.Analysis, ectx *model.ExecutionContext) ([]tools.RankedTool, []model.TraceEntry) {
	var trace []model.TraceEntry

	record := func(rule string, sel []tools.RankedTool) {
		trace = append(trace, model.NewTrace(model.StepToolSelection, "rule", rule, "tools", namesOf(sel)))
	}

	if tools.ExtractURL(query) != "" && tools.HasIngestVerb(query) {
		if sel := o.registry.GetToolsByName([]string{"url_ingestion"}, 1.0); len(sel) > 0 {
			record("url_ingestion", sel)
			return sel, trace
		}
	}

	if analysis.Intent == model.IntentComparison || len(analysis.Keywords[model.KeywordComparison]) > 0 {
		if sel := o.registry.GetToolsByName([]string{"comparison", "semantic_search"}, 0.8); len(sel) > 0 {
			record("comparison", sel)
			return sel, trace
		}
	}

	if analysis.Intent == model.IntentCalculation || len(analysis.Keywords[model.KeywordCalculation]) > 0 {
		if sel := o.registry.GetToolsByName([]string{"calculator", "semantic_search"}, 0.8); len(sel) > 0 {
			record("calculation", sel)
			return sel, trace
		}
	}

	if analysis.Intent == model.IntentSummarization || len(analysis.Keywords[model.KeywordSummarization]) > 0 {
		if sel := o.registry.GetToolsByName([]string{"semantic_search", "summarization"}, 0.8); len(sel) > 0 {
			record("summarization", sel)
			return sel, trace
		}
	}

	if analysis.Intent == model.IntentExternal || len(analysis.Keywords[model.KeywordExternal]) > 0 {
		if sel := o.registry.GetToolsByName([]string{"semantic_search", "web_search"}, 0.8); len(sel) > 0 {
			record("external", sel)
			return sel, trace
		}
	}

	if analysis.Complexity == model.ComplexitySimple {
		if sel := o.registry.GetToolsByName([]string{"semantic_search"}, 0.8); len(sel) > 0 {
			record("simple", sel)
			return sel, trace
		}
	}

	if analysis.Complexity == model.ComplexityComplex || analysis.RequiresMultipleTools {
		if sel := o.registry.GetToolsByName([]string{"semantic_search", "keyword_search"}, 0.7); len(sel) > 0 {
			record("complex_or_multi_tool", sel)
			return sel, trace
		}
	}

	if analysis.Complexity == model.ComplexityModerate {
		if sel := o.registry.GetToolsByName([]string{"semantic_search", "keyword_search"}, 0.7); len(sel) > 0 {
			record("moderate", sel)
			return sel, trace
		}
	}

	if sel := o.registry.GetSuitableTools(ctx, query, ectx, minToolConfidence); len(sel) > 0 {
		record("registry_suitability", sel)
		return sel, trace
	}

	if o.useLLMFallback && o.llm != nil {
		if sel, ok := o.modelFallbackSelection(ctx, query); ok && len(sel) > 0 {
			trace = append(trace, model.NewTrace(model.StepLLMToolSelection, "tools", namesOf(sel)))
			return sel, trace
		}
	}

	fallback := o.registry.GetToolsByName([]string{"semantic_search"}, 0.5)
	record("final_fallback", fallback)
	return fallback, trace
}

// modelFallbackSelection is the purely advisory LLM-based tool
// selection fallback: it prompts the model with the
// tool roster and query, parses a bracketed list of tool names, and
// resolves them through the registry. Any error at any step returns
// (nil, false) rather than propagating.
func (o *Orchestrator) modelFallbackSelection(ctx context.Context, query string) ([]tools.RankedTool, bool) {
	reply, err := o.llm.Generate(ctx, toolSelectionPrompt(o.registry, query), 0.1, 60)
	if err != nil {
		return nil, false
	}

	names := parseBracketedList(reply)
	if len(names) == 0 {
		return nil, false
	}

	sel := o.registry.GetToolsByName(names, 0.5)
	if len(sel) == 0 {
		return nil, false
	}
	return sel, true
}

func toolSelectionPrompt(registry *tools.Registry, query string) string {
	names := registry.Names()
	sort.Strings(names)

	var roster strings.Builder
	for _, name := range names {
		tool, ok := registry.Get(name)
		if !ok {
			continue
		}
		roster.WriteString(fmt.Sprintf("- %s: %s\n", name, tool.Description()))
	}

	return fmt.Sprintf(
		"Available tools:\n%s\nSelect the tools most relevant to the query below. "+
			"Respond with only a bracketed, comma-separated list of tool names, e.g. [semantic_search, calculator].\n\nQuery: %s",
		roster.String(), query,
	)
}

// parseBracketedList extracts a comma-separated list of names from the
// first "[...]" found in reply.
func parseBracketedList(reply string) []string {
	start := strings.Index(reply, "[")
	end := strings.Index(reply, "]")
	if start < 0 || end < 0 || end <= start {
		return nil
	}
	inner := reply[start+1 : end]

	var names []string
	for _, part := range strings.Split(inner, ",") {
		name := strings.TrimSpace(part)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func namesOf(ranked []tools.RankedTool) []string {
	names := make([]string, len(ranked))
	for i, rt := range ranked {
		names[i] = rt.Tool.Name()
	}
	return names
}
