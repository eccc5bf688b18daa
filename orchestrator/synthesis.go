package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/cortexai/cortex/citation"
	"github.com/cortexai/cortex/engine"
	"github.com/cortexai/cortex/model"
)

// synthesize builds the final AgenticResponse from the engine's
// ToolResults. baseTrace is the orchestrator's own trace so
// far (query_analysis, tool_selection, execution_plan, plus the
// engine's concatenated trace); this appends a tool_complete record per
// result before returning.
func (o *Orchestrator) synthesize(ctx context.Context, query string, analysis model.Analysis, results []model.ToolResult, baseTrace []model.TraceEntry) model.AgenticResponse {
	var attempted, failed []string
	var successCount int
	for _, r := range results {
		name := r.ToolName()
		attempted = append(attempted, name)
		if r.Success {
			successCount++
		} else {
			failed = append(failed, name)
		}
	}

	trace := append(append([]model.TraceEntry{}, baseTrace...), completionTrace(results)...)

	if successCount == 0 {
		return o.errorResponse(attempted, failed, results, analysis, trace)
	}

	results = o.enhanceCitations(ctx, query, results)
	merged := engine.MergeResults(results)

	kbConfidence := extractKBConfidence(results)
	if merged.Metadata == nil {
		merged.Metadata = map[string]interface{}{}
	}
	if kbConfidence != 0 {
		merged.Metadata["kb_confidence"] = kbConfidence
	}

	answer := o.extractAnswer(ctx, query, merged, kbConfidence)

	metadata := map[string]interface{}{
		"tools_used":      merged.Metadata["tools_used"],
		"attempted_tools": attempted,
		"failed_tools":    failed,
		"result_count":    len(results),
		"complexity":      string(analysis.Complexity),
		"intent":          string(analysis.Intent),
		"kb_confidence":   kbConfidence,
	}

	return model.NewAgenticResponse(answer, merged.Citations, trace, metadata)
}

// errorResponse builds the "all tools failed" response.
func (o *Orchestrator) errorResponse(attempted, failed []string, results []model.ToolResult, analysis model.Analysis, trace []model.TraceEntry) model.AgenticResponse {
	var errs []string
	for _, r := range results {
		if !r.Success && r.Error != "" {
			errs = append(errs, fmt.Sprintf("%s: %s", r.ToolName(), r.Error))
		}
	}

	answer := "I couldn't find an answer to your query."
	if len(errs) > 0 {
		answer += " " + strings.Join(errs, "; ")
	}

	metadata := map[string]interface{}{
		"attempted_tools":  attempted,
		"failed_tools":     failed,
		"result_count":     len(results),
		"complexity":       string(analysis.Complexity),
		"intent":           string(analysis.Intent),
		"all_tools_failed": true,
	}

	return model.NewAgenticResponse(answer, nil, trace, metadata)
}

// enhanceCitations runs each successful result's raw citations through
// the citation enhancer before merging. Results are copied, not mutated in place.
func (o *Orchestrator) enhanceCitations(ctx context.Context, query string, results []model.ToolResult) []model.ToolResult {
	if o.citations == nil {
		return results
	}

	out := make([]model.ToolResult, len(results))
	for i, r := range results {
		out[i] = r
		if !r.Success || len(r.Citations) == 0 {
			continue
		}
		out[i].Citations = o.citations.Enhance(ctx, query, []citation.ToolCitations{
			{Citations: r.Citations, Confidence: r.Confidence()},
		})
	}
	return out
}

func completionTrace(results []model.ToolResult) []model.TraceEntry {
	out := make([]model.TraceEntry, 0, len(results))
	for _, r := range results {
		out = append(out, model.NewTrace(model.StepToolComplete, "tool", r.ToolName(), "success", r.Success))
	}
	return out
}

// extractKBConfidence returns metadata.confidence from the first
// successful result whose tool is semantic_search or keyword_search.
func extractKBConfidence(results []model.ToolResult) float64 {
	for _, r := range results {
		if !r.Success {
			continue
		}
		name := r.ToolName()
		if name == "semantic_search" || name == "keyword_search" {
			return r.Confidence()
		}
	}
	return 0
}

// extractAnswer picks the answer in priority order: a direct "answer"
// key, else a multi-answer join with a header chosen from the
// has_kb/has_web/kb_confidence table, else the answer chain fed the
// merged data or citation-derived documents, else "No answer
// available."
func (o *Orchestrator) extractAnswer(ctx context.Context, query string, merged model.ToolResult, kbConfidence float64) string {
	data, _ := merged.Data.(map[string]interface{})

	if data != nil {
		if a, ok := data["answer"].(string); ok && a != "" {
			return a
		}

		if raw, ok := data["answers"]; ok {
			answers := toStringSlice(raw)
			if len(answers) > 0 {
				hasKB, hasWeb := contributions(merged)
				header := answerHeader(hasKB, hasWeb, kbConfidence)
				body := strings.Join(answers, "\n\n")
				if header != "" {
					return header + "\n\n" + body
				}
				return body
			}
		}
	}

	if o.chain != nil && (len(data) > 0 || len(merged.Citations) > 0) {
		docs := answerChainDocs(merged)
		result, err := o.chain.ProcessQuery(ctx, query, docs, nil)
		if err == nil && result.Answer != "" {
			return result.Answer
		}
	}

	return "No answer available."
}

func contributions(merged model.ToolResult) (hasKB, hasWeb bool) {
	toolsUsed, _ := merged.Metadata["tools_used"].([]string)
	for _, name := range toolsUsed {
		switch name {
		case "semantic_search", "keyword_search":
			hasKB = true
		case "web_search":
			hasWeb = true
		}
	}
	return hasKB, hasWeb
}

// answerHeader selects the provenance header for a multi-answer reply.
func answerHeader(hasKB, hasWeb bool, kbConfidence float64) string {
	switch {
	case hasKB && hasWeb && kbConfidence > 0.3:
		return "Answer synthesized from internal documents and external sources:"
	case hasKB && hasWeb:
		return "Answer from external sources (internal documents had low relevance):"
	case !hasKB && hasWeb:
		return "Answer from external sources:"
	default:
		return ""
	}
}

func toStringSlice(v interface{}) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func answerChainDocs(merged model.ToolResult) []string {
	if data, ok := merged.Data.(map[string]interface{}); ok && len(data) > 0 {
		return []string{fmt.Sprintf("%v", data)}
	}
	if len(merged.Citations) > 0 {
		out := make([]string, len(merged.Citations))
		for i, c := range merged.Citations {
			out[i] = c.Content
		}
		return out
	}
	return nil
}
