package engine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cortexai/cortex/model"
)

// runConditional iterates plan.Tools in order, evaluating each tool's
// Condition (if any) against the results gathered so far and the
// current context before deciding whether to run it. A tool that runs behaves exactly as under Sequential,
// including context propagation; a skipped tool contributes nothing to
// later predicates.
func (e *Engine) runConditional(ctx context.Context, plan model.ExecutionPlan, ectx *model.ExecutionContext) []model.ToolResult {
	results := make([]model.ToolResult, 0, len(plan.Tools))

	for _, rt := range plan.Tools {
		tool, ok := e.resolveTool(rt.Name)
		if !ok {
			continue
		}

		if cond, hasCond := plan.Conditions[rt.Name]; hasCond {
			if skip, reason := evaluateCondition(cond, results, ectx); skip {
				ectx.SkipReason = reason
				e.addTrace(model.NewTrace(model.StepSkipTool, "tool", rt.Name, "reason", reason))
				continue
			}
		}

		result := e.runOne(ctx, tool, ectx.Query, ectx)
		results = append(results, result)
		propagate(ectx, result)
	}

	return results
}

// evaluateCondition evaluates a Condition's clauses, all AND-ed.
// requires scans every prior result; every other clause reads only the
// most recent prior result.
func evaluateCondition(cond model.Condition, prior []model.ToolResult, ectx *model.ExecutionContext) (skip bool, reason string) {
	if cond.Requires != "" {
		found := false
		for _, r := range prior {
			if r.ToolName() == cond.Requires && r.Success {
				found = true
				break
			}
		}
		if !found {
			return true, fmt.Sprintf("requires %q to have succeeded", cond.Requires)
		}
	}

	lastConfidence := 1.0
	lastCitationCount := 0
	if len(prior) > 0 {
		last := prior[len(prior)-1]
		lastConfidence = last.Confidence()
		lastCitationCount = len(last.Citations)
	}

	if cond.MinConfidence != nil && lastConfidence < *cond.MinConfidence {
		return true, fmt.Sprintf("confidence %.3f < %s", lastConfidence, formatThreshold(*cond.MinConfidence))
	}

	if cond.MaxConfidence != nil && lastConfidence >= *cond.MaxConfidence {
		return true, fmt.Sprintf("confidence %.3f >= %s", lastConfidence, formatThreshold(*cond.MaxConfidence))
	}

	if cond.MaxCitations != nil && lastCitationCount >= *cond.MaxCitations {
		return true, fmt.Sprintf("citation count %d >= %d", lastCitationCount, *cond.MaxCitations)
	}

	if cond.ContextKey != "" {
		if _, ok := ectx.Get(cond.ContextKey); !ok {
			return true, fmt.Sprintf("context key %q not present", cond.ContextKey)
		}
	}

	return false, ""
}

// formatThreshold renders a configured threshold the way it was
// written ("0.5", not "0.500"), so skip reasons read naturally.
func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
