package engine

import (
	"context"

	"github.com/cortexai/cortex/model"
)

// runSequential iterates plan.Tools in order, propagating each
// successful result's data/citations into context.previous_result /
// context.previous_citations before the next tool runs. Execution continues regardless of individual tool
// failure (best-effort).
func (e *Engine) runSequential(ctx context.Context, plan model.ExecutionPlan, ectx *model.ExecutionContext) []model.ToolResult {
	results := make([]model.ToolResult, 0, len(plan.Tools))

	for _, rt := range plan.Tools {
		tool, ok := e.resolveTool(rt.Name)
		if !ok {
			continue
		}

		result := e.runOne(ctx, tool, ectx.Query, ectx)
		results = append(results, result)
		propagate(ectx, result)
	}

	return results
}
