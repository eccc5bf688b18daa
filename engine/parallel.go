package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/cortexai/cortex/model"
	"github.com/cortexai/cortex/tools"
)

// runParallel fans every plan.Tools entry out onto a worker pool
// bounded at cfg.MaxParallelWorkers (default 3). Every tool observes
// the *same* initial context snapshot — there is no cross-tool context
// propagation under this strategy — and results are gathered in
// completion order, not submission order.
func (e *Engine) runParallel(ctx context.Context, plan model.ExecutionPlan, ectx *model.ExecutionContext) []model.ToolResult {
	type resolved struct {
		tool tools.Tool
		name string
	}

	var toRun []resolved
	for _, rt := range plan.Tools {
		tool, ok := e.resolveTool(rt.Name)
		if !ok {
			continue
		}
		toRun = append(toRun, resolved{tool: tool, name: rt.Name})
	}
	if len(toRun) == 0 {
		return nil
	}

	sem := semaphore.NewWeighted(int64(e.cfg.workers()))
	resultsCh := make(chan model.ToolResult, len(toRun))
	var wg sync.WaitGroup

	if e.metrics != nil {
		e.metrics.incParallel()
		defer e.metrics.decParallel()
	}

	snapshot := ectx.Snapshot()

	for _, r := range toRun {
		wg.Add(1)
		go func(t resolved) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				resultsCh <- model.Failed(t.name, "parallel worker pool: "+err.Error())
				return
			}
			defer sem.Release(1)

			resultsCh <- e.runOne(ctx, t.tool, snapshot.Query, snapshot)
		}(r)
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	results := make([]model.ToolResult, 0, len(toRun))
	for result := range resultsCh {
		results = append(results, result)
	}
	return results
}
