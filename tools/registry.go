package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/cortexai/cortex/model"
	"github.com/cortexai/cortex/registry"
)

// Registry holds the mapping from tool name to tool instance and offers
// suitability-ranked and by-name lookup.
type Registry struct {
	base   *registry.BaseRegistry[Tool]
	logger *slog.Logger
}

// NewRegistry creates an empty tool registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		base:   registry.NewBaseRegistry[Tool](),
		logger: logger,
	}
}

// Register adds a tool. A duplicate name overwrites the previous entry
// with a logged warning.
func (r *Registry) Register(tool Tool) {
	name := tool.Name()
	if _, exists := r.base.Get(name); exists {
		r.logger.Warn("tool registry: overwriting duplicate tool", "tool", name)
		_ = r.base.Remove(name)
	}
	_ = r.base.Register(name, tool)
}

// Get looks up a tool by exact name.
func (r *Registry) Get(name string) (Tool, bool) {
	return r.base.Get(name)
}

// GetAll returns every registered tool.
func (r *Registry) GetAll() []Tool {
	return r.base.List()
}

// RankedTool pairs a tool with its CanHandle confidence.
type RankedTool struct {
	Tool       Tool
	Confidence float64
}

// GetSuitableTools returns tools whose CanHandle confidence is >=
// minConfidence, sorted descending by confidence (stable on ties).
// CanHandle panics are caught and treated as a score of 0.
func (r *Registry) GetSuitableTools(ctx context.Context, query string, ectx *model.ExecutionContext, minConfidence float64) []RankedTool {
	all := r.base.List()
	ranked := make([]RankedTool, 0, len(all))
	for _, t := range all {
		conf := r.safeCanHandle(ctx, t, query, ectx)
		if conf >= minConfidence {
			ranked = append(ranked, RankedTool{Tool: t, Confidence: conf})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	return ranked
}

// GetToolsByName resolves a list of tool names in order, skipping any
// that aren't registered (with a logged warning), and attaching
// defaultConfidence to each.
func (r *Registry) GetToolsByName(names []string, defaultConfidence float64) []RankedTool {
	out := make([]RankedTool, 0, len(names))
	for _, name := range names {
		t, ok := r.base.Get(name)
		if !ok {
			r.logger.Warn("tool registry: requested tool not registered", "tool", name)
			continue
		}
		out = append(out, RankedTool{Tool: t, Confidence: defaultConfidence})
	}
	return out
}

// Names returns all registered tool names (registration order).
func (r *Registry) Names() []string {
	return r.base.Names()
}

func (r *Registry) safeCanHandle(ctx context.Context, t Tool, query string, ectx *model.ExecutionContext) (score float64) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("tool registry: CanHandle panicked, scoring 0", "tool", t.Name(), "panic", fmt.Sprint(rec))
			score = 0
		}
	}()
	return t.CanHandle(ctx, query, ectx)
}
