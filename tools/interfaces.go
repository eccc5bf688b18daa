package tools

import (
	"context"

	"github.com/cortexai/cortex/model"
)

// Tool is the capability every tool in the registry exposes. CanHandle
// must be a pure, side-effect-free suitability check; Execute may
// perform I/O and must never let a panic or raw error cross the
// boundary — internal failures become a failed model.ToolResult.
type Tool interface {
	Name() string
	Description() string

	CanHandle(ctx context.Context, query string, ectx *model.ExecutionContext) float64
	Execute(ctx context.Context, query string, ectx *model.ExecutionContext) model.ToolResult
}

// ToolError is this package's component-scoped error type.
type ToolError struct {
	Tool      string
	Operation string
	Message   string
	Err       error
}

func (e *ToolError) Error() string {
	if e.Err != nil {
		return "[" + e.Tool + ":" + e.Operation + "] " + e.Message + ": " + e.Err.Error()
	}
	return "[" + e.Tool + ":" + e.Operation + "] " + e.Message
}

func (e *ToolError) Unwrap() error { return e.Err }

// NewToolError builds a ToolError.
func NewToolError(tool, operation, message string, err error) *ToolError {
	return &ToolError{Tool: tool, Operation: operation, Message: message, Err: err}
}

// fail converts a ToolError into the failed ToolResult every tool
// failure path funnels through.
func fail(e *ToolError) model.ToolResult {
	return model.Failed(e.Tool, e.Error())
}
