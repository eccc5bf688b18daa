package model

// ToolResult is the uniform output of a tool execution.
//
// A failed result must carry a non-empty Error and should leave
// Citations empty or reason-only.
type ToolResult struct {
	Success   bool                   `json:"success"`
	Data      interface{}            `json:"data,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Citations []Citation             `json:"citations,omitempty"`
}

// ToolName returns metadata["tool"] if present, else "".
func (r ToolResult) ToolName() string {
	if r.Metadata == nil {
		return ""
	}
	if v, ok := r.Metadata["tool"].(string); ok {
		return v
	}
	return ""
}

// Confidence returns metadata["confidence"], defaulting to 1.0 when
// absent — the value the conditional-gating predicates read.
func (r ToolResult) Confidence() float64 {
	if r.Metadata == nil {
		return 1.0
	}
	switch v := r.Metadata["confidence"].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 1.0
	}
}

// Failed builds a failed ToolResult, the one constructor every tool and
// the engine's panic boundary funnel through.
func Failed(toolName, errMsg string) ToolResult {
	return ToolResult{
		Success: false,
		Error:   errMsg,
		Metadata: map[string]interface{}{
			"tool": toolName,
		},
	}
}
