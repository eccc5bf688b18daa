package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexai/cortex/model"
)

func TestMergeResultsEmpty(t *testing.T) {
	merged := MergeResults(nil)
	assert.False(t, merged.Success)
	assert.Equal(t, "No results to merge", merged.Error)
}

func TestMergeResultsAllFailed(t *testing.T) {
	first := model.Failed("semantic_search", "no retriever configured")
	second := model.Failed("web_search", "connection refused")

	merged := MergeResults([]model.ToolResult{first, second})

	assert.Equal(t, first, merged)
}

func TestMergeResultsDedupAndSort(t *testing.T) {
	a := model.ToolResult{
		Success: true,
		Data:    map[string]interface{}{"answer": "from A"},
		Metadata: map[string]interface{}{
			"tool": "semantic_search",
		},
		Citations: []model.Citation{
			{Document: "doc1", PageNumber: 1, ConfidenceScore: 0.4},
			{Document: "doc2", PageNumber: 1, ConfidenceScore: 0.9},
		},
	}
	b := model.ToolResult{
		Success: true,
		Data:    map[string]interface{}{"answer": "from B"},
		Metadata: map[string]interface{}{
			"tool": "web_search",
		},
		Citations: []model.Citation{
			{Document: "doc1", PageNumber: 1, ConfidenceScore: 0.1}, // duplicate key, first-seen (A's) should win
			{Document: "doc3", PageNumber: 2, ConfidenceScore: 0.6},
		},
	}

	merged := MergeResults([]model.ToolResult{a, b})
	require.True(t, merged.Success)

	require.Len(t, merged.Citations, 3)
	assert.Equal(t, "doc2", merged.Citations[0].Document)
	assert.Equal(t, "doc3", merged.Citations[1].Document)
	assert.Equal(t, "doc1", merged.Citations[2].Document)
	assert.Equal(t, 0.4, merged.Citations[2].ConfidenceScore, "first-seen citation for a duplicate key wins")

	data, ok := merged.Data.(map[string]interface{})
	require.True(t, ok)
	answers, ok := data["answers"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"from A", "from B"}, answers)

	assert.Equal(t, []string{"semantic_search", "web_search"}, merged.Metadata["tools_used"])
	assert.Equal(t, 2, merged.Metadata["merge_count"])
}

func TestMergeResultsCoercesRepeatedKeyIntoSequence(t *testing.T) {
	a := model.ToolResult{
		Success:  true,
		Data:     map[string]interface{}{"results_count": 3},
		Metadata: map[string]interface{}{"tool": "semantic_search"},
	}
	b := model.ToolResult{
		Success:  true,
		Data:     map[string]interface{}{"results_count": 5},
		Metadata: map[string]interface{}{"tool": "keyword_search"},
	}

	merged := MergeResults([]model.ToolResult{a, b})
	data := merged.Data.(map[string]interface{})
	assert.Equal(t, []interface{}{3, 5}, data["results_count"])
}
