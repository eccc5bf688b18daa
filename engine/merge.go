package engine

import (
	"sort"

	"github.com/cortexai/cortex/model"
)

// MergeResults folds a list of ToolResults into one: an empty input
// list produces a failed "no results to merge" result; if every result
// failed, the first failed result is returned unchanged. Otherwise
// successful results' mapping data is merged key-by-key (the "answer"
// key accumulates separately into "answers"; any other repeated key
// coerces to a sequence and appends), citations are concatenated,
// deduped by (document, page_number) with first-seen winning, and
// sorted descending by confidence_score.
func MergeResults(results []model.ToolResult) model.ToolResult {
	if len(results) == 0 {
		return model.ToolResult{Success: false, Error: "No results to merge"}
	}

	successes := make([]model.ToolResult, 0, len(results))
	for _, r := range results {
		if r.Success {
			successes = append(successes, r)
		}
	}
	if len(successes) == 0 {
		return results[0]
	}

	merged := map[string]interface{}{}
	var answers []interface{}
	var allCitations []model.Citation
	toolsUsed := make([]string, 0, len(successes))

	for _, r := range successes {
		toolsUsed = append(toolsUsed, r.ToolName())
		allCitations = append(allCitations, r.Citations...)

		data, ok := r.Data.(map[string]interface{})
		if !ok {
			continue
		}
		for k, v := range data {
			if k == "answer" {
				if s, ok := v.(string); ok && s != "" {
					answers = append(answers, s)
				}
				continue
			}
			if existing, exists := merged[k]; exists {
				merged[k] = appendToSequence(existing, v)
			} else {
				merged[k] = v
			}
		}
	}

	if len(answers) > 0 {
		merged["answers"] = answers
	}

	citations := dedupCitations(allCitations)

	return model.ToolResult{
		Success:   true,
		Data:      merged,
		Citations: citations,
		Metadata: map[string]interface{}{
			"tools_used":  toolsUsed,
			"merge_count": len(successes),
		},
	}
}

// appendToSequence coerces an existing merged value into a sequence and
// appends v, the rule for any non-"answer" key seen more than once.
func appendToSequence(existing, v interface{}) []interface{} {
	if seq, ok := existing.([]interface{}); ok {
		return append(seq, v)
	}
	return []interface{}{existing, v}
}

// dedupCitations keeps the first citation seen per (document,
// page_number) and sorts the result descending by confidence_score.
func dedupCitations(citations []model.Citation) []model.Citation {
	seen := make(map[model.CitationKey]bool, len(citations))
	out := make([]model.Citation, 0, len(citations))
	for _, c := range citations {
		key := c.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConfidenceScore > out[j].ConfidenceScore
	})
	return out
}
