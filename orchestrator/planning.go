package orchestrator

import (
	"github.com/cortexai/cortex/model"
	"github.com/cortexai/cortex/tools"
)

const (
	externalWebFallbackMaxConfidence = 0.5
	multiToolGateMinConfidence       = 0.0
	multiToolGateMaxCitations        = 3
)

// buildPlan picks a Strategy (and, for Conditional, the gating
// Condition) for the given selected tools and Analysis.
// Rule order matters; the first matching rule wins.
func buildPlan(selected []tools.RankedTool, analysis model.Analysis) model.ExecutionPlan {
	rankedTools := toModelRanked(selected)
	names := namesOf(selected)

	switch {
	case analysis.Complexity == model.ComplexityComplex &&
		(analysis.Intent == model.IntentComparison || analysis.Intent == model.IntentCalculation):
		return model.ExecutionPlan{Strategy: model.StrategySequential, Tools: rankedTools}

	case analysis.Intent == model.IntentSummarization || containsName(names, "summarization"):
		return model.ExecutionPlan{Strategy: model.StrategySequential, Tools: rankedTools}

	case len(selected) > 1 && analysis.Intent == model.IntentFactual:
		return model.ExecutionPlan{Strategy: model.StrategyParallel, Tools: rankedTools}

	case analysis.Intent == model.IntentExternal && len(names) >= 2 && names[1] == "web_search":
		maxConf := externalWebFallbackMaxConfidence
		return model.ExecutionPlan{
			Strategy: model.StrategyConditional,
			Tools:    rankedTools,
			Conditions: map[string]model.Condition{
				"web_search": {MaxConfidence: &maxConf},
			},
		}

	case analysis.RequiresMultipleTools && len(names) >= 2:
		minConf := multiToolGateMinConfidence
		maxCit := multiToolGateMaxCitations
		return model.ExecutionPlan{
			Strategy: model.StrategyConditional,
			Tools:    rankedTools,
			Conditions: map[string]model.Condition{
				names[1]: {MinConfidence: &minConf, MaxCitations: &maxCit},
			},
		}

	default:
		return model.ExecutionPlan{Strategy: model.StrategySequential, Tools: rankedTools}
	}
}

func toModelRanked(selected []tools.RankedTool) []model.RankedTool {
	out := make([]model.RankedTool, len(selected))
	for i, rt := range selected {
		out[i] = model.RankedTool{Name: rt.Tool.Name(), Confidence: rt.Confidence}
	}
	return out
}

func containsName(names []string, target string) bool {
	for _, n := range names {
		if n == target {
			return true
		}
	}
	return false
}
