// Package analyzer classifies a raw query into an Analysis: complexity,
// intent, entities, keyword matches, and the multi-tool heuristic.
package analyzer

import (
	"regexp"
	"strings"
	"sync"

	"github.com/cortexai/cortex/model"
)

// categoryKeywords holds the literal phrases matched per keyword
// category. Order within a category is insertion order;
// longer phrases are matched before shorter ones share a prefix (e.g.
// "thank you" before "thanks" doesn't matter here since both are
// distinct literals, but "vs." before "vs" would if substring matching
// were naive — word-boundary matching below avoids that class of bug).
var categoryKeywords = map[model.KeywordCategory][]string{
	model.KeywordComparison: {
		"compare", "versus", "vs.", "vs", "difference", "contrast", "similarities", "differ",
	},
	model.KeywordCalculation: {
		"calculate", "compute", "sum", "total", "average", "%", "percentage",
	},
	model.KeywordSummarization: {
		"summarize", "summary", "overview", "key points", "main points", "highlights", "brief",
	},
	model.KeywordExternal: {
		"current", "latest", "recent", "today", "now", "news", "weather", "stock price", "exchange rate",
	},
	model.KeywordTemporal: {
		"today", "now", "current", "latest", "recent", "this week", "this month", "this year",
	},
	model.KeywordQuantitative: {
		"how many", "how much", "number of", "count", "percentage", "%",
	},
}

var multiStepKeywords = []string{"then", "after", "first", "next", "finally", "also"}

var andOrPattern = regexp.MustCompile(`(?i)\b(and|or)\b`)

var (
	wordBoundaryMu    sync.Mutex
	wordBoundaryCache = map[string]*regexp.Regexp{}
)

func wordBoundary(phrase string) *regexp.Regexp {
	wordBoundaryMu.Lock()
	defer wordBoundaryMu.Unlock()
	if re, ok := wordBoundaryCache[phrase]; ok {
		return re
	}
	// "%" has no word boundary of its own (not a word character), so it's
	// matched as a plain substring; every other phrase gets \b anchors.
	var pattern string
	if phrase == "%" {
		pattern = regexp.QuoteMeta(phrase)
	} else {
		pattern = `(?i)\b` + regexp.QuoteMeta(phrase) + `\b`
	}
	re := regexp.MustCompile(pattern)
	wordBoundaryCache[phrase] = re
	return re
}

// matchKeywords returns, for every category, the subset of its phrases
// found in the lowercased query, preserving categoryKeywords' order.
func matchKeywords(query string) map[model.KeywordCategory][]string {
	out := make(map[model.KeywordCategory][]string, len(categoryKeywords))
	for cat, phrases := range categoryKeywords {
		var matched []string
		for _, p := range phrases {
			if wordBoundary(p).MatchString(query) {
				matched = append(matched, p)
			}
		}
		out[cat] = matched
	}
	return out
}

func containsAnyPhrase(query string, phrases []string) bool {
	for _, p := range phrases {
		if wordBoundary(p).MatchString(query) {
			return true
		}
	}
	return false
}

func countAndOr(query string) int {
	return len(andOrPattern.FindAllString(query, -1))
}

func hasMultiStepKeyword(query string) bool {
	return containsAnyPhrase(query, multiStepKeywords)
}

func lower(s string) string { return strings.ToLower(s) }
