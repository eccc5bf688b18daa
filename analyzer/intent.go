package analyzer

import (
	"context"
	"regexp"
	"strings"

	"github.com/cortexai/cortex/collab"
	"github.com/cortexai/cortex/model"
)

var conversationalTokens = []string{
	"hi", "hello", "hey", "thanks", "thank you", "bye", "goodbye",
	"ok", "okay", "got it", "understood", "sure", "great", "good",
	"cool", "nice", "awesome", "perfect",
}

var arithmeticOperatorPattern = regexp.MustCompile(`[+\-*/%]`)
var digitPattern = regexp.MustCompile(`\d`)

const intentClassifierPrompt = `Classify the following query into exactly one of these categories: conversational, factual, external, comparison, summarization, calculation.
Respond with only the category name, nothing else.

Query: `

// classifyIntent is the two-tier classifier: model first when an
// LLMHandler is wired, deterministic rules as the fallback.
func classifyIntent(ctx context.Context, query string, llm collab.LLMHandler) model.Intent {
	if llm != nil {
		if intent, ok := classifyIntentWithModel(ctx, query, llm); ok {
			return intent
		}
	}
	return classifyIntentByRules(query)
}

func classifyIntentWithModel(ctx context.Context, query string, llm collab.LLMHandler) (model.Intent, bool) {
	reply, err := llm.Generate(ctx, intentClassifierPrompt+query, 0.1, 10)
	if err != nil {
		return "", false
	}
	return parseIntentReply(reply)
}

// parseIntentReply tries three parses in order: exact match of the
// stripped lowercased reply, else a per-line match in reverse, else a
// substring scan.
func parseIntentReply(reply string) (model.Intent, bool) {
	clean := strings.ToLower(strings.TrimSpace(reply))
	for _, valid := range model.ValidIntents {
		if clean == string(valid) {
			return valid, true
		}
	}

	lines := strings.Split(reply, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		candidate := strings.ToLower(strings.TrimSpace(lines[i]))
		for _, valid := range model.ValidIntents {
			if candidate == string(valid) {
				return valid, true
			}
		}
	}

	for _, valid := range model.ValidIntents {
		if strings.Contains(clean, string(valid)) {
			return valid, true
		}
	}

	return "", false
}

// classifyIntentByRules is the deterministic fallback. Order
// matters: summarization is checked before calculation so "summarize"
// doesn't trip the "sum" substring.
func classifyIntentByRules(query string) model.Intent {
	words := strings.Fields(query)
	if len(words) <= 3 {
		lower := lower(query)
		for _, tok := range conversationalTokens {
			if wordBoundary(tok).MatchString(lower) {
				return model.IntentConversational
			}
		}
	}

	kw := matchKeywords(query)

	if len(kw[model.KeywordComparison]) > 0 {
		return model.IntentComparison
	}

	if len(kw[model.KeywordSummarization]) > 0 {
		return model.IntentSummarization
	}

	if isCalculationQuery(query, kw) {
		return model.IntentCalculation
	}

	if len(kw[model.KeywordExternal]) > 0 {
		return model.IntentExternal
	}

	return model.IntentFactual
}

func isCalculationQuery(query string, kw map[model.KeywordCategory][]string) bool {
	if len(kw[model.KeywordCalculation]) > 0 {
		return true
	}
	return digitPattern.MatchString(query) && arithmeticOperatorPattern.MatchString(query)
}

// entityExtractionSkipWords are capitalized tokens that never count as
// entities even though they're capitalized.
var entityExtractionSkipWords = map[string]bool{
	"I": true, "A": true, "The": true, "In": true, "On": true, "At": true,
}

var quotedPattern = regexp.MustCompile(`"([^"]+)"`)
var yearPattern = regexp.MustCompile(`\b\d{4}\b`)
var datePattern = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
var consecutiveCapsPattern = regexp.MustCompile(`\b[A-Z][a-zA-Z]*(?:\s+[A-Z][a-zA-Z]*)+\b`)
var capitalizedWordPattern = regexp.MustCompile(`\b[A-Z][a-zA-Z]{1,}\b`)

// extractEntities unions capitalized words, quoted substrings,
// year/date tokens, and multi-word capitalized phrases, deduped
// case-insensitively with first-seen order preserved.
func extractEntities(query string) []string {
	var found []string

	words := strings.Fields(query)
	for i, w := range words {
		if i == 0 {
			continue
		}
		trimmed := strings.Trim(w, ".,!?;:")
		if len(trimmed) < 2 {
			continue
		}
		if entityExtractionSkipWords[trimmed] {
			continue
		}
		if capitalizedWordPattern.MatchString(trimmed) && trimmed[0] >= 'A' && trimmed[0] <= 'Z' {
			found = append(found, trimmed)
		}
	}

	for _, m := range quotedPattern.FindAllStringSubmatch(query, -1) {
		found = append(found, m[1])
	}

	found = append(found, yearPattern.FindAllString(query, -1)...)
	found = append(found, datePattern.FindAllString(query, -1)...)

	found = append(found, consecutiveCapPhrases(query)...)

	return dedupCaseInsensitive(found)
}

// consecutiveCapPhrases finds multi-word capitalized phrases. A phrase
// anchored at the very start of the query drops its first word — a
// sentence-initial capital ("Compare Policy A ...") is capitalization
// by position, not a name.
func consecutiveCapPhrases(query string) []string {
	var out []string
	for _, loc := range consecutiveCapsPattern.FindAllStringIndex(query, -1) {
		phrase := query[loc[0]:loc[1]]
		if loc[0] == 0 {
			if idx := strings.IndexByte(phrase, ' '); idx >= 0 {
				phrase = strings.TrimSpace(phrase[idx+1:])
			}
			if !strings.Contains(phrase, " ") {
				continue
			}
		}
		out = append(out, phrase)
	}
	return out
}

func dedupCaseInsensitive(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// requiresMultipleTools decides whether a query likely needs more than
// one tool.
func requiresMultipleTools(query string, complexity model.Complexity, intent model.Intent, kw map[model.KeywordCategory][]string) bool {
	if complexity == model.ComplexityComplex {
		return true
	}

	multiToolPhrases := []string{"then", "after that", "also", "and then", "followed by"}
	if containsAnyPhrase(query, multiToolPhrases) {
		return true
	}

	if strings.Count(query, "?") > 1 {
		return true
	}

	matchedCategories := 0
	for _, matches := range kw {
		if len(matches) > 0 {
			matchedCategories++
		}
	}
	if matchedCategories > 1 {
		return true
	}

	if complexity == model.ComplexityModerate && (intent == model.IntentComparison || intent == model.IntentCalculation) {
		return true
	}

	return false
}
