package tools

import (
	"context"
	"strings"
	"time"

	"github.com/cortexai/cortex/model"
)

// WebSearchTool calls an external web-search webhook. It is
// planned as a fallback after semantic_search for "external" intent
// queries (current events, prices, weather), typically gated by a
// Conditional max_confidence clause so it only runs when internal
// retrieval was weak.
type WebSearchTool struct {
	client     *webhookClient
	maxResults int
}

type webSearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type webSearchResultItem struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Snippet     string `json:"snippet"`
	Description string `json:"description"`
}

type webSearchResponse struct {
	Results     []webSearchResultItem `json:"results"`
	HelpMessage string                `json:"help_message"`
}

// NewWebSearchTool creates the web search tool against baseURL, with a
// 30s request timeout.
func NewWebSearchTool(baseURL string, maxResults int) *WebSearchTool {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &WebSearchTool{
		client:     newWebhookClient(baseURL, 30*time.Second),
		maxResults: maxResults,
	}
}

func (t *WebSearchTool) Name() string { return "web_search" }

func (t *WebSearchTool) Description() string {
	return "Searches the public web for current information not present in the document store"
}

func (t *WebSearchTool) CanHandle(ctx context.Context, query string, ectx *model.ExecutionContext) float64 {
	if ectx == nil {
		return 0
	}
	if ectx.Intent == model.IntentExternal {
		return 0.8
	}
	if len(ectx.Keywords[model.KeywordTemporal]) > 0 {
		return 0.5
	}
	return 0
}

func (t *WebSearchTool) Execute(ctx context.Context, query string, ectx *model.ExecutionContext) model.ToolResult {
	var resp webSearchResponse
	err := t.client.postJSON(ctx, "/webhook/web-search", webSearchRequest{
		Query:      query,
		MaxResults: t.maxResults,
	}, &resp)
	if err != nil {
		return fail(NewToolError(t.Name(), "request", "web search webhook call failed", err))
	}

	if len(resp.Results) == 0 {
		msg := resp.HelpMessage
		if msg == "" {
			msg = "no web results found for this query"
		}
		return model.ToolResult{
			Success: false,
			Error:   msg,
			Metadata: map[string]interface{}{
				"tool": t.Name(),
			},
		}
	}

	citations := make([]model.Citation, 0, len(resp.Results))
	var answerParts []string
	for i, r := range resp.Results {
		snippet := r.Snippet
		if snippet == "" {
			snippet = r.Description
		}
		citations = append(citations, model.Citation{
			Document:        r.URL,
			Content:         snippet,
			RankPosition:    i + 1,
			ConfidenceScore: clamp01(1.0 - float64(i)*0.1),
			Metadata: map[string]interface{}{
				"title": r.Title,
				"url":   r.URL,
			},
		})
		if snippet != "" {
			answerParts = append(answerParts, r.Title+": "+snippet)
		}
	}

	return model.ToolResult{
		Success: true,
		Data: map[string]interface{}{
			"answer": strings.Join(answerParts, "\n"),
		},
		Metadata: map[string]interface{}{
			"tool":       t.Name(),
			"confidence": 0.6,
		},
		Citations: citations,
	}
}
