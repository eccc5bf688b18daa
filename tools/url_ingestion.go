package tools

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cortexai/cortex/model"
)

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

var ingestVerbs = []string{"ingest", "add", "load", "upload", "import", "fetch", "download", "index", "process"}

// URLIngestionTool hands a URL found in the query to the external
// ingestion webhook, which chunks and indexes it for later retrieval.
// Selected only when the query contains both a URL and an ingestion
// verb.
type URLIngestionTool struct {
	client *webhookClient
}

type ingestURLRequest struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}

type ingestFileInfo struct {
	Chunks           int    `json:"chunks"`
	Size             int64  `json:"size"`
	ExtractionMethod string `json:"extraction_method"`
}

type ingestURLResponse struct {
	Success  bool           `json:"success"`
	Filename string         `json:"filename"`
	FileInfo ingestFileInfo `json:"file_info"`
	Error    string         `json:"error"`
}

// NewURLIngestionTool creates the URL ingestion tool against baseURL,
// with a 60s request timeout (ingestion downloads and chunks the
// target, so it gets the longest ceiling of any tool).
func NewURLIngestionTool(baseURL string) *URLIngestionTool {
	return &URLIngestionTool{client: newWebhookClient(baseURL, 60*time.Second)}
}

func (t *URLIngestionTool) Name() string { return "url_ingestion" }

func (t *URLIngestionTool) Description() string {
	return "Downloads and indexes a URL's content into the document store"
}

func (t *URLIngestionTool) CanHandle(ctx context.Context, query string, ectx *model.ExecutionContext) float64 {
	if ExtractURL(query) == "" {
		return 0
	}
	if HasIngestVerb(query) {
		return 1.0
	}
	return 0
}

func (t *URLIngestionTool) Execute(ctx context.Context, query string, ectx *model.ExecutionContext) model.ToolResult {
	url := ExtractURL(query)
	if url == "" {
		return fail(NewToolError(t.Name(), "parse", "no URL found in query", nil))
	}

	var resp ingestURLResponse
	err := t.client.postJSON(ctx, "/webhook/ingest-url", ingestURLRequest{URL: url}, &resp)
	if err != nil {
		return fail(NewToolError(t.Name(), "request", "ingestion webhook call failed", err))
	}
	if !resp.Success {
		errMsg := resp.Error
		if errMsg == "" {
			errMsg = "ingestion failed"
		}
		return fail(NewToolError(t.Name(), "ingest", errMsg, nil))
	}

	return model.ToolResult{
		Success: true,
		Data: map[string]interface{}{
			"answer":   "Ingested " + resp.Filename + " (" + strconv.Itoa(resp.FileInfo.Chunks) + " chunks).",
			"filename": resp.Filename,
			"chunks":   resp.FileInfo.Chunks,
		},
		Metadata: map[string]interface{}{
			"tool":       t.Name(),
			"confidence": 1.0,
		},
	}
}

// ExtractURL returns the first http(s) URL found in the query, or "".
func ExtractURL(query string) string {
	return urlPattern.FindString(query)
}

// HasIngestVerb reports whether query contains one of the ingestion
// verbs ("ingest", "add", "load", ...), used both by this tool's
// CanHandle and by the orchestrator's URL-ingestion selection rule.
func HasIngestVerb(query string) bool {
	lower := strings.ToLower(query)
	for _, v := range ingestVerbs {
		if strings.Contains(lower, v) {
			return true
		}
	}
	return false
}
