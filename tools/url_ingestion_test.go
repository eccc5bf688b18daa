package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexai/cortex/model"
)

func TestExtractURLFindsHTTPSLink(t *testing.T) {
	assert.Equal(t, "https://example.com/doc.pdf", ExtractURL("please ingest https://example.com/doc.pdf now"))
}

func TestExtractURLNoMatch(t *testing.T) {
	assert.Equal(t, "", ExtractURL("no links here"))
}

func TestHasIngestVerb(t *testing.T) {
	assert.True(t, HasIngestVerb("please ingest this document"))
	assert.True(t, HasIngestVerb("Can you ADD this file?"))
	assert.False(t, HasIngestVerb("what does the policy say"))
}

func TestURLIngestionCanHandle(t *testing.T) {
	tool := NewURLIngestionTool("http://example.invalid")

	assert.Equal(t, 1.0, tool.CanHandle(context.Background(), "please ingest https://example.com/a.pdf", nil))
	assert.Equal(t, 0.0, tool.CanHandle(context.Background(), "https://example.com/a.pdf", nil))
	assert.Equal(t, 0.0, tool.CanHandle(context.Background(), "ingest this please", nil))
}

func TestURLIngestionExecuteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/webhook/ingest-url", r.URL.Path)
		var req ingestURLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://example.com/a.pdf", req.URL)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ingestURLResponse{
			Success:  true,
			Filename: "a.pdf",
			FileInfo: ingestFileInfo{Chunks: 5},
		})
	}))
	defer srv.Close()

	tool := NewURLIngestionTool(srv.URL)
	result := tool.Execute(context.Background(), "please ingest https://example.com/a.pdf", &model.ExecutionContext{})

	require.True(t, result.Success)
	data := result.Data.(map[string]interface{})
	assert.Equal(t, "a.pdf", data["filename"])
	assert.Equal(t, 5, data["chunks"])
}

func TestURLIngestionExecuteNoURL(t *testing.T) {
	tool := NewURLIngestionTool("http://example.invalid")
	result := tool.Execute(context.Background(), "nothing to ingest here", &model.ExecutionContext{})
	assert.False(t, result.Success)
}

func TestURLIngestionExecuteWebhookFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ingestURLResponse{Success: false, Error: "unsupported file type"})
	}))
	defer srv.Close()

	tool := NewURLIngestionTool(srv.URL)
	result := tool.Execute(context.Background(), "ingest https://example.com/a.zip", &model.ExecutionContext{})

	require.False(t, result.Success)
	assert.Contains(t, result.Error, "unsupported file type")
}

func TestURLIngestionExecuteHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	tool := NewURLIngestionTool(srv.URL)
	result := tool.Execute(context.Background(), "ingest https://example.com/a.pdf", &model.ExecutionContext{})

	assert.False(t, result.Success)
}
