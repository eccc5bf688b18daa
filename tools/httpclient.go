package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RetryableError represents a webhook call failure that carries enough
// information for a caller to decide whether retrying would help. The
// orchestration core itself never retries — idempotence is the tool's
// concern — so this type is informational only.
type RetryableError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RetryableError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("webhook HTTP %d: %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("webhook call failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("webhook call failed: %s", e.Message)
}

func (e *RetryableError) Unwrap() error { return e.Err }

// webhookClient is a thin JSON POST client used by the web-search and
// URL-ingestion tools to call their external webhook endpoints. The
// endpoint's business logic lives on the other side — this client only
// carries the request and decodes the response shape.
type webhookClient struct {
	baseURL string
	client  *http.Client
}

func newWebhookClient(baseURL string, timeout time.Duration) *webhookClient {
	return &webhookClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *webhookClient) postJSON(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &RetryableError{Message: "failed to encode request body", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &RetryableError{Message: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &RetryableError{Message: "connection failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RetryableError{StatusCode: resp.StatusCode, Message: "failed to read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &RetryableError{StatusCode: resp.StatusCode, Message: "failed to decode response body", Err: err}
	}
	return nil
}
