package bria

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxErrorBody = 4 << 10

// Client wraps the HTTP client for Bria API calls.
type Client struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

// NewClient creates a new Bria HTTP client.
func NewClient(config Config) *Client {
	return &Client{
		apiKey: config.APIKey,
		url:    config.URL,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}
}

// generateRequest is the V2 synchronous generation body.
type generateRequest struct {
	Prompt       string `json:"prompt"`
	Sync         bool   `json:"sync"`
	ModelVersion string `json:"model_version,omitempty"`
}

// generateResponse covers the response shapes the API has used for the image URL.
type generateResponse struct {
	Result *struct {
		ImageURL string `json:"image_url"`
	} `json:"result"`
	ImageURL string `json:"image_url"`
	URL      string `json:"url"`
}

func (r *generateResponse) imageURL() string {
	switch {
	case r.Result != nil && r.Result.ImageURL != "":
		return r.Result.ImageURL
	case r.ImageURL != "":
		return r.ImageURL
	default:
		return r.URL
	}
}

// statusError is a non-2xx response.
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}

// Generate sends a synchronous generation request and returns the image URL.
func (c *Client) Generate(ctx context.Context, req generateRequest) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("API key is not configured")
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api_token", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &statusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out generateResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&out); decodeErr != nil {
		return "", fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	return out.imageURL(), nil
}
