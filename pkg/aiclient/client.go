/**
 * @description
 * This package provides a client for the hosted text-completion endpoint
 * used by the AI rate assistant. It encapsulates the HTTP request/response
 * handling: a JSON body of {messages: [{role, content}, ...]} is POSTed and
 * a `completion` string field is parsed from the JSON response.
 *
 * @dependencies
 * - bytes, context, encoding/json, fmt, net/http, time: Standard Go libraries.
 */
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message is one conversation turn sent to the completion endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is a client for the completion endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new completion client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type completionRequest struct {
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Completion string `json:"completion"`
}

// Complete sends the conversation to the endpoint and returns the
// completion text. No retries are attempted; the caller decides how to
// degrade on failure.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(completionRequest{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("completion endpoint returned status %d: %s", resp.StatusCode, string(snippet))
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse completion response: %w", err)
	}
	return parsed.Completion, nil
}
