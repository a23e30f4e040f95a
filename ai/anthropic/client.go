// Package anthropic implements the direct Anthropic Messages API provider.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/datareef/reef/ai"
	"github.com/datareef/reef/errors"
	"github.com/datareef/reef/internal/httpclient"
	"github.com/datareef/reef/logger"
)

const (
	// DefaultModel is the default Claude model
	DefaultModel = "claude-3-haiku-20240307"

	// BaseURL is the Anthropic API endpoint
	BaseURL = "https://api.anthropic.com/v1"

	// APIVersion is the required Anthropic API version header
	APIVersion = "2023-06-01"

	// ProviderName identifies this variant in responses
	ProviderName = "anthropic"
)

// Client is an Anthropic API client.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Config holds Anthropic client configuration
type Config struct {
	APIKey string
	Model  string
}

// NewClient creates a new Anthropic API client.
// Fails when no API key is configured.
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}

	return &Client{
		apiKey:     config.APIKey,
		baseURL:    BaseURL,
		model:      config.Model,
		httpClient: httpclient.New(120 * time.Second),
	}, nil
}

// Name implements ai.Provider.
func (c *Client) Name() string { return ProviderName }

// messagesRequest is a request to the Anthropic Messages API
type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
}

type message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// messagesResponse is the response from the Messages API
type messagesResponse struct {
	ID         string         `json:"id"`
	Content    []contentBlock `json:"content"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Usage      usage          `json:"usage"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Analyze implements ai.Provider against the Messages API.
// Transient network failures are retried a bounded number of times;
// API-level errors surface immediately.
func (c *Client) Analyze(ctx context.Context, prompt string, maxTokens int, temperature float64) (*ai.Response, error) {
	req := messagesRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	}

	maxRetries := 3
	var resp *messagesResponse
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * time.Second
			logger.Warnw("Retrying Anthropic request",
				"attempt", attempt,
				"delay", delay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err = c.createMessages(ctx, req)
		if err == nil {
			break
		}

		if !isRetryableError(err) {
			return nil, errors.Wrap(err, "Anthropic API error")
		}
	}

	if err != nil {
		return nil, errors.Wrapf(err, "Anthropic API error after %d retries", maxRetries)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	cost := CalculateCost(c.model, resp.Usage.InputTokens, resp.Usage.OutputTokens)

	logger.Infow("Anthropic analysis complete",
		logger.FieldModel, c.model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		logger.FieldCostUSD, cost)

	return &ai.Response{
		Text: strings.TrimSpace(content.String()),
		Usage: ai.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
		CostUSD:  cost,
		Provider: ProviderName,
	}, nil
}

// createMessages sends a request to the Anthropic Messages API
func (c *Client) createMessages(ctx context.Context, req messagesRequest) (*messagesResponse, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", APIVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var messagesResp messagesResponse
	if err := json.Unmarshal(respBody, &messagesResp); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal response")
	}

	return &messagesResp, nil
}

// isRetryableError checks if an error is worth retrying
func isRetryableError(err error) bool {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return true
	}

	if opErr, ok := err.(*net.OpError); ok {
		if errno, ok := opErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT:
				return true
			}
		}
	}

	errStr := strings.ToLower(err.Error())
	networkErrors := []string{
		"connection reset by peer",
		"connection refused",
		"timeout",
		"temporary failure",
		"network is unreachable",
		"i/o timeout",
		"overloaded", // Anthropic-specific
		"529",        // Anthropic overloaded status
	}

	for _, netErr := range networkErrors {
		if strings.Contains(errStr, netErr) {
			return true
		}
	}

	return false
}

// IsConfigured returns true if the client has a valid API key
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// SetHTTPClient allows overriding the HTTP client for testing
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// SetBaseURL allows overriding the API endpoint for testing
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}
