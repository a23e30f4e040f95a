// Package ai defines the provider-neutral analysis contract.
//
// A Provider turns a prompt into text plus token accounting. Three variants
// exist: direct Anthropic API, AWS Bedrock, and a deterministic mock that
// needs no credentials. Selection happens once at construction in
// ai/provider; call sites only ever see this interface.
package ai

import "context"

// Usage reports token consumption for a single call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Response is the result of one analysis call. Every field is populated;
// a partially-filled response is a provider bug.
type Response struct {
	Text     string  `json:"text"`
	Usage    Usage   `json:"usage"`
	CostUSD  float64 `json:"cost_usd"`
	Provider string  `json:"provider"`
}

// Provider is the capability interface all AI backends implement.
type Provider interface {
	// Analyze runs a prompt and returns the full response.
	// maxTokens bounds the response length; temperature is the sampling
	// temperature in [0.0, 1.0].
	Analyze(ctx context.Context, prompt string, maxTokens int, temperature float64) (*Response, error)

	// Name identifies the provider variant ("anthropic", "bedrock", "mock").
	Name() string
}
