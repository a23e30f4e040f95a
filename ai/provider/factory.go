// Package provider selects an AI provider based on configuration.
package provider

import (
	"context"

	"github.com/datareef/reef/ai"
	"github.com/datareef/reef/ai/anthropic"
	"github.com/datareef/reef/ai/bedrock"
	"github.com/datareef/reef/ai/mock"
	"github.com/datareef/reef/conf"
	"github.com/datareef/reef/errors"
	"github.com/datareef/reef/logger"
)

// Variant represents an AI provider type
type Variant string

const (
	// VariantAnthropic uses the direct Anthropic API
	VariantAnthropic Variant = "anthropic"
	// VariantBedrock uses Claude via AWS Bedrock
	VariantBedrock Variant = "bedrock"
	// VariantMock uses deterministic canned responses
	VariantMock Variant = "mock"
	// VariantAuto automatically selects based on configuration
	VariantAuto Variant = "auto"
)

// New creates an AI provider via auto-selection.
// Priority: Anthropic (if API key set) → Bedrock (if AWS credentials
// resolvable) → Mock (always available). Selection happens once at
// construction, not per request.
func New(ctx context.Context, cfg *conf.Config) ai.Provider {
	return NewWithVariant(ctx, cfg, VariantAuto)
}

// NewWithVariant creates an AI provider for a specific variant.
// Use VariantAuto to let the factory decide based on configuration.
// An explicitly requested variant that cannot be constructed falls
// back to mock with a warning rather than failing.
func NewWithVariant(ctx context.Context, cfg *conf.Config, variant Variant) ai.Provider {
	switch variant {
	case VariantAnthropic:
		if p := newAnthropicProvider(cfg); p != nil {
			return p
		}
		logger.Warnw("Anthropic provider unavailable, falling back to mock")
		return mock.NewClient()
	case VariantBedrock:
		if p := newBedrockProvider(ctx, cfg); p != nil {
			return p
		}
		logger.Warnw("Bedrock provider unavailable, falling back to mock")
		return mock.NewClient()
	case VariantMock:
		return mock.NewClient()
	default:
		return autoSelect(ctx, cfg)
	}
}

// autoSelect probes providers in priority order
func autoSelect(ctx context.Context, cfg *conf.Config) ai.Provider {
	if p := newAnthropicProvider(cfg); p != nil {
		logger.Infow("AI provider selected", logger.FieldProvider, VariantAnthropic)
		return p
	}

	if p := newBedrockProvider(ctx, cfg); p != nil {
		logger.Infow("AI provider selected", logger.FieldProvider, VariantBedrock)
		return p
	}

	logger.Infow("AI provider selected", logger.FieldProvider, VariantMock,
		"reason", "no AI credentials configured")
	return mock.NewClient()
}

// newAnthropicProvider returns nil when no API key is configured or
// the client cannot be constructed.
func newAnthropicProvider(cfg *conf.Config) ai.Provider {
	if cfg.Anthropic.APIKey == "" {
		return nil
	}

	client, err := anthropic.NewClient(anthropic.Config{
		APIKey: cfg.Anthropic.APIKey,
		Model:  cfg.Anthropic.Model,
	})
	if err != nil {
		logger.Warnw("Failed to construct Anthropic client",
			logger.FieldError, err)
		return nil
	}
	return client
}

// newBedrockProvider returns nil when AWS credentials cannot be
// resolved from the environment.
func newBedrockProvider(ctx context.Context, cfg *conf.Config) ai.Provider {
	client, err := bedrock.NewClient(ctx, bedrock.Config{
		Region:  cfg.Bedrock.Region,
		ModelID: cfg.Bedrock.ModelID,
	})
	if err != nil {
		return nil
	}
	return client
}

// ParseVariant converts a string to a Variant
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "anthropic", "claude":
		return VariantAnthropic, nil
	case "bedrock", "aws":
		return VariantBedrock, nil
	case "mock":
		return VariantMock, nil
	case "auto", "":
		return VariantAuto, nil
	default:
		return "", errors.Newf("unknown AI provider: %s (valid: anthropic, bedrock, mock, auto)", s)
	}
}
