// Package bedrock implements the AWS Bedrock provider for Claude models.
package bedrock

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/datareef/reef/ai"
	"github.com/datareef/reef/errors"
	"github.com/datareef/reef/logger"
)

const (
	// DefaultRegion is used when no region is configured
	DefaultRegion = "us-east-1"

	// DefaultModelID is the default Bedrock model identifier
	DefaultModelID = "anthropic.claude-3-5-sonnet-20241022-v2:0"

	// anthropicVersion is the Bedrock-specific Anthropic API version
	anthropicVersion = "bedrock-2023-05-31"

	// ProviderName identifies this variant in responses
	ProviderName = "bedrock"
)

// invoker is the subset of the bedrockruntime client we use.
// Narrowed for testing.
type invoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client invokes Claude models through AWS Bedrock.
type Client struct {
	runtime invoker
	modelID string
}

// Config holds Bedrock client configuration
type Config struct {
	Region  string
	ModelID string
}

// NewClient creates a Bedrock client using the default AWS credential
// chain (env vars, shared config, instance role). Fails when no
// credentials can be resolved.
func NewClient(ctx context.Context, config Config) (*Client, error) {
	if config.Region == "" {
		config.Region = DefaultRegion
	}
	if config.ModelID == "" {
		config.ModelID = DefaultModelID
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.Region))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS configuration")
	}

	if _, err := awsCfg.Credentials.Retrieve(ctx); err != nil {
		return nil, errors.Wrap(err, "AWS credentials not available")
	}

	return &Client{
		runtime: bedrockruntime.NewFromConfig(awsCfg),
		modelID: config.ModelID,
	}, nil
}

// Name implements ai.Provider.
func (c *Client) Name() string { return ProviderName }

type invokeRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      float64   `json:"temperature,omitempty"`
	Messages         []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type invokeResponse struct {
	Content []contentBlock `json:"content"`
	Usage   usage          `json:"usage"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Analyze implements ai.Provider via Bedrock InvokeModel.
func (c *Client) Analyze(ctx context.Context, prompt string, maxTokens int, temperature float64) (*ai.Response, error) {
	body, err := json.Marshal(invokeRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		Temperature:      temperature,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	output, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, errors.Wrap(err, "Bedrock invocation failed")
	}

	var resp invokeResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal Bedrock response")
	}

	var text string
	if len(resp.Content) > 0 {
		text = resp.Content[0].Text
	}

	cost := calculateCost(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	logger.Infow("Bedrock analysis complete",
		logger.FieldModel, c.modelID,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		logger.FieldCostUSD, cost)

	return &ai.Response{
		Text: text,
		Usage: ai.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
		CostUSD:  cost,
		Provider: ProviderName,
	}, nil
}

// Sonnet-class pricing in USD per million tokens
const (
	inputPerMTok  = 3.00
	outputPerMTok = 15.00
)

func calculateCost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*inputPerMTok + float64(outputTokens)*outputPerMTok) / 1_000_000
}
