package conf

// Config represents the core Reef configuration
type Config struct {
	Walrus    WalrusConfig    `mapstructure:"walrus" toml:"walrus" json:"walrus" yaml:"walrus"`
	Anthropic AnthropicConfig `mapstructure:"anthropic" toml:"anthropic" json:"anthropic" yaml:"anthropic"`
	Bedrock   BedrockConfig   `mapstructure:"bedrock" toml:"bedrock" json:"bedrock" yaml:"bedrock"`
	Server    ServerConfig    `mapstructure:"server" toml:"server" json:"server" yaml:"server"`
	Upload    UploadConfig    `mapstructure:"upload" toml:"upload" json:"upload" yaml:"upload"`
}

// WalrusConfig configures the Walrus blob store endpoints
type WalrusConfig struct {
	PublisherURL  string `mapstructure:"publisher_url" toml:"publisher_url" json:"publisher_url" yaml:"publisher_url"`     // publisher endpoint for writes
	AggregatorURL string `mapstructure:"aggregator_url" toml:"aggregator_url" json:"aggregator_url" yaml:"aggregator_url"` // aggregator endpoint for reads
	Epochs        int    `mapstructure:"epochs" toml:"epochs" json:"epochs" yaml:"epochs"`                                 // storage duration in epochs
}

// AnthropicConfig configures the direct Anthropic API provider
type AnthropicConfig struct {
	APIKey      string   `mapstructure:"api_key" toml:"api_key" json:"api_key" yaml:"api_key"`
	Model       string   `mapstructure:"model" toml:"model" json:"model" yaml:"model"`
	Temperature *float64 `mapstructure:"temperature" toml:"temperature" json:"temperature" yaml:"temperature"` // nil = default 0.3
	MaxTokens   *int     `mapstructure:"max_tokens" toml:"max_tokens" json:"max_tokens" yaml:"max_tokens"`     // nil = default 2000
}

// BedrockConfig configures the AWS Bedrock provider.
// Credentials come from the standard AWS environment/credential chain.
type BedrockConfig struct {
	Region  string `mapstructure:"region" toml:"region" json:"region" yaml:"region"`
	ModelID string `mapstructure:"model_id" toml:"model_id" json:"model_id" yaml:"model_id"`
}

// ServerConfig configures the Reef HTTP API server
type ServerConfig struct {
	Port           int      `mapstructure:"port" toml:"port" json:"port" yaml:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins" toml:"allowed_origins" json:"allowed_origins" yaml:"allowed_origins"`
}

// UploadConfig configures the file upload path
type UploadConfig struct {
	// SuiPrivateKey authorizes paid multipart uploads. Empty disables
	// the file upload endpoint.
	SuiPrivateKey string `mapstructure:"sui_private_key" toml:"sui_private_key" json:"sui_private_key" yaml:"sui_private_key"`
}

// Server port constants
const (
	DefaultServerPort = 8642 // Development port, above privileged range
)
