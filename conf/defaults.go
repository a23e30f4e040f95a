package conf

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Walrus defaults (public testnet endpoints)
	v.SetDefault("walrus.publisher_url", "https://publisher.walrus-testnet.walrus.space")
	v.SetDefault("walrus.aggregator_url", "https://aggregator.walrus-testnet.walrus.space")
	v.SetDefault("walrus.epochs", 1)

	// Anthropic defaults
	v.SetDefault("anthropic.model", "claude-3-haiku-20240307") // Cost-effective default
	v.SetDefault("anthropic.temperature", 0.3)                 // Consistent analysis
	v.SetDefault("anthropic.max_tokens", 2000)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-3-5-sonnet-20241022-v2:0")

	// Server defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	})
}

// BindSensitiveEnvVars explicitly binds sensitive configuration to environment variables
func BindSensitiveEnvVars(v *viper.Viper) {
	// AI provider credentials. ANTHROPIC_API_KEY without prefix is also
	// honored since that is what the ecosystem tooling expects.
	v.BindEnv("anthropic.api_key", "REEF_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")

	// Upload authorization key
	v.BindEnv("upload.sui_private_key", "REEF_SUI_PRIVATE_KEY", "SUI_PRIVATE_KEY")

	// Walrus endpoints, overridable per deployment
	v.BindEnv("walrus.publisher_url", "REEF_WALRUS_PUBLISHER_URL", "WALRUS_PUBLISHER_URL")
	v.BindEnv("walrus.aggregator_url", "REEF_WALRUS_AGGREGATOR_URL", "WALRUS_AGGREGATOR_URL")
	v.BindEnv("walrus.epochs", "REEF_WALRUS_EPOCHS", "WALRUS_EPOCHS")
}
