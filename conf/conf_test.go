package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://publisher.walrus-testnet.walrus.space", cfg.Walrus.PublisherURL)
	assert.Equal(t, "https://aggregator.walrus-testnet.walrus.space", cfg.Walrus.AggregatorURL)
	assert.Equal(t, 1, cfg.Walrus.Epochs)
	assert.Equal(t, "claude-3-haiku-20240307", cfg.Anthropic.Model)
	assert.Equal(t, "us-east-1", cfg.Bedrock.Region)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
}

func TestEnvOverride(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("REEF_WALRUS_PUBLISHER_URL", "http://localhost:31415")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:31415", cfg.Walrus.PublisherURL)
	assert.Equal(t, "sk-test", cfg.Anthropic.APIKey)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reef.toml")
	content := `
[walrus]
publisher_url = "http://pub.example:9001"
epochs = 5

[server]
port = 9999
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://pub.example:9001", cfg.Walrus.PublisherURL)
	assert.Equal(t, 5, cfg.Walrus.Epochs)
	assert.Equal(t, 9999, cfg.Server.Port)
	// Unset keys fall back to defaults
	assert.Equal(t, "https://aggregator.walrus-testnet.walrus.space", cfg.Walrus.AggregatorURL)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
