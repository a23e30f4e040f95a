package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datareef/reef/conf"
)

func TestNewWithVariantAnthropic(t *testing.T) {
	cfg := &conf.Config{}
	cfg.Anthropic.APIKey = "test-key"

	p := NewWithVariant(context.Background(), cfg, VariantAnthropic)
	assert.Equal(t, "anthropic", p.Name())
}

func TestNewWithVariantAnthropicMissingKeyFallsBack(t *testing.T) {
	p := NewWithVariant(context.Background(), &conf.Config{}, VariantAnthropic)
	assert.Equal(t, "mock", p.Name())
}

func TestNewWithVariantMock(t *testing.T) {
	p := NewWithVariant(context.Background(), &conf.Config{}, VariantMock)
	assert.Equal(t, "mock", p.Name())
}

func TestAutoSelectPrefersAnthropic(t *testing.T) {
	cfg := &conf.Config{}
	cfg.Anthropic.APIKey = "test-key"

	p := New(context.Background(), cfg)
	assert.Equal(t, "anthropic", p.Name())
}

func TestAutoSelectFallsBackToMock(t *testing.T) {
	// Make sure the Bedrock probe cannot find ambient credentials.
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("AWS_PROFILE", "nonexistent-profile")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")

	p := New(context.Background(), &conf.Config{})
	assert.Equal(t, "mock", p.Name())
}

func TestParseVariant(t *testing.T) {
	cases := []struct {
		input   string
		want    Variant
		wantErr bool
	}{
		{"anthropic", VariantAnthropic, false},
		{"claude", VariantAnthropic, false},
		{"bedrock", VariantBedrock, false},
		{"aws", VariantBedrock, false},
		{"mock", VariantMock, false},
		{"auto", VariantAuto, false},
		{"", VariantAuto, false},
		{"gpt4", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseVariant(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
