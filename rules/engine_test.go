package rules

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datareef/reef/ai"
	"github.com/datareef/reef/errors"
	"github.com/datareef/reef/tabular"
)

// cannedProvider returns fixed text and records the prompt it saw.
type cannedProvider struct {
	text       string
	lastPrompt string
	maxTokens  int
	temp       float64
}

func (p *cannedProvider) Analyze(ctx context.Context, prompt string, maxTokens int, temperature float64) (*ai.Response, error) {
	p.lastPrompt = prompt
	p.maxTokens = maxTokens
	p.temp = temperature
	return &ai.Response{
		Text:     p.text,
		Usage:    ai.Usage{InputTokens: 10, OutputTokens: 20},
		CostUSD:  0.001,
		Provider: "canned",
	}, nil
}

func (p *cannedProvider) Name() string { return "canned" }

func sampleTable(t *testing.T) *tabular.Table {
	t.Helper()
	table, err := tabular.Parse([]interface{}{
		map[string]interface{}{"id": float64(1), "spend": float64(100)},
		map[string]interface{}{"id": float64(2), "spend": float64(500)},
		map[string]interface{}{"id": float64(3), "spend": float64(1000)},
	})
	require.NoError(t, err)
	return table
}

func TestParseKind(t *testing.T) {
	for _, v := range []int{1, 2, 3} {
		k, err := ParseKind(v)
		require.NoError(t, err)
		assert.Equal(t, Kind(v), k)
	}

	_, err := ParseKind(4)
	assert.True(t, errors.IsInvalidRuleKindError(err))
	_, err = ParseKind(0)
	assert.True(t, errors.IsInvalidRuleKindError(err))
}

func TestExecuteInvalidKind(t *testing.T) {
	engine := NewEngine(&cannedProvider{})
	_, err := engine.Execute(context.Background(), sampleTable(t), &Ruleset{}, Kind(99))
	assert.True(t, errors.IsInvalidRuleKindError(err))
}

func TestExecuteAI(t *testing.T) {
	provider := &cannedProvider{text: "```json\n{\"whale_count\": 1, \"whale_ids\": [3]}\n```"}
	engine := NewEngine(provider)

	ruleset := &Ruleset{
		Name:   "Whale Detector",
		Prompt: "Identify whales in this spending data.",
	}

	result, err := engine.Execute(context.Background(), sampleTable(t), ruleset, KindAI)
	require.NoError(t, err)

	analysis, ok := result["analysis"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), analysis["whale_count"])

	stats := result["data_stats"].(map[string]interface{})
	assert.Equal(t, 3, stats["total_rows"])
	assert.Equal(t, []string{"id", "spend"}, stats["columns"])

	numeric := stats["numeric_summary"].(map[string]interface{})
	spend := numeric["spend"].(map[string]interface{})
	assert.Equal(t, float64(100), spend["min"])
	assert.Equal(t, float64(1000), spend["max"])

	assert.Equal(t, "Whale Detector", result["ruleset_name"])
	assert.Equal(t, "AI", result["rule_type"])
	assert.NotEmpty(t, result["executed_at"])

	// Prompt carries the template, the summary and the trailing instruction.
	assert.Contains(t, provider.lastPrompt, "Identify whales")
	assert.Contains(t, provider.lastPrompt, "- Rows: 3")
	assert.Contains(t, provider.lastPrompt, "- Columns: id, spend")
	assert.Contains(t, provider.lastPrompt, "Provide analysis in JSON format.")

	// Defaults apply when the ruleset sets no overrides.
	assert.Equal(t, DefaultMaxTokens, provider.maxTokens)
	assert.InDelta(t, DefaultTemperature, provider.temp, 1e-9)
}

func TestExecuteAIModelParamOverrides(t *testing.T) {
	provider := &cannedProvider{text: `{"ok": true}`}
	engine := NewEngine(provider)

	temp := 0.9
	tokens := 500
	ruleset := &Ruleset{
		Prompt:      "analyze",
		ModelParams: ModelParams{Temperature: &temp, MaxTokens: &tokens},
	}

	_, err := engine.Execute(context.Background(), sampleTable(t), ruleset, KindAI)
	require.NoError(t, err)
	assert.Equal(t, 500, provider.maxTokens)
	assert.InDelta(t, 0.9, provider.temp, 1e-9)
}

func TestExecuteAIDegradation(t *testing.T) {
	// Plain prose, no braces anywhere: must degrade, never fail.
	prose := strings.Repeat("The data looks completely normal to me. ", 20)
	engine := NewEngine(&cannedProvider{text: prose})

	result, err := engine.Execute(context.Background(), sampleTable(t), &Ruleset{Prompt: "check"}, KindAI)
	require.NoError(t, err)

	analysis := result["analysis"].(map[string]interface{})
	assert.NotEmpty(t, analysis["summary"])

	findings := analysis["findings"].([]interface{})
	require.Len(t, findings, 1)
	first := findings[0].(map[string]interface{})
	assert.Equal(t, prose[:500], first["description"])
	assert.Contains(t, analysis, "recommendations")
	assert.Contains(t, analysis, "metadata")
}

func TestExecuteAIDegradationMultiByteText(t *testing.T) {
	// Non-ASCII prose long enough to hit the description cap. The cut
	// must land on a rune boundary so the stored record stays valid UTF-8.
	prose := strings.Repeat("Die Prüfung ergab völlig unauffällige Daten. ", 20)
	engine := NewEngine(&cannedProvider{text: prose})

	result, err := engine.Execute(context.Background(), sampleTable(t), &Ruleset{Prompt: "check"}, KindAI)
	require.NoError(t, err)

	analysis := result["analysis"].(map[string]interface{})
	findings := analysis["findings"].([]interface{})
	require.Len(t, findings, 1)
	description := findings[0].(map[string]interface{})["description"].(string)

	assert.True(t, utf8.ValidString(description), "description must not split a rune")
	assert.Equal(t, string([]rune(prose)[:500]), description)
}

func TestExecuteSQLPlaceholder(t *testing.T) {
	engine := NewEngine(&cannedProvider{})

	result, err := engine.Execute(context.Background(), sampleTable(t), &Ruleset{Query: "SELECT * FROM data"}, KindSQL)
	require.NoError(t, err)

	assert.Equal(t, "SQL execution not yet implemented", result["message"])
	assert.Equal(t, "SELECT * FROM data", result["query"])
	assert.Equal(t, "SQL", result["rule_type"])
	preview := result["data_preview"].([]map[string]interface{})
	assert.Len(t, preview, 3)
}

func TestExecutePythonPlaceholder(t *testing.T) {
	engine := NewEngine(&cannedProvider{})

	code := strings.Repeat("x = 1\n", 100)
	result, err := engine.Execute(context.Background(), sampleTable(t), &Ruleset{Code: code}, KindPython)
	require.NoError(t, err)

	assert.Equal(t, "Python execution not yet implemented", result["message"])
	assert.Len(t, result["code_preview"], 200)
	assert.Equal(t, "Python", result["rule_type"])
}

func TestExtractAnalysis(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		want     map[string]interface{}
		degraded bool
	}{
		{
			name: "json fence",
			text: "Here you go:\n```json\n{\"a\": 1}\n```\nDone.",
			want: map[string]interface{}{"a": float64(1)},
		},
		{
			name: "bare fence",
			text: "```\n{\"b\": 2}\n```",
			want: map[string]interface{}{"b": float64(2)},
		},
		{
			name: "embedded in prose",
			text: `The analysis yields {"c": 3} as shown above.`,
			want: map[string]interface{}{"c": float64(3)},
		},
		{
			name: "pure json",
			text: `{"d": 4}`,
			want: map[string]interface{}{"d": float64(4)},
		},
		{
			name:     "prose without braces",
			text:     "Everything looks fine.",
			degraded: true,
		},
		{
			name:     "broken json between braces",
			text:     "result: {not json at all}",
			degraded: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, degraded := extractAnalysis(tc.text)
			assert.Equal(t, tc.degraded, degraded)
			if !tc.degraded {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Run("AI result", func(t *testing.T) {
		summary := Summarize(map[string]interface{}{
			"rule_type": "AI",
			"analysis": map[string]interface{}{
				"whales": []interface{}{float64(3)},
				"score":  0.8,
			},
		})
		assert.Equal(t, "AI Analysis", summary["type"])
		assert.Equal(t, "completed", summary["status"])
		assert.Equal(t, 2, summary["insights_count"])
	})

	t.Run("placeholder result", func(t *testing.T) {
		summary := Summarize(map[string]interface{}{"rule_type": "SQL"})
		assert.Equal(t, "SQL", summary["type"])
		assert.Equal(t, "pending_implementation", summary["status"])
	})
}
