package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/datareef/reef/ai"
	"github.com/datareef/reef/errors"
	"github.com/datareef/reef/logger"
	"github.com/datareef/reef/tabular"
)

const (
	// sampleRows bounds how many rows are embedded in AI prompts
	sampleRows = 10

	// previewRows bounds data previews in placeholder results
	previewRows = 5

	// codePreviewChars bounds code echoed back in Python results
	codePreviewChars = 200

	// fallbackDescriptionChars bounds raw AI text preserved when the
	// response is not parseable JSON
	fallbackDescriptionChars = 500

	// DefaultMaxTokens applies when a ruleset sets no override
	DefaultMaxTokens = 2000

	// DefaultTemperature applies when a ruleset sets no override
	DefaultTemperature = 0.3
)

// Engine dispatches ruleset execution by kind.
type Engine struct {
	provider    ai.Provider
	maxTokens   int
	temperature float64
}

// NewEngine creates a rule engine backed by the given AI provider.
func NewEngine(provider ai.Provider) *Engine {
	return &Engine{
		provider:    provider,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}
}

// NewEngineWithDefaults creates an engine with operator-configured
// model parameter defaults. Per-ruleset ModelParams still win.
func NewEngineWithDefaults(provider ai.Provider, maxTokens int, temperature float64) *Engine {
	e := NewEngine(provider)
	if maxTokens > 0 {
		e.maxTokens = maxTokens
	}
	e.temperature = temperature
	return e
}

// Execute runs a ruleset of the given kind against a table and
// returns the result record to be stored. Unrecognized kinds fail
// with ErrInvalidRuleKind.
func (e *Engine) Execute(ctx context.Context, table *tabular.Table, ruleset *Ruleset, kind Kind) (map[string]interface{}, error) {
	switch kind {
	case KindAI:
		return e.executeAI(ctx, table, ruleset)
	case KindSQL:
		return e.executeSQL(table, ruleset), nil
	case KindPython:
		return e.executePython(table, ruleset), nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidRuleKind, "rule kind %d", int(kind))
	}
}

// executeAI builds a bounded prompt from the table, invokes the
// provider, and extracts the JSON analysis from its response.
func (e *Engine) executeAI(ctx context.Context, table *tabular.Table, ruleset *Ruleset) (map[string]interface{}, error) {
	prompt, err := buildPrompt(table, ruleset.Prompt)
	if err != nil {
		return nil, err
	}

	maxTokens := e.maxTokens
	if ruleset.ModelParams.MaxTokens != nil {
		maxTokens = *ruleset.ModelParams.MaxTokens
	}
	temperature := e.temperature
	if ruleset.ModelParams.Temperature != nil {
		temperature = *ruleset.ModelParams.Temperature
	}

	resp, err := e.provider.Analyze(ctx, prompt, maxTokens, temperature)
	if err != nil {
		return nil, errors.Wrap(err, "AI analysis failed")
	}

	analysis, degraded := extractAnalysis(resp.Text)
	if degraded {
		logger.Warnw("AI response was not parseable JSON, recording fallback",
			logger.FieldProvider, resp.Provider,
			logger.FieldRulesetName, ruleset.DisplayName())
	}

	return map[string]interface{}{
		"analysis": analysis,
		"data_stats": map[string]interface{}{
			"total_rows":      table.RowCount(),
			"columns":         table.Columns,
			"numeric_summary": numericSummary(table),
		},
		"ruleset_name": ruleset.DisplayName(),
		"rule_type":    KindAI.String(),
		"executed_at":  time.Now().UTC().Format(time.RFC3339),
		"ai_usage": map[string]interface{}{
			"provider":      resp.Provider,
			"input_tokens":  resp.Usage.InputTokens,
			"output_tokens": resp.Usage.OutputTokens,
			"cost_usd":      resp.CostUSD,
		},
	}, nil
}

func (e *Engine) executeSQL(table *tabular.Table, ruleset *Ruleset) map[string]interface{} {
	return map[string]interface{}{
		"message":      "SQL execution not yet implemented",
		"query":        ruleset.Query,
		"data_preview": table.Sample(previewRows),
		"rule_type":    KindSQL.String(),
		"executed_at":  time.Now().UTC().Format(time.RFC3339),
	}
}

func (e *Engine) executePython(table *tabular.Table, ruleset *Ruleset) map[string]interface{} {
	return map[string]interface{}{
		"message":      "Python execution not yet implemented",
		"code_preview": truncate(ruleset.Code, codePreviewChars),
		"data_preview": table.Sample(previewRows),
		"rule_type":    KindPython.String(),
		"executed_at":  time.Now().UTC().Format(time.RFC3339),
	}
}

// buildPrompt embeds the template, a row/column summary and up to 10
// sample rows. Bounding the sample keeps AI input within token budget
// regardless of dataset size.
func buildPrompt(table *tabular.Table, template string) (string, error) {
	sample, err := json.MarshalIndent(table.Sample(sampleRows), "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to serialize sample rows")
	}

	var b strings.Builder
	b.WriteString(template)
	b.WriteString("\n\nData Summary:\n")
	fmt.Fprintf(&b, "- Rows: %d\n", table.RowCount())
	fmt.Fprintf(&b, "- Columns: %s\n", strings.Join(table.Columns, ", "))
	fmt.Fprintf(&b, "\nSample Data (first %d rows):\n", sampleRows)
	b.Write(sample)
	b.WriteString("\n\nProvide analysis in JSON format.")
	return b.String(), nil
}

// extractAnalysis pulls the JSON payload out of a model response.
// Fenced code blocks take priority; otherwise the substring between
// the first '{' and the last '}' is tried. When nothing parses, the
// raw text is preserved in a fixed-shape fallback record and the
// second return is true.
func extractAnalysis(text string) (map[string]interface{}, bool) {
	candidate := text

	if idx := strings.Index(text, "```json"); idx >= 0 {
		candidate = afterFence(text[idx+len("```json"):])
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		candidate = afterFence(text[idx+len("```"):])
	} else if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		candidate = text[start : end+1]
	}

	var analysis map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(candidate)), &analysis); err != nil {
		return fallbackRecord(text), true
	}
	return analysis, false
}

// afterFence returns the content up to the closing fence, or the rest
// of the string when the fence is unterminated.
func afterFence(s string) string {
	if end := strings.Index(s, "```"); end >= 0 {
		return s[:end]
	}
	return s
}

// fallbackRecord wraps unparseable AI output so a degraded response
// still yields a well-formed stored result.
func fallbackRecord(raw string) map[string]interface{} {
	return map[string]interface{}{
		"summary": "AI response was not valid JSON; raw output preserved",
		"findings": []interface{}{
			map[string]interface{}{
				"type":        "unparsed_response",
				"description": truncate(raw, fallbackDescriptionChars),
				"confidence":  0.0,
			},
		},
		"recommendations": []interface{}{},
		"metadata": map[string]interface{}{
			"degraded": true,
			"format":   "text",
		},
	}
}

// numericSummary reports min/max/mean for every numeric column, keyed
// by column name. Non-numeric columns are omitted.
func numericSummary(table *tabular.Table) map[string]interface{} {
	schema := tabular.InferSchema(table)

	out := make(map[string]interface{})
	for _, name := range table.Columns {
		col, ok := schema.Columns[name]
		if !ok || (col.Type != tabular.TypeInteger && col.Type != tabular.TypeFloat) {
			continue
		}
		if col.Min == nil || col.Max == nil || col.Mean == nil {
			continue
		}
		out[name] = map[string]interface{}{
			"min":  *col.Min,
			"max":  *col.Max,
			"mean": *col.Mean,
		}
	}
	return out
}

// Summarize produces the human-readable summary block recorded in
// execution results.
func Summarize(result map[string]interface{}) map[string]interface{} {
	ruleType, _ := result["rule_type"].(string)
	if ruleType != KindAI.String() {
		if ruleType == "" {
			ruleType = "Unknown"
		}
		return map[string]interface{}{
			"type":   ruleType,
			"status": "pending_implementation",
		}
	}

	analysis, _ := result["analysis"].(map[string]interface{})
	preview, _ := json.Marshal(analysis)
	return map[string]interface{}{
		"type":           "AI Analysis",
		"status":         "completed",
		"insights_count": len(analysis),
		"preview":        truncate(string(preview), 200) + "...",
	}
}

// truncate bounds s to n characters, never splitting a multi-byte rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
