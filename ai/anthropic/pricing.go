package anthropic

// modelPricing holds per-million-token pricing in USD
type modelPricing struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// pricing covers the Claude models this service realistically runs.
// Unknown models fall back to mid-tier Sonnet pricing so cost
// estimates stay conservative rather than zero.
var pricing = map[string]modelPricing{
	"claude-3-haiku-20240307":      {InputPerMTok: 0.25, OutputPerMTok: 1.25},
	"claude-3-5-haiku-20241022":    {InputPerMTok: 0.80, OutputPerMTok: 4.00},
	"claude-3-5-sonnet-20241022":   {InputPerMTok: 3.00, OutputPerMTok: 15.00},
	"claude-3-7-sonnet-20250219":   {InputPerMTok: 3.00, OutputPerMTok: 15.00},
	"claude-3-opus-20240229":       {InputPerMTok: 15.00, OutputPerMTok: 75.00},
	"claude-sonnet-4-20250514":     {InputPerMTok: 3.00, OutputPerMTok: 15.00},
	"claude-opus-4-20250514":       {InputPerMTok: 15.00, OutputPerMTok: 75.00},
}

// defaultPricing applies when a model is not in the table
var defaultPricing = modelPricing{InputPerMTok: 3.00, OutputPerMTok: 15.00}

// CalculateCost returns the USD cost of a request given token usage.
func CalculateCost(model string, inputTokens, outputTokens int) float64 {
	p, ok := pricing[model]
	if !ok {
		p = defaultPricing
	}
	return (float64(inputTokens)*p.InputPerMTok + float64(outputTokens)*p.OutputPerMTok) / 1_000_000
}
