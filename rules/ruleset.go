package rules

// ModelParams overrides the provider defaults for a single ruleset.
type ModelParams struct {
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// Ruleset is the stored definition of an analysis rule. Only the
// fields for its kind are used: Prompt for AI, Query for SQL, Code
// for Python.
type Ruleset struct {
	Name        string      `json:"name" yaml:"name"`
	Prompt      string      `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	ModelParams ModelParams `json:"model_params,omitempty" yaml:"model_params,omitempty"`
	Query       string      `json:"query,omitempty" yaml:"query,omitempty"`
	Code        string      `json:"code,omitempty" yaml:"code,omitempty"`
}

// DisplayName returns the ruleset name, or a placeholder when unset.
func (r *Ruleset) DisplayName() string {
	if r.Name == "" {
		return "Unnamed"
	}
	return r.Name
}
