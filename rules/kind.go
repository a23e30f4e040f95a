// Package rules models rulesets and dispatches their execution over
// parsed tables.
package rules

import (
	"github.com/datareef/reef/errors"
)

// Kind identifies the execution strategy of a ruleset.
// The numeric values are part of the wire contract.
type Kind int

const (
	// KindAI prompts an AI provider with the data and the ruleset's template
	KindAI Kind = 1
	// KindSQL runs a SQL query over the data (placeholder)
	KindSQL Kind = 2
	// KindPython runs sandboxed Python code over the data (placeholder)
	KindPython Kind = 3
)

// String returns the kind's label as recorded in results.
func (k Kind) String() string {
	switch k {
	case KindAI:
		return "AI"
	case KindSQL:
		return "SQL"
	case KindPython:
		return "Python"
	default:
		return "Unknown"
	}
}

// ParseKind validates a numeric rule kind from the wire.
func ParseKind(v int) (Kind, error) {
	switch k := Kind(v); k {
	case KindAI, KindSQL, KindPython:
		return k, nil
	default:
		return 0, errors.Wrapf(errors.ErrInvalidRuleKind, "rule kind %d", v)
	}
}
