package judge

import "github.com/davidbz/quill/internal/domain"

// Config holds judge chains and thresholds. Chains are ordered
// "provider/model" refs tried in turn.
type Config struct {
	FastModels     []string `env:"JUDGE_FAST_MODELS"     envDefault:"openai/gpt-4o-mini,gemini/gemini-2.0-flash" envSeparator:","`
	StrongModels   []string `env:"JUDGE_STRONG_MODELS"   envDefault:"openai/gpt-4o,gemini/gemini-2.5-pro"        envSeparator:","`
	ContractModels []string `env:"JUDGE_CONTRACT_MODELS" envDefault:"openai/gpt-4o,gemini/gemini-2.5-flash"      envSeparator:","`

	// EscalateBelow is the fast-tier confidence under which the strong tier runs.
	EscalateBelow float64 `env:"JUDGE_ESCALATE_BELOW" envDefault:"0.7"`

	// StrongMinConfidence flags merged verdicts whose strong tier is still unsure.
	StrongMinConfidence float64 `env:"JUDGE_STRONG_MIN_CONFIDENCE" envDefault:"0.5"`

	// Per-class overrides, e.g. "short:0.8,mid:0.75". Classes not listed use
	// the values above.
	EscalateBelowByClass       map[string]float64 `env:"JUDGE_ESCALATE_BELOW_BY_CLASS"         envSeparator:"," envKeyValSeparator:":"`
	StrongMinConfidenceByClass map[string]float64 `env:"JUDGE_STRONG_MIN_CONFIDENCE_BY_CLASS"  envSeparator:"," envKeyValSeparator:":"`

	// StrongWeight is the share of the strong score in a merged verdict.
	StrongWeight float64 `env:"JUDGE_STRONG_WEIGHT" envDefault:"0.6"`

	Temperature float64 `env:"JUDGE_TEMPERATURE" envDefault:"0"`
	MaxTokens   int     `env:"JUDGE_MAX_TOKENS"  envDefault:"600"`
}

// escalateBelow returns the fast-tier confidence threshold for class.
func (c *Config) escalateBelow(class domain.LengthClass) float64 {
	if v, ok := c.EscalateBelowByClass[string(class)]; ok {
		return v
	}
	return c.EscalateBelow
}

// strongMinConfidence returns the strong-tier confidence floor for class.
func (c *Config) strongMinConfidence(class domain.LengthClass) float64 {
	if v, ok := c.StrongMinConfidenceByClass[string(class)]; ok {
		return v
	}
	return c.StrongMinConfidence
}
