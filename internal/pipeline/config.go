package pipeline

import (
	"time"

	"github.com/davidbz/quill/internal/domain"
)

// Config holds generation chains and stage thresholds.
type Config struct {
	GenerationModels []string `env:"GENERATION_MODELS" envDefault:"openai/gpt-4o,gemini/gemini-2.5-pro"        envSeparator:","`
	DeriveModels     []string `env:"DERIVE_MODELS"     envDefault:"openai/gpt-4o-mini,gemini/gemini-2.5-flash" envSeparator:","`

	GenerationTemperature float64 `env:"GENERATION_TEMPERATURE" envDefault:"0.8"`
	DeriveTemperature     float64 `env:"DERIVE_TEMPERATURE"     envDefault:"0.4"`
	MaxTokens             int     `env:"GENERATION_MAX_TOKENS"  envDefault:"400"`

	MinScoreLong  float64 `env:"PIPELINE_MIN_SCORE_LONG"  envDefault:"0.6"`
	MinScoreMid   float64 `env:"PIPELINE_MIN_SCORE_MID"   envDefault:"0.6"`
	MinScoreShort float64 `env:"PIPELINE_MIN_SCORE_SHORT" envDefault:"0.6"`

	SimilarityThreshold float64 `env:"PIPELINE_SIMILARITY_THRESHOLD" envDefault:"0.75"`
	EarlyStopSlack      float64 `env:"PIPELINE_EARLY_STOP_SLACK"     envDefault:"0.1"`

	DeriveParallel    bool          `env:"PIPELINE_DERIVE_PARALLEL"    envDefault:"true"`
	ReferenceExamples int           `env:"PIPELINE_REFERENCE_EXAMPLES" envDefault:"3"`
	RunTimeout        time.Duration `env:"PIPELINE_RUN_TIMEOUT"        envDefault:"2m"`
}

func (c *Config) minScore(class domain.LengthClass) float64 {
	switch class {
	case domain.LengthMid:
		return c.MinScoreMid
	case domain.LengthShort:
		return c.MinScoreShort
	default:
		return c.MinScoreLong
	}
}
