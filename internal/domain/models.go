package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CompletionRequest represents a unified LLM request.
type CompletionRequest struct {
	Model       string            `json:"model"`
	Messages    []Message         `json:"messages"`
	Temperature float64           `json:"temperature,omitempty"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
	JSONMode    bool              `json:"json_mode,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // user, assistant, system
	Content string `json:"content"`
}

// CompletionResponse represents a unified LLM response.
type CompletionResponse struct {
	ID         string    `json:"id"`
	Model      string    `json:"model"`
	Provider   string    `json:"provider"`
	Content    string    `json:"content"`
	Usage      Usage     `json:"usage"`
	FinishTime time.Time `json:"finish_time"`
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	Cost             float64 `json:"cost,omitempty"`
}

// Add returns the element-wise sum of two usages.
func (u Usage) Add(other Usage) Usage {
	return Usage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		TotalTokens:      u.TotalTokens + other.TotalTokens,
		Cost:             u.Cost + other.Cost,
	}
}

// Metadata keys understood by providers.
const (
	// MetadataTask names the kind of call (generate, derive, judge_fast, judge_strong, contract).
	MetadataTask = "task"

	// MetadataVariants lists the length classes a batched contract call covers.
	MetadataVariants = "variants"

	// MetadataSource carries the text a generation or rewrite starts from.
	MetadataSource = "source"

	// MetadataLengthClass names the length class a generation targets.
	MetadataLengthClass = "length_class"

	// MetadataMinChars and MetadataMaxChars carry the target length window.
	MetadataMinChars = "min_chars"
	MetadataMaxChars = "max_chars"
)

// Task values carried under MetadataTask.
const (
	TaskGenerate    = "generate"
	TaskDerive      = "derive"
	TaskJudgeFast   = "judge_fast"
	TaskJudgeStrong = "judge_strong"
	TaskContract    = "contract"
)

// Topic is the generation input supplied by the topic source.
type Topic struct {
	ID              string `json:"id"`
	AbstractText    string `json:"abstract_text"`
	SourceReference string `json:"source_reference,omitempty"`
}

// ModelRef names one link of a provider fallback chain. An empty Provider lets
// the router pick any provider that supports Model.
type ModelRef struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model"`
}

// String renders the ref in its "provider/model" form.
func (r ModelRef) String() string {
	if r.Provider == "" {
		return r.Model
	}
	return r.Provider + "/" + r.Model
}

// ParseModelRef parses "provider/model" or a bare "model".
func ParseModelRef(s string) (ModelRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ModelRef{}, errors.New("model ref cannot be empty")
	}

	provider, model, found := strings.Cut(s, "/")
	if !found {
		return ModelRef{Provider: "", Model: s}, nil
	}

	provider = strings.TrimSpace(provider)
	model = strings.TrimSpace(model)
	if provider == "" || model == "" {
		return ModelRef{}, fmt.Errorf("invalid model ref %q", s)
	}

	return ModelRef{Provider: provider, Model: model}, nil
}

// ParseModelRefs parses an ordered fallback chain.
func ParseModelRefs(values []string) ([]ModelRef, error) {
	refs := make([]ModelRef, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		ref, err := ParseModelRef(v)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
