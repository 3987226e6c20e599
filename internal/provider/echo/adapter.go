// Package echo provides an offline provider with deterministic answers.
// It implements domain.Provider and domain.EmbeddingProvider without making
// external API calls, so a full run can be exercised without API keys.
package echo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/observability"
)

const (
	providerName   = "echo"
	modelName      = "echo4"
	embeddingModel = "echo-embed"

	judgeScore      = 0.8
	judgeConfidence = 0.9
	contractScore   = 4
)

// Provider implements domain.Provider and domain.EmbeddingProvider for offline runs.
type Provider struct {
	name            string
	supportedModels map[string]bool
	dimension       int
}

// NewProvider creates a new echo provider.
func NewProvider(config Config) *Provider {
	dimension := config.EmbeddingDimension
	if dimension <= 0 {
		dimension = 1536
	}

	return &Provider{
		name: providerName,
		supportedModels: map[string]bool{
			modelName: true,
		},
		dimension: dimension,
	}
}

// Complete answers the request according to its task metadata. Requests
// without a known task are echoed back.
func (p *Provider) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if !p.supportedModels[req.Model] {
		return nil, fmt.Errorf("model %s is not supported by echo provider", req.Model)
	}

	task := req.Metadata[domain.MetadataTask]
	logger := observability.FromContext(ctx)
	logger.Debug("echoing request", observability.String("task", task))

	content, err := answer(task, req)
	if err != nil {
		return nil, err
	}

	promptTokens := countTokens(buildEchoContent(req.Messages))
	completionTokens := countTokens(content)

	return &domain.CompletionResponse{
		ID:       fmt.Sprintf("echo-%d", time.Now().UnixNano()),
		Model:    req.Model,
		Provider: p.name,
		Content:  content,
		Usage: domain.Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
			Cost:             0.0,
		},
		FinishTime: time.Now(),
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// IsModelSupported checks if the provider supports the given model.
func (p *Provider) IsModelSupported(_ context.Context, model string) bool {
	return p.supportedModels[model]
}

// SupportedModels returns a list of all models this provider supports.
func (p *Provider) SupportedModels(_ context.Context) []string {
	models := make([]string, 0, len(p.supportedModels))
	for model := range p.supportedModels {
		models = append(models, model)
	}
	return models
}

// SupportsEmbeddingModel checks if the provider serves the embedding model.
func (p *Provider) SupportsEmbeddingModel(model string) bool {
	return model == embeddingModel
}

func answer(task string, req *domain.CompletionRequest) (string, error) {
	var payload any

	switch task {
	case domain.TaskGenerate, domain.TaskDerive:
		payload = map[string]string{"text": draft(req)}
	case domain.TaskJudgeFast, domain.TaskJudgeStrong:
		payload = map[string]any{
			"score":      judgeScore,
			"confidence": judgeConfidence,
			"criteria":   map[string]float64{"clarity": judgeScore},
		}
	case domain.TaskContract:
		payload = contractAnswer(req.Metadata[domain.MetadataVariants])
	default:
		return buildEchoContent(req.Messages), nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode echo answer: %w", err)
	}
	return string(raw), nil
}

func contractAnswer(variants string) any {
	verdict := map[string]any{
		"passed":    true,
		"reasoning": "echo provider accepts every draft",
		"scores": map[string]int{
			"tone":    contractScore,
			"diction": contractScore,
			"rhythm":  contractScore,
		},
	}

	if variants == "" {
		return verdict
	}

	keyed := make(map[string]any)
	for _, class := range strings.Split(variants, ",") {
		if class = strings.TrimSpace(class); class != "" {
			keyed[class] = verdict
		}
	}
	return keyed
}

// draft builds a second-person sentence from the source text that fits the
// requested character window.
func draft(req *domain.CompletionRequest) string {
	source := req.Metadata[domain.MetadataSource]
	if strings.TrimSpace(source) == "" && len(req.Messages) > 0 {
		source = req.Messages[len(req.Messages)-1].Content
	}

	words := strings.Fields(strings.NewReplacer(",", "", "#", "").Replace(source))
	if len(words) == 0 {
		words = []string{"your", "next", "step"}
	}
	words = append([]string{"You", "can"}, words...)

	minChars := metadataInt(req.Metadata, domain.MetadataMinChars, 0)
	maxChars := metadataInt(req.Metadata, domain.MetadataMaxChars, 0)

	var b strings.Builder
	for i := 0; ; i++ {
		word := words[i%len(words)]
		if maxChars > 0 && b.Len()+1+len(word) > maxChars {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(word)
		if i+1 >= len(words) && b.Len() >= minChars {
			break
		}
	}

	return b.String()
}

func metadataInt(metadata map[string]string, key string, fallback int) int {
	v, err := strconv.Atoi(metadata[key])
	if err != nil {
		return fallback
	}
	return v
}

// buildEchoContent constructs the echo response from request messages.
func buildEchoContent(messages []domain.Message) string {
	if len(messages) == 0 {
		return ""
	}

	var builder strings.Builder
	for _, msg := range messages {
		builder.WriteString(fmt.Sprintf("[%s]: %s\n", msg.Role, msg.Content))
	}
	return builder.String()
}

// countTokens performs simple word-based token counting.
func countTokens(content string) int {
	if content == "" {
		return 0
	}
	return len(strings.Fields(content))
}
