// Package gemini adapts the Google Gen AI SDK to the provider and embedding interfaces.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/observability"
)

const jsonMIMEType = "application/json"

// Provider serves chat completions and embeddings through the Gemini API.
type Provider struct {
	client          *genai.Client
	models          []string
	modelSet        map[string]bool
	embeddingModels map[string]bool
}

// NewProvider creates a Gemini provider.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("Gemini API key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	p := &Provider{
		client:          client,
		models:          config.Models,
		modelSet:        make(map[string]bool, len(config.Models)),
		embeddingModels: make(map[string]bool, len(config.EmbeddingModels)),
	}
	for _, m := range config.Models {
		p.modelSet[m] = true
	}
	for _, m := range config.EmbeddingModels {
		p.embeddingModels[m] = true
	}
	return p, nil
}

// Complete sends a generateContent request. System messages become the system instruction.
func (p *Provider) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling Gemini API", observability.Bool("json_mode", req.JSONMode))

	contents, config := toSDKRequest(req)

	resp, err := p.client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		logger.Error("Gemini API call failed", observability.Error(err))
		return nil, fmt.Errorf("Gemini API call failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("Gemini returned no candidates")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	out := &domain.CompletionResponse{
		ID:         resp.ResponseID,
		Model:      req.Model,
		Provider:   p.Name(),
		Content:    text.String(),
		FinishTime: time.Now(),
	}
	if usage := resp.UsageMetadata; usage != nil {
		out.Usage = domain.Usage{
			PromptTokens:     int(usage.PromptTokenCount),
			CompletionTokens: int(usage.CandidatesTokenCount),
			TotalTokens:      int(usage.TotalTokenCount),
		}
	}

	return out, nil
}

// Embed returns the embedding of text under model.
func (p *Provider) Embed(ctx context.Context, text, model string) ([]float64, error) {
	if text == "" {
		return nil, errors.New("text cannot be empty")
	}

	resp, err := p.client.Models.EmbedContent(ctx, model, genai.Text(text), &genai.EmbedContentConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, errors.New("no embeddings returned")
	}

	values := resp.Embeddings[0].Values
	vector := make([]float64, len(values))
	for i, v := range values {
		vector[i] = float64(v)
	}
	return vector, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "gemini"
}

// IsModelSupported checks if the provider supports the given chat model.
func (p *Provider) IsModelSupported(_ context.Context, model string) bool {
	return p.modelSet[model]
}

// SupportedModels lists the configured chat models.
func (p *Provider) SupportedModels(_ context.Context) []string {
	out := make([]string, len(p.models))
	copy(out, p.models)
	return out
}

// SupportsEmbeddingModel checks if the provider serves the embedding model.
func (p *Provider) SupportsEmbeddingModel(model string) bool {
	return p.embeddingModels[model]
}

func toSDKRequest(req *domain.CompletionRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{}
	if req.JSONMode {
		config.ResponseMIMEType = jsonMIMEType
	}
	if req.Temperature > 0 {
		temperature := float32(req.Temperature)
		config.Temperature = &temperature
	}

	var system []string
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case "system":
			system = append(system, msg.Content)
		case "assistant":
			contents = append(contents, &genai.Content{Role: "model", Parts: []*genai.Part{{Text: msg.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: msg.Content}}})
		}
	}

	if len(system) > 0 {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}},
		}
	}

	return contents, config
}
