package judge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/llmjson"
	"github.com/davidbz/quill/internal/observability"
)

const (
	minContractScore = 1
	maxContractScore = 5
	judgeContract    = "contract"
)

type scoresAnswer struct {
	Tone    *int `json:"tone"`
	Diction *int `json:"diction"`
	Rhythm  *int `json:"rhythm"`
}

type verdictAnswer struct {
	Passed    *bool         `json:"passed"`
	Reasoning *string       `json:"reasoning"`
	Pillar    *string       `json:"pillar"`
	Scores    *scoresAnswer `json:"scores"`
}

// ContractJudge checks drafts against the style contract.
type ContractJudge struct {
	completer domain.Completer
	chain     []domain.ModelRef
	pillars   map[string]string
	config    Config
}

// NewContractJudge creates the judge. When pillars is non-empty a failing
// verdict must name one of them.
func NewContractJudge(completer domain.Completer, pillars []string, config *Config) (*ContractJudge, error) {
	chain, err := domain.ParseModelRefs(config.ContractModels)
	if err != nil {
		return nil, fmt.Errorf("invalid contract judge chain: %w", err)
	}
	if len(chain) == 0 {
		return nil, errors.New("contract judge chain cannot be empty")
	}

	known := make(map[string]string, len(pillars))
	for _, p := range pillars {
		known[strings.ToLower(strings.TrimSpace(p))] = p
	}

	return &ContractJudge{
		completer: completer,
		chain:     chain,
		pillars:   known,
		config:    *config,
	}, nil
}

// Check evaluates one draft.
func (j *ContractJudge) Check(ctx context.Context, draft, contract string) (*domain.ContractVerdict, error) {
	req := j.request(contractPrompt(draft, contract), "")

	result, err := llmjson.Call(ctx, j.completer, j.chain, req, func(a *verdictAnswer) error {
		return j.validate(a)
	})
	if err != nil {
		return nil, wrapParse(judgeContract, err)
	}

	return j.toVerdict(&result.Value), nil
}

// CheckBatch evaluates several drafts in one call. The answer must carry
// exactly one verdict per requested class.
func (j *ContractJudge) CheckBatch(
	ctx context.Context,
	drafts map[domain.LengthClass]string,
	contract string,
) (map[domain.LengthClass]*domain.ContractVerdict, error) {
	if len(drafts) == 0 {
		return map[domain.LengthClass]*domain.ContractVerdict{}, nil
	}

	classes := sortedClasses(drafts)
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = string(c)
	}
	req := j.request(batchContractPrompt(drafts, contract), strings.Join(names, ","))

	result, err := llmjson.Call(ctx, j.completer, j.chain, req, func(a *map[string]*verdictAnswer) error {
		return j.validateBatch(*a, classes)
	})
	if err != nil {
		return nil, wrapParse(judgeContract, err)
	}

	verdicts := make(map[domain.LengthClass]*domain.ContractVerdict, len(classes))
	for _, class := range classes {
		verdicts[class] = j.toVerdict(result.Value[string(class)])
	}

	failed := 0
	for _, v := range verdicts {
		if !v.Passed {
			failed++
		}
	}
	observability.FromContext(ctx).Debug("batched contract check completed",
		observability.Int("drafts", len(classes)),
		observability.Int("failed", failed))

	return verdicts, nil
}

func (j *ContractJudge) request(prompt, variants string) *domain.CompletionRequest {
	metadata := map[string]string{domain.MetadataTask: domain.TaskContract}
	if variants != "" {
		metadata[domain.MetadataVariants] = variants
	}

	return &domain.CompletionRequest{
		Model: j.chain[0].Model,
		Messages: []domain.Message{
			{Role: "system", Content: contractSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: j.config.Temperature,
		MaxTokens:   j.config.MaxTokens,
		Metadata:    metadata,
	}
}

func (j *ContractJudge) validateBatch(answers map[string]*verdictAnswer, classes []domain.LengthClass) error {
	if len(answers) != len(classes) {
		return fmt.Errorf("expected %d verdicts, got %d", len(classes), len(answers))
	}
	for _, class := range classes {
		answer, ok := answers[string(class)]
		if !ok || answer == nil {
			return fmt.Errorf("missing verdict for %s", class)
		}
		if err := j.validate(answer); err != nil {
			return fmt.Errorf("verdict for %s: %w", class, err)
		}
	}
	return nil
}

func (j *ContractJudge) validate(a *verdictAnswer) error {
	if a.Passed == nil {
		return errors.New("passed is required")
	}
	if a.Reasoning == nil || strings.TrimSpace(*a.Reasoning) == "" {
		return errors.New("reasoning is required")
	}
	if a.Scores == nil {
		return errors.New("scores are required")
	}

	for name, score := range map[string]*int{
		"tone":    a.Scores.Tone,
		"diction": a.Scores.Diction,
		"rhythm":  a.Scores.Rhythm,
	} {
		if score == nil {
			return fmt.Errorf("scores.%s is required", name)
		}
		if *score < minContractScore || *score > maxContractScore {
			return fmt.Errorf("scores.%s %d outside [%d,%d]", name, *score, minContractScore, maxContractScore)
		}
	}

	if *a.Passed {
		return nil
	}
	if a.Pillar == nil || strings.TrimSpace(*a.Pillar) == "" {
		return errors.New("a failing verdict must name the violated pillar")
	}
	if len(j.pillars) > 0 {
		if _, ok := j.pillars[strings.ToLower(strings.TrimSpace(*a.Pillar))]; !ok {
			return fmt.Errorf("unknown pillar %q", *a.Pillar)
		}
	}
	return nil
}

func (j *ContractJudge) toVerdict(a *verdictAnswer) *domain.ContractVerdict {
	verdict := &domain.ContractVerdict{
		Passed:    *a.Passed,
		Reasoning: strings.TrimSpace(*a.Reasoning),
		Scores: domain.ContractScores{
			Tone:    *a.Scores.Tone,
			Diction: *a.Scores.Diction,
			Rhythm:  *a.Scores.Rhythm,
		},
	}
	if !verdict.Passed && a.Pillar != nil {
		pillar := strings.TrimSpace(*a.Pillar)
		if canonical, ok := j.pillars[strings.ToLower(pillar)]; ok {
			pillar = canonical
		}
		verdict.Pillar = pillar
	}
	return verdict
}
