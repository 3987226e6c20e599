// Package judge implements the confidence-gated quality judge and the
// style-contract judge.
package judge

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/davidbz/quill/internal/corpus"
	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/llmjson"
	"github.com/davidbz/quill/internal/observability"
)

const (
	tierFast   = "fast"
	tierStrong = "strong"
)

type tierAnswer struct {
	Score      *float64            `json:"score"`
	Confidence *float64            `json:"confidence"`
	Criteria   *map[string]float64 `json:"criteria"`
}

func (a *tierAnswer) validate() error {
	if a.Score == nil {
		return errors.New("score is required")
	}
	if a.Confidence == nil {
		return errors.New("confidence is required")
	}
	if a.Criteria == nil {
		return errors.New("criteria is required")
	}
	if !unit(*a.Score) {
		return fmt.Errorf("score %v outside [0,1]", *a.Score)
	}
	if !unit(*a.Confidence) {
		return fmt.Errorf("confidence %v outside [0,1]", *a.Confidence)
	}
	for name, v := range *a.Criteria {
		if !unit(v) {
			return fmt.Errorf("criterion %s value %v outside [0,1]", name, v)
		}
	}
	return nil
}

func unit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// GatedJudge scores drafts with local rules, a fast model tier and, only when
// the fast tier is unsure, a strong model tier.
type GatedJudge struct {
	completer   domain.Completer
	rules       corpus.Rules
	config      Config
	fastChain   []domain.ModelRef
	strongChain []domain.ModelRef
}

// NewGatedJudge creates the judge. The fast and strong chains must parse.
func NewGatedJudge(completer domain.Completer, rules corpus.Rules, config *Config) (*GatedJudge, error) {
	fast, err := domain.ParseModelRefs(config.FastModels)
	if err != nil {
		return nil, fmt.Errorf("invalid fast judge chain: %w", err)
	}
	strong, err := domain.ParseModelRefs(config.StrongModels)
	if err != nil {
		return nil, fmt.Errorf("invalid strong judge chain: %w", err)
	}
	if len(fast) == 0 {
		return nil, errors.New("fast judge chain cannot be empty")
	}

	return &GatedJudge{
		completer:   completer,
		rules:       rules,
		config:      *config,
		fastChain:   fast,
		strongChain: strong,
	}, nil
}

// Evaluate returns the verdict for draft as a candidate of class. A hard rule
// violation short-circuits with score 0 and full confidence. Repeated
// malformed answers from a tier surface as *domain.JudgeParseError.
func (j *GatedJudge) Evaluate(ctx context.Context, draft string, class domain.LengthClass) (*domain.Verdict, error) {
	logger := observability.FromContext(ctx).With(observability.String("length_class", string(class)))

	local := checkLocal(j.rules, draft, class)
	if local.hard {
		logger.Debug("draft failed objective checks", observability.Strings("reasons", local.reasons))
		return &domain.Verdict{
			Score:      0,
			Confidence: 1,
			Criteria:   local.criteria,
			Reasons:    local.reasons,
		}, nil
	}

	window, hasWindow := j.rules.Window(class)
	prompt := draftPrompt(draft, class, window, hasWindow)

	fast, err := j.ask(ctx, tierFast, j.fastChain, fastSystemPrompt, prompt, domain.TaskJudgeFast, class)
	if err != nil {
		return nil, err
	}

	verdict := &domain.Verdict{
		Score:      *fast.Score,
		Confidence: *fast.Confidence,
		Criteria:   mergeCriteria(local.criteria, "objective.", *fast.Criteria),
		Reasons:    local.reasons,
	}

	escalateBelow := j.config.escalateBelow(class)
	if verdict.Confidence >= escalateBelow || len(j.strongChain) == 0 {
		return verdict, nil
	}

	logger.Debug("escalating to strong judge",
		observability.Float64("fast_confidence", verdict.Confidence),
		observability.Float64("escalate_below", escalateBelow))

	strong, err := j.ask(ctx, tierStrong, j.strongChain, strongSystemPrompt, prompt, domain.TaskJudgeStrong, class)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrJudgeParseFailure), ctx.Err() != nil:
		return nil, err
	default:
		// A strong tier that cannot be reached leaves the fast verdict standing, flagged.
		logger.Warn("strong judge unavailable, keeping fast verdict", observability.Error(err))
		verdict.LowConfidence = true
		verdict.Reasons = append(verdict.Reasons, "strong judge unavailable: "+err.Error())
		return verdict, nil
	}

	weight := clamp(j.config.StrongWeight)
	verdict.Score = (1-weight)*verdict.Score + weight*(*strong.Score)
	verdict.Confidence = *strong.Confidence
	verdict.Escalated = true
	verdict.LowConfidence = *strong.Confidence < j.config.strongMinConfidence(class)
	verdict.Criteria = mergeCriteria(verdict.Criteria, "subjective.", *strong.Criteria)

	return verdict, nil
}

func (j *GatedJudge) ask(
	ctx context.Context,
	tier string,
	chain []domain.ModelRef,
	system, prompt, task string,
	class domain.LengthClass,
) (*tierAnswer, error) {
	req := &domain.CompletionRequest{
		Model: chain[0].Model,
		Messages: []domain.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: j.config.Temperature,
		MaxTokens:   j.config.MaxTokens,
		Metadata: map[string]string{
			domain.MetadataTask:        task,
			domain.MetadataLengthClass: string(class),
		},
	}

	result, err := llmjson.Call(ctx, j.completer, chain, req, (*tierAnswer).validate)
	if err != nil {
		return nil, wrapParse(tier, err)
	}
	return &result.Value, nil
}

// wrapParse turns an exhausted structured call into a JudgeParseError.
func wrapParse(judge string, err error) error {
	var parseErr *llmjson.ParseError
	if errors.As(err, &parseErr) {
		return &domain.JudgeParseError{Judge: judge, Attempts: parseErr.Attempts, Err: parseErr}
	}
	return fmt.Errorf("%s judge: %w", judge, err)
}

// mergeCriteria copies base and adds extra under prefix. Keys already in base win.
func mergeCriteria(base map[string]float64, prefix string, extra map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(base)+len(extra))
	for name, v := range extra {
		out[prefix+name] = v
	}
	for name, v := range base {
		out[name] = v
	}
	return out
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
