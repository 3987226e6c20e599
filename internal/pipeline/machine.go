// Package pipeline runs the long-first adaptive generation state machine.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davidbz/quill/internal/corpus"
	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/llmjson"
	"github.com/davidbz/quill/internal/observability"
)

// Event types published by the machine.
const (
	EventStage    = "pipeline.stage"
	EventFinished = "pipeline.finished"
)

// Evaluator scores a draft for a length class.
type Evaluator interface {
	Evaluate(ctx context.Context, draft string, class domain.LengthClass) (*domain.Verdict, error)
}

// ContractChecker checks drafts against the style contract.
type ContractChecker interface {
	Check(ctx context.Context, draft, contract string) (*domain.ContractVerdict, error)
	CheckBatch(
		ctx context.Context,
		drafts map[domain.LengthClass]string,
		contract string,
	) (map[domain.LengthClass]*domain.ContractVerdict, error)
}

// References scores drafts against the reference corpus.
type References interface {
	Similarity(ctx context.Context, text string) (*float64, error)
	ExamplesFor(ctx context.Context, text string, k int) []string
}

type draftAnswer struct {
	Text *string `json:"text"`
}

func (a *draftAnswer) validate() error {
	if a.Text == nil || strings.TrimSpace(*a.Text) == "" {
		return errors.New("text is required")
	}
	return nil
}

// Machine executes runs. It holds no per-run state and is safe for concurrent use.
type Machine struct {
	completer    domain.Completer
	judge        Evaluator
	contract     ContractChecker
	references   References
	rules        corpus.Rules
	contractText string
	events       domain.EventPublisher
	config       Config
	genChain     []domain.ModelRef
	deriveChain  []domain.ModelRef
	now          func() time.Time
}

// NewMachine creates the state machine (DI constructor).
func NewMachine(
	completer domain.Completer,
	judge Evaluator,
	contract ContractChecker,
	references References,
	rules corpus.Rules,
	style *corpus.Style,
	events domain.EventPublisher,
	config *Config,
) (*Machine, error) {
	genChain, err := domain.ParseModelRefs(config.GenerationModels)
	if err != nil {
		return nil, fmt.Errorf("invalid generation chain: %w", err)
	}
	deriveChain, err := domain.ParseModelRefs(config.DeriveModels)
	if err != nil {
		return nil, fmt.Errorf("invalid derive chain: %w", err)
	}
	if len(genChain) == 0 {
		return nil, errors.New("generation chain cannot be empty")
	}
	if len(deriveChain) == 0 {
		deriveChain = genChain
	}
	if style == nil {
		return nil, errors.New("style cannot be nil")
	}

	return &Machine{
		completer:    completer,
		judge:        judge,
		contract:     contract,
		references:   references,
		rules:        rules,
		contractText: style.ContractText(),
		events:       events,
		config:       *config,
		genChain:     genChain,
		deriveChain:  deriveChain,
		now:          time.Now,
	}, nil
}

// SetClock replaces the time source used for stage latencies.
func (m *Machine) SetClock(now func() time.Time) {
	m.now = now
}

// Run executes one run for a bare topic abstract.
func (m *Machine) Run(ctx context.Context, abstract string) (*domain.PipelineResult, error) {
	return m.RunTopic(ctx, domain.Topic{AbstractText: abstract})
}

// RunTopic executes one run. Designed outcomes, aborts included, return a
// nil error. Provider and judge failures that end the run return the
// result together with a *domain.StageError; cancellation returns the
// context error.
func (m *Machine) RunTopic(ctx context.Context, topic domain.Topic) (*domain.PipelineResult, error) {
	if strings.TrimSpace(topic.AbstractText) == "" {
		return nil, domain.ErrEmptyTopic
	}

	r := newRun(observability.GenerateRunID(), topic, m.config.DeriveParallel)
	ctx = observability.WithRunID(ctx, r.result.RunID)
	ctx = domain.WithUsageLedger(ctx, r.ledger)

	if m.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.RunTimeout)
		defer cancel()
	}

	logger := observability.FromContext(ctx)
	logger.Info("run started", observability.String("topic_id", topic.ID))

	stage := domain.StageGenerateLong
	var runErr error

	for !stage.Terminal() {
		if err := ctx.Err(); err != nil {
			stage, runErr = m.cancelled(r, stage, err)
			break
		}

		stageCtx := observability.WithStage(ctx, string(stage))
		start := m.now()
		next, err := m.step(stageCtx, r, stage)
		elapsed := m.now().Sub(start)

		r.result.StageLatencies[stage] += elapsed
		m.events.Publish(stageCtx, EventStage, map[string]interface{}{
			"stage":      string(stage),
			"next":       string(next),
			"latency_ms": elapsed.Milliseconds(),
		})

		stage, runErr = next, err
	}

	m.finish(ctx, r, stage)
	return r.result, runErr
}

func (m *Machine) step(ctx context.Context, r *run, stage domain.Stage) (domain.Stage, error) {
	switch stage {
	case domain.StageGenerateLong:
		return m.generateLong(ctx, r)
	case domain.StageEvalLong:
		return m.evalLong(ctx, r)
	case domain.StageDeriveVariants:
		return m.deriveVariants(ctx, r)
	case domain.StageEvalVariants:
		return m.evalVariants(ctx, r)
	default:
		return domain.StageAborted, fmt.Errorf("unknown stage %s", stage)
	}
}

func (m *Machine) generateLong(ctx context.Context, r *run) (domain.Stage, error) {
	window, _ := m.rules.Window(domain.LengthLong)
	examples := m.references.ExamplesFor(ctx, r.topic.AbstractText, m.config.ReferenceExamples)

	text, err := m.draft(ctx, m.genChain, &domain.CompletionRequest{
		Messages: []domain.Message{
			{Role: "system", Content: generateSystemPrompt(m.contractText, m.rules, window, examples)},
			{Role: "user", Content: generateUserPrompt(r.topic)},
		},
		Temperature: m.config.GenerationTemperature,
		MaxTokens:   m.config.MaxTokens,
		Metadata: map[string]string{
			domain.MetadataTask:        domain.TaskGenerate,
			domain.MetadataSource:      r.topic.AbstractText,
			domain.MetadataLengthClass: string(domain.LengthLong),
			domain.MetadataMinChars:    fmt.Sprint(window.Min),
			domain.MetadataMaxChars:    fmt.Sprint(window.Max),
		},
	})
	if err != nil {
		return m.fail(ctx, r, domain.StageGenerateLong, err)
	}

	r.long = &domain.GenerationCandidate{
		Text:        text,
		LengthClass: domain.LengthLong,
		Origin:      domain.OriginGenerated,
	}
	return domain.StageEvalLong, nil
}

func (m *Machine) evalLong(ctx context.Context, r *run) (domain.Stage, error) {
	logger := observability.FromContext(ctx)
	long := r.long

	verdict, err := m.evaluate(ctx, r, long.Text, domain.LengthLong)
	if err != nil {
		r.reject(long, "long not evaluable")
		return m.fail(ctx, r, domain.StageEvalLong, err)
	}
	long.Verdict = verdict

	if minScore := m.config.MinScoreLong; verdict.Score < minScore {
		r.reject(long, fmt.Sprintf("long scored %.2f below %.2f", verdict.Score, minScore))
		r.abort(domain.ReasonLongBelowThreshold, fmt.Sprintf("long candidate scored %.2f, minimum %.2f", verdict.Score, minScore))
		logger.Info("long candidate below threshold, aborting",
			observability.Float64("score", verdict.Score),
			observability.Float64("min_score", minScore))
		return domain.StageAborted, nil
	}

	contractVerdict, err := m.checkContract(ctx, r, long.Text)
	if err != nil {
		r.reject(long, "long contract check not evaluable")
		return m.fail(ctx, r, domain.StageEvalLong, err)
	}
	long.ContractVerdict = contractVerdict
	r.accept(long)

	if !contractVerdict.Passed {
		r.diagnose(fmt.Sprintf("long failed contract pillar %q: %s", contractVerdict.Pillar, contractVerdict.Reasoning))
		logger.Info("long candidate failed contract, stopping before derivation",
			observability.String("pillar", contractVerdict.Pillar))
		return domain.StageDone, nil
	}

	m.score(ctx, r, long)
	if m.earlyStop(long) {
		r.result.EarlyStopped = true
		logger.Info("early stop on long candidate",
			observability.Float64("similarity", *long.Similarity))
		return domain.StageDone, nil
	}

	return domain.StageDeriveVariants, nil
}

// score fills similarity and voice marker. Similarity is informational, so
// embedding failures are recorded and ignored.
func (m *Machine) score(ctx context.Context, r *run, c *domain.GenerationCandidate) {
	c.VoiceMarker = m.rules.HasVoiceMarker(c.Text)

	similarity, err := m.references.Similarity(ctx, c.Text)
	if err != nil {
		observability.FromContext(ctx).Warn("similarity unavailable",
			observability.String("length_class", string(c.LengthClass)),
			observability.Error(err))
		r.diagnose(fmt.Sprintf("%s similarity unavailable: %v", c.LengthClass, err))
		return
	}
	c.Similarity = similarity
}

func (m *Machine) earlyStop(c *domain.GenerationCandidate) bool {
	return c.VoiceMarker &&
		c.Similarity != nil &&
		*c.Similarity >= m.config.SimilarityThreshold+m.config.EarlyStopSlack
}

// evaluate runs the gated judge once per distinct draft text within a run.
func (m *Machine) evaluate(
	ctx context.Context,
	r *run,
	text string,
	class domain.LengthClass,
) (*domain.Verdict, error) {
	if v, ok := r.verdicts[text]; ok {
		return v, nil
	}

	v, err := m.judge.Evaluate(ctx, text, class)
	if err != nil {
		return nil, err
	}
	r.verdicts[text] = v
	return v, nil
}

func (m *Machine) checkContract(ctx context.Context, r *run, text string) (*domain.ContractVerdict, error) {
	if v, ok := r.contracts[text]; ok {
		return v, nil
	}

	v, err := m.contract.Check(ctx, text, m.contractText)
	if err != nil {
		return nil, err
	}
	r.contracts[text] = v
	return v, nil
}

// draft runs one structured generation call and returns the trimmed text.
func (m *Machine) draft(ctx context.Context, chain []domain.ModelRef, req *domain.CompletionRequest) (string, error) {
	req.Model = chain[0].Model

	result, err := llmjson.Call(ctx, m.completer, chain, req, (*draftAnswer).validate)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(*result.Value.Text), nil
}

// fail ends the run from a long stage.
func (m *Machine) fail(ctx context.Context, r *run, stage domain.Stage, err error) (domain.Stage, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return m.cancelled(r, stage, ctxErr)
	}

	reason := classify(err)
	provider := providerOf(err)
	r.abort(reason, err.Error())

	observability.FromContext(ctx).Error("stage failed, aborting run",
		observability.String("reason", string(reason)),
		observability.String("failed_provider", provider),
		observability.Error(err))

	return domain.StageAborted, &domain.StageError{Stage: stage, Provider: provider, Reason: reason, Err: err}
}

func (m *Machine) cancelled(r *run, stage domain.Stage, err error) (domain.Stage, error) {
	r.abort(domain.ReasonCancelled, fmt.Sprintf("cancelled before %s completed: %v", stage, err))
	return domain.StageAborted, fmt.Errorf("run cancelled: %w", err)
}

func (m *Machine) finish(ctx context.Context, r *run, stage domain.Stage) {
	res := r.result
	res.Stage = stage
	res.Usage = r.ledger.Total()

	if stage == domain.StageAborted {
		for class, c := range res.Candidates {
			res.Rejected[class] = c
			delete(res.Candidates, class)
		}
	}

	if long, ok := res.Candidates[domain.LengthLong]; ok {
		res.Deliverable = long.ContractVerdict != nil && long.ContractVerdict.Passed
	}

	observability.FromContext(ctx).Info("run finished",
		observability.String("stage", string(stage)),
		observability.String("reason", string(res.AbortReason)),
		observability.Int("candidates", len(res.Candidates)),
		observability.Bool("early_stopped", res.EarlyStopped),
		observability.Bool("deliverable", res.Deliverable),
		observability.Int("tokens", res.Usage.TotalTokens),
		observability.Float64("cost", res.Usage.Cost))

	m.events.Publish(ctx, EventFinished, map[string]interface{}{
		"stage":         string(stage),
		"reason":        string(res.AbortReason),
		"candidates":    len(res.Candidates),
		"early_stopped": res.EarlyStopped,
		"deliverable":   res.Deliverable,
		"tokens":        res.Usage.TotalTokens,
		"cost":          res.Usage.Cost,
	})
}

func classify(err error) domain.ReasonCode {
	var parseErr *llmjson.ParseError
	switch {
	case errors.Is(err, domain.ErrJudgeParseFailure):
		return domain.ReasonJudgeNotEvaluable
	case errors.As(err, &parseErr):
		return domain.ReasonGenerationMalformed
	default:
		return domain.ReasonProviderUnavailable
	}
}

func providerOf(err error) string {
	var providerErr *domain.ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Provider
	}
	var openErr *domain.CircuitOpenError
	if errors.As(err, &openErr) {
		return openErr.Provider
	}
	return ""
}
