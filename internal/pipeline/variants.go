package pipeline

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/llmjson"
	"github.com/davidbz/quill/internal/observability"
)

// deriveVariants rewrites the approved long text into the next batch of
// variants. A provider failure abandons the variant stages; the run still
// ends DONE with the long candidate.
func (m *Machine) deriveVariants(ctx context.Context, r *run) (domain.Stage, error) {
	logger := observability.FromContext(ctx)
	batch := r.nextBatch()
	drafts := make([]*domain.GenerationCandidate, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	for i, class := range batch {
		g.Go(func() error {
			text, err := m.derive(gctx, r.long.Text, class)
			var parseErr *llmjson.ParseError
			switch {
			case err == nil:
				drafts[i] = &domain.GenerationCandidate{
					Text:        text,
					LengthClass: class,
					Origin:      domain.OriginDerived,
					DerivedFrom: domain.LengthLong,
				}
				return nil
			case errors.As(err, &parseErr):
				// Dropped like a failing variant.
				logger.Warn("variant derivation malformed, dropping",
					observability.String("length_class", string(class)),
					observability.Error(err))
				return nil
			default:
				return fmt.Errorf("derive %s: %w", class, err)
			}
		})
	}

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return m.cancelled(r, domain.StageDeriveVariants, ctxErr)
		}
		m.abandon(ctx, r, domain.StageDeriveVariants, err)
		return domain.StageDone, nil
	}

	for i, d := range drafts {
		if d == nil {
			r.diagnose(fmt.Sprintf("%s derivation malformed, variant dropped", batch[i]))
			continue
		}
		r.derived = append(r.derived, d)
	}

	switch {
	case len(r.derived) > 0:
		return domain.StageEvalVariants, nil
	case len(r.remaining) > 0:
		return domain.StageDeriveVariants, nil
	default:
		return domain.StageDone, nil
	}
}

func (m *Machine) derive(ctx context.Context, long string, class domain.LengthClass) (string, error) {
	window, _ := m.rules.Window(class)

	return m.draft(ctx, m.deriveChain, &domain.CompletionRequest{
		Messages: []domain.Message{
			{Role: "system", Content: deriveSystemPrompt(m.contractText, m.rules)},
			{Role: "user", Content: deriveUserPrompt(long, class, window)},
		},
		Temperature: m.config.DeriveTemperature,
		MaxTokens:   m.config.MaxTokens,
		Metadata: map[string]string{
			domain.MetadataTask:        domain.TaskDerive,
			domain.MetadataSource:      long,
			domain.MetadataLengthClass: string(class),
			domain.MetadataMinChars:    fmt.Sprint(window.Min),
			domain.MetadataMaxChars:    fmt.Sprint(window.Max),
		},
	})
}

// evalVariants judges every derived variant and checks them against the
// contract in one batched call. Failing variants are rejected, never retried.
func (m *Machine) evalVariants(ctx context.Context, r *run) (domain.Stage, error) {
	logger := observability.FromContext(ctx)
	pending := r.derived
	r.derived = nil

	var evaluated []*domain.GenerationCandidate
	for _, c := range pending {
		verdict, err := m.evaluate(ctx, r, c.Text, c.LengthClass)
		switch {
		case err == nil:
			c.Verdict = verdict
			evaluated = append(evaluated, c)
		case errors.Is(err, domain.ErrJudgeParseFailure):
			r.reject(c, fmt.Sprintf("%s not evaluable: %v", c.LengthClass, err))
		default:
			return m.abandonVariants(ctx, r, pending, err)
		}
	}

	contracts, err := m.checkContracts(ctx, r, evaluated)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrJudgeParseFailure):
		for _, c := range evaluated {
			r.reject(c, fmt.Sprintf("%s contract check not evaluable: %v", c.LengthClass, err))
		}
		evaluated = nil
	default:
		return m.abandonVariants(ctx, r, evaluated, err)
	}

	stop := false
	for _, c := range evaluated {
		c.ContractVerdict = contracts[c.LengthClass]
		m.score(ctx, r, c)

		if reason, ok := m.passes(c); !ok {
			r.reject(c, reason)
			logger.Info("variant rejected",
				observability.String("length_class", string(c.LengthClass)),
				observability.String("reason", reason))
			continue
		}

		r.accept(c)
		if m.earlyStop(c) {
			stop = true
		}
	}

	if len(r.remaining) == 0 {
		return domain.StageDone, nil
	}
	if stop {
		r.result.EarlyStopped = true
		logger.Info("early stop on variant, skipping remaining derivations",
			observability.Int("skipped", len(r.remaining)))
		return domain.StageDone, nil
	}
	return domain.StageDeriveVariants, nil
}

func (m *Machine) passes(c *domain.GenerationCandidate) (string, bool) {
	if minScore := m.config.minScore(c.LengthClass); c.Verdict.Score < minScore {
		return fmt.Sprintf("%s scored %.2f below %.2f", c.LengthClass, c.Verdict.Score, minScore), false
	}
	if cv := c.ContractVerdict; cv == nil || !cv.Passed {
		pillar, reasoning := "", ""
		if cv != nil {
			pillar, reasoning = cv.Pillar, cv.Reasoning
		}
		return fmt.Sprintf("%s failed contract pillar %q: %s", c.LengthClass, pillar, reasoning), false
	}
	return "", true
}

// checkContracts batches the contract check over drafts not yet checked in this run.
func (m *Machine) checkContracts(
	ctx context.Context,
	r *run,
	candidates []*domain.GenerationCandidate,
) (map[domain.LengthClass]*domain.ContractVerdict, error) {
	out := make(map[domain.LengthClass]*domain.ContractVerdict, len(candidates))
	drafts := make(map[domain.LengthClass]string)

	for _, c := range candidates {
		if v, ok := r.contracts[c.Text]; ok {
			out[c.LengthClass] = v
			continue
		}
		drafts[c.LengthClass] = c.Text
	}
	if len(drafts) == 0 {
		return out, nil
	}

	verdicts, err := m.contract.CheckBatch(ctx, drafts, m.contractText)
	if err != nil {
		return nil, err
	}
	for class, v := range verdicts {
		out[class] = v
		r.contracts[drafts[class]] = v
	}
	return out, nil
}

// abandonVariants rejects the unevaluated variants and ends the run with what
// was already accepted.
func (m *Machine) abandonVariants(
	ctx context.Context,
	r *run,
	pending []*domain.GenerationCandidate,
	err error,
) (domain.Stage, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return m.cancelled(r, domain.StageEvalVariants, ctxErr)
	}

	for _, c := range pending {
		if _, accepted := r.result.Candidates[c.LengthClass]; !accepted {
			r.result.Rejected[c.LengthClass] = c
		}
	}
	m.abandon(ctx, r, domain.StageEvalVariants, err)
	return domain.StageDone, nil
}

func (m *Machine) abandon(ctx context.Context, r *run, stage domain.Stage, err error) {
	reason := classify(err)
	provider := providerOf(err)
	r.remaining = nil
	r.diagnose(fmt.Sprintf("%s abandoned (%s, provider %q): %v", stage, reason, provider, err))

	observability.FromContext(ctx).Error("variant stage abandoned, keeping long candidate",
		observability.String("reason", string(reason)),
		observability.String("failed_provider", provider),
		observability.Error(err))
}
