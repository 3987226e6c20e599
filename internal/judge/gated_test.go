package judge_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/judge"
	"github.com/davidbz/quill/internal/mocks"
)

func newGated(t *testing.T, completer domain.Completer, allowCommas bool) *judge.GatedJudge {
	j, err := judge.NewGatedJudge(completer, testRules(allowCommas), testConfig())
	require.NoError(t, err)
	return j
}

func TestGatedJudge_LocalChecks(t *testing.T) {
	tests := []struct {
		name      string
		draft     string
		class     domain.LengthClass
		criterion string
	}{
		{name: "too long for class", draft: goodDraft + " " + goodDraft, class: domain.LengthShort, criterion: judge.CriterionLength},
		{name: "banned term", draft: "You get real Synergy from your templates today.", class: domain.LengthLong, criterion: judge.CriterionBanned},
		{name: "comma", draft: "You can prep on Friday, then rest.", class: domain.LengthLong, criterion: judge.CriterionCommas},
		{name: "hashtag", draft: "You can prep on Friday #support", class: domain.LengthLong, criterion: judge.CriterionStructure},
		{name: "line break", draft: "You can prep on Friday\nand rest.", class: domain.LengthLong, criterion: judge.CriterionStructure},
	}

	for _, tt := range tests {
		t.Run("should fail without a model call on "+tt.name, func(t *testing.T) {
			completer := mocks.NewMockCompleter(t)
			verdict, err := newGated(t, completer, false).Evaluate(context.Background(), tt.draft, tt.class)

			require.NoError(t, err)
			require.Zero(t, verdict.Score)
			require.Equal(t, 1.0, verdict.Confidence)
			require.Zero(t, verdict.Criteria[tt.criterion])
			require.NotEmpty(t, verdict.Reasons)
			require.False(t, verdict.Escalated)
		})
	}

	t.Run("should allow commas when the policy allows them", func(t *testing.T) {
		completer := mocks.NewMockCompleter(t)
		completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, forTask(domain.TaskJudgeFast)).
			Return(reply(`{"score":0.9,"confidence":0.95,"criteria":{}}`), nil).Once()

		verdict, err := newGated(t, completer, true).Evaluate(context.Background(), "You can prep on Friday, then rest.", domain.LengthLong)
		require.NoError(t, err)
		require.Equal(t, 1.0, verdict.Criteria[judge.CriterionCommas])
	})
}

func TestGatedJudge_Tiers(t *testing.T) {
	ctx := context.Background()

	t.Run("should keep a confident fast verdict", func(t *testing.T) {
		completer := mocks.NewMockCompleter(t)
		completer.EXPECT().CompleteChain(mock.Anything, []domain.ModelRef{{Provider: "openai", Model: "gpt-4o-mini"}}, forTask(domain.TaskJudgeFast)).
			Return(reply(`{"score":0.82,"confidence":0.9,"criteria":{"clarity":0.8}}`), nil).Once()

		verdict, err := newGated(t, completer, false).Evaluate(ctx, goodDraft, domain.LengthLong)
		require.NoError(t, err)
		require.InDelta(t, 0.82, verdict.Score, 1e-9)
		require.InDelta(t, 0.9, verdict.Confidence, 1e-9)
		require.False(t, verdict.Escalated)
		require.Equal(t, 0.8, verdict.Criteria["objective.clarity"])
		require.Equal(t, 1.0, verdict.Criteria[judge.CriterionVoice])
	})

	t.Run("should escalate and merge when the fast tier is unsure", func(t *testing.T) {
		completer := mocks.NewMockCompleter(t)
		completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, forTask(domain.TaskJudgeFast)).
			Return(reply(`{"score":0.5,"confidence":0.4,"criteria":{"clarity":0.5}}`), nil).Once()
		completer.EXPECT().CompleteChain(mock.Anything, []domain.ModelRef{{Provider: "openai", Model: "gpt-4o"}}, forTask(domain.TaskJudgeStrong)).
			Return(reply(`{"score":1.0,"confidence":0.8,"criteria":{"tone":0.9}}`), nil).Once()

		verdict, err := newGated(t, completer, false).Evaluate(ctx, goodDraft, domain.LengthLong)
		require.NoError(t, err)
		require.True(t, verdict.Escalated)
		require.InDelta(t, 0.4*0.5+0.6*1.0, verdict.Score, 1e-9)
		require.InDelta(t, 0.8, verdict.Confidence, 1e-9)
		require.False(t, verdict.LowConfidence)
		require.Equal(t, 0.9, verdict.Criteria["subjective.tone"])
		require.Equal(t, 0.5, verdict.Criteria["objective.clarity"])
	})

	t.Run("should flag a strong tier that stays unsure", func(t *testing.T) {
		completer := mocks.NewMockCompleter(t)
		completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, forTask(domain.TaskJudgeFast)).
			Return(reply(`{"score":0.5,"confidence":0.4,"criteria":{}}`), nil).Once()
		completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, forTask(domain.TaskJudgeStrong)).
			Return(reply(`{"score":0.6,"confidence":0.3,"criteria":{}}`), nil).Once()

		verdict, err := newGated(t, completer, false).Evaluate(ctx, goodDraft, domain.LengthLong)
		require.NoError(t, err)
		require.True(t, verdict.LowConfidence)
	})

	t.Run("should keep the fast verdict when the strong tier is unavailable", func(t *testing.T) {
		completer := mocks.NewMockCompleter(t)
		completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, forTask(domain.TaskJudgeFast)).
			Return(reply(`{"score":0.6,"confidence":0.5,"criteria":{}}`), nil).Once()
		completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, forTask(domain.TaskJudgeStrong)).
			Return(nil, &domain.CircuitOpenError{Provider: "openai"}).Once()

		verdict, err := newGated(t, completer, false).Evaluate(ctx, goodDraft, domain.LengthLong)
		require.NoError(t, err)
		require.False(t, verdict.Escalated)
		require.True(t, verdict.LowConfidence)
		require.InDelta(t, 0.6, verdict.Score, 1e-9)
		require.Contains(t, verdict.Reasons[len(verdict.Reasons)-1], "strong judge unavailable")
	})
}

func TestGatedJudge_Failures(t *testing.T) {
	ctx := context.Background()

	malformed := []string{
		`{"score":0.9}`,
		`{"score":1.4,"confidence":0.9,"criteria":{}}`,
		`{"score":0.9,"confidence":0.9,"criteria":{"x":2}}`,
		`{"score":"high","confidence":0.9,"criteria":{}}`,
		"```json\n{\"score\":0.9,\"confidence\":0.9,\"criteria\":{}}\n```",
		`not json`,
	}

	for _, content := range malformed {
		t.Run("should retry once then report not evaluable for "+content, func(t *testing.T) {
			completer := mocks.NewMockCompleter(t)
			completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, forTask(domain.TaskJudgeFast)).
				Return(reply(content), nil).Times(2)

			verdict, err := newGated(t, completer, false).Evaluate(ctx, goodDraft, domain.LengthLong)
			require.Nil(t, verdict)
			require.ErrorIs(t, err, domain.ErrJudgeParseFailure)

			var parseErr *domain.JudgeParseError
			require.ErrorAs(t, err, &parseErr)
			require.Equal(t, "fast", parseErr.Judge)
			require.Equal(t, 2, parseErr.Attempts)
		})
	}

	t.Run("should surface fast tier provider failures", func(t *testing.T) {
		completer := mocks.NewMockCompleter(t)
		completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &domain.ProviderError{Provider: "openai", Err: errors.New("quota")}).Once()

		_, err := newGated(t, completer, false).Evaluate(ctx, goodDraft, domain.LengthLong)
		require.ErrorIs(t, err, domain.ErrProviderFailure)
		require.NotErrorIs(t, err, domain.ErrJudgeParseFailure)
	})

	t.Run("should reject an empty fast chain", func(t *testing.T) {
		cfg := testConfig()
		cfg.FastModels = nil
		_, err := judge.NewGatedJudge(mocks.NewMockCompleter(t), testRules(false), cfg)
		require.Error(t, err)
	})
}

func TestGatedJudge_ClassThresholds(t *testing.T) {
	ctx := context.Background()
	config := testConfig()
	config.EscalateBelowByClass = map[string]float64{string(domain.LengthShort): 0.9}
	config.StrongMinConfidenceByClass = map[string]float64{string(domain.LengthShort): 0.85}

	newJudge := func(t *testing.T, completer domain.Completer) *judge.GatedJudge {
		j, err := judge.NewGatedJudge(completer, testRules(false), config)
		require.NoError(t, err)
		return j
	}

	t.Run("should keep the default threshold for classes without an override", func(t *testing.T) {
		completer := mocks.NewMockCompleter(t)
		completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, forTask(domain.TaskJudgeFast)).
			Return(reply(`{"score":0.8,"confidence":0.8,"criteria":{}}`), nil).Once()

		verdict, err := newJudge(t, completer).Evaluate(ctx, goodDraft, domain.LengthLong)
		require.NoError(t, err)
		require.False(t, verdict.Escalated)
	})

	t.Run("should escalate and flag with the class override", func(t *testing.T) {
		completer := mocks.NewMockCompleter(t)
		completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, forTask(domain.TaskJudgeFast)).
			Return(reply(`{"score":0.8,"confidence":0.8,"criteria":{}}`), nil).Once()
		completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, forTask(domain.TaskJudgeStrong)).
			Return(reply(`{"score":0.8,"confidence":0.8,"criteria":{}}`), nil).Once()

		verdict, err := newJudge(t, completer).Evaluate(ctx, goodDraft, domain.LengthShort)
		require.NoError(t, err)
		require.True(t, verdict.Escalated)
		require.True(t, verdict.LowConfidence)
	})
}
