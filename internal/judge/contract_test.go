package judge_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/judge"
	"github.com/davidbz/quill/internal/mocks"
)

const contract = "Write like a peer.\n\nPillars:\n- plain-language: no buzzwords\n- banned-words: never use listed terms\n"

func newContract(t *testing.T, completer domain.Completer) *judge.ContractJudge {
	j, err := judge.NewContractJudge(completer, []string{"plain-language", "banned-words"}, testConfig())
	require.NoError(t, err)
	return j
}

func TestContractJudge_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("should return a passing verdict", func(t *testing.T) {
		completer := mocks.NewMockCompleter(t)
		completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, forTask(domain.TaskContract)).
			Return(reply(`{"passed":true,"reasoning":"fits","scores":{"tone":4,"diction":5,"rhythm":3}}`), nil).Once()

		verdict, err := newContract(t, completer).Check(ctx, goodDraft, contract)
		require.NoError(t, err)
		require.True(t, verdict.Passed)
		require.Equal(t, domain.ContractScores{Tone: 4, Diction: 5, Rhythm: 3}, verdict.Scores)
		require.Empty(t, verdict.Pillar)
	})

	t.Run("should cite the canonical pillar on failure", func(t *testing.T) {
		completer := mocks.NewMockCompleter(t)
		completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, mock.Anything).
			Return(reply(`{"passed":false,"reasoning":"uses a banned word","pillar":"Banned-Words","scores":{"tone":3,"diction":1,"rhythm":3}}`), nil).Once()

		verdict, err := newContract(t, completer).Check(ctx, goodDraft, contract)
		require.NoError(t, err)
		require.False(t, verdict.Passed)
		require.Equal(t, "banned-words", verdict.Pillar)
	})

	malformed := map[string]string{
		"missing pillar on failure": `{"passed":false,"reasoning":"bad","scores":{"tone":3,"diction":1,"rhythm":3}}`,
		"unknown pillar":            `{"passed":false,"reasoning":"bad","pillar":"vibes","scores":{"tone":3,"diction":1,"rhythm":3}}`,
		"fractional score":          `{"passed":true,"reasoning":"ok","scores":{"tone":4.5,"diction":4,"rhythm":4}}`,
		"score above range":         `{"passed":true,"reasoning":"ok","scores":{"tone":6,"diction":4,"rhythm":4}}`,
		"score below range":         `{"passed":true,"reasoning":"ok","scores":{"tone":0,"diction":4,"rhythm":4}}`,
		"missing score":             `{"passed":true,"reasoning":"ok","scores":{"tone":4,"diction":4}}`,
		"missing passed":            `{"reasoning":"ok","scores":{"tone":4,"diction":4,"rhythm":4}}`,
		"string passed":             `{"passed":"yes","reasoning":"ok","scores":{"tone":4,"diction":4,"rhythm":4}}`,
		"empty reasoning":           `{"passed":true,"reasoning":" ","scores":{"tone":4,"diction":4,"rhythm":4}}`,
		"unknown field":             `{"passed":true,"reasoning":"ok","scores":{"tone":4,"diction":4,"rhythm":4},"mood":"good"}`,
		"truncated":                 `{"passed":true,"reasoning":"ok","scores":{"tone":4`,
	}
	for name, content := range malformed {
		t.Run("should retry exactly once on "+name, func(t *testing.T) {
			completer := mocks.NewMockCompleter(t)
			completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, mock.Anything).
				Return(reply(content), nil).Times(2)

			verdict, err := newContract(t, completer).Check(ctx, goodDraft, contract)
			require.Nil(t, verdict)
			require.ErrorIs(t, err, domain.ErrJudgeParseFailure)
		})
	}

	t.Run("should recover when the retry is well formed", func(t *testing.T) {
		completer := mocks.NewMockCompleter(t)
		completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, mock.Anything).
			Return(reply(`Here you go`), nil).Once()
		completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, mock.Anything).
			Return(reply(`{"passed":true,"reasoning":"ok","scores":{"tone":4,"diction":4,"rhythm":4}}`), nil).Once()

		verdict, err := newContract(t, completer).Check(ctx, goodDraft, contract)
		require.NoError(t, err)
		require.True(t, verdict.Passed)
	})
}

func TestContractJudge_CheckBatch(t *testing.T) {
	ctx := context.Background()
	drafts := map[domain.LengthClass]string{
		domain.LengthMid:   "You can prep your templates on Friday.",
		domain.LengthShort: "Prep your templates.",
	}
	batched := mock.MatchedBy(func(r *domain.CompletionRequest) bool {
		return r.Metadata[domain.MetadataVariants] == "mid,short"
	})

	t.Run("should key verdicts by length class", func(t *testing.T) {
		completer := mocks.NewMockCompleter(t)
		completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, batched).
			Return(reply(`{
				"mid":{"passed":true,"reasoning":"ok","scores":{"tone":4,"diction":4,"rhythm":4}},
				"short":{"passed":false,"reasoning":"jargon","pillar":"plain-language","scores":{"tone":2,"diction":2,"rhythm":3}}
			}`), nil).Once()

		verdicts, err := newContract(t, completer).CheckBatch(ctx, drafts, contract)
		require.NoError(t, err)
		require.Len(t, verdicts, 2)
		require.True(t, verdicts[domain.LengthMid].Passed)
		require.False(t, verdicts[domain.LengthShort].Passed)
		require.Equal(t, "plain-language", verdicts[domain.LengthShort].Pillar)
	})

	t.Run("should reject a missing class", func(t *testing.T) {
		completer := mocks.NewMockCompleter(t)
		completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, batched).
			Return(reply(`{"mid":{"passed":true,"reasoning":"ok","scores":{"tone":4,"diction":4,"rhythm":4}}}`), nil).Times(2)

		_, err := newContract(t, completer).CheckBatch(ctx, drafts, contract)
		require.ErrorIs(t, err, domain.ErrJudgeParseFailure)
	})

	t.Run("should reject an extra class", func(t *testing.T) {
		v := `{"passed":true,"reasoning":"ok","scores":{"tone":4,"diction":4,"rhythm":4}}`
		completer := mocks.NewMockCompleter(t)
		completer.EXPECT().CompleteChain(mock.Anything, mock.Anything, batched).
			Return(reply(`{"mid":`+v+`,"short":`+v+`,"long":`+v+`}`), nil).Times(2)

		_, err := newContract(t, completer).CheckBatch(ctx, drafts, contract)
		require.ErrorIs(t, err, domain.ErrJudgeParseFailure)
	})

	t.Run("should skip the call for no drafts", func(t *testing.T) {
		verdicts, err := newContract(t, mocks.NewMockCompleter(t)).CheckBatch(ctx, nil, contract)
		require.NoError(t, err)
		require.Empty(t, verdicts)
	})
}
