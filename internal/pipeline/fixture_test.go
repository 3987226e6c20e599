package pipeline_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/quill/internal/corpus"
	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/judge"
	"github.com/davidbz/quill/internal/mocks"
	"github.com/davidbz/quill/internal/pipeline"
)

const topicText = "Run your support reply template before Monday's rush"

// sized repeats the words of base until the text has exactly n characters.
func sized(base string, n int) string {
	var b strings.Builder
	for b.Len() < n {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(base)
	}
	out := b.String()[:n]
	if strings.HasSuffix(out, " ") {
		out = out[:n-1] + "x"
	}
	return out
}

var (
	longText  = sized("You can run your support reply template before the Monday rush", 260)
	midText   = sized("Run your reply template before Monday", 170)
	shortText = sized("Prep your replies now", 90)
)

// scriptedCompleter answers by task and length class and counts calls per task.
type scriptedCompleter struct {
	mu    sync.Mutex
	calls map[string]int

	texts        map[domain.LengthClass]string
	scores       map[domain.LengthClass]float64
	contractFail map[domain.LengthClass]string
	raw          map[string]string
	errs         map[string]error
	onCall       func(task string)
}

func newScriptedCompleter() *scriptedCompleter {
	return &scriptedCompleter{
		calls: make(map[string]int),
		texts: map[domain.LengthClass]string{
			domain.LengthLong:  longText,
			domain.LengthMid:   midText,
			domain.LengthShort: shortText,
		},
		scores:       make(map[domain.LengthClass]float64),
		contractFail: make(map[domain.LengthClass]string),
		raw:          make(map[string]string),
		errs:         make(map[string]error),
	}
}

func (s *scriptedCompleter) count(task string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[task]
}

func (s *scriptedCompleter) CompleteChain(
	_ context.Context,
	chain []domain.ModelRef,
	req *domain.CompletionRequest,
) (*domain.CompletionResponse, error) {
	task := req.Metadata[domain.MetadataTask]
	class := domain.LengthClass(req.Metadata[domain.MetadataLengthClass])

	s.mu.Lock()
	s.calls[task]++
	hook := s.onCall
	s.mu.Unlock()

	if hook != nil {
		hook(task)
	}

	s.mu.Lock()
	err := s.errs[task]
	raw, hasRaw := s.raw[task]
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	content := raw
	if !hasRaw {
		content = s.answer(task, class, req)
	}
	return &domain.CompletionResponse{
		Provider: chain[0].Provider,
		Model:    chain[0].Model,
		Content:  content,
	}, nil
}

func (s *scriptedCompleter) answer(task string, class domain.LengthClass, req *domain.CompletionRequest) string {
	var payload any
	switch task {
	case domain.TaskGenerate, domain.TaskDerive:
		payload = map[string]string{"text": s.texts[class]}
	case domain.TaskJudgeFast, domain.TaskJudgeStrong:
		score, ok := s.scores[class]
		if !ok {
			score = 0.8
		}
		payload = map[string]any{"score": score, "confidence": 0.9, "criteria": map[string]float64{"clarity": score}}
	case domain.TaskContract:
		variants := req.Metadata[domain.MetadataVariants]
		if variants == "" {
			payload = s.verdict(domain.LengthLong)
			break
		}
		keyed := map[string]any{}
		for _, c := range strings.Split(variants, ",") {
			keyed[c] = s.verdict(domain.LengthClass(c))
		}
		payload = keyed
	}

	raw, _ := json.Marshal(payload)
	return string(raw)
}

func (s *scriptedCompleter) verdict(class domain.LengthClass) map[string]any {
	v := map[string]any{
		"passed":    true,
		"reasoning": "fits the contract",
		"scores":    map[string]int{"tone": 4, "diction": 4, "rhythm": 4},
	}
	if pillar := s.contractFail[class]; pillar != "" {
		v["passed"] = false
		v["pillar"] = pillar
		v["reasoning"] = "violates " + pillar
		v["scores"] = map[string]int{"tone": 3, "diction": 1, "rhythm": 3}
	}
	return v
}

// fakeReferences scores similarity by exact text.
type fakeReferences struct {
	mu         sync.Mutex
	similarity map[string]float64
	calls      int
}

func (f *fakeReferences) Similarity(_ context.Context, text string) (*float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	v, ok := f.similarity[text]
	if !ok {
		v = 0.5
	}
	return &v, nil
}

func (f *fakeReferences) ExamplesFor(context.Context, string, int) []string {
	return []string{"You already know the Monday rush."}
}

type fixture struct {
	completer  *scriptedCompleter
	references *fakeReferences
	config     pipeline.Config
	rules      corpus.Config
}

func newFixture() *fixture {
	return &fixture{
		completer:  newScriptedCompleter(),
		references: &fakeReferences{similarity: map[string]float64{}},
		config: pipeline.Config{
			GenerationModels:    []string{"openai/gpt-4o"},
			DeriveModels:        []string{"openai/gpt-4o-mini"},
			MinScoreLong:        0.6,
			MinScoreMid:         0.6,
			MinScoreShort:       0.6,
			SimilarityThreshold: 0.75,
			EarlyStopSlack:      0.1,
			DeriveParallel:      true,
			ReferenceExamples:   3,
		},
		rules: corpus.Config{
			AllowCommas:  false,
			VoiceMarkers: []string{"you", "your"},
			LongMin:      240, LongMax: 280,
			MidMin: 140, MidMax: 200,
			ShortMin: 60, ShortMax: 120,
		},
	}
}

func (f *fixture) machine(t *testing.T) *pipeline.Machine {
	style := &corpus.Style{
		Contract: "Write like a peer who has shipped the thing.",
		Pillars: []corpus.Pillar{
			{Name: "plain-language", Description: "No jargon."},
			{Name: "banned-words", Description: "Never use listed terms."},
		},
		BannedTerms: []string{"synergy"},
	}
	rules := corpus.NewRules(f.rules, style)

	judgeConfig := &judge.Config{
		FastModels:          []string{"openai/gpt-4o-mini"},
		StrongModels:        []string{"openai/gpt-4o"},
		ContractModels:      []string{"openai/gpt-4o"},
		EscalateBelow:       0.7,
		StrongMinConfidence: 0.5,
		StrongWeight:        0.6,
	}
	gated, err := judge.NewGatedJudge(f.completer, rules, judgeConfig)
	require.NoError(t, err)
	contract, err := judge.NewContractJudge(f.completer, style.PillarNames(), judgeConfig)
	require.NoError(t, err)

	events := mocks.NewMockEventPublisher(t)
	events.EXPECT().Publish(mock.Anything, mock.Anything, mock.Anything).Maybe()

	m, err := pipeline.NewMachine(f.completer, gated, contract, f.references, rules, style, events, &f.config)
	require.NoError(t, err)
	return m
}

func stagesOf(result *domain.PipelineResult) []domain.Stage {
	stages := make([]domain.Stage, 0, len(result.StageLatencies))
	for _, s := range []domain.Stage{
		domain.StageGenerateLong, domain.StageEvalLong, domain.StageDeriveVariants, domain.StageEvalVariants,
	} {
		if _, ok := result.StageLatencies[s]; ok {
			stages = append(stages, s)
		}
	}
	return stages
}
