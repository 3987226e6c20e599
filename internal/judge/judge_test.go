package judge_test

import (
	"github.com/stretchr/testify/mock"

	"github.com/davidbz/quill/internal/corpus"
	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/judge"
)

const goodDraft = "You can prep your reply templates on Friday and walk into Monday calm."

func testRules(allowCommas bool) corpus.Rules {
	return corpus.NewRules(corpus.Config{
		AllowCommas:  allowCommas,
		VoiceMarkers: []string{"you", "your"},
		LongMin:      10, LongMax: 200,
		MidMin: 10, MidMax: 120,
		ShortMin: 10, ShortMax: 80,
	}, &corpus.Style{BannedTerms: []string{"synergy"}})
}

func testConfig() *judge.Config {
	return &judge.Config{
		FastModels:          []string{"openai/gpt-4o-mini"},
		StrongModels:        []string{"openai/gpt-4o"},
		ContractModels:      []string{"openai/gpt-4o"},
		EscalateBelow:       0.7,
		StrongMinConfidence: 0.5,
		StrongWeight:        0.6,
	}
}

func forTask(task string) interface{} {
	return mock.MatchedBy(func(r *domain.CompletionRequest) bool {
		return r.Metadata[domain.MetadataTask] == task
	})
}

func reply(content string) *domain.CompletionResponse {
	return &domain.CompletionResponse{Provider: "openai", Model: "gpt-4o", Content: content}
}
