package judge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/davidbz/quill/internal/corpus"
	"github.com/davidbz/quill/internal/domain"
)

const fastSystemPrompt = `You grade short social copy against an objective checklist:
length fit, mechanical structure, clarity of the single claim, concrete detail, absence of filler.
Answer with one JSON object and nothing else:
{"score": <0..1>, "confidence": <0..1>, "criteria": {"<criterion>": <0..1>, ...}}
confidence is how sure you are that the score is right.`

const strongSystemPrompt = `You are a senior editor grading short social copy on subjective qualities:
tone, persuasiveness and fit with a direct second-person voice.
Answer with one JSON object and nothing else:
{"score": <0..1>, "confidence": <0..1>, "criteria": {"tone": <0..1>, "persuasiveness": <0..1>, "voice_fit": <0..1>}}`

const contractSystemPrompt = `You check copy against a style contract.
For a draft that breaks the contract set passed to false and name the violated pillar exactly as written in the contract.
Scores are integers from 1 to 5.
Answer with JSON only, no prose and no markdown.`

const verdictSchema = `{"passed": <bool>, "reasoning": "<one sentence>", "pillar": "<pillar name when passed is false>", ` +
	`"scores": {"tone": <1..5>, "diction": <1..5>, "rhythm": <1..5>}}`

func draftPrompt(draft string, class domain.LengthClass, window corpus.Window, hasWindow bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Length class: %s\n", class)
	if hasWindow {
		fmt.Fprintf(&b, "Target length: %d to %d characters (draft has %d)\n", window.Min, window.Max, charCount(draft))
	}
	fmt.Fprintf(&b, "Draft:\n%s\n", draft)
	return b.String()
}

func contractPrompt(draft, contract string) string {
	return fmt.Sprintf("Contract:\n%s\n\nDraft:\n%s\n\nReturn exactly: %s", contract, draft, verdictSchema)
}

func batchContractPrompt(drafts map[domain.LengthClass]string, contract string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Contract:\n%s\n\n", contract)

	classes := sortedClasses(drafts)
	for _, class := range classes {
		fmt.Fprintf(&b, "Draft %q:\n%s\n\n", class, drafts[class])
	}

	keys := make([]string, len(classes))
	for i, c := range classes {
		keys[i] = fmt.Sprintf("%q", c)
	}
	fmt.Fprintf(&b, "Return one JSON object keyed by exactly %s, each value shaped as: %s",
		strings.Join(keys, ", "), verdictSchema)
	return b.String()
}

func sortedClasses(drafts map[domain.LengthClass]string) []domain.LengthClass {
	classes := make([]domain.LengthClass, 0, len(drafts))
	for c := range drafts {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes
}
