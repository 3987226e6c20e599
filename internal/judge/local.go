package judge

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/davidbz/quill/internal/corpus"
	"github.com/davidbz/quill/internal/domain"
)

// Objective criterion names reported in every verdict.
const (
	CriterionLength    = "objective.length"
	CriterionBanned    = "objective.banned_terms"
	CriterionCommas    = "objective.commas"
	CriterionStructure = "objective.structure"
	CriterionVoice     = "objective.voice"
)

// localResult is the outcome of the rule checks that need no model.
type localResult struct {
	criteria map[string]float64
	reasons  []string
	hard     bool
}

func checkLocal(rules corpus.Rules, draft string, class domain.LengthClass) localResult {
	res := localResult{criteria: make(map[string]float64, 5)}

	fail := func(criterion, reason string) {
		res.criteria[criterion] = 0
		res.reasons = append(res.reasons, reason)
		res.hard = true
	}

	res.criteria[CriterionLength] = 1
	if window, ok := rules.Window(class); ok {
		if n := charCount(draft); !window.Contains(n) {
			fail(CriterionLength, fmt.Sprintf("length %d outside %d-%d for %s", n, window.Min, window.Max, class))
		}
	}

	res.criteria[CriterionBanned] = 1
	if banned := rules.BannedTermsIn(draft); len(banned) > 0 {
		fail(CriterionBanned, "banned terms: "+strings.Join(banned, ", "))
	}

	res.criteria[CriterionCommas] = 1
	if !rules.AllowCommas && strings.Contains(draft, ",") {
		fail(CriterionCommas, "commas are not allowed")
	}

	res.criteria[CriterionStructure] = 1
	if strings.ContainsAny(draft, "\n\r") {
		fail(CriterionStructure, "line breaks are not allowed")
	}
	if strings.Contains(draft, "#") {
		fail(CriterionStructure, "hashtags are not allowed")
	}

	res.criteria[CriterionVoice] = 0
	if rules.HasVoiceMarker(draft) {
		res.criteria[CriterionVoice] = 1
	}

	return res
}

func charCount(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
