package pipeline

import (
	"fmt"
	"strings"

	"github.com/davidbz/quill/internal/corpus"
	"github.com/davidbz/quill/internal/domain"
)

const answerShape = `Answer with one JSON object and nothing else: {"text": "<the copy>"}`

func generateSystemPrompt(contract string, rules corpus.Rules, window corpus.Window, examples []string) string {
	var b strings.Builder
	b.WriteString("You write one piece of short social copy in the house voice.\n\n")
	b.WriteString(contract)
	b.WriteString("\n\nRules:\n")
	fmt.Fprintf(&b, "- Between %d and %d characters.\n", window.Min, window.Max)
	b.WriteString("- Speak to the reader directly as you.\n")
	b.WriteString("- No hashtags and no line breaks.\n")
	if !rules.AllowCommas {
		b.WriteString("- Do not use commas.\n")
	}

	if len(examples) > 0 {
		b.WriteString("\nApproved examples of the voice:\n")
		for _, ex := range examples {
			fmt.Fprintf(&b, "- %s\n", ex)
		}
	}

	b.WriteString("\n")
	b.WriteString(answerShape)
	return b.String()
}

func generateUserPrompt(topic domain.Topic) string {
	prompt := "Topic:\n" + strings.TrimSpace(topic.AbstractText)
	if topic.SourceReference != "" {
		prompt += "\nSource: " + topic.SourceReference
	}
	return prompt
}

func deriveSystemPrompt(contract string, rules corpus.Rules) string {
	var b strings.Builder
	b.WriteString("You shorten approved social copy without changing what it says.\n\n")
	b.WriteString(contract)
	b.WriteString("\n\nKeep the same core claim and angle. Add no new claims. Keep speaking to the reader as you.")
	b.WriteString(" No hashtags and no line breaks.")
	if !rules.AllowCommas {
		b.WriteString(" Do not use commas.")
	}
	b.WriteString("\n")
	b.WriteString(answerShape)
	return b.String()
}

func deriveUserPrompt(long string, class domain.LengthClass, window corpus.Window) string {
	return fmt.Sprintf("Rewrite this approved text as a %s version of %d to %d characters:\n%s",
		class, window.Min, window.Max, long)
}
