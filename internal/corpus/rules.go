package corpus

import (
	"strings"
	"unicode"

	"github.com/davidbz/quill/internal/domain"
)

// Window is an inclusive character range.
type Window struct {
	Min int
	Max int
}

// Contains reports whether n characters fit the window.
func (w Window) Contains(n int) bool {
	return n >= w.Min && n <= w.Max
}

// Rules are the objective, locally checkable writing rules.
type Rules struct {
	Windows      map[domain.LengthClass]Window
	BannedTerms  []string
	AllowCommas  bool
	VoiceMarkers []string
}

// NewRules combines the configured windows and comma policy with the banned
// terms of the style document.
func NewRules(config Config, style *Style) Rules {
	rules := Rules{
		Windows: map[domain.LengthClass]Window{
			domain.LengthLong:  {Min: config.LongMin, Max: config.LongMax},
			domain.LengthMid:   {Min: config.MidMin, Max: config.MidMax},
			domain.LengthShort: {Min: config.ShortMin, Max: config.ShortMax},
		},
		AllowCommas:  config.AllowCommas,
		VoiceMarkers: make([]string, 0, len(config.VoiceMarkers)),
	}

	for _, m := range config.VoiceMarkers {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			rules.VoiceMarkers = append(rules.VoiceMarkers, m)
		}
	}
	if style != nil {
		rules.BannedTerms = append(rules.BannedTerms, style.BannedTerms...)
	}
	return rules
}

// Window returns the length window of a class.
func (r Rules) Window(class domain.LengthClass) (Window, bool) {
	w, ok := r.Windows[class]
	return w, ok
}

// HasVoiceMarker reports whether text contains a second-person marker as a whole word.
func (r Rules) HasVoiceMarker(text string) bool {
	words := Words(text)
	for _, marker := range r.VoiceMarkers {
		for _, w := range words {
			if w == marker {
				return true
			}
		}
	}
	return false
}

// BannedTermsIn returns the banned terms present in text, matched case-insensitively
// on word boundaries.
func (r Rules) BannedTermsIn(text string) []string {
	padded := " " + strings.Join(Words(text), " ") + " "

	var found []string
	for _, term := range r.BannedTerms {
		needle := strings.Join(Words(term), " ")
		if needle == "" {
			continue
		}
		if strings.Contains(padded, " "+needle+" ") {
			found = append(found, term)
		}
	}
	return found
}

// Words lowercases text and splits it on anything that is not a letter, digit
// or apostrophe.
func Words(text string) []string {
	text = strings.ReplaceAll(strings.ToLower(text), "’", "'")
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
