// Package fingerprint derives deterministic cache keys for embeddings.
//
// A fingerprint covers the normalized text, the embedding model identifier and
// the normalizer version, so vectors produced by different models or by a
// different normalization never share a key.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultNormalizerVersion identifies the normalization rules implemented by Normalize.
// Bump it whenever Normalize changes so old cache entries stop matching.
const DefaultNormalizerVersion = "v1"

const keySeparator = "\x00"

//nolint:gochecknoglobals // compiled once, read-only
var (
	reURL    = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	reHandle = regexp.MustCompile(`(^|[^\w])@\w+`)
	reSpace  = regexp.MustCompile(`\s+`)
)

// Normalize folds cosmetic variation out of text: URLs, @handles and emoji are
// removed, accents are folded to ASCII, case is lowered and whitespace
// collapsed. Other scripts are kept as written.
func Normalize(text string) string {
	s := reURL.ReplaceAllString(text, " ")
	s = reHandle.ReplaceAllString(s, "$1 ")
	s = asciiFold(s)
	s = strings.ToLower(s)
	s = reSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Compute returns the fingerprint for text under the given model and normalizer version.
func Compute(text, modelID, normalizerVersion string) string {
	h := sha256.New()
	h.Write([]byte(normalizerVersion))
	h.Write([]byte(keySeparator))
	h.Write([]byte(modelID))
	h.Write([]byte(keySeparator))
	h.Write([]byte(Normalize(text)))
	return hex.EncodeToString(h.Sum(nil))
}

// Engine binds a normalizer version so callers only pass text and model.
type Engine struct {
	version string
}

// NewEngine creates a fingerprint engine. An empty version selects DefaultNormalizerVersion.
func NewEngine(version string) *Engine {
	if version == "" {
		version = DefaultNormalizerVersion
	}
	return &Engine{version: version}
}

// Fingerprint returns the key for text under modelID.
func (e *Engine) Fingerprint(text, modelID string) string {
	return Compute(text, modelID, e.version)
}

// Version returns the normalizer version in use.
func (e *Engine) Version() string {
	return e.version
}

// asciiFold removes emoji and other decoration, then strips combining marks
// that sit on Latin letters so accented text folds to ASCII. Marks on other
// scripts are kept and recomposed, so distinct words there stay distinct.
func asciiFold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(isDecoration)))
	decomposed, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	var b strings.Builder
	b.Grow(len(decomposed))
	var base rune
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			if base <= unicode.MaxASCII || unicode.Is(unicode.Latin, base) {
				continue
			}
			b.WriteRune(r)
			continue
		}
		base = r
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

// isDecoration reports runes that carry no textual content: pictographic
// symbols, emoji modifiers and variation selectors, enclosing marks,
// surrogates, private use, format characters such as zero-width joiners, and
// non-whitespace controls. Math and currency symbols are kept.
func isDecoration(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r <= unicode.MaxASCII:
		return unicode.IsControl(r)
	case unicode.In(r, unicode.So, unicode.Sk, unicode.Me, unicode.Cs, unicode.Co, unicode.Cf, unicode.Variation_Selector):
		return true
	}
	return unicode.IsControl(r)
}
