package echo

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Embed returns a feature-hashed, L2-normalised bag-of-words vector. Texts
// sharing words land close together, which is enough for similarity scoring
// in offline runs.
func (p *Provider) Embed(_ context.Context, text, model string) ([]float64, error) {
	if !p.SupportsEmbeddingModel(model) {
		return nil, fmt.Errorf("embedding model %s is not supported by echo provider", model)
	}

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(tokens) == 0 {
		return nil, errors.New("text has no tokens to embed")
	}

	vector := make([]float64, p.dimension)
	for _, token := range tokens {
		h := fnv.New64a()
		_, _ = h.Write([]byte(token))
		sum := h.Sum64()

		sign := 1.0
		if sum&1 == 1 {
			sign = -1.0
		}
		vector[(sum>>1)%uint64(p.dimension)] += sign
	}

	var norm float64
	for _, v := range vector {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		vector[0] = 1
		return vector, nil
	}
	for i := range vector {
		vector[i] /= norm
	}

	return vector, nil
}
