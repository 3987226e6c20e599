package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/quill/internal/domain"
)

func TestParseModelRef(t *testing.T) {
	tests := []struct {
		input    string
		expected domain.ModelRef
		wantErr  bool
	}{
		{input: "openai/gpt-4o", expected: domain.ModelRef{Provider: "openai", Model: "gpt-4o"}},
		{input: " gemini / gemini-2.0-flash ", expected: domain.ModelRef{Provider: "gemini", Model: "gemini-2.0-flash"}},
		{input: "gpt-4o-mini", expected: domain.ModelRef{Model: "gpt-4o-mini"}},
		{input: "", wantErr: true},
		{input: "openai/", wantErr: true},
		{input: "/gpt-4o", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := domain.ParseModelRef(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, ref)
		})
	}
}

func TestParseModelRefs(t *testing.T) {
	refs, err := domain.ParseModelRefs([]string{"openai/gpt-4o", "", "echo-1"})
	require.NoError(t, err)
	require.Equal(t, []domain.ModelRef{
		{Provider: "openai", Model: "gpt-4o"},
		{Model: "echo-1"},
	}, refs)
	require.Equal(t, "openai/gpt-4o", refs[0].String())
	require.Equal(t, "echo-1", refs[1].String())
}

func TestCosine(t *testing.T) {
	require.InDelta(t, 1.0, domain.Cosine([]float64{1, 2}, []float64{2, 4}), 1e-12)
	require.InDelta(t, 0.0, domain.Cosine([]float64{1, 0}, []float64{0, 1}), 1e-12)
	require.Zero(t, domain.Cosine([]float64{1}, []float64{1, 2}))
	require.Zero(t, domain.Cosine([]float64{0, 0}, []float64{1, 2}))
}

func TestEncodeDecodeVector(t *testing.T) {
	v := []float64{0.1, -3.5, 1e-300}
	got, err := domain.DecodeVector(domain.EncodeVector(v))
	require.NoError(t, err)
	require.Equal(t, v, got)

	_, err = domain.DecodeVector([]byte{1, 2, 3})
	require.Error(t, err)
}
