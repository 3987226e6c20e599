// Package llmjson runs completions whose answer must be a single strict JSON
// document, with one bounded corrective retry.
package llmjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/observability"
)

// MaxAttempts bounds the calls made for one structured answer.
const MaxAttempts = 2

const strictInstruction = "Your previous answer could not be parsed: %v. " +
	"Answer again with exactly one JSON object matching the requested schema. " +
	"No prose, no markdown fences, no trailing text."

// ParseError reports a provider that kept answering with malformed JSON.
type ParseError struct {
	Attempts int
	Last     string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed JSON after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == domain.ErrMalformedResponse }

// Result is a decoded answer plus the response that carried it.
type Result[T any] struct {
	Value    T
	Response *domain.CompletionResponse
	Attempts int
}

// Call sends req through the chain and decodes the answer into T. validate
// runs after decoding; a decode or validation failure triggers one retry with
// the bad answer and a strict JSON-only instruction appended. Provider
// failures are returned as-is without a retry.
func Call[T any](
	ctx context.Context,
	completer domain.Completer,
	chain []domain.ModelRef,
	req *domain.CompletionRequest,
	validate func(*T) error,
) (*Result[T], error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	attempt := *req
	attempt.JSONMode = true
	attempt.Messages = append([]domain.Message(nil), req.Messages...)

	var lastErr error
	var lastContent string

	for i := 1; i <= MaxAttempts; i++ {
		resp, err := completer.CompleteChain(ctx, chain, &attempt)
		if err != nil {
			return nil, err
		}

		var value T
		err = Decode([]byte(resp.Content), &value)
		if err == nil && validate != nil {
			err = validate(&value)
		}
		if err == nil {
			return &Result[T]{Value: value, Response: resp, Attempts: i}, nil
		}

		logger.Warn("structured answer rejected",
			observability.Int("attempt", i),
			observability.String("provider", resp.Provider),
			observability.Error(err))

		lastErr = err
		lastContent = resp.Content
		attempt.Messages = append(attempt.Messages,
			domain.Message{Role: "assistant", Content: resp.Content},
			domain.Message{Role: "user", Content: fmt.Sprintf(strictInstruction, err)},
		)
	}

	return nil, &ParseError{Attempts: MaxAttempts, Last: lastContent, Err: lastErr}
}

// Decode parses exactly one JSON value into out. Unknown fields and trailing
// data are rejected.
func Decode(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}
