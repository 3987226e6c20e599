package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCacheMiss indicates no usable entry was found in a cache tier. Not a failure.
	ErrCacheMiss = errors.New("cache miss")

	// ErrNoVector indicates every tier missed and generation was not allowed.
	ErrNoVector = errors.New("no vector available")

	// ErrDimensionMismatch indicates a vector whose length differs from the configured dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrProviderFailure covers network, auth, quota and timeout errors from a model provider.
	ErrProviderFailure = errors.New("provider failure")

	// ErrCircuitOpen indicates the provider's breaker is open and no call was made.
	ErrCircuitOpen = errors.New("circuit open")

	// ErrMalformedResponse indicates a provider answer that does not match the expected shape.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrJudgeParseFailure indicates a judge kept answering with malformed output.
	ErrJudgeParseFailure = errors.New("judge response not evaluable")

	// ErrEmptyTopic indicates a run was requested without topic text.
	ErrEmptyTopic = errors.New("topic abstract cannot be empty")
)

// ProviderError wraps a failure attributed to one provider.
type ProviderError struct {
	Provider string
	Model    string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s (model %s): %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Is makes every ProviderError match ErrProviderFailure.
func (e *ProviderError) Is(target error) bool { return target == ErrProviderFailure }

// CircuitOpenError is returned without any network attempt while a breaker is open.
type CircuitOpenError struct {
	Provider  string
	OpenUntil time.Time
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit open for provider %s until %s", e.Provider, e.OpenUntil.Format(time.RFC3339))
}

// Is matches both ErrCircuitOpen and ErrProviderFailure: an open breaker is a
// provider failure for pipeline purposes.
func (e *CircuitOpenError) Is(target error) bool {
	return target == ErrCircuitOpen || target == ErrProviderFailure
}

// DimensionMismatchError reports a vector of unexpected length.
type DimensionMismatchError struct {
	Model    string
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch for model %s: expected %d, got %d", e.Model, e.Expected, e.Got)
}

func (e *DimensionMismatchError) Is(target error) bool { return target == ErrDimensionMismatch }

// JudgeParseError reports a judge whose answers never matched the schema.
type JudgeParseError struct {
	Judge    string
	Attempts int
	Err      error
}

func (e *JudgeParseError) Error() string {
	return fmt.Sprintf("judge %s not evaluable after %d attempts: %v", e.Judge, e.Attempts, e.Err)
}

func (e *JudgeParseError) Unwrap() error { return e.Err }

func (e *JudgeParseError) Is(target error) bool { return target == ErrJudgeParseFailure }

// StageError carries enough context for a caller to decide whether to retry a run.
type StageError struct {
	Stage    Stage
	Provider string
	Reason   ReasonCode
	Err      error
}

func (e *StageError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("stage %s failed (%s, provider %s): %v", e.Stage, e.Reason, e.Provider, e.Err)
	}
	return fmt.Sprintf("stage %s failed (%s): %v", e.Stage, e.Reason, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
