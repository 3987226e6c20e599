package domain

import "time"

// LengthClass is the target length bucket of a candidate.
type LengthClass string

const (
	LengthShort LengthClass = "short"
	LengthMid   LengthClass = "mid"
	LengthLong  LengthClass = "long"
)

// Origin records how a candidate was produced.
type Origin string

const (
	OriginGenerated Origin = "generated"
	OriginRefined   Origin = "refined"
	OriginDerived   Origin = "derived"
)

// SourceTier records which cache tier produced an entry. Informational only.
type SourceTier string

const (
	TierLocal      SourceTier = "local"
	TierPersistent SourceTier = "persistent"
	TierIndex      SourceTier = "index"
	TierGenerated  SourceTier = "generated"
)

// Stage is a state of the generation pipeline.
type Stage string

const (
	StageGenerateLong   Stage = "GENERATE_LONG"
	StageEvalLong       Stage = "EVAL_LONG"
	StageDeriveVariants Stage = "DERIVE_VARIANTS"
	StageEvalVariants   Stage = "EVAL_VARIANTS"
	StageDone           Stage = "DONE"
	StageAborted        Stage = "ABORTED"
)

// Terminal reports whether no further transition leaves the stage.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageAborted
}

// ReasonCode explains why a run was aborted or a stage abandoned.
type ReasonCode string

const (
	ReasonLongBelowThreshold  ReasonCode = "long_below_threshold"
	ReasonProviderUnavailable ReasonCode = "provider_unavailable"
	ReasonJudgeNotEvaluable   ReasonCode = "judge_not_evaluable"
	ReasonGenerationMalformed ReasonCode = "generation_malformed"
	ReasonCancelled           ReasonCode = "cancelled"
)

// CacheEntry is one embedding stored under its fingerprint.
type CacheEntry struct {
	Fingerprint string     `json:"fingerprint"`
	Model       string     `json:"model"`
	Vector      []float64  `json:"vector"`
	Dimension   int        `json:"dimension"`
	SourceTier  SourceTier `json:"source_tier"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the entry is past its expiry at now.
func (e *CacheEntry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !now.Before(*e.ExpiresAt)
}

// CircuitState is the breaker state of one provider.
type CircuitState struct {
	FailureCount int        `json:"failure_count"`
	OpenUntil    *time.Time `json:"open_until,omitempty"`
}

// Verdict is the output of the confidence-gated judge.
type Verdict struct {
	Score         float64            `json:"score"`
	Confidence    float64            `json:"confidence"`
	Criteria      map[string]float64 `json:"criteria_breakdown"`
	Escalated     bool               `json:"escalated"`
	LowConfidence bool               `json:"low_confidence,omitempty"`
	Reasons       []string           `json:"reasons,omitempty"`
}

// ContractScores are the diagnostic sub-scores of a contract verdict, each in [1,5].
type ContractScores struct {
	Tone    int `json:"tone"`
	Diction int `json:"diction"`
	Rhythm  int `json:"rhythm"`
}

// ContractVerdict is the output of the contract-compliance judge.
type ContractVerdict struct {
	Passed    bool           `json:"passed"`
	Reasoning string         `json:"reasoning"`
	Pillar    string         `json:"pillar,omitempty"`
	Scores    ContractScores `json:"scores"`
}

// GenerationCandidate is one draft produced during a run.
type GenerationCandidate struct {
	Text            string           `json:"text"`
	LengthClass     LengthClass      `json:"length_class"`
	Origin          Origin           `json:"origin"`
	DerivedFrom     LengthClass      `json:"derived_from,omitempty"`
	Similarity      *float64         `json:"similarity_score"`
	VoiceMarker     bool             `json:"voice_marker"`
	Verdict         *Verdict         `json:"verdict,omitempty"`
	ContractVerdict *ContractVerdict `json:"contract_verdict,omitempty"`
}

// PipelineResult is what a run returns to the delivery channel.
type PipelineResult struct {
	RunID          string                               `json:"run_id"`
	TopicID        string                               `json:"topic_id,omitempty"`
	Stage          Stage                                `json:"stage"`
	Candidates     map[LengthClass]*GenerationCandidate `json:"candidates"`
	Rejected       map[LengthClass]*GenerationCandidate `json:"rejected,omitempty"`
	StageLatencies map[Stage]time.Duration              `json:"stage_latencies"`
	AbortReason    ReasonCode                           `json:"reason_if_aborted,omitempty"`
	AbortDetail    string                               `json:"abort_detail,omitempty"`
	EarlyStopped   bool                                 `json:"early_stopped"`
	Deliverable    bool                                 `json:"deliverable"`
	Diagnostics    []string                             `json:"diagnostics,omitempty"`
	Usage          Usage                                `json:"usage"`
}

// Aborted reports whether the run ended without an acceptable candidate.
func (r *PipelineResult) Aborted() bool {
	return r.Stage == StageAborted
}
