package pipeline

import (
	"time"

	"github.com/davidbz/quill/internal/domain"
)

// run is the private state of one RunTopic invocation.
type run struct {
	topic  domain.Topic
	result *domain.PipelineResult
	ledger *domain.UsageLedger

	long      *domain.GenerationCandidate
	remaining []domain.LengthClass
	derived   []*domain.GenerationCandidate
	parallel  bool

	// Keyed by exact draft text.
	verdicts  map[string]*domain.Verdict
	contracts map[string]*domain.ContractVerdict
}

func newRun(runID string, topic domain.Topic, parallel bool) *run {
	return &run{
		topic: topic,
		result: &domain.PipelineResult{
			RunID:          runID,
			TopicID:        topic.ID,
			Candidates:     make(map[domain.LengthClass]*domain.GenerationCandidate),
			Rejected:       make(map[domain.LengthClass]*domain.GenerationCandidate),
			StageLatencies: make(map[domain.Stage]time.Duration),
		},
		ledger:    domain.NewUsageLedger(),
		remaining: []domain.LengthClass{domain.LengthMid, domain.LengthShort},
		parallel:  parallel,
		verdicts:  make(map[string]*domain.Verdict),
		contracts: make(map[string]*domain.ContractVerdict),
	}
}

func (r *run) accept(c *domain.GenerationCandidate) {
	r.result.Candidates[c.LengthClass] = c
	delete(r.result.Rejected, c.LengthClass)
}

func (r *run) reject(c *domain.GenerationCandidate, reason string) {
	r.result.Rejected[c.LengthClass] = c
	delete(r.result.Candidates, c.LengthClass)
	r.diagnose(reason)
}

func (r *run) abort(reason domain.ReasonCode, detail string) {
	r.result.AbortReason = reason
	r.result.AbortDetail = detail
}

func (r *run) diagnose(msg string) {
	r.result.Diagnostics = append(r.result.Diagnostics, msg)
}

// nextBatch takes the variants to derive in this pass.
func (r *run) nextBatch() []domain.LengthClass {
	n := len(r.remaining)
	if !r.parallel && n > 1 {
		n = 1
	}
	batch := r.remaining[:n:n]
	r.remaining = r.remaining[n:]
	return batch
}
