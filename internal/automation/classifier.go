package automation

import (
	"time"
)

// Error codes attached to AutomationError.
const (
	CodeExtractionFailed        = "EXTRACTION_FAILED"
	CodeModuleFailed            = "MODULE_PROCESSING_FAILED"
	CodeResultPersistenceFailed = "RESULT_PERSISTENCE_FAILED"
)

// AutomationError records one failure within a run.
type AutomationError struct {
	Module      Stage     `json:"module"`
	Code        string    `json:"code"`
	Message     string    `json:"message"`
	Recoverable bool      `json:"recoverable"`
	Timestamp   time.Time `json:"timestamp"`
}

// Classifier converts a stage failure into an AutomationError.
type Classifier interface {
	Classify(stage Stage, err error) AutomationError
}

// Policy decides recoverability per stage. Stages absent from Recoverable
// use Default.
type Policy struct {
	Recoverable map[Stage]bool
	Default     bool
}

// DefaultPolicy treats extraction and finalization failures as fatal and
// every module failure as recoverable.
func DefaultPolicy() Policy {
	return Policy{
		Recoverable: map[Stage]bool{
			StageExtraction:   false,
			StageCompliance:   true,
			StageDeals:        true,
			StageTrading:      true,
			StageESG:          true,
			StageFinalization: false,
		},
		Default: true,
	}
}

type PolicyClassifier struct {
	policy Policy
	now    func() time.Time
}

func NewPolicyClassifier(policy Policy) *PolicyClassifier {
	return &PolicyClassifier{policy: policy, now: time.Now}
}

func (c *PolicyClassifier) Classify(stage Stage, err error) AutomationError {
	recoverable := c.policy.Default
	if v, ok := c.policy.Recoverable[stage]; ok {
		recoverable = v
	}

	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}

	return AutomationError{
		Module:      stage,
		Code:        codeFor(stage),
		Message:     msg,
		Recoverable: recoverable,
		Timestamp:   c.now().UTC(),
	}
}

func codeFor(stage Stage) string {
	switch stage {
	case StageExtraction:
		return CodeExtractionFailed
	case StageFinalization:
		return CodeResultPersistenceFailed
	default:
		return CodeModuleFailed
	}
}

// ComputeStatus derives a run outcome from its errors.
func ComputeStatus(errs []AutomationError) Status {
	for _, e := range errs {
		if !e.Recoverable {
			return StatusFailed
		}
	}
	if len(errs) > 0 {
		return StatusPartial
	}
	return StatusCompleted
}
