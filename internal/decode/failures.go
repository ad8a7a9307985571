package decode

import "github.com/healthbridge/healthbridge/internal/model"

// Aggregator accumulates per-item failures for partial-success batches. It
// performs no retries; retry policy belongs to the write transport.
type Aggregator struct {
	failures []model.Failure
}

func (a *Aggregator) Add(f model.Failure) {
	a.failures = append(a.failures, f)
}

func (a *Aggregator) AddAll(fs []model.Failure) {
	a.failures = append(a.failures, fs...)
}

// Failures returns the accumulated list, nil when empty so callers can treat
// "no failures" as absence.
func (a *Aggregator) Failures() []model.Failure {
	if len(a.failures) == 0 {
		return nil
	}
	return a.failures
}
