package build

import "time"

// Outcome classifies what happened to one layer during a run.
type Outcome string

const (
	OutcomeBuilt   Outcome = "built"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// LayerResult captures the outcome of a single layer build.
type LayerResult struct {
	Name     string
	Outcome  Outcome
	Message  string // failure or skip reason, empty on success
	Duration time.Duration
}

// Summary aggregates a full run's results.
type Summary struct {
	Built   int
	Skipped int
	Failed  int
	// FailedNames preserves the order failures occurred in.
	FailedNames []string
}

// Summarize reduces an ordered result list into run totals.
func Summarize(results []LayerResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Outcome {
		case OutcomeBuilt:
			s.Built++
		case OutcomeSkipped:
			s.Skipped++
		case OutcomeFailed:
			s.Failed++
			s.FailedNames = append(s.FailedNames, r.Name)
		}
	}
	return s
}

// Ok reports whether the run should exit zero. Skips never affect the
// exit code; only failures do.
func (s Summary) Ok() bool {
	return s.Failed == 0
}
