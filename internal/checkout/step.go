package checkout

import (
	"errors"

	"github.com/maltedev/coupon-finder/internal/browser"
)

// StepOutcome records how a best-effort step ended. The flow advances
// regardless of the outcome.
type StepOutcome int

const (
	Succeeded StepOutcome = iota
	Skipped
	Failed
)

func (o StepOutcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

type StepResult struct {
	Name    string
	Outcome StepOutcome
	Err     error
}

func outcomeOf(err error) StepOutcome {
	switch {
	case err == nil:
		return Succeeded
	case errors.Is(err, browser.ErrNotFound):
		return Skipped
	default:
		return Failed
	}
}
