package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/nao1215/userscan/internal/model"
)

// aggregator collects verdicts into pre-assigned slots.
//
// Design decision: results are stored slot-indexed rather than appended in
// completion order. Slots carry their task identity from enumeration time,
// which is deterministic, so the report order is stable across runs
// regardless of how the network interleaves completions.
type aggregator struct {
	mu      sync.Mutex
	results []model.TaskVerdict
	done    []bool
}

// newAggregator seeds the slots with task identity; verdicts arrive later.
func newAggregator(seeded []model.TaskVerdict) *aggregator {
	return &aggregator{
		results: seeded,
		done:    make([]bool, len(seeded)),
	}
}

// record writes a verdict into its slot. Each slot accepts exactly one
// verdict; a second write is a scheduler bug and is rejected.
func (a *aggregator) record(slot int, v model.Verdict) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if slot < 0 || slot >= len(a.results) {
		return fmt.Errorf("%w: %d of %d", ErrSlotOutOfRange, slot, len(a.results))
	}
	if a.done[slot] {
		return fmt.Errorf("%w: slot %d", ErrDuplicateResult, slot)
	}
	a.done[slot] = true
	a.results[slot].Verdict = v
	return nil
}

// finalize builds the run report. Slots that never completed (cancelled
// before dispatch) are filled with Skipped verdicts so the report always
// covers every enumerated task.
func (a *aggregator) finalize(elapsed time.Duration, cancelled bool) *model.RunReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, done := range a.done {
		if !done {
			a.results[i].Verdict = model.Verdict{
				Kind:   model.VerdictSkipped,
				Reason: "run cancelled",
			}
			a.done[i] = true
		}
	}

	return &model.RunReport{
		Results:   a.results,
		Summary:   model.NewSummary(a.results),
		Elapsed:   elapsed,
		Cancelled: cancelled,
	}
}
