package leave

import (
	"errors"
	"time"
)

var ErrInvalidTransition = errors.New("invalid transition")

// CanTransition reports whether a request may move between the two states.
// Only pending requests can be decided; approved and rejected are final.
func CanTransition(from, to string) bool {
	if from != StatusPending {
		return false
	}
	return to == StatusApproved || to == StatusRejected
}

// CalculateDays returns the inclusive day count between start and end.
func CalculateDays(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, errors.New("end date before start date")
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// MergeByID folds an updated request into a list keyed by id. Last write
// wins; applying the same update twice leaves the list unchanged, and an
// update whose id is not present is ignored. The input slice is not mutated.
func MergeByID(list []Request, update Request) []Request {
	out := make([]Request, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID == update.ID {
			out[i] = update
		}
	}
	return out
}
