package reservation

import (
	"time"

	"cloud.google.com/go/civil"
)

type Policy struct {
	// LateGrace is added to the slot instant before a confirmed booking counts as late.
	LateGrace time.Duration
	// RetentionDays is how many days past its slot date a terminal booking is
	// kept before it becomes purge-eligible. Zero or less disables purging.
	RetentionDays int
}

// Evaluator derives read-side state from a reservation and the current time.
// It never mutates the reservation.
type Evaluator struct {
	policy   Policy
	location *time.Location
}

func NewEvaluator(policy Policy, loc *time.Location) *Evaluator {
	if policy.LateGrace < 0 {
		policy.LateGrace = 0
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Evaluator{policy: policy, location: loc}
}

// In returns an evaluator with the same policy for another restaurant's location.
func (e *Evaluator) In(loc *time.Location) *Evaluator {
	return NewEvaluator(e.policy, loc)
}

func (e *Evaluator) Location() *time.Location {
	return e.location
}

func (e *Evaluator) Policy() Policy {
	return e.policy
}

// Today is the local calendar date at now.
func (e *Evaluator) Today(now time.Time) civil.Date {
	return civil.DateOf(now.In(e.location))
}

func (e *Evaluator) SlotInstant(r *Reservation) time.Time {
	return r.slot.Instant(e.location)
}

func (e *Evaluator) DisplayStatus(r *Reservation, now time.Time) Status {
	if r.status != StatusConfirmed {
		return r.status
	}
	if now.After(e.SlotInstant(r).Add(e.policy.LateGrace)) {
		return StatusLate
	}
	return r.status
}

func (e *Evaluator) PurgeEligible(r *Reservation, now time.Time) bool {
	if e.policy.RetentionDays <= 0 || !r.status.IsTerminal() {
		return false
	}
	return e.Today(now).DaysSince(r.slot.date) > e.policy.RetentionDays
}
