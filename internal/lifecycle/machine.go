// Package lifecycle is the booking state machine. Every transition is a total
// function over the composite (status, payment status) state: it either
// mutates the booking into its next state or returns a typed rejection and
// leaves the booking untouched.
package lifecycle

import (
	"time"

	apperrors "hopskip/internal/errors"
	"hopskip/internal/models"
	"hopskip/internal/policy"
)

// Machine validates and applies booking transitions. Cancellation delegates
// the settlement decision to the policy engine.
type Machine struct {
	policy *policy.Engine
}

func NewMachine(policyEngine *policy.Engine) *Machine {
	return &Machine{policy: policyEngine}
}

// Confirm moves a pending booking to confirmed once its payment is captured.
func (m *Machine) Confirm(b *models.Booking) error {
	state, err := b.State()
	if err != nil {
		return err
	}
	if state != models.StatePendingUnpaid {
		return apperrors.InvalidTransitionf("cannot confirm booking %d in state %s", b.ID, state)
	}
	b.SetState(models.StateConfirmed)
	return nil
}

// MarkPaymentFailed records a failed capture. The booking stays pending and
// remains eligible for a payment retry or cancellation.
func (m *Machine) MarkPaymentFailed(b *models.Booking) error {
	state, err := b.State()
	if err != nil {
		return err
	}
	if state != models.StatePendingUnpaid {
		return apperrors.InvalidTransitionf("cannot fail payment for booking %d in state %s", b.ID, state)
	}
	b.SetState(models.StatePendingPaymentFailed)
	return nil
}

// CancelOutcome is the planned result of a cancellation. The caller executes
// any external money movement first and then applies the outcome, so a failed
// refund never leaves a half-cancelled booking.
type CancelOutcome struct {
	Eligibility *models.CancellationEligibility
	next        models.State
	reason      string
}

// Apply finalizes the cancellation on the booking. Only valid for an eligible
// outcome.
func (o CancelOutcome) Apply(b *models.Booking) {
	b.SetState(o.next)
	reason := o.reason
	b.CancelReason = &reason
}

// Cancel plans the cancellation of a pending or confirmed booking. An
// ineligible result carries the policy's reason and no state change; calling
// Cancel on a terminal booking is an InvalidTransition, which makes repeated
// cancellation a rejected no-op rather than a double refund.
func (m *Machine) Cancel(b *models.Booking, reason string, now time.Time) (CancelOutcome, error) {
	if reason == "" {
		return CancelOutcome{}, apperrors.InvalidInputf("cancellation reason must not be empty")
	}

	state, err := b.State()
	if err != nil {
		return CancelOutcome{}, err
	}
	if state.Terminal() {
		return CancelOutcome{}, apperrors.InvalidTransitionf("booking %d already %s", b.ID, state.Status())
	}

	elig, err := m.policy.Evaluate(b, now)
	if err != nil {
		return CancelOutcome{}, err
	}

	out := CancelOutcome{Eligibility: elig, reason: reason}
	if !elig.Eligible {
		return out, nil
	}

	// Payment status only becomes refunded when money actually moves back.
	// A fully consumed booking cancels with its payment left as paid, and a
	// booking that was never captured keeps its unpaid payment status.
	switch {
	case elig.RefundAmount > 0 || elig.CreditAmount > 0:
		out.next = models.StateCancelledRefunded
	case state == models.StatePendingUnpaid:
		out.next = models.StateCancelledUnpaid
	case state == models.StatePendingPaymentFailed:
		out.next = models.StateCancelledPaymentFailed
	default:
		out.next = models.StateCancelledPaid
	}
	return out, nil
}

// Reschedule moves a confirmed booking to a new future slot. Capacity at the
// new slot is the caller's check against the activity directory; the machine
// enforces state and timing only.
func (m *Machine) Reschedule(b *models.Booking, newDate, newStart, newEnd time.Time, now time.Time) error {
	state, err := b.State()
	if err != nil {
		return err
	}
	if state != models.StateConfirmed {
		return apperrors.InvalidTransitionf("cannot reschedule booking %d in state %s", b.ID, state)
	}
	if !newStart.After(now) {
		return apperrors.InvalidInputf("new start time must be in the future")
	}
	b.ActivityDate = newDate
	b.StartTime = newStart
	b.EndTime = newEnd
	return nil
}

// AmendFields are the auxiliary booking fields a guardian may change without
// touching booking or payment state. Nil means leave unchanged.
type AmendFields struct {
	Notes               *string
	SpecialRequirements *string
	EmergencyContact    *string
}

// Amend updates auxiliary fields on a pending or confirmed booking and
// returns the names of the fields that changed.
func (m *Machine) Amend(b *models.Booking, fields AmendFields) ([]string, error) {
	state, err := b.State()
	if err != nil {
		return nil, err
	}
	if state.Terminal() {
		return nil, apperrors.InvalidTransitionf("cannot amend booking %d in state %s", b.ID, state)
	}

	var changed []string
	if fields.Notes != nil {
		b.Notes = *fields.Notes
		changed = append(changed, "notes")
	}
	if fields.SpecialRequirements != nil {
		b.SpecialRequirements = *fields.SpecialRequirements
		changed = append(changed, "special_requirements")
	}
	if fields.EmergencyContact != nil {
		b.EmergencyContact = *fields.EmergencyContact
		changed = append(changed, "emergency_contact")
	}
	return changed, nil
}

// Complete closes a confirmed booking whose activity date has elapsed. Driven
// by the scheduled sweep worker, never by user action.
func (m *Machine) Complete(b *models.Booking, now time.Time) error {
	state, err := b.State()
	if err != nil {
		return err
	}
	if state != models.StateConfirmed {
		return apperrors.InvalidTransitionf("cannot complete booking %d in state %s", b.ID, state)
	}
	if b.StartAt().After(now) {
		return apperrors.InvalidTransitionf("booking %d activity has not started yet", b.ID)
	}
	b.SetState(models.StateCompleted)
	return nil
}
