package models

import (
	apperrors "hopskip/internal/errors"
)

// Status is the booking lifecycle status as stored and exposed over the API.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// PaymentStatus is the settlement status of a booking's payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// State is the composite (status, payment status) pair. Only the eight
// reachable combinations exist; anything else read from storage is a data
// integrity error, not a representable value. Cancelling a booking whose
// payment was never captured keeps the payment half as it was: the terminal
// state must never claim money was held or returned.
type State int

const (
	StatePendingUnpaid State = iota
	StatePendingPaymentFailed
	StateConfirmed
	StateCancelledRefunded
	StateCancelledPaid
	StateCancelledUnpaid
	StateCancelledPaymentFailed
	StateCompleted
)

var statePairs = map[State][2]string{
	StatePendingUnpaid:          {string(StatusPending), string(PaymentPending)},
	StatePendingPaymentFailed:   {string(StatusPending), string(PaymentFailed)},
	StateConfirmed:              {string(StatusConfirmed), string(PaymentPaid)},
	StateCancelledRefunded:      {string(StatusCancelled), string(PaymentRefunded)},
	StateCancelledPaid:          {string(StatusCancelled), string(PaymentPaid)},
	StateCancelledUnpaid:        {string(StatusCancelled), string(PaymentPending)},
	StateCancelledPaymentFailed: {string(StatusCancelled), string(PaymentFailed)},
	StateCompleted:              {string(StatusCompleted), string(PaymentPaid)},
}

// Status returns the lifecycle half of the composite state.
func (s State) Status() Status {
	return Status(statePairs[s][0])
}

// PaymentStatus returns the settlement half of the composite state.
func (s State) PaymentStatus() PaymentStatus {
	return PaymentStatus(statePairs[s][1])
}

// Terminal reports whether no further lifecycle transition is legal.
func (s State) Terminal() bool {
	switch s {
	case StateCancelledRefunded, StateCancelledPaid, StateCancelledUnpaid,
		StateCancelledPaymentFailed, StateCompleted:
		return true
	}
	return false
}

// PaymentCaptured reports whether any money was actually taken for a booking
// in this state. A refunded booking had its payment captured and then
// returned.
func (s State) PaymentCaptured() bool {
	switch s {
	case StatePendingUnpaid, StatePendingPaymentFailed,
		StateCancelledUnpaid, StateCancelledPaymentFailed:
		return false
	}
	return true
}

func (s State) String() string {
	return statePairs[s][0] + "/" + statePairs[s][1]
}

// StateOf maps a stored (status, payment status) pair back onto the composite
// state, rejecting combinations the lifecycle can never produce.
func StateOf(status Status, payment PaymentStatus) (State, error) {
	for state, pair := range statePairs {
		if pair[0] == string(status) && pair[1] == string(payment) {
			return state, nil
		}
	}
	return 0, apperrors.DataIntegrityf("unreachable booking state %s/%s", status, payment)
}
