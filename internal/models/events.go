package models

import "time"

// NATS Event Types
const (
	EventBookingCreated     = "booking.created"
	EventBookingConfirmed   = "booking.confirmed"
	EventBookingCancelled   = "booking.cancelled"
	EventBookingRescheduled = "booking.rescheduled"
	EventBookingAmended     = "booking.amended"
	EventBookingCompleted   = "booking.completed"
	EventPaymentFailed      = "payment.failed"
	EventWizardStepReached  = "wizard.step_reached"
)

// BookingCreatedEvent represents a booking creation event
type BookingCreatedEvent struct {
	BookingID  int64     `json:"booking_id"`
	ActivityID int64     `json:"activity_id"`
	GuardianID *int64    `json:"guardian_id"`
	ChildID    int64     `json:"child_id"`
	Flow       string    `json:"flow"`
	Timestamp  time.Time `json:"timestamp"`
}

// BookingConfirmedEvent represents a successful payment confirmation
type BookingConfirmedEvent struct {
	BookingID   int64     `json:"booking_id"`
	ActivityID  int64     `json:"activity_id"`
	TotalAmount int64     `json:"total_amount"`
	PaymentID   string    `json:"payment_id"`
	Timestamp   time.Time `json:"timestamp"`
}

// BookingCancelledEvent represents a cancellation with its settlement split
type BookingCancelledEvent struct {
	BookingID    int64     `json:"booking_id"`
	ActivityID   int64     `json:"activity_id"`
	Reason       string    `json:"reason"`
	RefundAmount int64     `json:"refund_amount"`
	CreditAmount int64     `json:"credit_amount"`
	AdminFee     int64     `json:"admin_fee"`
	Timestamp    time.Time `json:"timestamp"`
}

// BookingRescheduledEvent represents a booking moved to a new slot
type BookingRescheduledEvent struct {
	BookingID int64     `json:"booking_id"`
	OldDate   time.Time `json:"old_date"`
	NewDate   time.Time `json:"new_date"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingAmendedEvent represents auxiliary field updates
type BookingAmendedEvent struct {
	BookingID int64     `json:"booking_id"`
	Fields    []string  `json:"fields"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingCompletedEvent represents a booking closed by the completion sweep
type BookingCompletedEvent struct {
	BookingID  int64     `json:"booking_id"`
	ActivityID int64     `json:"activity_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// PaymentFailedEvent represents a failed card capture
type PaymentFailedEvent struct {
	BookingID int64     `json:"booking_id"`
	PaymentID string    `json:"payment_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// WizardStepReachedEvent represents forward progress inside a booking flow
type WizardStepReachedEvent struct {
	SessionID string    `json:"session_id"`
	Flow      string    `json:"flow"`
	StepID    string    `json:"step_id"`
	StepIndex int       `json:"step_index"`
	Timestamp time.Time `json:"timestamp"`
}
