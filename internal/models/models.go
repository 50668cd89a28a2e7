package models

import "time"

// CreateBookingRequest - submitted by a wizard flow on its final step
type CreateBookingRequest struct {
	ActivityID    int64  `json:"activity_id" binding:"required"`
	ChildID       int64  `json:"child_id" binding:"required"`
	ChildName     string `json:"child_name" binding:"required"`
	Channel       string `json:"payment_channel" binding:"required,oneof=card voucher mixed"`
	CardPaid      int64  `json:"card_paid"`
	VoucherPaid   int64  `json:"voucher_paid"`
	SessionsTotal int    `json:"sessions_total"`
}

// CreateBookingResponse - id plus the state the booking was created in
type CreateBookingResponse struct {
	ID            int64         `json:"id"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}

// ListBookingsResponseItem - element of a guardian's booking list
type ListBookingsResponseItem struct {
	ID            int64         `json:"id"`
	ActivityID    int64         `json:"activity_id"`
	ActivityTitle string        `json:"activity_title"`
	ChildName     string        `json:"child_name"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	ActivityDate  time.Time     `json:"activity_date"`
}

// ListBookingsResponse - list of bookings
type ListBookingsResponse []ListBookingsResponseItem

// CancelBookingRequest - request to cancel a booking under the refund policy
type CancelBookingRequest struct {
	BookingID int64  `json:"booking_id" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

// CancelBookingResponse - settlement outcome returned to the guardian
type CancelBookingResponse struct {
	BookingID   int64                   `json:"booking_id"`
	Eligibility CancellationEligibility `json:"eligibility"`
}

// RescheduleBookingRequest - move a confirmed booking to a new slot
type RescheduleBookingRequest struct {
	BookingID int64     `json:"booking_id" binding:"required"`
	NewDate   time.Time `json:"new_date" binding:"required"`
	NewStart  time.Time `json:"new_start" binding:"required"`
	NewEnd    time.Time `json:"new_end" binding:"required"`
}

// AmendBookingRequest - update auxiliary fields without touching state
type AmendBookingRequest struct {
	BookingID           int64   `json:"booking_id" binding:"required"`
	Notes               *string `json:"notes"`
	SpecialRequirements *string `json:"special_requirements"`
	EmergencyContact    *string `json:"emergency_contact"`
}

// InitiatePaymentRequest - start card capture for a pending booking
type InitiatePaymentRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
}

// SearchActivitiesResponseItem - element of the activity directory listing
type SearchActivitiesResponseItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	VenueName string `json:"venue_name"`
	Capacity  int    `json:"capacity"`
	Price     int64  `json:"price"`
}

// SearchActivitiesResponse - directory search results
type SearchActivitiesResponse []SearchActivitiesResponseItem

// PaymentNotificationPayload - webhook payload from the payment gateway
type PaymentNotificationPayload struct {
	PaymentID string                 `json:"paymentId"`
	OrderID   string                 `json:"orderId"`
	Status    string                 `json:"status"`
	TeamSlug  string                 `json:"teamSlug"`
	Timestamp string                 `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// StartWizardRequest - open a new booking wizard of one of the three flows
type StartWizardRequest struct {
	Flow string `json:"flow" binding:"required,oneof=single block trial"`
}

// WizardFieldRequest - set one form field on an active wizard
type WizardFieldRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Field     string `json:"field" binding:"required"`
	Value     string `json:"value"`
}

// WizardNavRequest - advance, go back or jump within an active wizard
type WizardNavRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Index     *int   `json:"index"`
}

// WizardStepView - step state as shown to the client
type WizardStepView struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Status string            `json:"status"`
	Errors map[string]string `json:"errors,omitempty"`
}

// WizardStateResponse - full wizard state snapshot for rendering
type WizardStateResponse struct {
	SessionID string            `json:"session_id"`
	Flow      string            `json:"flow"`
	Current   int               `json:"current"`
	Completed bool              `json:"completed"`
	Steps     []WizardStepView  `json:"steps"`
	Form      map[string]string `json:"form"`
}

// SubmitWizardResponse - booking created by a wizard submit
type SubmitWizardResponse struct {
	SessionID string                 `json:"session_id"`
	Booking   *CreateBookingResponse `json:"booking,omitempty"`
}
