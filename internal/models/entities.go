package models

import (
	"time"
)

// User represents a guardian account in the system
type User struct {
	UserID       int64      `json:"user_id" db:"user_id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    string     `json:"first_name" db:"first_name"`
	Surname      string     `json:"surname" db:"surname"`
	Birthday     *time.Time `json:"birthday" db:"birthday"`
	RegisteredAt time.Time  `json:"registered_at" db:"registered_at"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoggedIn time.Time  `json:"last_logged_in" db:"last_logged_in"`
}

// Activity is a catalogue entry from the activity/venue directory. The
// directory is owned externally; bookings reference it by id and keep
// denormalized display fields.
type Activity struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	Category      string    `json:"category"`
	VenueID       int64     `json:"venue_id"`
	VenueName     string    `json:"venue_name"`
	AgeMin        int       `json:"age_min"`
	AgeMax        int       `json:"age_max"`
	PricePerBlock int64     `json:"price_per_block"`
	SessionsTotal int       `json:"sessions_total"`
	Capacity      int       `json:"capacity"`
	NextStart     time.Time `json:"next_start"`
}

// PaymentChannel records how a booking was originally paid.
type PaymentChannel string

const (
	ChannelCard    PaymentChannel = "card"
	ChannelVoucher PaymentChannel = "voucher"
	ChannelMixed   PaymentChannel = "mixed"
)

// Booking represents a guardian's booking of a child onto an activity
type Booking struct {
	ID            int64         `json:"id" db:"id"`
	GuardianID    *int64        `json:"guardian_id" db:"guardian_id"`
	ActivityID    int64         `json:"activity_id" db:"activity_id"`
	ActivityTitle string        `json:"activity_title" db:"activity_title"`
	VenueID       int64         `json:"venue_id" db:"venue_id"`
	VenueName     string        `json:"venue_name" db:"venue_name"`
	ChildID       int64         `json:"child_id" db:"child_id"`
	ChildName     string        `json:"child_name" db:"child_name"`
	Status        Status        `json:"status" db:"status"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`

	// Money in currency minor units.
	TotalAmount int64  `json:"total_amount" db:"total_amount"`
	Currency    string `json:"currency" db:"currency"`

	// Original payment split, needed to apportion a refund between cash and
	// wallet credit when the channel is mixed.
	Channel     PaymentChannel `json:"payment_channel" db:"payment_channel"`
	CardPaid    int64          `json:"card_paid" db:"card_paid"`
	VoucherPaid int64          `json:"voucher_paid" db:"voucher_paid"`

	ActivityDate time.Time `json:"activity_date" db:"activity_date"`
	StartTime    time.Time `json:"start_time" db:"start_time"`
	EndTime      time.Time `json:"end_time" db:"end_time"`

	SessionsTotal int `json:"sessions_total" db:"sessions_total"`
	SessionsUsed  int `json:"sessions_used" db:"sessions_used"`

	// Auxiliary fields, mutable via amend only.
	Notes               string `json:"notes" db:"notes"`
	SpecialRequirements string `json:"special_requirements" db:"special_requirements"`
	EmergencyContact    string `json:"emergency_contact" db:"emergency_contact"`

	PaymentID *string `json:"payment_id" db:"payment_id"`
	OrderID   *string `json:"order_id" db:"order_id"`

	// WalletRef is the reference of the outstanding wallet reservation for
	// the booking's voucher portion, nil once released or when none exists.
	WalletRef *string `json:"wallet_ref" db:"wallet_ref"`

	CancelReason *string   `json:"cancel_reason" db:"cancel_reason"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// State folds the two stored status columns into the composite state.
func (b *Booking) State() (State, error) {
	return StateOf(b.Status, b.PaymentStatus)
}

// SetState writes both status columns from the composite state.
func (b *Booking) SetState(s State) {
	b.Status = s.Status()
	b.PaymentStatus = s.PaymentStatus()
}

// StartAt returns the wall-clock start of the next session.
func (b *Booking) StartAt() time.Time {
	return time.Date(
		b.ActivityDate.Year(), b.ActivityDate.Month(), b.ActivityDate.Day(),
		b.StartTime.Hour(), b.StartTime.Minute(), 0, 0, b.ActivityDate.Location(),
	)
}

// CancellationEligibility is the computed settlement outcome for a requested
// cancellation. It is returned to the caller and never persisted by the core.
type CancellationEligibility struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason"`

	// Method is "cash", "credit" or "mixed", derived from which of the two
	// amounts below are positive. Empty when nothing is owed.
	Method string `json:"method,omitempty"`

	RefundAmount int64 `json:"refund_amount"`
	CreditAmount int64 `json:"credit_amount"`
	AdminFee     int64 `json:"admin_fee"`

	Breakdown CancellationBreakdown `json:"breakdown"`
}

// CancellationBreakdown itemizes how the settlement was computed.
type CancellationBreakdown struct {
	TotalPaid         int64 `json:"total_paid"`
	SessionsUsed      int   `json:"sessions_used"`
	SessionsRemaining int   `json:"sessions_remaining"`
	ValuePerSession   int64 `json:"value_per_session"`
	RefundableAmount  int64 `json:"refundable_amount"`
	CreditAmount      int64 `json:"credit_amount"`
	AdminFee          int64 `json:"admin_fee"`
}
