package repository

import (
	"context"
	"database/sql"
	"time"

	"hopskip/internal/database"
	"hopskip/internal/models"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	id, guardian_id, activity_id, activity_title, venue_id, venue_name,
	child_id, child_name, status, payment_status, total_amount, currency,
	payment_channel, card_paid, voucher_paid, activity_date, start_time,
	end_time, sessions_total, sessions_used, notes, special_requirements,
	emergency_contact, payment_id, order_id, wallet_ref, cancel_reason,
	created_at, updated_at`

func scanBooking(row interface{ Scan(...interface{}) error }, b *models.Booking) error {
	return row.Scan(
		&b.ID,
		&b.GuardianID,
		&b.ActivityID,
		&b.ActivityTitle,
		&b.VenueID,
		&b.VenueName,
		&b.ChildID,
		&b.ChildName,
		&b.Status,
		&b.PaymentStatus,
		&b.TotalAmount,
		&b.Currency,
		&b.Channel,
		&b.CardPaid,
		&b.VoucherPaid,
		&b.ActivityDate,
		&b.StartTime,
		&b.EndTime,
		&b.SessionsTotal,
		&b.SessionsUsed,
		&b.Notes,
		&b.SpecialRequirements,
		&b.EmergencyContact,
		&b.PaymentID,
		&b.OrderID,
		&b.WalletRef,
		&b.CancelReason,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (guardian_id, activity_id, activity_title, venue_id,
			venue_name, child_id, child_name, status, payment_status, total_amount,
			currency, payment_channel, card_paid, voucher_paid, activity_date,
			start_time, end_time, sessions_total, sessions_used, notes,
			special_requirements, emergency_contact, payment_id, order_id,
			wallet_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		booking.GuardianID,
		booking.ActivityID,
		booking.ActivityTitle,
		booking.VenueID,
		booking.VenueName,
		booking.ChildID,
		booking.ChildName,
		booking.Status,
		booking.PaymentStatus,
		booking.TotalAmount,
		booking.Currency,
		booking.Channel,
		booking.CardPaid,
		booking.VoucherPaid,
		booking.ActivityDate,
		booking.StartTime,
		booking.EndTime,
		booking.SessionsTotal,
		booking.SessionsUsed,
		booking.Notes,
		booking.SpecialRequirements,
		booking.EmergencyContact,
		booking.PaymentID,
		booking.OrderID,
		booking.WalletRef,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	return err
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	err := scanBooking(r.db.QueryRowContext(ctx, query, id), booking)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return booking, err
}

func (r *BookingRepository) GetByGuardianID(ctx context.Context, guardianID int64) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE guardian_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, guardianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var booking models.Booking
		if err := scanBooking(rows, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// GetByOrderID retrieves a booking by the order reference sent to the gateway.
func (r *BookingRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE order_id = $1`

	err := scanBooking(r.db.QueryRowContext(ctx, query, orderID), booking)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return booking, err
}

func (r *BookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, payment_status = $2, activity_date = $3, start_time = $4,
			end_time = $5, sessions_used = $6, notes = $7, special_requirements = $8,
			emergency_contact = $9, payment_id = $10, order_id = $11,
			wallet_ref = $12, cancel_reason = $13, updated_at = NOW()
		WHERE id = $14`

	_, err := r.db.ExecContext(ctx, query,
		booking.Status,
		booking.PaymentStatus,
		booking.ActivityDate,
		booking.StartTime,
		booking.EndTime,
		booking.SessionsUsed,
		booking.Notes,
		booking.SpecialRequirements,
		booking.EmergencyContact,
		booking.PaymentID,
		booking.OrderID,
		booking.WalletRef,
		booking.CancelReason,
		booking.ID,
	)

	return err
}

// GetElapsed retrieves confirmed bookings whose scheduled slot has finished,
// for the completion sweep.
func (r *BookingRepository) GetElapsed(ctx context.Context, now time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'CONFIRMED'
		  AND activity_date < $1
		ORDER BY activity_date ASC`

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var booking models.Booking
		if err := scanBooking(rows, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}
