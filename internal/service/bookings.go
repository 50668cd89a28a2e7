package service

import (
	"context"
	"fmt"
	"time"

	apperrors "hopskip/internal/errors"
	"hopskip/internal/external"
	"hopskip/internal/lifecycle"
	"hopskip/internal/logger"
	"hopskip/internal/messaging"
	"hopskip/internal/middleware"
	"hopskip/internal/models"
	"hopskip/internal/policy"
	"hopskip/internal/repository"

	"github.com/google/uuid"
)

type BookingService struct {
	bookingRepo   *repository.BookingRepository
	activityRepo  *repository.ActivityRepository
	machine       *lifecycle.Machine
	policyEngine  *policy.Engine
	paymentClient *external.PaymentClient
	walletClient  *external.WalletClient
	natsClient    *messaging.NATSClient
	currency      string
}

func NewBookingService(bookingRepo *repository.BookingRepository, activityRepo *repository.ActivityRepository, machine *lifecycle.Machine, policyEngine *policy.Engine, paymentClient *external.PaymentClient, walletClient *external.WalletClient, natsClient *messaging.NATSClient, currency string) *BookingService {
	return &BookingService{
		bookingRepo:   bookingRepo,
		activityRepo:  activityRepo,
		machine:       machine,
		policyEngine:  policyEngine,
		paymentClient: paymentClient,
		walletClient:  walletClient,
		natsClient:    natsClient,
		currency:      currency,
	}
}

// publish sends a fire-and-forget event; failures are logged and swallowed.
func (s *BookingService) publish(ctx context.Context, subject string, data interface{}) {
	if err := s.natsClient.Publish(subject, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event",
			"error", err,
			"event_type", subject)
	}
}

// settleAtCreation performs the synchronous part of payment capture. The
// voucher portion, if any, is reserved against the guardian's wallet straight
// away; a booking with no card portion left to capture (pure voucher, or a
// free trial) is then confirmed before it is ever persisted, so it never
// waits on a gateway webhook that will not come.
func (s *BookingService) settleAtCreation(booking *models.Booking) error {
	if booking.VoucherPaid > 0 {
		guardianID := int64(0)
		if booking.GuardianID != nil {
			guardianID = *booking.GuardianID
		}
		reference := uuid.New().String()
		if err := s.walletClient.Reserve(external.WalletReserveRequest{
			GuardianID: guardianID,
			Amount:     booking.VoucherPaid,
			Currency:   booking.Currency,
			Reference:  reference,
		}); err != nil {
			return fmt.Errorf("failed to reserve voucher funds: %w", err)
		}
		booking.WalletRef = &reference
	}

	if booking.CardPaid == 0 {
		return s.machine.Confirm(booking)
	}
	return nil
}

// releaseReservation returns an outstanding voucher reservation to the
// guardian's wallet. A release failure is logged, not propagated: the wallet
// service reconciles dangling reservations on its side.
func (s *BookingService) releaseReservation(ctx context.Context, booking *models.Booking) {
	if booking.WalletRef == nil {
		return
	}
	guardianID := int64(0)
	if booking.GuardianID != nil {
		guardianID = *booking.GuardianID
	}
	if err := s.walletClient.Release(external.WalletReleaseRequest{
		GuardianID: guardianID,
		Reference:  *booking.WalletRef,
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to release voucher reservation",
			"error", err,
			"booking_id", booking.ID,
			"wallet_ref", *booking.WalletRef)
		return
	}
	booking.WalletRef = nil
}

// Create books a child onto an activity. Anything with no card portion to
// capture is confirmed before this returns; a booking with a card portion
// starts pending until the gateway notifies us.
func (s *BookingService) Create(ctx context.Context, req *models.CreateBookingRequest, flow string) (*models.CreateBookingResponse, error) {
	activity, err := s.activityRepo.GetByID(ctx, req.ActivityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	if activity == nil {
		return nil, apperrors.NotFoundf("activity %d", req.ActivityID)
	}

	sessionsTotal := req.SessionsTotal
	if sessionsTotal < 1 {
		sessionsTotal = 1
	}

	booking := &models.Booking{
		ActivityID:    activity.ID,
		ActivityTitle: activity.Title,
		VenueID:       activity.VenueID,
		VenueName:     activity.VenueName,
		ChildID:       req.ChildID,
		ChildName:     req.ChildName,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		TotalAmount:   req.CardPaid + req.VoucherPaid,
		Currency:      s.currency,
		Channel:       models.PaymentChannel(req.Channel),
		CardPaid:      req.CardPaid,
		VoucherPaid:   req.VoucherPaid,
		ActivityDate:  activity.NextStart,
		StartTime:     activity.NextStart,
		EndTime:       activity.NextStart.Add(time.Hour),
		SessionsTotal: sessionsTotal,
	}

	if id, ok := middleware.GuardianIDFromContext(ctx); ok {
		booking.GuardianID = &id
	}

	if err := s.settleAtCreation(booking); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publish(ctx, models.EventBookingCreated, models.BookingCreatedEvent{
		BookingID:  booking.ID,
		ActivityID: booking.ActivityID,
		GuardianID: booking.GuardianID,
		ChildID:    booking.ChildID,
		Flow:       flow,
		Timestamp:  time.Now(),
	})

	return &models.CreateBookingResponse{
		ID:            booking.ID,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
	}, nil
}

func (s *BookingService) List(ctx context.Context, guardianID int64) ([]models.ListBookingsResponseItem, error) {
	bookings, err := s.bookingRepo.GetByGuardianID(ctx, guardianID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	result := make([]models.ListBookingsResponseItem, len(bookings))
	for i, booking := range bookings {
		result[i] = models.ListBookingsResponseItem{
			ID:            booking.ID,
			ActivityID:    booking.ActivityID,
			ActivityTitle: booking.ActivityTitle,
			ChildName:     booking.ChildName,
			Status:        booking.Status,
			PaymentStatus: booking.PaymentStatus,
			ActivityDate:  booking.ActivityDate,
		}
	}

	return result, nil
}

// getOwned loads a booking and checks it belongs to the calling guardian.
func (s *BookingService) getOwned(ctx context.Context, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.NotFoundf("booking %d", bookingID)
	}
	if id, ok := middleware.GuardianIDFromContext(ctx); ok {
		if booking.GuardianID == nil || *booking.GuardianID != id {
			return nil, apperrors.Forbiddenf("booking %d belongs to another guardian", bookingID)
		}
	}
	return booking, nil
}

func (s *BookingService) Get(ctx context.Context, bookingID int64) (*models.Booking, error) {
	return s.getOwned(ctx, bookingID)
}

// InitiatePayment starts the card capture for a pending booking and returns
// the gateway redirect URL.
func (s *BookingService) InitiatePayment(ctx context.Context, req *models.InitiatePaymentRequest) (string, error) {
	booking, err := s.getOwned(ctx, req.BookingID)
	if err != nil {
		return "", err
	}

	state, err := booking.State()
	if err != nil {
		return "", err
	}
	if state != models.StatePendingUnpaid && state != models.StatePendingPaymentFailed {
		return "", apperrors.InvalidTransitionf("cannot initiate payment for booking %d in state %s", booking.ID, state)
	}
	if booking.CardPaid <= 0 {
		return "", apperrors.InvalidInputf("booking %d has no card portion to capture", booking.ID)
	}

	// A failed capture released the voucher reservation; a retry must hold
	// the voucher portion again before going back to the gateway.
	if booking.VoucherPaid > 0 && booking.WalletRef == nil {
		guardianID := int64(0)
		if booking.GuardianID != nil {
			guardianID = *booking.GuardianID
		}
		reference := uuid.New().String()
		if err := s.walletClient.Reserve(external.WalletReserveRequest{
			GuardianID: guardianID,
			Amount:     booking.VoucherPaid,
			Currency:   booking.Currency,
			Reference:  reference,
		}); err != nil {
			return "", fmt.Errorf("failed to reserve voucher funds: %w", err)
		}
		booking.WalletRef = &reference
	}

	orderID := uuid.New().String()
	paymentResp, err := s.paymentClient.InitPayment(booking.CardPaid, orderID, booking.Currency, booking.ActivityTitle)
	if err != nil {
		return "", fmt.Errorf("failed to initialize payment: %w", err)
	}

	// A retry after a failed capture goes back to a clean pending state.
	booking.SetState(models.StatePendingUnpaid)
	booking.PaymentID = &paymentResp.PaymentID
	booking.OrderID = &orderID

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return "", fmt.Errorf("failed to update booking: %w", err)
	}

	return paymentResp.PaymentURL, nil
}

// HandlePaymentNotification processes the gateway webhook and moves the
// booking through the machine accordingly.
func (s *BookingService) HandlePaymentNotification(ctx context.Context, notification *models.PaymentNotificationPayload) error {
	booking, err := s.bookingRepo.GetByOrderID(ctx, notification.OrderID)
	if err != nil {
		return fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return apperrors.NotFoundf("booking for order %s", notification.OrderID)
	}

	switch notification.Status {
	case "completed", "CONFIRMED":
		if err := s.machine.Confirm(booking); err != nil {
			return err
		}
		if err := s.bookingRepo.Update(ctx, booking); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		paymentID := notification.PaymentID
		s.publish(ctx, models.EventBookingConfirmed, models.BookingConfirmedEvent{
			BookingID:   booking.ID,
			ActivityID:  booking.ActivityID,
			TotalAmount: booking.TotalAmount,
			PaymentID:   paymentID,
			Timestamp:   time.Now(),
		})

	case "failed", "REJECTED", "CANCELLED":
		if err := s.machine.MarkPaymentFailed(booking); err != nil {
			return err
		}
		// The card capture fell through, so the voucher hold taken at
		// creation goes back to the wallet until the guardian retries.
		s.releaseReservation(ctx, booking)
		if err := s.bookingRepo.Update(ctx, booking); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		s.publish(ctx, models.EventPaymentFailed, models.PaymentFailedEvent{
			BookingID: booking.ID,
			PaymentID: notification.PaymentID,
			Reason:    notification.Status,
			Timestamp: time.Now(),
		})

	default:
		logger.WithContext(ctx).Info("Ignoring payment notification with unknown status",
			"payment_id", notification.PaymentID,
			"status", notification.Status)
	}

	return nil
}

// PreviewCancellation evaluates what a cancellation would settle to without
// changing anything.
func (s *BookingService) PreviewCancellation(ctx context.Context, bookingID int64) (*models.CancellationEligibility, error) {
	booking, err := s.getOwned(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.policyEngine.Evaluate(booking, time.Now())
}

// Cancel settles and cancels a booking. The refund and wallet credit are
// executed before the booking is finalized: a gateway failure aborts the
// cancellation and leaves the booking in its prior state.
func (s *BookingService) Cancel(ctx context.Context, req *models.CancelBookingRequest) (*models.CancelBookingResponse, error) {
	booking, err := s.getOwned(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.machine.Cancel(booking, req.Reason, time.Now())
	if err != nil {
		return nil, err
	}

	resp := &models.CancelBookingResponse{
		BookingID:   booking.ID,
		Eligibility: *outcome.Eligibility,
	}

	if !outcome.Eligibility.Eligible {
		return resp, nil
	}

	if outcome.Eligibility.RefundAmount > 0 {
		if booking.PaymentID == nil {
			return nil, apperrors.DataIntegrityf("booking %d owes a cash refund but has no payment id", booking.ID)
		}
		if _, err := s.paymentClient.Refund(*booking.PaymentID, outcome.Eligibility.RefundAmount, req.Reason); err != nil {
			return nil, fmt.Errorf("failed to refund payment: %w", err)
		}
	}

	if outcome.Eligibility.CreditAmount > 0 {
		guardianID := int64(0)
		if booking.GuardianID != nil {
			guardianID = *booking.GuardianID
		}
		if _, err := s.walletClient.Credit(external.WalletCreditRequest{
			GuardianID: guardianID,
			Amount:     outcome.Eligibility.CreditAmount,
			Currency:   booking.Currency,
			Reference:  uuid.New().String(),
			Reason:     req.Reason,
		}); err != nil {
			return nil, fmt.Errorf("failed to credit wallet: %w", err)
		}
	}

	// Cancelling before the payment was captured leaves an outstanding
	// voucher hold with nothing to apply it to. Once captured, the hold is
	// the settled debit and the policy's credit covers the voucher portion.
	if state, serr := booking.State(); serr == nil && !state.PaymentCaptured() {
		s.releaseReservation(ctx, booking)
	}

	outcome.Apply(booking)
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	s.publish(ctx, models.EventBookingCancelled, models.BookingCancelledEvent{
		BookingID:    booking.ID,
		ActivityID:   booking.ActivityID,
		Reason:       req.Reason,
		RefundAmount: outcome.Eligibility.RefundAmount,
		CreditAmount: outcome.Eligibility.CreditAmount,
		AdminFee:     outcome.Eligibility.AdminFee,
		Timestamp:    time.Now(),
	})

	return resp, nil
}

// Reschedule moves a confirmed booking to a new slot after checking the
// activity still has capacity.
func (s *BookingService) Reschedule(ctx context.Context, req *models.RescheduleBookingRequest) error {
	booking, err := s.getOwned(ctx, req.BookingID)
	if err != nil {
		return err
	}

	activity, err := s.activityRepo.GetByID(ctx, booking.ActivityID)
	if err != nil {
		return fmt.Errorf("failed to get activity: %w", err)
	}
	if activity == nil {
		return apperrors.NotFoundf("activity %d", booking.ActivityID)
	}
	if activity.Capacity <= 0 {
		return apperrors.InvalidInputf("activity %d has no capacity at the new slot", activity.ID)
	}

	oldDate := booking.ActivityDate
	if err := s.machine.Reschedule(booking, req.NewDate, req.NewStart, req.NewEnd, time.Now()); err != nil {
		return err
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	s.publish(ctx, models.EventBookingRescheduled, models.BookingRescheduledEvent{
		BookingID: booking.ID,
		OldDate:   oldDate,
		NewDate:   booking.ActivityDate,
		Timestamp: time.Now(),
	})

	return nil
}

// Amend updates auxiliary booking fields without touching state.
func (s *BookingService) Amend(ctx context.Context, req *models.AmendBookingRequest) error {
	booking, err := s.getOwned(ctx, req.BookingID)
	if err != nil {
		return err
	}

	changed, err := s.machine.Amend(booking, lifecycle.AmendFields{
		Notes:               req.Notes,
		SpecialRequirements: req.SpecialRequirements,
		EmergencyContact:    req.EmergencyContact,
	})
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		return nil
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	s.publish(ctx, models.EventBookingAmended, models.BookingAmendedEvent{
		BookingID: booking.ID,
		Fields:    changed,
		Timestamp: time.Now(),
	})

	return nil
}
