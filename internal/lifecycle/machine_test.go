package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hopskip/internal/errors"
	"hopskip/internal/models"
	"hopskip/internal/policy"
)

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newMachine() *Machine {
	return NewMachine(policy.NewEngine(policy.Config{
		CutoffWindow: 24 * time.Hour,
		AdminFee:     200,
	}))
}

func pendingBooking() *models.Booking {
	start := now.Add(72 * time.Hour)
	return &models.Booking{
		ID:            7,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		TotalAmount:   10000,
		Currency:      "GBP",
		Channel:       models.ChannelCard,
		ActivityDate:  start,
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		SessionsTotal: 10,
	}
}

func confirmed() *models.Booking {
	b := pendingBooking()
	b.SetState(models.StateConfirmed)
	b.SessionsUsed = 4
	return b
}

func TestConfirm(t *testing.T) {
	m := newMachine()
	b := pendingBooking()

	require.NoError(t, m.Confirm(b))
	assert.Equal(t, models.StatusConfirmed, b.Status)
	assert.Equal(t, models.PaymentPaid, b.PaymentStatus)

	// Confirming twice is illegal.
	assert.ErrorIs(t, m.Confirm(b), apperrors.ErrInvalidTransition)
}

func TestMarkPaymentFailed(t *testing.T) {
	m := newMachine()
	b := pendingBooking()

	require.NoError(t, m.MarkPaymentFailed(b))
	assert.Equal(t, models.StatusPending, b.Status)
	assert.Equal(t, models.PaymentFailed, b.PaymentStatus)

	assert.ErrorIs(t, m.MarkPaymentFailed(b), apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, m.MarkPaymentFailed(confirmed()), apperrors.ErrInvalidTransition)
}

func TestCancelEligible(t *testing.T) {
	m := newMachine()
	b := confirmed()

	out, err := m.Cancel(b, "holiday clash", now)
	require.NoError(t, err)
	require.True(t, out.Eligibility.Eligible)
	assert.Equal(t, int64(5800), out.Eligibility.RefundAmount)

	// Nothing is applied until the caller confirms the refund executed.
	assert.Equal(t, models.StatusConfirmed, b.Status)

	out.Apply(b)
	assert.Equal(t, models.StatusCancelled, b.Status)
	assert.Equal(t, models.PaymentRefunded, b.PaymentStatus)
	require.NotNil(t, b.CancelReason)
	assert.Equal(t, "holiday clash", *b.CancelReason)
}

func TestCancelIdempotence(t *testing.T) {
	m := newMachine()
	b := confirmed()

	out, err := m.Cancel(b, "changed plans", now)
	require.NoError(t, err)
	out.Apply(b)

	// The second cancel is rejected outright; no double refund.
	_, err = m.Cancel(b, "changed plans", now)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, models.StatusCancelled, b.Status)
	assert.Equal(t, models.PaymentRefunded, b.PaymentStatus)
}

func TestCancelIneligibleLeavesStateUntouched(t *testing.T) {
	m := newMachine()
	b := confirmed()
	start := now.Add(time.Hour)
	b.ActivityDate = start
	b.StartTime = start

	out, err := m.Cancel(b, "too late", now)
	require.NoError(t, err)
	assert.False(t, out.Eligibility.Eligible)
	assert.Equal(t, "outside cancellation window", out.Eligibility.Reason)
	assert.Equal(t, models.StatusConfirmed, b.Status)
	assert.Equal(t, models.PaymentPaid, b.PaymentStatus)
}

func TestCancelUnpaidMovesNoMoney(t *testing.T) {
	m := newMachine()
	b := pendingBooking()

	out, err := m.Cancel(b, "changed my mind", now)
	require.NoError(t, err)
	require.True(t, out.Eligibility.Eligible)
	assert.Zero(t, out.Eligibility.RefundAmount)
	assert.Zero(t, out.Eligibility.CreditAmount)
	assert.Zero(t, out.Eligibility.AdminFee)

	// The payment half stays unpaid: nothing was refunded.
	out.Apply(b)
	assert.Equal(t, models.StatusCancelled, b.Status)
	assert.Equal(t, models.PaymentPending, b.PaymentStatus)
}

func TestCancelAfterPaymentFailure(t *testing.T) {
	m := newMachine()
	b := pendingBooking()
	require.NoError(t, m.MarkPaymentFailed(b))

	out, err := m.Cancel(b, "card declined twice", now)
	require.NoError(t, err)
	require.True(t, out.Eligibility.Eligible)
	assert.Zero(t, out.Eligibility.RefundAmount)

	out.Apply(b)
	assert.Equal(t, models.StatusCancelled, b.Status)
	assert.Equal(t, models.PaymentFailed, b.PaymentStatus)

	// Terminal now: no further cancel.
	_, err = m.Cancel(b, "again", now)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestCancelFullyConsumedKeepsPaymentPaid(t *testing.T) {
	m := newMachine()
	b := confirmed()
	b.SessionsUsed = b.SessionsTotal

	out, err := m.Cancel(b, "season over", now)
	require.NoError(t, err)
	require.True(t, out.Eligibility.Eligible)

	out.Apply(b)
	assert.Equal(t, models.StatusCancelled, b.Status)
	assert.Equal(t, models.PaymentPaid, b.PaymentStatus)
}

func TestCancelRequiresReason(t *testing.T) {
	m := newMachine()
	_, err := m.Cancel(confirmed(), "", now)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestReschedule(t *testing.T) {
	m := newMachine()
	b := confirmed()
	newStart := now.Add(96 * time.Hour)

	require.NoError(t, m.Reschedule(b, newStart, newStart, newStart.Add(time.Hour), now))
	assert.Equal(t, newStart, b.ActivityDate)
	assert.Equal(t, models.StatusConfirmed, b.Status)

	// Pending bookings cannot be rescheduled.
	assert.ErrorIs(t, m.Reschedule(pendingBooking(), newStart, newStart, newStart.Add(time.Hour), now),
		apperrors.ErrInvalidTransition)

	// The new slot must be strictly in the future.
	assert.ErrorIs(t, m.Reschedule(confirmed(), now, now, now.Add(time.Hour), now),
		apperrors.ErrInvalidInput)
}

func TestAmend(t *testing.T) {
	m := newMachine()
	b := confirmed()
	notes := "picked up by grandmother"

	changed, err := m.Amend(b, AmendFields{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, []string{"notes"}, changed)
	assert.Equal(t, notes, b.Notes)
	assert.Equal(t, models.StatusConfirmed, b.Status)

	b.SetState(models.StateCompleted)
	_, err = m.Amend(b, AmendFields{Notes: &notes})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestComplete(t *testing.T) {
	m := newMachine()
	b := confirmed()
	past := now.Add(-2 * time.Hour)
	b.ActivityDate = past
	b.StartTime = past
	b.EndTime = past.Add(time.Hour)

	require.NoError(t, m.Complete(b, now))
	assert.Equal(t, models.StatusCompleted, b.Status)
	assert.Equal(t, models.PaymentPaid, b.PaymentStatus)

	// Terminal: nothing further is legal.
	assert.ErrorIs(t, m.Complete(b, now), apperrors.ErrInvalidTransition)
	_, err := m.Cancel(b, "too late", now)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestCompleteBeforeStartRejected(t *testing.T) {
	assert.ErrorIs(t, newMachine().Complete(confirmed(), now), apperrors.ErrInvalidTransition)
}
