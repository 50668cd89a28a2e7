package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hopskip/internal/errors"
	"hopskip/internal/models"
)

var testConfig = Config{
	CutoffWindow: 24 * time.Hour,
	AdminFee:     200,
}

func confirmedBooking(startsIn time.Duration, now time.Time) *models.Booking {
	start := now.Add(startsIn)
	return &models.Booking{
		ID:            42,
		Status:        models.StatusConfirmed,
		PaymentStatus: models.PaymentPaid,
		TotalAmount:   10000,
		Currency:      "GBP",
		Channel:       models.ChannelCard,
		ActivityDate:  start,
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		SessionsTotal: 10,
		SessionsUsed:  4,
	}
}

func TestEvaluateEligible(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	engine := NewEngine(testConfig)

	elig, err := engine.Evaluate(confirmedBooking(72*time.Hour, now), now)
	require.NoError(t, err)

	assert.True(t, elig.Eligible)
	assert.Equal(t, "Eligible: 6 sessions remaining", elig.Reason)
	assert.Equal(t, "cash", elig.Method)
	assert.Equal(t, int64(5800), elig.RefundAmount)
	assert.Equal(t, int64(0), elig.CreditAmount)
	assert.Equal(t, int64(200), elig.AdminFee)
	assert.Equal(t, int64(10000), elig.Breakdown.TotalPaid)
}

func TestEvaluateCutoffBoundary(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	engine := NewEngine(testConfig)

	// One second inside the window: denied.
	elig, err := engine.Evaluate(confirmedBooking(24*time.Hour-time.Second, now), now)
	require.NoError(t, err)
	assert.False(t, elig.Eligible)
	assert.Equal(t, "outside cancellation window", elig.Reason)

	// Exactly at the cutoff counts as inside the window.
	elig, err = engine.Evaluate(confirmedBooking(24*time.Hour, now), now)
	require.NoError(t, err)
	assert.False(t, elig.Eligible)

	// One second of extra lead time: allowed.
	elig, err = engine.Evaluate(confirmedBooking(24*time.Hour+time.Second, now), now)
	require.NoError(t, err)
	assert.True(t, elig.Eligible)
}

func TestEvaluateIneligibleZeroesBreakdown(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	engine := NewEngine(testConfig)

	elig, err := engine.Evaluate(confirmedBooking(time.Hour, now), now)
	require.NoError(t, err)

	assert.False(t, elig.Eligible)
	assert.Equal(t, int64(10000), elig.Breakdown.TotalPaid)
	assert.Zero(t, elig.RefundAmount)
	assert.Zero(t, elig.CreditAmount)
	assert.Zero(t, elig.AdminFee)
	assert.Zero(t, elig.Breakdown.RefundableAmount)
	assert.Zero(t, elig.Breakdown.ValuePerSession)
}

func TestEvaluateTerminalBooking(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	engine := NewEngine(testConfig)

	b := confirmedBooking(72*time.Hour, now)
	b.Status = models.StatusCancelled
	b.PaymentStatus = models.PaymentRefunded

	elig, err := engine.Evaluate(b, now)
	require.NoError(t, err)
	assert.False(t, elig.Eligible)
	assert.Equal(t, "booking already cancelled/completed", elig.Reason)
}

func TestEvaluateFullyConsumedStillEligible(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	engine := NewEngine(testConfig)

	b := confirmedBooking(72*time.Hour, now)
	b.SessionsUsed = b.SessionsTotal

	elig, err := engine.Evaluate(b, now)
	require.NoError(t, err)

	// Eligible, but there is nothing left to refund or credit.
	assert.True(t, elig.Eligible)
	assert.Zero(t, elig.RefundAmount)
	assert.Zero(t, elig.CreditAmount)
	assert.Zero(t, elig.AdminFee)
	assert.Equal(t, "", elig.Method)
}

func TestEvaluateUnpaidBookingSettlesToZero(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	engine := NewEngine(testConfig)

	b := confirmedBooking(72*time.Hour, now)
	b.Status = models.StatusPending
	b.PaymentStatus = models.PaymentPending

	// Nothing was captured, so nothing can come back.
	elig, err := engine.Evaluate(b, now)
	require.NoError(t, err)
	assert.True(t, elig.Eligible)
	assert.Equal(t, "Eligible: no payment captured", elig.Reason)
	assert.Equal(t, "", elig.Method)
	assert.Zero(t, elig.RefundAmount)
	assert.Zero(t, elig.CreditAmount)
	assert.Zero(t, elig.AdminFee)
	assert.Zero(t, elig.Breakdown.TotalPaid)
	assert.Zero(t, elig.Breakdown.RefundableAmount)

	b.PaymentStatus = models.PaymentFailed
	elig, err = engine.Evaluate(b, now)
	require.NoError(t, err)
	assert.True(t, elig.Eligible)
	assert.Zero(t, elig.RefundAmount)
	assert.Zero(t, elig.CreditAmount)
}

func TestEvaluateUnpaidIgnoresCutoff(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	engine := NewEngine(testConfig)

	// Inside the window, but with no payment there is nothing to protect.
	b := confirmedBooking(time.Hour, now)
	b.Status = models.StatusPending
	b.PaymentStatus = models.PaymentPending

	elig, err := engine.Evaluate(b, now)
	require.NoError(t, err)
	assert.True(t, elig.Eligible)
	assert.Zero(t, elig.RefundAmount)
}

func TestEvaluateVoucherGoesToCredit(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	engine := NewEngine(testConfig)

	b := confirmedBooking(72*time.Hour, now)
	b.Channel = models.ChannelVoucher

	elig, err := engine.Evaluate(b, now)
	require.NoError(t, err)
	assert.Equal(t, "credit", elig.Method)
	assert.Zero(t, elig.RefundAmount)
	assert.Equal(t, int64(5800), elig.CreditAmount)
}

func TestEvaluateDataIntegrity(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	engine := NewEngine(testConfig)

	b := confirmedBooking(72*time.Hour, now)
	b.SessionsTotal = 0

	_, err := engine.Evaluate(b, now)
	assert.ErrorIs(t, err, apperrors.ErrDataIntegrity)

	b = confirmedBooking(72*time.Hour, now)
	b.Channel = models.ChannelMixed // split amounts missing on the record
	_, err = engine.Evaluate(b, now)
	assert.ErrorIs(t, err, apperrors.ErrDataIntegrity)

	// An unreachable stored state pair is also a data problem.
	b = confirmedBooking(72*time.Hour, now)
	b.PaymentStatus = models.PaymentRefunded
	_, err = engine.Evaluate(b, now)
	assert.ErrorIs(t, err, apperrors.ErrDataIntegrity)
}
