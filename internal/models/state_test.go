package models

import (
	"testing"

	apperrors "hopskip/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateOfReachablePairs(t *testing.T) {
	cases := []struct {
		status  Status
		payment PaymentStatus
		want    State
	}{
		{StatusPending, PaymentPending, StatePendingUnpaid},
		{StatusPending, PaymentFailed, StatePendingPaymentFailed},
		{StatusConfirmed, PaymentPaid, StateConfirmed},
		{StatusCancelled, PaymentRefunded, StateCancelledRefunded},
		{StatusCancelled, PaymentPaid, StateCancelledPaid},
		{StatusCancelled, PaymentPending, StateCancelledUnpaid},
		{StatusCancelled, PaymentFailed, StateCancelledPaymentFailed},
		{StatusCompleted, PaymentPaid, StateCompleted},
	}

	for _, tc := range cases {
		got, err := StateOf(tc.status, tc.payment)
		require.NoError(t, err, "%s/%s", tc.status, tc.payment)
		assert.Equal(t, tc.want, got)
	}
}

func TestStateOfUnreachablePairs(t *testing.T) {
	cases := []struct {
		status  Status
		payment PaymentStatus
	}{
		{StatusConfirmed, PaymentPending},
		{StatusCompleted, PaymentRefunded},
		{StatusCompleted, PaymentPending},
		{StatusPending, PaymentPaid},
		{Status("SHIPPED"), PaymentPaid},
	}

	for _, tc := range cases {
		_, err := StateOf(tc.status, tc.payment)
		require.Error(t, err, "%s/%s", tc.status, tc.payment)
		assert.True(t, apperrors.IsDataIntegrity(err))
	}
}

func TestStateRoundTrip(t *testing.T) {
	b := &Booking{}
	b.SetState(StateCancelledPaid)

	assert.Equal(t, StatusCancelled, b.Status)
	assert.Equal(t, PaymentPaid, b.PaymentStatus)

	state, err := b.State()
	require.NoError(t, err)
	assert.Equal(t, StateCancelledPaid, state)
}

func TestTerminalStates(t *testing.T) {
	assert.False(t, StatePendingUnpaid.Terminal())
	assert.False(t, StatePendingPaymentFailed.Terminal())
	assert.False(t, StateConfirmed.Terminal())
	assert.True(t, StateCancelledRefunded.Terminal())
	assert.True(t, StateCancelledPaid.Terminal())
	assert.True(t, StateCancelledUnpaid.Terminal())
	assert.True(t, StateCancelledPaymentFailed.Terminal())
	assert.True(t, StateCompleted.Terminal())
}

func TestPaymentCaptured(t *testing.T) {
	assert.False(t, StatePendingUnpaid.PaymentCaptured())
	assert.False(t, StatePendingPaymentFailed.PaymentCaptured())
	assert.False(t, StateCancelledUnpaid.PaymentCaptured())
	assert.False(t, StateCancelledPaymentFailed.PaymentCaptured())
	assert.True(t, StateConfirmed.PaymentCaptured())
	assert.True(t, StateCancelledRefunded.PaymentCaptured())
	assert.True(t, StateCancelledPaid.PaymentCaptured())
	assert.True(t, StateCompleted.PaymentCaptured())
}
