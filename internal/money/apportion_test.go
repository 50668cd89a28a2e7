package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hopskip/internal/errors"
)

func TestApportionCardChannel(t *testing.T) {
	// £100 over 10 sessions, 4 used, £2 fee, paid by card.
	b, err := ApportionRefund(ApportionInput{
		TotalPaid:     10000,
		SessionsTotal: 10,
		SessionsUsed:  4,
		AdminFee:      200,
		Channel:       ChannelCard,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1000), b.ValuePerSession)
	assert.Equal(t, 6, b.SessionsRemaining)
	assert.Equal(t, int64(6000), b.RefundableAmount)
	assert.Equal(t, int64(200), b.AdminFee)
	assert.Equal(t, int64(5800), b.RefundAmount)
	assert.Equal(t, int64(0), b.CreditAmount)
}

func TestApportionVoucherChannel(t *testing.T) {
	b, err := ApportionRefund(ApportionInput{
		TotalPaid:     10000,
		SessionsTotal: 10,
		SessionsUsed:  4,
		AdminFee:      200,
		Channel:       ChannelVoucher,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), b.RefundAmount)
	assert.Equal(t, int64(5800), b.CreditAmount)
}

func TestApportionFullyConsumed(t *testing.T) {
	// £10 over 5 sessions, all used: nothing refundable, fee capped at zero.
	b, err := ApportionRefund(ApportionInput{
		TotalPaid:     1000,
		SessionsTotal: 5,
		SessionsUsed:  5,
		AdminFee:      200,
		Channel:       ChannelCard,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), b.RefundableAmount)
	assert.Equal(t, int64(0), b.AdminFee)
	assert.Equal(t, int64(0), b.RefundAmount)
	assert.Equal(t, int64(0), b.CreditAmount)
}

func TestApportionFeeExceedsRefundable(t *testing.T) {
	// One remaining session worth 100, fee of 250: fee capped, net zero.
	b, err := ApportionRefund(ApportionInput{
		TotalPaid:     1000,
		SessionsTotal: 10,
		SessionsUsed:  9,
		AdminFee:      250,
		Channel:       ChannelCard,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100), b.RefundableAmount)
	assert.Equal(t, int64(100), b.AdminFee)
	assert.Equal(t, int64(0), b.RefundAmount)
}

func TestApportionMixedChannel(t *testing.T) {
	// Original payment 75/25 card to voucher; the net follows the same ratio
	// with the integer remainder going to credit.
	b, err := ApportionRefund(ApportionInput{
		TotalPaid:     10000,
		SessionsTotal: 10,
		SessionsUsed:  4,
		AdminFee:      200,
		Channel:       ChannelMixed,
		CardPaid:      7500,
		VoucherPaid:   2500,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(4350), b.RefundAmount)
	assert.Equal(t, int64(1450), b.CreditAmount)
	assert.Equal(t, int64(5800), b.RefundAmount+b.CreditAmount)
}

func TestApportionConservation(t *testing.T) {
	cases := []ApportionInput{
		{TotalPaid: 10000, SessionsTotal: 10, SessionsUsed: 4, AdminFee: 200, Channel: ChannelCard},
		{TotalPaid: 9999, SessionsTotal: 7, SessionsUsed: 3, AdminFee: 150, Channel: ChannelVoucher},
		{TotalPaid: 101, SessionsTotal: 3, SessionsUsed: 0, AdminFee: 50, Channel: ChannelMixed, CardPaid: 51, VoucherPaid: 50},
		{TotalPaid: 1, SessionsTotal: 1, SessionsUsed: 0, AdminFee: 0, Channel: ChannelCard},
		{TotalPaid: 0, SessionsTotal: 4, SessionsUsed: 2, AdminFee: 200, Channel: ChannelCard},
		{TotalPaid: 12345, SessionsTotal: 11, SessionsUsed: 11, AdminFee: 500, Channel: ChannelMixed, CardPaid: 10000, VoucherPaid: 2345},
	}

	for _, in := range cases {
		b, err := ApportionRefund(in)
		require.NoError(t, err)
		assert.LessOrEqual(t, b.RefundAmount+b.CreditAmount+b.AdminFee, in.TotalPaid,
			"conservation violated for %+v", in)
		assert.GreaterOrEqual(t, b.RefundAmount, int64(0))
		assert.GreaterOrEqual(t, b.CreditAmount, int64(0))
	}
}

func TestApportionMonotonicInSessionsUsed(t *testing.T) {
	// Consuming more sessions never increases what is refundable.
	prev := int64(1 << 62)
	for used := 0; used <= 7; used++ {
		b, err := ApportionRefund(ApportionInput{
			TotalPaid:     9999,
			SessionsTotal: 7,
			SessionsUsed:  used,
			AdminFee:      200,
			Channel:       ChannelCard,
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, b.RefundableAmount, prev, "used=%d", used)
		prev = b.RefundableAmount
	}
}

func TestApportionInvalidInput(t *testing.T) {
	cases := map[string]ApportionInput{
		"negative total":      {TotalPaid: -1, SessionsTotal: 1, Channel: ChannelCard},
		"zero sessions":       {TotalPaid: 100, SessionsTotal: 0, Channel: ChannelCard},
		"used out of range":   {TotalPaid: 100, SessionsTotal: 2, SessionsUsed: 3, Channel: ChannelCard},
		"negative fee":        {TotalPaid: 100, SessionsTotal: 2, AdminFee: -1, Channel: ChannelCard},
		"unknown channel":     {TotalPaid: 100, SessionsTotal: 2, Channel: "cash"},
		"mixed without split": {TotalPaid: 100, SessionsTotal: 2, Channel: ChannelMixed},
	}

	for name, in := range cases {
		_, err := ApportionRefund(in)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, name)
	}
}

func TestDivHalfEven(t *testing.T) {
	// Halves round to the even quotient.
	assert.Equal(t, int64(2), divHalfEven(5, 2))
	assert.Equal(t, int64(2), divHalfEven(3, 2))
	assert.Equal(t, int64(4), divHalfEven(7, 2))
	assert.Equal(t, int64(3), divHalfEven(10, 3))
	assert.Equal(t, int64(333), divHalfEven(1000, 3))
}
