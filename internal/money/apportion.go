// Package money computes how a paid amount decomposes under the cancellation
// policy. Everything here is pure fixed-point arithmetic over currency minor
// units; no I/O, no side effects.
package money

import (
	apperrors "hopskip/internal/errors"
)

// Channel identifies the instrument(s) a booking was originally paid with.
type Channel string

const (
	ChannelCard    Channel = "card"
	ChannelVoucher Channel = "voucher"
	ChannelMixed   Channel = "mixed"
)

// ApportionInput carries the facts of the original payment. CardPaid and
// VoucherPaid record the original split and are only consulted when Channel is
// mixed; the ratio always comes from the payment record, never from a default.
type ApportionInput struct {
	TotalPaid     int64
	SessionsTotal int
	SessionsUsed  int
	AdminFee      int64
	Channel       Channel
	CardPaid      int64
	VoucherPaid   int64
}

// Breakdown is the settlement split. AdminFee is the fee actually charged,
// capped so the split never exceeds TotalPaid and never drives the net
// negative.
type Breakdown struct {
	TotalPaid         int64
	SessionsUsed      int
	SessionsRemaining int
	ValuePerSession   int64
	RefundableAmount  int64
	AdminFee          int64
	RefundAmount      int64
	CreditAmount      int64
}

// ApportionRefund computes the cash/credit split for cancelling a booking with
// the given payment facts. Input constraint violations are programming or data
// errors and return ErrInvalidInput; callers validate upstream data first.
func ApportionRefund(in ApportionInput) (Breakdown, error) {
	if err := in.validate(); err != nil {
		return Breakdown{}, err
	}

	valuePerSession := divHalfEven(in.TotalPaid, int64(in.SessionsTotal))
	remaining := in.SessionsTotal - in.SessionsUsed

	refundable := valuePerSession * int64(remaining)
	if refundable > in.TotalPaid {
		refundable = in.TotalPaid
	}
	if refundable < 0 {
		refundable = 0
	}

	// The fee is charged once, capped at what is refundable.
	fee := in.AdminFee
	if fee > refundable {
		fee = refundable
	}
	net := refundable - fee

	b := Breakdown{
		TotalPaid:         in.TotalPaid,
		SessionsUsed:      in.SessionsUsed,
		SessionsRemaining: remaining,
		ValuePerSession:   valuePerSession,
		RefundableAmount:  refundable,
		AdminFee:          fee,
	}

	switch in.Channel {
	case ChannelCard:
		b.RefundAmount = net
	case ChannelVoucher:
		b.CreditAmount = net
	case ChannelMixed:
		// Apportion by the original card share; the integer remainder goes to
		// credit so the split sums to net exactly.
		b.RefundAmount = net * in.CardPaid / (in.CardPaid + in.VoucherPaid)
		b.CreditAmount = net - b.RefundAmount
	}

	return b, nil
}

func (in ApportionInput) validate() error {
	if in.TotalPaid < 0 {
		return apperrors.InvalidInputf("total paid must be >= 0, got %d", in.TotalPaid)
	}
	if in.SessionsTotal < 1 {
		return apperrors.InvalidInputf("sessions total must be >= 1, got %d", in.SessionsTotal)
	}
	if in.SessionsUsed < 0 || in.SessionsUsed > in.SessionsTotal {
		return apperrors.InvalidInputf("sessions used %d out of range [0, %d]", in.SessionsUsed, in.SessionsTotal)
	}
	if in.AdminFee < 0 {
		return apperrors.InvalidInputf("admin fee must be >= 0, got %d", in.AdminFee)
	}
	switch in.Channel {
	case ChannelCard, ChannelVoucher:
	case ChannelMixed:
		if in.CardPaid < 0 || in.VoucherPaid < 0 {
			return apperrors.InvalidInputf("mixed split amounts must be >= 0")
		}
		if in.CardPaid+in.VoucherPaid == 0 {
			return apperrors.InvalidInputf("mixed channel requires the original card/voucher split")
		}
	default:
		return apperrors.InvalidInputf("unknown payment channel %q", in.Channel)
	}
	return nil
}

// divHalfEven divides num by den rounding half to even, avoiding the
// systematic bias of always rounding halves up. Both arguments must be
// non-negative with den > 0.
func divHalfEven(num, den int64) int64 {
	q := num / den
	r := num % den
	switch {
	case 2*r > den:
		return q + 1
	case 2*r == den && q%2 != 0:
		return q + 1
	default:
		return q
	}
}
