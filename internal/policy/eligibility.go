// Package policy decides whether a cancellation is allowed right now and, if
// so, what the settlement split is. Business-rule denial is a normal
// Eligible=false result, never an error.
package policy

import (
	"fmt"
	"time"

	apperrors "hopskip/internal/errors"
	"hopskip/internal/models"
	"hopskip/internal/money"
)

// Config holds the cancellation policy constants. Values come from service
// configuration; there are no per-venue overrides yet.
type Config struct {
	// CutoffWindow is the minimum lead time before the next session's start
	// within which cancellation is disallowed. A request exactly at the cutoff
	// counts as inside the window, i.e. ineligible.
	CutoffWindow time.Duration

	// AdminFee is the fixed deduction in currency minor units, applied once
	// per cancellation before apportioning the remainder.
	AdminFee int64
}

// Engine evaluates cancellation requests against the policy.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Evaluate produces the cancellation outcome for the booking as of now.
// Malformed booking data is a data integrity error and aborts the request;
// everything else is a value.
func (e *Engine) Evaluate(b *models.Booking, now time.Time) (*models.CancellationEligibility, error) {
	state, err := b.State()
	if err != nil {
		return nil, err
	}

	if state.Terminal() {
		paid := b.TotalAmount
		if !state.PaymentCaptured() {
			paid = 0
		}
		return ineligible(paid, "booking already cancelled/completed"), nil
	}

	if b.SessionsTotal < 1 {
		return nil, apperrors.DataIntegrityf("booking %d has no contracted sessions", b.ID)
	}
	if b.SessionsUsed < 0 || b.SessionsUsed > b.SessionsTotal {
		return nil, apperrors.DataIntegrityf("booking %d sessions used %d out of range [0, %d]",
			b.ID, b.SessionsUsed, b.SessionsTotal)
	}
	if b.ActivityDate.IsZero() {
		return nil, apperrors.DataIntegrityf("booking %d has no activity date", b.ID)
	}

	// The settlement works on money actually captured. A booking still
	// awaiting payment has nothing to settle, so it is cancellable regardless
	// of the window: no refund, no credit, no fee.
	if !state.PaymentCaptured() {
		return &models.CancellationEligibility{
			Eligible: true,
			Reason:   "Eligible: no payment captured",
			Breakdown: models.CancellationBreakdown{
				SessionsUsed:      b.SessionsUsed,
				SessionsRemaining: b.SessionsTotal - b.SessionsUsed,
			},
		}, nil
	}

	if b.StartAt().Sub(now) <= e.cfg.CutoffWindow {
		return ineligible(b.TotalAmount, "outside cancellation window"), nil
	}

	breakdown, err := money.ApportionRefund(money.ApportionInput{
		TotalPaid:     b.TotalAmount,
		SessionsTotal: b.SessionsTotal,
		SessionsUsed:  b.SessionsUsed,
		AdminFee:      e.cfg.AdminFee,
		Channel:       money.Channel(b.Channel),
		CardPaid:      b.CardPaid,
		VoucherPaid:   b.VoucherPaid,
	})
	if err != nil {
		// The booking passed its own checks, so a money-level rejection means
		// the stored payment facts are inconsistent.
		return nil, fmt.Errorf("%w: booking %d: %v", apperrors.ErrDataIntegrity, b.ID, err)
	}

	return &models.CancellationEligibility{
		Eligible:     true,
		Reason:       fmt.Sprintf("Eligible: %d sessions remaining", breakdown.SessionsRemaining),
		Method:       method(breakdown.RefundAmount, breakdown.CreditAmount),
		RefundAmount: breakdown.RefundAmount,
		CreditAmount: breakdown.CreditAmount,
		AdminFee:     breakdown.AdminFee,
		Breakdown: models.CancellationBreakdown{
			TotalPaid:         breakdown.TotalPaid,
			SessionsUsed:      breakdown.SessionsUsed,
			SessionsRemaining: breakdown.SessionsRemaining,
			ValuePerSession:   breakdown.ValuePerSession,
			RefundableAmount:  breakdown.RefundableAmount,
			CreditAmount:      breakdown.CreditAmount,
			AdminFee:          breakdown.AdminFee,
		},
	}, nil
}

// ineligible zeroes the breakdown except the paid amount, which is always
// reported.
func ineligible(totalPaid int64, reason string) *models.CancellationEligibility {
	return &models.CancellationEligibility{
		Eligible: false,
		Reason:   reason,
		Breakdown: models.CancellationBreakdown{
			TotalPaid: totalPaid,
		},
	}
}

func method(refund, credit int64) string {
	switch {
	case refund > 0 && credit > 0:
		return "mixed"
	case refund > 0:
		return "cash"
	case credit > 0:
		return "credit"
	}
	return ""
}
